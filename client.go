// Package webclient serves the spectrum web client: the page, the Go
// bootstrap compiled to wasm and the launcher that ties it to the
// rendering module.
package webclient

import (
	"log/slog"
	"strings"
	"time"

	"github.com/violetrx/webclient/internal/bootstrap"
)

const (
	// ConfigElementID holds the ClientConfig JSON on the page.
	ConfigElementID = "webclient-config"
	// GlueGlobal is the global the launcher publishes the rendering
	// module exports under.
	GlueGlobal = "eguiClient"

	DefaultAssetPath = "/egui_client_bg.wasm"
	DefaultGluePath  = "/egui_client.js"
	DefaultAppPath   = "/app.wasm"
	LauncherPath     = "/launcher.js"
)

// ClientConfig is rendered into the page by the server and read back by
// the bootstrap running in the browser.
type ClientConfig struct {
	CanvasID        string `json:"canvasId"`
	StatusID        string `json:"statusId"`
	AssetURL        string `json:"assetUrl"`
	BackendURL      string `json:"backendUrl,omitempty"`
	BackendPort     int    `json:"backendPort"`
	InputDevice     string `json:"inputDevice"`
	PollIntervalMs  int    `json:"pollIntervalMs"`
	FrameIntervalMs int    `json:"frameIntervalMs"`
	LogLevel        string `json:"logLevel"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		CanvasID:       bootstrap.DefaultCanvasID,
		StatusID:       bootstrap.DefaultStatusID,
		AssetURL:       strings.TrimPrefix(DefaultAssetPath, "/"),
		BackendPort:    bootstrap.DefaultBackendPort,
		PollIntervalMs: int(bootstrap.DefaultPollInterval / time.Millisecond),
		LogLevel:       "info",
	}
}

// Options resolves the configuration against the page host. An explicit
// BackendURL wins over hostname and BackendPort.
func (c ClientConfig) Options(hostname string) bootstrap.Options {
	baseURL := c.BackendURL
	if baseURL == "" {
		port := c.BackendPort
		if port == 0 {
			port = bootstrap.DefaultBackendPort
		}
		baseURL = bootstrap.BackendURL(hostname, port)
	}
	return bootstrap.Options{
		CanvasID:      c.CanvasID,
		StatusID:      c.StatusID,
		BaseURL:       baseURL,
		InputDevice:   c.InputDevice,
		PollInterval:  time.Duration(c.PollIntervalMs) * time.Millisecond,
		FrameInterval: time.Duration(c.FrameIntervalMs) * time.Millisecond,
	}
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c ClientConfig) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
