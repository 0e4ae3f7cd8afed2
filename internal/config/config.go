// Package config loads the page server configuration from flags,
// WEBCLIENT_* environment variables and an optional config file.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	webclient "github.com/violetrx/webclient"
	"github.com/violetrx/webclient/internal/bootstrap"
)

const EnvPrefix = "WEBCLIENT"

// Device is the input device the client selects on the receiver.
type Device struct {
	// Descriptor, when set, is sent as is and the other fields are ignored.
	Descriptor string  `mapstructure:"descriptor"`
	File       string  `mapstructure:"file"`
	Freq       float64 `mapstructure:"freq"`
	Rate       float64 `mapstructure:"rate"`
	Repeat     bool    `mapstructure:"repeat"`
	Throttle   bool    `mapstructure:"throttle"`
}

func (d Device) String() string {
	if d.Descriptor != "" {
		return d.Descriptor
	}
	return bootstrap.Descriptor{
		File:     d.File,
		Freq:     d.Freq,
		Rate:     d.Rate,
		Repeat:   d.Repeat,
		Throttle: d.Throttle,
	}.String()
}

type Config struct {
	Listen   string `mapstructure:"listen"`
	Dist     string `mapstructure:"dist"`
	AppWasm  string `mapstructure:"app-wasm"`
	GlueJS   string `mapstructure:"glue-js"`
	Asset    string `mapstructure:"asset"`
	Goroot   string `mapstructure:"goroot"`
	Title    string `mapstructure:"title"`
	LogLevel string `mapstructure:"log-level"`

	BackendURL    string        `mapstructure:"backend-url"`
	BackendPort   int           `mapstructure:"backend-port"`
	PollInterval  time.Duration `mapstructure:"poll-interval"`
	FrameInterval time.Duration `mapstructure:"frame-interval"`
	ClientLog     string        `mapstructure:"client-log-level"`

	Device Device `mapstructure:"device"`
}

var defaults = map[string]any{
	"listen":            ":8080",
	"dist":              "dist",
	"app-wasm":          "app.wasm",
	"glue-js":           "egui_client.js",
	"asset":             "egui_client_bg.wasm",
	"goroot":            "",
	"title":             "violetrx",
	"log-level":         "info",
	"backend-url":       "",
	"backend-port":      bootstrap.DefaultBackendPort,
	"poll-interval":     bootstrap.DefaultPollInterval,
	"frame-interval":    time.Duration(0),
	"client-log-level":  "info",
	"device.descriptor": "",
	"device.file":       "",
	"device.freq":       100e6,
	"device.rate":       2.4e6,
	"device.repeat":     true,
	"device.throttle":   true,
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the command line flags and binds them to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("listen", ":8080", "address to serve the web client on")
	fs.String("dist", "dist", "directory holding app.wasm and the rendering module")
	fs.String("goroot", "", "GOROOT providing wasm_exec.js (defaults to the build toolchain)")
	fs.String("log-level", "info", "server log level")
	fs.String("backend-url", "", "receiver URL (defaults to the page host on --backend-port)")
	fs.Int("backend-port", bootstrap.DefaultBackendPort, "receiver port")
	fs.Duration("poll-interval", bootstrap.DefaultPollInterval, "crash watch period in the browser")
	fs.Duration("frame-interval", 0, "refresh period for fft frames, 0 fetches a single frame")
	fs.String("device", "", "raw input device descriptor, overrides the device.* keys")
	fs.String("device-file", "", "IQ file to replay; required unless --device is set")

	for _, name := range []string{"listen", "dist", "goroot", "log-level", "backend-url", "backend-port", "poll-interval", "frame-interval"} {
		if err := v.BindPFlag(name, fs.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	if err := v.BindPFlag("device.descriptor", fs.Lookup("device")); err != nil {
		return errors.Wrap(err, "bind flag device")
	}
	return errors.Wrap(v.BindPFlag("device.file", fs.Lookup("device-file")), "bind flag device-file")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Listen == "":
		return errors.New("config: listen address is empty")
	case c.Dist == "":
		return errors.New("config: dist directory is empty")
	case c.BackendURL == "" && (c.BackendPort <= 0 || c.BackendPort > 65535):
		return errors.Errorf("config: backend port %d out of range", c.BackendPort)
	case c.PollInterval < 10*time.Millisecond:
		return errors.Errorf("config: poll interval %s too short", c.PollInterval)
	case c.FrameInterval < 0:
		return errors.Errorf("config: negative frame interval %s", c.FrameInterval)
	case c.Device.Descriptor == "" && c.Device.File == "":
		return errors.New("config: no input device, set --device-file or --device")
	}
	for _, level := range []string{c.LogLevel, c.ClientLog} {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return errors.Wrap(err, "config")
		}
	}
	return nil
}

func (c Config) Level() slog.Level {
	var l slog.Level
	_ = l.UnmarshalText([]byte(c.LogLevel))
	return l
}

// Client is the configuration handed to the browser.
func (c Config) Client() webclient.ClientConfig {
	client := webclient.DefaultClientConfig()
	client.AssetURL = c.Asset
	client.BackendURL = c.BackendURL
	client.BackendPort = c.BackendPort
	client.InputDevice = c.Device.String()
	client.PollIntervalMs = int(c.PollInterval / time.Millisecond)
	client.FrameIntervalMs = int(c.FrameInterval / time.Millisecond)
	client.LogLevel = c.ClientLog
	return client
}
