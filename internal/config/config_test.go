package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	v := New()
	v.Set("device.file", "/srv/iq")
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" || cfg.Dist != "dist" || cfg.Asset != "egui_client_bg.wasm" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PollInterval != time.Second || cfg.FrameInterval != 0 {
		t.Errorf("intervals = %v %v", cfg.PollInterval, cfg.FrameInterval)
	}
	if got := cfg.Device.String(); got != "file=/srv/iq,freq=1e+08,rate=2.4e+06,repeat=true,throttle=true" {
		t.Errorf("device = %q", got)
	}
}

func TestLoadRequiresDevice(t *testing.T) {
	_, err := Load(New())
	if err == nil || !strings.Contains(err.Error(), "no input device") {
		t.Errorf("err = %v, want missing input device", err)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("WEBCLIENT_LISTEN", "127.0.0.1:9000")
	t.Setenv("WEBCLIENT_FRAME_INTERVAL", "33ms")
	t.Setenv("WEBCLIENT_DEVICE_FILE", "/data/iq/interesting")
	t.Setenv("WEBCLIENT_DEVICE_RATE", "14.122e6")

	cfg, err := Load(New())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.FrameInterval != 33*time.Millisecond {
		t.Errorf("frame interval = %v", cfg.FrameInterval)
	}
	want := "file=/data/iq/interesting,freq=1e+08,rate=1.4122e+07,repeat=true,throttle=true"
	if got := cfg.Device.String(); got != want {
		t.Errorf("device = %q, want %q", got, want)
	}
}

func TestLoadFlags(t *testing.T) {
	v := New()
	fs := pflag.NewFlagSet("webserve", pflag.ContinueOnError)
	if err := BindFlags(fs, v); err != nil {
		t.Fatal(err)
	}
	err := fs.Parse([]string{"--backend-port=6000", "--poll-interval=250ms", "--device=rtl=0,freq=433.92e6"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BackendPort != 6000 || cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := cfg.Device.String(); got != "rtl=0,freq=433.92e6" {
		t.Errorf("device = %q", got)
	}

	client := cfg.Client()
	if client.BackendPort != 6000 || client.PollIntervalMs != 250 || client.InputDevice != "rtl=0,freq=433.92e6" {
		t.Errorf("client = %+v", client)
	}
	if client.AssetURL != "egui_client_bg.wasm" || client.CanvasID != "the_canvas_id" {
		t.Errorf("client = %+v", client)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webclient.yaml")
	data := "listen: \":7000\"\ndevice:\n  file: /srv/iq\n  repeat: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":7000" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if got := cfg.Device.String(); !strings.HasPrefix(got, "file=/srv/iq,") || !strings.Contains(got, "repeat=false") {
		t.Errorf("device = %q", got)
	}
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set("device.file", "/srv/iq")
	base, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"empty dist", func(c *Config) { c.Dist = "" }},
		{"port", func(c *Config) { c.BackendPort = 70000 }},
		{"poll interval", func(c *Config) { c.PollInterval = time.Millisecond }},
		{"frame interval", func(c *Config) { c.FrameInterval = -time.Second }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"no device", func(c *Config) { c.Device = Device{Freq: 100e6, Rate: 2.4e6} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}

	withURL := base
	withURL.BackendPort = 0
	withURL.BackendURL = "https://rx.example.org"
	if err := withURL.Validate(); err != nil {
		t.Errorf("explicit backend url rejected: %v", err)
	}

	raw := base
	raw.Device = Device{Descriptor: "rtl=0"}
	if err := raw.Validate(); err != nil {
		t.Errorf("raw descriptor rejected: %v", err)
	}
}
