// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Scene   SceneConfig   `yaml:"scene"`
	Input   InputConfig   `yaml:"input"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the asset server connection settings.
type ServerConfig struct {
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyMB      int           `yaml:"max_body_mb"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// CameraConfig holds the fixed viewing camera settings.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Distance   float32 `yaml:"distance"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// SceneConfig holds scene clear color and ambient lighting.
type SceneConfig struct {
	Background       [3]float32 `yaml:"background"`
	AmbientColor     [3]float32 `yaml:"ambient_color"`
	AmbientIntensity float32    `yaml:"ambient_intensity"`
}

// InputConfig holds gesture settings.
type InputConfig struct {
	// Sensitivity converts horizontal drag distance into radians.
	Sensitivity float64 `yaml:"sensitivity"`
}

// AudioConfig holds operation feedback cue settings.
type AudioConfig struct {
	Cues   bool    `yaml:"cues"`
	Volume float64 `yaml:"volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
			MaxBodyMB:      64,
		},
		Window: WindowConfig{
			Width:  1024,
			Height: 768,
			Title:  "Turntable",
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Distance:   3.0,
			Near:       0.1,
			Far:        100.0,
		},
		Scene: SceneConfig{
			Background:       [3]float32{0.10, 0.10, 0.12},
			AmbientColor:     [3]float32{1.0, 1.0, 1.0},
			AmbientIntensity: 0.4,
		},
		Input: InputConfig{
			Sensitivity: 0.001,
		},
		Audio: AudioConfig{
			Cues:   true,
			Volume: 0.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the config for values the viewer cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url: missing host")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("camera.fov_degrees must be in (0, 180), got %v", c.Camera.FOVDegrees)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("camera.distance must be positive")
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera near/far planes invalid: near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Input.Sensitivity <= 0 {
		return fmt.Errorf("input.sensitivity must be positive")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be in [0, 1], got %v", c.Audio.Volume)
	}
	return nil
}
