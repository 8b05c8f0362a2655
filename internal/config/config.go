package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// Config is the settings shared by the server and the terminal client.
type Config struct {
	Server ServerConfig
	Render RenderConfig
	Client ClientConfig
}

// ServerConfig controls the HTTP listener and gin.
type ServerConfig struct {
	Addr           string
	Mode           string
	AllowedOrigins []string
}

// RenderConfig bounds what the renderer produces.
type RenderConfig struct {
	ImageSize int
	MaxFrames int
	// Workers caps concurrent frame rendering; 0 means GOMAXPROCS.
	Workers int
}

// ClientConfig points the terminal client at a backend.
type ClientConfig struct {
	BackendURL string
}

// Load reads qrcode.yaml from the working directory when present and applies
// QRCODE_* environment overrides. PORT is honoured for the listen address.
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dir string) (*Config, error) {
	v.SetConfigName("qrcode")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("render.image_size", 1024)
	v.SetDefault("render.max_frames", 255)
	v.SetDefault("render.workers", 0)
	v.SetDefault("client.backend_url", "http://localhost:8080")

	v.SetEnvPrefix("QRCODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PORT", "QRCODE_PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			Mode:           v.GetString("server.mode"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Render: RenderConfig{
			ImageSize: v.GetInt("render.image_size"),
			MaxFrames: v.GetInt("render.max_frames"),
			Workers:   v.GetInt("render.workers"),
		},
		Client: ClientConfig{
			BackendURL: v.GetString("client.backend_url"),
		},
	}
	if port := v.GetString("port"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("server.mode must be one of %q, %q or %q, got %q",
			gin.DebugMode, gin.ReleaseMode, gin.TestMode, c.Server.Mode)
	}
	if c.Render.ImageSize < 64 {
		return fmt.Errorf("render.image_size must be at least 64, got %d", c.Render.ImageSize)
	}
	if c.Render.MaxFrames < 1 || c.Render.MaxFrames > 255 {
		return fmt.Errorf("render.max_frames must be between 1 and 255, got %d", c.Render.MaxFrames)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must not be negative, got %d", c.Render.Workers)
	}
	if c.Client.BackendURL == "" {
		return errors.New("client.backend_url is required")
	}
	return nil
}
