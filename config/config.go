package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the main configuration structure
type Config struct {
	Debug     bool   `mapstructure:"debug"`
	LogPath   string `mapstructure:"logPath"`
	Extension string `mapstructure:"extension"` // output extension when none is given
	Color     bool   `mapstructure:"color"`
	Palette   string `mapstructure:"palette"` // optional GIMP palette for console colors
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Extension: ".bank",
		Color:     true,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-bankbuild"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// New returns a viper instance seeded with the defaults and BANKBUILD_* env overrides
func New() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("logPath", d.LogPath)
	v.SetDefault("extension", d.Extension)
	v.SetDefault("color", d.Color)
	v.SetDefault("palette", d.Palette)

	v.SetEnvPrefix("BANKBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config at path (ConfigPath when empty) into v, or keeps the
// defaults if the file does not exist
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	return cfg, nil
}
