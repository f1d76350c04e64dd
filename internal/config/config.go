package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath               string `yaml:"db_path"`
	ExportDir            string `yaml:"export_dir"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	NotifyBuffer         int    `yaml:"notify_buffer"`
}

func Default() Config {
	return Config{
		ExportDir:            ".",
		DesktopNotifications: true,
		NotifyBuffer:         16,
	}
}

// DefaultPath resolves the config file location under XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tokei", "config.yaml"), nil
}

// Load layers the optional YAML file over the defaults and environment
// overrides over both. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	return FromEnv(cfg), nil
}

// FromEnv applies TOKEI_* environment overrides.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TOKEI_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TOKEI_EXPORT_DIR")); v != "" {
		cfg.ExportDir = v
	}
	if v, ok := getEnvBool("TOKEI_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TOKEI_NOTIFY_BUFFER"); ok && v > 0 {
		cfg.NotifyBuffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
