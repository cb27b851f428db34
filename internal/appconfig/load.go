package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file yields DefaultConfig.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("render.format", cfg.Render.Format)
	v.SetDefault("render.split", cfg.Render.Split)
	v.SetDefault("html.class", cfg.HTML.Class)
	v.SetDefault("html.target_blank", cfg.HTML.TargetBlank)
	v.SetDefault("html.safelink", cfg.HTML.Safelink)
	v.SetDefault("term.profile", cfg.Term.Profile)
	v.SetDefault("term.hyperlinks", cfg.Term.Hyperlinks)
	v.SetDefault("preview.width", cfg.Preview.Width)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		// SetConfigFile makes viper report a missing file as a plain fs error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteDefault writes DefaultConfig as YAML to path (DefaultConfigPath if
// empty), refusing to replace an existing file unless overwrite is set.
// Returns the path written.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
