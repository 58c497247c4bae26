// Package config loads cloudlift's optional defaults file and resolves the
// persistent data directory. Flags always win over the config file, which
// wins over built-in defaults. Environment variables with the CLOUDLIFT_
// prefix override the file; a .env in the working directory is honored.
package config

import (
	"os"
	"path/filepath"

	"github.com/cloudlift/cloudlift/internal/errors"
	"github.com/cloudlift/cloudlift/internal/request"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName keys both the data dir and the config dir.
	AppName = "cloudlift"
	// ConfigFileName is the defaults file under ~/.config/cloudlift/.
	ConfigFileName = "config.yaml"
)

// Config holds the user's persistent defaults.
type Config struct {
	RemoteName        string `yaml:"remote_name" mapstructure:"remote_name"`
	RemoteDir         string `yaml:"remote_dir" mapstructure:"remote_dir"`
	KeepRclone        bool   `yaml:"keep_rclone" mapstructure:"keep_rclone"`
	NoCleanup         bool   `yaml:"no_cleanup" mapstructure:"no_cleanup"`
	ReconnectAttempts int    `yaml:"reconnect_attempts" mapstructure:"reconnect_attempts"`
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't determine your home directory",
			"Set $HOME and try again.")
	}
	return filepath.Join(home, ".config", AppName, ConfigFileName), nil
}

// DataDir returns the persistent cache directory for the rclone binary and
// persisted credentials. It is only created when persistence is requested.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't determine your home directory",
			"Set $HOME and try again.")
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// Load reads the defaults file (explicit path, or the default location if
// it exists) merged with CLOUDLIFT_* environment variables. A missing
// default file is fine; a missing explicit file is an error.
func Load(explicit string) (*Config, error) {
	// A .env next to the invocation can supply CLOUDLIFT_* variables.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("remote_name", request.DefaultRemoteName)
	v.SetDefault("remote_dir", request.DefaultRemoteFolder)
	v.SetDefault("keep_rclone", false)
	v.SetDefault("no_cleanup", false)
	v.SetDefault("reconnect_attempts", 3)

	v.SetEnvPrefix("CLOUDLIFT")
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		defaultPath, err := Path()
		if err == nil {
			if _, statErr := os.Stat(defaultPath); statErr == nil {
				path = defaultPath
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read the config file: "+path,
				"Check the file exists and is valid YAML.")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't parse the config file",
			"Check the field types in "+path)
	}

	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = 3
	}

	return &cfg, nil
}

// Write marshals cfg to path, creating parent directories as needed.
// Used by `cloudlift init`.
func Write(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Couldn't serialize the config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path,
			"Check directory permissions.")
	}

	return nil
}
