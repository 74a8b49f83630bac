package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/core-tools/minit/pkg/errors"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultUnitDir = "/etc/minit.d"
	DefaultLogDir  = "/var/log/minit"

	// DisabledDir turns a directory setting off, matched case-insensitively
	DisabledDir = "none"

	LogFileName = "minit.log"
)

// Config holds the supervisor settings read from the environment.
// An empty UnitDir or LogDir means the directory is disabled.
type Config struct {
	UnitDir   string
	LogDir    string
	QuickExit bool
	Enable    string
	Disable   string
}

type envConfig struct {
	UnitDir   string `env:"MINIT_UNIT_DIR"   envDefault:"/etc/minit.d"`
	LogDir    string `env:"MINIT_LOG_DIR"    envDefault:"/var/log/minit"`
	QuickExit string `env:"MINIT_QUICK_EXIT"`
	Enable    string `env:"MINIT_ENABLE"`
	Disable   string `env:"MINIT_DISABLE"`
}

// LoadFromEnv reads the configuration from environ instead of the live process environment
func LoadFromEnv(environ map[string]string) (*Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{Environment: environ}); err != nil {
		return nil, errors.NewValidationError("failed to parse environment configuration", err)
	}

	config := &Config{
		UnitDir: resolveDir(raw.UnitDir, DefaultUnitDir),
		LogDir:  resolveDir(raw.LogDir, DefaultLogDir),
		Enable:  strings.TrimSpace(raw.Enable),
		Disable: strings.TrimSpace(raw.Disable),
	}
	// invalid values count as false
	config.QuickExit, _ = strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw.QuickExit)))

	return config, nil
}

func resolveDir(value, defaultValue string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return defaultValue
	case strings.EqualFold(value, DisabledDir):
		return ""
	default:
		return value
	}
}

// LogFile returns the supervisor log path, empty when logging to a directory is disabled
func (c *Config) LogFile() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, LogFileName)
}

// EnsureDirs creates the enabled unit and log directories
func EnsureDirs(config *Config) error {
	for _, dir := range []string{config.UnitDir, config.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError("failed to create directory", err).WithPath(dir)
		}
	}
	return nil
}
