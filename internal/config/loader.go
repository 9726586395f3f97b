package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/whelk-sh/whelk/internal/platform"
)

// EnvConfigFile overrides the config file location.
const EnvConfigFile = "WHELK_CONFIG_FILE"

const (
	configDirName  = "whelk"
	configFileName = "whelk.lua"
)

// Locate returns the path of the active config file: the
// WHELK_CONFIG_FILE override if set, else whelk.lua under the XDG
// config home. The file need not exist.
func Locate() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName)
}

// Load reads and parses the config file at path. A missing file
// yields the defaults; any other read or parse failure is an error.
func Load(ctx context.Context, detector platform.Detector, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := NewParser(detector).ParseString(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
