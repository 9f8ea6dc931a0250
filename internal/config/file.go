package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the optional per-repository config file, looked up in
// the repository root.
const ConfigFileName = ".shipit.toml"

// fileConfig mirrors the keys of .shipit.toml
type fileConfig struct {
	Owner      string `toml:"owner"`
	Repo       string `toml:"repo"`
	Branch     string `toml:"branch"`
	APIBaseURL string `toml:"api_base_url"`
}

// readConfigFile reads .shipit.toml from repoRoot. A missing file is not an
// error; a file that fails to parse is.
func readConfigFile(repoRoot string) (*fileConfig, error) {
	path := filepath.Join(repoRoot, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}
