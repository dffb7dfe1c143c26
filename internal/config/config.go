// Package config loads the user configuration shared by the CLIs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the configuration directory name.
	AppName = "vscode-team"
	// EnvPrefix prefixes environment overrides, e.g. VSCODE_TEAM_NODE_HOME.
	EnvPrefix = "VSCODE_TEAM"
)

type Config struct {
	Templates TemplatesConfig `mapstructure:"templates"`
	Node      NodeConfig      `mapstructure:"node"`
	Verbose   bool            `mapstructure:"verbose"`
}

// TemplatesConfig names the repository that hosts the shared
// <kind>.vscode settings directories.
type TemplatesConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Ref   string `mapstructure:"ref"`
}

type NodeConfig struct {
	Home string `mapstructure:"home"`
}

func DefaultConfig() Config {
	return Config{
		Templates: TemplatesConfig{
			Owner: "shah",
			Repo:  "vscode-team",
			Ref:   "master",
		},
		Node: NodeConfig{
			Home: "/usr/local/bin/node",
		},
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/vscode-team, defaulting to
// ~/.config/vscode-team.
func ConfigDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads path, or config.yaml from ConfigDir when path is empty, on top
// of the defaults. A missing default file is not an error. Environment
// variables override both. The second return value is the file that was
// read, if any.
func Load(path string) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("templates.owner", defaults.Templates.Owner)
	v.SetDefault("templates.repo", defaults.Templates.Repo)
	v.SetDefault("templates.ref", defaults.Templates.Ref)
	v.SetDefault("node.home", defaults.Node.Home)
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := path
	if resolved == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, "", err
		}
		candidate := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			resolved = candidate
		}
	}

	if resolved != "" {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, resolved, nil
}
