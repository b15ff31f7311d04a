// Package config provides configuration loading and discovery for pingmon.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PINGMON_* prefix)
//  3. Config file (closest .pingmon.toml or pingmon.toml)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the working directory
// until a config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/probelab/pingmon/internal/probe"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".pingmon.toml", "pingmon.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "PINGMON_"

// Config represents the complete pingmon configuration.
type Config struct {
	// Monitor configures the probe loop.
	Monitor MonitorConfig `json:"monitor" koanf:"monitor"`

	// Server configures the HTTP report server.
	Server ServerConfig `json:"server" koanf:"server"`

	// Lint configures the static-analysis policy invoker.
	Lint LintConfig `json:"lint" koanf:"lint"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// MonitorConfig configures the probe loop.
//
// Example TOML configuration:
//
//	[monitor]
//	targets = ["1.1.1.1", "gateway.example.net"]
//	interval = "15s"
//	retention = "168h"
type MonitorConfig struct {
	// Targets are the hosts to probe (IPv4 literals or hostnames).
	Targets []string `json:"targets,omitempty" koanf:"targets"`

	// Interval between probe sweeps.
	Interval string `json:"interval,omitempty" koanf:"interval"`

	// Retention is how long samples are kept.
	Retention string `json:"retention,omitempty" koanf:"retention"`

	// MTUMin, MTUMax and MTUStep bound the probe size walk.
	MTUMin  int `json:"mtu-min,omitempty" koanf:"mtu-min"`
	MTUMax  int `json:"mtu-max,omitempty" koanf:"mtu-max"`
	MTUStep int `json:"mtu-step,omitempty" koanf:"mtu-step"`

	// Timeout is the per-probe reply deadline.
	Timeout string `json:"timeout,omitempty" koanf:"timeout"`

	// TTL for outgoing probes.
	TTL int `json:"ttl,omitempty" koanf:"ttl"`
}

// ServerConfig configures the HTTP report server.
type ServerConfig struct {
	// Enabled toggles the report server.
	Enabled bool `json:"enabled,omitempty" koanf:"enabled"`

	// Listen is the address the server binds to.
	Listen string `json:"listen,omitempty" koanf:"listen"`
}

// LintConfig configures the policy invoker.
//
// Example TOML configuration:
//
//	[lint]
//	target = "clippy"
//	deny = ["clippy::all"]
//	allow = ["clippy::missing_errors_doc"]
type LintConfig struct {
	// Target names the built-in policy to run.
	Target string `json:"target,omitempty" koanf:"target"`

	// Tool overrides the external tool argv prefix when non-empty.
	Tool []string `json:"tool,omitempty" koanf:"tool"`

	// Deny and Allow replace the target's built-in rule selection set
	// when either is non-empty.
	Deny  []string `json:"deny,omitempty" koanf:"deny"`
	Allow []string `json:"allow,omitempty" koanf:"allow"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Monitor: MonitorConfig{
			Interval:  "15s",
			Retention: "168h", // one week
			MTUMin:    probe.DefaultMinMTU,
			MTUMax:    probe.DefaultMaxMTU,
			MTUStep:   probe.DefaultStep,
			Timeout:   "1s",
			TTL:       probe.DefaultTTL,
		},
		Server: ServerConfig{
			Enabled: true,
			Listen:  ":8080",
		},
		Lint: LintConfig{
			Target: "clippy",
		},
	}
}

// Load loads configuration starting discovery from the given directory.
func Load(startDir string) (*Config, error) {
	return loadWithConfigPath(Discover(startDir))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

// loadWithConfigPath is an internal helper that loads config with an optional config file path.
func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (PINGMON_* prefix)
	// PINGMON_MONITOR_TARGETS -> monitor.targets
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return &cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
var knownHyphenatedKeys = map[string]string{
	"mtu.min":  "mtu-min",
	"mtu.max":  "mtu-max",
	"mtu.step": "mtu-step",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"monitor": {},
	"server":  {},
	"lint":    {},
}

// envKeyTransform converts environment variable names to config keys.
// PINGMON_MONITOR_INTERVAL -> monitor.interval
// PINGMON_MONITOR_MTU_MIN  -> monitor.mtu-min
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	// List-valued keys accept comma-separated values.
	switch s {
	case "monitor.targets", "lint.tool", "lint.deny", "lint.allow":
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return s, out
	}

	return s, v
}

// Discover finds the closest config file starting from a directory and
// walking up. Returns empty string if no config file is found.
func Discover(startDir string) string {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	dir := absDir
	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
