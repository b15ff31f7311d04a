package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Monitor.Interval != "15s" {
		t.Errorf("Default interval = %q, want %q", cfg.Monitor.Interval, "15s")
	}
	if cfg.Monitor.MTUMin != 1448 || cfg.Monitor.MTUMax != 1504 || cfg.Monitor.MTUStep != 4 {
		t.Errorf("Default MTU walk = %d..%d step %d, want 1448..1504 step 4",
			cfg.Monitor.MTUMin, cfg.Monitor.MTUMax, cfg.Monitor.MTUStep)
	}
	if cfg.Monitor.TTL != 128 {
		t.Errorf("Default TTL = %d, want 128", cfg.Monitor.TTL)
	}
	if !cfg.Server.Enabled || cfg.Server.Listen != ":8080" {
		t.Errorf("Default server = %+v, want enabled on :8080", cfg.Server)
	}
	if cfg.Lint.Target != "clippy" {
		t.Errorf("Default lint target = %q, want clippy", cfg.Lint.Target)
	}
	if cfg.Retention() != 7*24*time.Hour {
		t.Errorf("Default retention = %v, want one week", cfg.Retention())
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pingmon.toml")
	content := `
[monitor]
targets = ["1.1.1.1", "8.8.8.8"]
interval = "30s"
mtu-min = 1400

[server]
listen = ":9090"

[lint]
target = "clippy"
tool = ["cargo", "clippy", "--workspace"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile error = %v", err)
	}

	if len(cfg.Monitor.Targets) != 2 || cfg.Monitor.Targets[0] != "1.1.1.1" {
		t.Errorf("Targets = %v, want [1.1.1.1 8.8.8.8]", cfg.Monitor.Targets)
	}
	if cfg.ProbeInterval() != 30*time.Second {
		t.Errorf("ProbeInterval = %v, want 30s", cfg.ProbeInterval())
	}
	if cfg.Monitor.MTUMin != 1400 {
		t.Errorf("MTUMin = %d, want 1400", cfg.Monitor.MTUMin)
	}
	// Defaults survive partial files.
	if cfg.Monitor.MTUMax != 1504 {
		t.Errorf("MTUMax = %d, want default 1504", cfg.Monitor.MTUMax)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Server.Listen)
	}
	if len(cfg.Lint.Tool) != 3 {
		t.Errorf("Lint.Tool = %v, want 3 elements", cfg.Lint.Tool)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PINGMON_MONITOR_TARGETS", "10.0.0.1, 10.0.0.2")
	t.Setenv("PINGMON_MONITOR_INTERVAL", "45s")
	t.Setenv("PINGMON_SERVER_LISTEN", ":7070")
	t.Setenv("PINGMON_UNRELATED_KEY", "ignored")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	if len(cfg.Monitor.Targets) != 2 || cfg.Monitor.Targets[1] != "10.0.0.2" {
		t.Errorf("Targets = %v, want [10.0.0.1 10.0.0.2]", cfg.Monitor.Targets)
	}
	if cfg.Monitor.Interval != "45s" {
		t.Errorf("Interval = %q, want 45s", cfg.Monitor.Interval)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("Listen = %q, want :7070", cfg.Server.Listen)
	}
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "project", "src")
	if err := os.MkdirAll(subDir, 0o750); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(tmpDir, ".pingmon.toml")
	if err := os.WriteFile(configPath, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}

	// Discovery walks up from the start directory.
	if got := Discover(subDir); got != configPath {
		t.Errorf("Discover = %q, want %q", got, configPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"zero step", func(c *Config) { c.Monitor.MTUStep = 0 }, true},
		{"inverted range", func(c *Config) { c.Monitor.MTUMin = 2000 }, true},
		{"bad ttl", func(c *Config) { c.Monitor.TTL = 300 }, true},
		{"bad interval", func(c *Config) { c.Monitor.Interval = "soon" }, true},
		{"negative retention", func(c *Config) { c.Monitor.Retention = "-1h" }, true},
		{"server missing listen", func(c *Config) { c.Server.Listen = "" }, true},
		{"disabled server without listen", func(c *Config) {
			c.Server.Enabled = false
			c.Server.Listen = ""
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestResolvePolicy(t *testing.T) {
	t.Run("default clippy", func(t *testing.T) {
		lc := LintConfig{}
		p, err := lc.ResolvePolicy()
		if err != nil {
			t.Fatalf("ResolvePolicy error = %v", err)
		}
		if p.Name != "clippy" {
			t.Errorf("policy name = %q, want clippy", p.Name)
		}
		if len(p.DenyNames()) != 4 || len(p.AllowNames()) != 5 {
			t.Errorf("rule set = %d deny / %d allow, want 4/5",
				len(p.DenyNames()), len(p.AllowNames()))
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		lc := LintConfig{Target: "nope"}
		if _, err := lc.ResolvePolicy(); err == nil {
			t.Error("expected error for unknown target")
		}
	})

	t.Run("overrides replace rule set", func(t *testing.T) {
		lc := LintConfig{Deny: []string{"x"}, Allow: []string{"y"}}
		p, err := lc.ResolvePolicy()
		if err != nil {
			t.Fatalf("ResolvePolicy error = %v", err)
		}
		if len(p.Entries) != 2 {
			t.Errorf("entries = %d, want 2", len(p.Entries))
		}
	})

	t.Run("contradictory override rejected", func(t *testing.T) {
		lc := LintConfig{Deny: []string{"x"}, Allow: []string{"x"}}
		if _, err := lc.ResolvePolicy(); err == nil {
			t.Error("expected validation error")
		}
	})
}
