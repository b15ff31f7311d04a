package config

import (
	"fmt"
	"time"
)

// Validate checks the merged configuration for authoring errors so the user
// sees a clear message instead of a silent fallback at runtime.
func (c *Config) Validate() error {
	if c.Monitor.MTUStep <= 0 {
		return fmt.Errorf("monitor.mtu-step must be positive, got %d", c.Monitor.MTUStep)
	}
	if c.Monitor.MTUMin <= 0 || c.Monitor.MTUMax <= 0 {
		return fmt.Errorf("monitor mtu range must be positive, got %d..%d",
			c.Monitor.MTUMin, c.Monitor.MTUMax)
	}
	if c.Monitor.MTUMin > c.Monitor.MTUMax {
		return fmt.Errorf("monitor.mtu-min %d exceeds monitor.mtu-max %d",
			c.Monitor.MTUMin, c.Monitor.MTUMax)
	}
	if c.Monitor.TTL <= 0 || c.Monitor.TTL > 255 {
		return fmt.Errorf("monitor.ttl must be in 1..255, got %d", c.Monitor.TTL)
	}

	for key, val := range map[string]string{
		"monitor.interval":  c.Monitor.Interval,
		"monitor.retention": c.Monitor.Retention,
		"monitor.timeout":   c.Monitor.Timeout,
	} {
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, val, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %q", key, val)
		}
	}

	if c.Server.Enabled && c.Server.Listen == "" {
		return fmt.Errorf("server.listen must be set when the server is enabled")
	}

	return nil
}

// ProbeInterval returns the parsed probe interval.
func (c *Config) ProbeInterval() time.Duration {
	return duration(c.Monitor.Interval, 15*time.Second)
}

// Retention returns the parsed sample retention window.
func (c *Config) Retention() time.Duration {
	return duration(c.Monitor.Retention, 7*24*time.Hour)
}

// ProbeTimeout returns the parsed per-probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return duration(c.Monitor.Timeout, time.Second)
}

func duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
