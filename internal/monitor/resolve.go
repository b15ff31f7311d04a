package monitor

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Target pairs the configured name with its resolved IPv4 address.
type Target struct {
	// Name is the target as configured (IP literal or hostname).
	Name string

	// Addr is the resolved IPv4 address probes are sent to.
	Addr netip.Addr
}

// ResolveTargets resolves configured targets to IPv4 addresses. IP literals
// resolve immediately; hostname lookups are retried with exponential backoff
// so a monitor starting before the network is up does not give up.
func ResolveTargets(ctx context.Context, names []string) ([]Target, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no targets configured")
	}

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		if addr, err := netip.ParseAddr(name); err == nil {
			if !addr.Is4() {
				return nil, fmt.Errorf("target %s: only IPv4 targets are supported", name)
			}
			targets = append(targets, Target{Name: name, Addr: addr})
			continue
		}

		addr, err := resolveHost(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve target %s: %w", name, err)
		}
		targets = append(targets, Target{Name: name, Addr: addr})
	}
	return targets, nil
}

func resolveHost(ctx context.Context, host string) (netip.Addr, error) {
	lookup := func() (netip.Addr, error) {
		addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip4", host)
		if err != nil {
			return netip.Addr{}, err
		}
		for _, a := range addrs {
			if a.Unmap().Is4() {
				return a.Unmap(), nil
			}
		}
		return netip.Addr{}, backoff.Permanent(fmt.Errorf("no IPv4 address for %s", host))
	}

	return backoff.Retry(ctx, lookup,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
}
