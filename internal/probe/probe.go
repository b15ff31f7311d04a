// Package probe measures path MTU and latency for a target using
// don't-fragment ICMP echo probes.
//
// A probe walks payload sizes from the largest to the smallest in fixed
// steps; the first size that gets a reply is the deliverable MTU and its
// round-trip time is the reported latency.
package probe

import (
	"context"
	"net/netip"
	"time"
)

// Default probe parameters.
const (
	DefaultMinMTU  = 1448
	DefaultMaxMTU  = 1504
	DefaultStep    = 4
	DefaultTTL     = 128
	DefaultTimeout = time.Second
)

// Result is one successful measurement.
type Result struct {
	// MTU is the largest payload size that was delivered.
	MTU int `json:"mtu"`

	// Latency is the round-trip time at that size.
	Latency time.Duration `json:"latency"`
}

// Down is the sentinel recorded when no probe size gets through.
func Down() Result {
	return Result{MTU: 0, Latency: time.Second}
}

// Pinger sends one echo probe of the given payload size and reports the
// round-trip time. An error means the probe got no reply in time.
type Pinger interface {
	Ping(ctx context.Context, addr netip.Addr, size int) (time.Duration, error)
}

// Prober walks the MTU size range against a Pinger.
type Prober struct {
	pinger Pinger

	minMTU int
	maxMTU int
	step   int
}

// Config holds prober parameters. Zero fields fall back to the defaults.
type Config struct {
	MinMTU int
	MaxMTU int
	Step   int
}

// New creates a Prober over the given pinger.
func New(pinger Pinger, cfg Config) *Prober {
	p := &Prober{
		pinger: pinger,
		minMTU: cfg.MinMTU,
		maxMTU: cfg.MaxMTU,
		step:   cfg.Step,
	}
	if p.minMTU <= 0 {
		p.minMTU = DefaultMinMTU
	}
	if p.maxMTU <= 0 {
		p.maxMTU = DefaultMaxMTU
	}
	if p.step <= 0 {
		p.step = DefaultStep
	}
	return p
}

// Probe walks sizes max..min and returns the first success.
// ok is false when every size failed or the context was cancelled.
func (p *Prober) Probe(ctx context.Context, addr netip.Addr) (res Result, ok bool) {
	for size := p.maxMTU; size >= p.minMTU; size -= p.step {
		if ctx.Err() != nil {
			return Result{}, false
		}
		latency, err := p.pinger.Ping(ctx, addr, size)
		if err != nil {
			continue
		}
		return Result{MTU: size, Latency: latency}, true
	}
	return Result{}, false
}
