package probe

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"
)

// fakePinger succeeds for payloads at or below a path MTU ceiling.
type fakePinger struct {
	pathMTU int
	latency time.Duration
	calls   []int
}

func (f *fakePinger) Ping(_ context.Context, _ netip.Addr, size int) (time.Duration, error) {
	f.calls = append(f.calls, size)
	if size > f.pathMTU {
		return 0, errors.New("fragmentation needed")
	}
	return f.latency, nil
}

var testAddr = netip.MustParseAddr("192.0.2.1")

func TestProber_FindsLargestDeliverableSize(t *testing.T) {
	tests := []struct {
		name    string
		pathMTU int
		wantMTU int
	}{
		{"full range passes", 1504, 1504},
		{"mid range", 1492, 1492},
		{"exact step boundary", 1500, 1500},
		{"bottom of range", 1448, 1448},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fp := &fakePinger{pathMTU: tc.pathMTU, latency: 3 * time.Millisecond}
			p := New(fp, Config{})

			res, ok := p.Probe(context.Background(), testAddr)
			if !ok {
				t.Fatal("Probe() ok = false, want true")
			}
			if res.MTU != tc.wantMTU {
				t.Errorf("MTU = %d, want %d", res.MTU, tc.wantMTU)
			}
			if res.Latency != 3*time.Millisecond {
				t.Errorf("Latency = %v, want 3ms", res.Latency)
			}
		})
	}
}

func TestProber_WalksDownward(t *testing.T) {
	fp := &fakePinger{pathMTU: 1496}
	p := New(fp, Config{})

	if _, ok := p.Probe(context.Background(), testAddr); !ok {
		t.Fatal("Probe() ok = false, want true")
	}

	want := []int{1504, 1500, 1496}
	if len(fp.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fp.calls, want)
	}
	for i, size := range want {
		if fp.calls[i] != size {
			t.Errorf("call %d = %d, want %d", i, fp.calls[i], size)
		}
	}
}

func TestProber_AllSizesFail(t *testing.T) {
	fp := &fakePinger{pathMTU: 0}
	p := New(fp, Config{})

	if _, ok := p.Probe(context.Background(), testAddr); ok {
		t.Error("Probe() ok = true, want false when every size fails")
	}

	// Each step in the range was tried once.
	wantCalls := (DefaultMaxMTU-DefaultMinMTU)/DefaultStep + 1
	if len(fp.calls) != wantCalls {
		t.Errorf("call count = %d, want %d", len(fp.calls), wantCalls)
	}
}

func TestProber_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp := &fakePinger{pathMTU: 1504}
	p := New(fp, Config{})

	if _, ok := p.Probe(ctx, testAddr); ok {
		t.Error("Probe() ok = true, want false with cancelled context")
	}
	if len(fp.calls) != 0 {
		t.Errorf("pinger called %d times with cancelled context", len(fp.calls))
	}
}

func TestDown(t *testing.T) {
	d := Down()
	if d.MTU != 0 {
		t.Errorf("Down().MTU = %d, want 0", d.MTU)
	}
	if d.Latency != time.Second {
		t.Errorf("Down().Latency = %v, want 1s", d.Latency)
	}
}

func TestNew_Defaults(t *testing.T) {
	p := New(&fakePinger{}, Config{})
	if p.minMTU != DefaultMinMTU || p.maxMTU != DefaultMaxMTU || p.step != DefaultStep {
		t.Errorf("defaults = (%d, %d, %d), want (%d, %d, %d)",
			p.minMTU, p.maxMTU, p.step, DefaultMinMTU, DefaultMaxMTU, DefaultStep)
	}
}
