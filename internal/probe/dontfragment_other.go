//go:build !linux

package probe

import "net"

// setDontFragment is a no-op where the sockopt is unavailable; probes still
// measure latency but oversized payloads may be fragmented in transit.
func setDontFragment(_ *net.IPConn) error {
	return nil
}
