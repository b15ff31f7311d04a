package probe

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const protocolICMP = 1 // iana.ProtocolICMP

// ICMPPinger sends don't-fragment ICMPv4 echo requests over a raw socket.
// Requires the CAP_NET_RAW capability (or root) on Linux.
type ICMPPinger struct {
	ttl     int
	timeout time.Duration
	seq     atomic.Uint32
}

// NewICMPPinger creates a pinger with the given TTL and per-probe timeout.
// Zero values fall back to the defaults.
func NewICMPPinger(ttl int, timeout time.Duration) *ICMPPinger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ICMPPinger{ttl: ttl, timeout: timeout}
}

// Ping implements Pinger. The payload is size zero bytes; the IP datagram is
// marked don't-fragment so oversized probes fail instead of fragmenting.
func (p *ICMPPinger) Ping(ctx context.Context, addr netip.Addr, size int) (time.Duration, error) {
	if !addr.Is4() {
		return 0, fmt.Errorf("probe %s: only IPv4 targets are supported", addr)
	}

	conn, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return 0, fmt.Errorf("open icmp socket: %w", err)
	}
	defer conn.Close()

	ipConn, ok := conn.(*net.IPConn)
	if !ok {
		return 0, fmt.Errorf("unexpected socket type %T", conn)
	}
	if err := setDontFragment(ipConn); err != nil {
		return 0, fmt.Errorf("set don't-fragment: %w", err)
	}
	if err := ipv4.NewPacketConn(conn).SetTTL(p.ttl); err != nil {
		return 0, fmt.Errorf("set ttl: %w", err)
	}

	id := os.Getpid() & 0xffff
	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: make([]byte, size),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshal echo: %w", err)
	}

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	start := time.Now()
	dst := &net.IPAddr{IP: addr.AsSlice()}
	if _, err := conn.WriteTo(wire, dst); err != nil {
		return 0, fmt.Errorf("send echo: %w", err)
	}

	// A raw socket sees every inbound ICMP message; keep reading until our
	// reply shows up or the deadline fires.
	buf := make([]byte, 1600)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return 0, fmt.Errorf("await reply from %s: %w", addr, err)
		}
		if ipAddr, ok := peer.(*net.IPAddr); ok && !ipAddr.IP.Equal(dst.IP) {
			continue
		}
		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		if echo.ID != id || echo.Seq != seq {
			continue
		}
		return time.Since(start), nil
	}
}
