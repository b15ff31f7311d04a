//go:build linux

package probe

import (
	"net"

	"golang.org/x/sys/unix"
)

// setDontFragment marks outgoing datagrams don't-fragment so that probes
// larger than the path MTU are dropped instead of fragmented.
func setDontFragment(conn *net.IPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MTU_DISCOVER, unix.IP_PMTUDISC_DO)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
