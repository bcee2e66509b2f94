package daemon

import (
	"net"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/pkg/paths"
)

// Connect returns a client for the daemon listening on the default API
// socket, or a DAEMON_UNAVAILABLE error when nothing is listening.
func Connect() (Client, error) {
	return ConnectTo(paths.APISocketPath())
}

// ConnectTo is Connect for an explicit socket path.
func ConnectTo(socketPath string) (Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 200*time.Millisecond)
	if err != nil {
		return nil, errors.DaemonUnavailable(socketPath, err)
	}
	conn.Close()
	return NewRemoteClient(socketPath), nil
}
