package ingress

import (
	"context"
	"net"
	"time"

	"github.com/grovetools/focusguard/errors"
)

// Send writes one message to the ingress socket at path. The whole
// exchange is bounded by timeout so hook scripts never stall their CLI.
func Send(ctx context.Context, path string, w WireMessage, timeout time.Duration) error {
	line, err := Encode(w)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to encode hook message")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return errors.DaemonUnavailable(path, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(line); err != nil {
		return errors.DaemonUnavailable(path, err)
	}
	return nil
}
