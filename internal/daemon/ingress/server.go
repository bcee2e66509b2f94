// Package ingress accepts hook events from CLI integrations on a local
// unix socket carrying newline-delimited JSON.
package ingress

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/logging"
	"github.com/sirupsen/logrus"
)

const (
	// MaxLineSize bounds a single message.
	MaxLineSize = 64 * 1024
	// ReadTimeout closes connections that go quiet.
	ReadTimeout = 5 * time.Second

	dialTimeout = 500 * time.Millisecond
)

// Server is the ingress listener.
type Server struct {
	path   string
	ln     net.Listener
	msgs   chan session.Message
	now    func() time.Time
	logger *logrus.Entry

	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// Listen binds the ingress socket. If another process is already accepting
// on path it fails with ALREADY_RUNNING; a stale socket file is replaced.
func Listen(path string) (*Server, error) {
	if conn, err := net.DialTimeout("unix", path, dialTimeout); err == nil {
		conn.Close()
		return nil, errors.AlreadyRunning(path)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to remove stale socket").
				WithDetail("socket", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create socket directory")
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to bind ingress socket").
			WithDetail("socket", path)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to restrict socket permissions")
	}

	return &Server{
		path:   path,
		ln:     ln,
		msgs:   make(chan session.Message, 64),
		now:    time.Now,
		logger: logging.NewLogger("ingress"),
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Receive starts accepting connections and returns the stream of decoded
// messages. The channel is closed after ctx is cancelled and every
// in-flight connection has finished.
func (s *Server) Receive(ctx context.Context) <-chan session.Message {
	s.startOnce.Do(func() {
		go s.serve(ctx)
	})
	return s.msgs
}

func (s *Server) serve(ctx context.Context) {
	defer close(s.msgs)

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			s.logger.WithError(err).Debug("Listener closed")
			break
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}

	s.wg.Wait()
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(ReadTimeout))
		if !scanner.Scan() {
			break
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		msg, err := Decode(line, s.now())
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"code":  errors.GetCode(err),
				"error": err.Error(),
			}).Warn("Dropping malformed hook message")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"receipt": msg.ReceiptID,
			"tool":    msg.Tool,
			"event":   msg.Event,
			"key":     msg.Key(),
		}).Debug("Received hook message")

		select {
		case s.msgs <- msg:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		s.logger.WithError(err).Warn("Ingress connection error")
	}
}

// Close stops accepting and removes the socket file. It does not wait for
// in-flight connections; Receive's channel closing signals that.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.ln.Close()
		// net.UnixListener removes the file on Close; this covers the rest.
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	})
	return err
}
