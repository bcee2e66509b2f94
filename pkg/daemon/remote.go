package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/session"
)

// RemoteClient implements Client by calling the daemon's HTTP API over a Unix socket.
type RemoteClient struct {
	httpClient *http.Client
	socketPath string
}

// NewRemoteClient creates a new RemoteClient for the daemon socket. It does
// not dial; use IsRunning or Connect to check the daemon is there.
func NewRemoteClient(socketPath string) *RemoteClient {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &RemoteClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		socketPath: socketPath,
	}
}

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

func (c *RemoteClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.DaemonUnavailable(c.socketPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// decodeError turns an API error body back into a FocusError.
func decodeError(resp *http.Response) error {
	var body server.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return errors.New(errors.ErrCodeInternal, fmt.Sprintf("daemon returned status %d", resp.StatusCode))
	}
	return errors.New(errors.ErrorCode(body.Code), body.Message).WithDetail("status", resp.StatusCode)
}

// State returns the current snapshot.
func (c *RemoteClient) State(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/state", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Sessions returns the display list.
func (c *RemoteClient) Sessions(ctx context.Context) ([]session.View, error) {
	var views []session.View
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// Config returns the running configuration.
func (c *RemoteClient) Config(ctx context.Context) (*server.ConfigResponse, error) {
	var resp server.ConfigResponse
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset zeroes the sitting time.
func (c *RemoteClient) Reset(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodPost, "/api/reset", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// TestReminder triggers a test notification.
func (c *RemoteClient) TestReminder(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodPost, "/api/test-reminder", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// UpdateSettings applies a runtime settings change.
func (c *RemoteClient) UpdateSettings(ctx context.Context, patch SettingsPatch) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, http.MethodPost, "/api/settings", patch, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// IsRunning returns true if the daemon is available and responding.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// StreamState subscribes to real-time state updates via Server-Sent Events (SSE).
// Returns a channel that receives updates. The channel is closed when the context is cancelled
// or the connection is lost.
func (c *RemoteClient) StreamState(ctx context.Context) (<-chan StateUpdate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}

	// Use a separate client with no timeout for streaming
	streamTransport := &http.Transport{
		DialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
	}
	streamClient := &http.Client{Transport: streamTransport}

	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, errors.DaemonUnavailable(c.socketPath, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	ch := make(chan StateUpdate, 10)

	go func() {
		defer resp.Body.Close()
		defer close(ch)
		defer streamTransport.CloseIdleConnections()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()

			if strings.HasPrefix(line, ":") || line == "" {
				continue
			}

			if strings.HasPrefix(line, "data: ") {
				var update StateUpdate
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update); err != nil {
					continue
				}

				select {
				case ch <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// WatchState subscribes to state updates over the websocket endpoint.
func (c *RemoteClient) WatchState(ctx context.Context) (<-chan StateUpdate, error) {
	dialer := websocket.Dialer{
		NetDialContext: func(dialCtx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(dialCtx, "unix", c.socketPath)
		},
		HandshakeTimeout: 5 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, "ws://unix/api/ws", nil)
	if err != nil {
		return nil, errors.DaemonUnavailable(c.socketPath, err)
	}

	ch := make(chan StateUpdate, 10)

	// Unblock ReadJSON on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	go func() {
		defer close(ch)
		defer stop()
		defer conn.Close()

		for {
			var update StateUpdate
			if err := conn.ReadJSON(&update); err != nil {
				return
			}
			select {
			case ch <- update:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Ensure RemoteClient implements Client interface.
var _ Client = (*RemoteClient)(nil)
