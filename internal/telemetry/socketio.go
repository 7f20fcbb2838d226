package telemetry

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/stats"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOSink publishes reports as a "stats" event on a socket.io
// namespace. A fresh connection is opened and torn down per publish,
// matching the connect/emit/disconnect shape of a one-shot notification
// rather than a long-lived subscription.
type SocketIOSink struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publish connects to the configured socket.io endpoint, emits the
// report, and disconnects. It returns an error on connection failure,
// timeout, or context cancellation; callers treat that error as
// best-effort and non-fatal to the run.
func (s *SocketIOSink) Publish(ctx context.Context, report stats.Report) error {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", s.URL)

	parsed, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("telemetry: parse socket.io url: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsed.Path)
	if s.InsecureSkipVerify {
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.Namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				connectChan <- err
				return
			}
		}
		connectChan <- fmt.Errorf("telemetry: socket.io connect_error")
	})

	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	io.Connect()
	defer io.Disconnect()

	select {
	case err := <-connectChan:
		if err != nil {
			return fmt.Errorf("telemetry: socket.io connect: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("telemetry: context canceled while connecting: %w", ctx.Err())
	case <-time.After(timeout):
		return fmt.Errorf("telemetry: timed out after %s waiting for socket.io connection", timeout)
	}

	payload, err := report.JSON()
	if err != nil {
		return fmt.Errorf("telemetry: encode report: %w", err)
	}

	logger.Debug("publishing stats report", "bytes", len(payload))
	io.Emit("stats", string(payload))
	return nil
}
