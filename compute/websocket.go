// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/parallel"
)

// HandlerPath is the path cmd/inkworker serves the handler on.
const HandlerPath = "/simplify"

// writeWait bounds a single WebSocket write.
const writeWait = 10 * time.Second

// WebSocketTransport talks to a remote worker over a WebSocket connection.
type WebSocketTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	out  chan Response
	done chan struct{}

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// DialWebSocket connects to url and starts reading worker messages.
func DialWebSocket(ctx context.Context, url string) (*WebSocketTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("dial %s: %w", url, err)}
	}
	t := &WebSocketTransport{
		conn: conn,
		out:  make(chan Response, 16),
		done: make(chan struct{}),
	}
	go t.readLoop()
	return t, nil
}

func (t *WebSocketTransport) readLoop() {
	defer close(t.out)
	for {
		var resp Response
		if err := t.conn.ReadJSON(&resp); err != nil {
			select {
			case <-t.done:
			default:
				t.mu.Lock()
				t.err = err
				t.mu.Unlock()
			}
			return
		}
		select {
		case t.out <- resp:
		case <-t.done:
			return
		}
	}
}

// Send writes req as a JSON text message.
func (t *WebSocketTransport) Send(ctx context.Context, req Request) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return &TransportError{Err: err}
	}
	if err := t.conn.WriteJSON(req); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// Messages returns the response stream.
func (t *WebSocketTransport) Messages() <-chan Response {
	return t.out
}

// Err returns the read error that ended the stream.
func (t *WebSocketTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close sends a close frame and closes the connection.
func (t *WebSocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		t.writeMu.Unlock()
		err = t.conn.Close()
	})
	return err
}

// Handler serves the worker protocol over WebSocket. Each connection gets
// the ready message, then its requests run on the shared pool.
type Handler struct {
	worker   *Worker
	pool     *parallel.Pool
	upgrader websocket.Upgrader
}

// NewHandler returns a Handler running a pool configured by opts.
// Call Close to stop the pool.
func NewHandler(opts ...Option) *Handler {
	o := buildOptions(opts)
	return &Handler{
		worker: NewWorker(o.preserveFactor),
		pool:   parallel.NewPool(o.workers, o.queueSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the connection and serves requests until the peer
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ink.Logger().Warn("compute: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	log := ink.Logger().With("remote", r.RemoteAddr)

	var writeMu sync.Mutex
	write := func(resp Response) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			log.Debug("compute: write failed", "id", resp.ID, "err", err)
		}
	}

	write(readyResponse(msgReady))
	log.Info("compute: client connected")

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("compute: read failed", "err", err)
			}
			log.Info("compute: client disconnected")
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			write(errorResponse("", "malformed request: "+err.Error()))
			continue
		}

		inflight.Add(1)
		ok := h.pool.Submit(func() {
			defer inflight.Done()
			write(h.worker.Handle(req))
		})
		if !ok {
			inflight.Done()
			write(errorResponse(req.ID, "worker shutting down"))
			return
		}
	}
}

// Close stops the pool after in-flight requests complete.
func (h *Handler) Close() {
	h.pool.Close()
}

// IsClosedTransport reports whether err means the transport was closed
// rather than failed.
func IsClosedTransport(err error) bool {
	return errors.Is(err, ErrClosed) || websocket.IsCloseError(err, websocket.CloseNormalClosure)
}
