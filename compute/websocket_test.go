// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newWorkerServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	h := NewHandler(WithWorkers(2))
	mux := http.NewServeMux()
	mux.Handle(HandlerPath, h)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		h.Close()
	})
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + HandlerPath
}

func TestWebSocket_Simplify(t *testing.T) {
	_, url := newWorkerServer(t)

	ch := NewChannel(WebSocket(url))
	t.Cleanup(func() { _ = ch.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := ch.Simplify(ctx, zigzag(100), 1, false)
	if err != nil {
		t.Fatalf("Simplify() error = %v", err)
	}
	if len(res.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2", len(res.Points))
	}

	_, err = ch.Simplify(ctx, zigzag(10), -1, false)
	var verr *ValidationError
	if !errors.As(err, &verr) || !strings.Contains(verr.Message, "invalid tolerance") {
		t.Errorf("Simplify(tolerance=-1) error = %v, want invalid tolerance ValidationError", err)
	}
}

func TestWebSocket_MalformedRequest(t *testing.T) {
	_, url := newWorkerServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	var ready Response
	if err := conn.ReadJSON(&ready); err != nil || ready.Type != TypeReady {
		t.Fatalf("first message = %+v, %v; want ready", ready, err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if resp.Type != TypeError || !strings.Contains(resp.Message, "malformed request") {
		t.Errorf("response = %+v, want malformed request error", resp)
	}
}

// dropFirstConnection serves the worker protocol but closes the first
// connection after reading one request, without answering it.
type dropFirstConnection struct {
	handler  *Handler
	upgrader websocket.Upgrader
	conns    atomic.Int32
}

func (d *dropFirstConnection) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if d.conns.Add(1) > 1 {
		d.handler.ServeHTTP(w, r)
		return
	}
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	if err := conn.WriteJSON(readyResponse(msgReady)); err != nil {
		return
	}
	_, _, _ = conn.ReadMessage()
}

func TestWebSocket_ConnectionDropRejectsPending(t *testing.T) {
	h := NewHandler(WithWorkers(2))
	drop := &dropFirstConnection{handler: h}
	mux := http.NewServeMux()
	mux.Handle(HandlerPath, drop)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		h.Close()
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + HandlerPath

	ch := NewChannel(WebSocket(url))
	t.Cleanup(func() { _ = ch.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ch.Simplify(ctx, zigzag(20), 1, false)
	var terr *TransportError
	if !errors.As(err, &terr) || !errors.Is(err, ErrTransport) {
		t.Fatalf("Simplify() error = %v, want *TransportError", err)
	}
	if st := ch.Status(); st.Pending != 0 || st.Initialized {
		t.Errorf("Status() = %+v, want no pending and uninitialized", st)
	}
	eventually(t, func() bool { return ch.Status().Failed == 1 }, "rejected request not counted as failed")

	res, err := ch.Simplify(ctx, zigzag(20), 1, false)
	if err != nil {
		t.Fatalf("Simplify() after reconnect error = %v", err)
	}
	if len(res.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2", len(res.Points))
	}
	if got := drop.conns.Load(); got != 2 {
		t.Errorf("connections = %d, want 2", got)
	}
}

func TestWebSocket_DialFailure(t *testing.T) {
	ch := NewChannel(WebSocket("ws://127.0.0.1:1/simplify"))

	err := ch.Init(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Init() error = %v, want ErrTransport", err)
	}
}
