package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mad-sand/internal/app"
	"mad-sand/internal/protocol"
	"mad-sand/internal/sims/sand"
)

func newTestServer(t *testing.T, w, h int) (*Server, *websocket.Conn) {
	t.Helper()
	cfg := sand.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Fill = "empty"
	srv := NewServer(sand.NewWithConfig(cfg), nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(msg, v); err != nil {
		t.Fatalf("decode %s: %v", msg, err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestViewerReceivesHelloAndFullFrame(t *testing.T) {
	_, conn := newTestServer(t, 5, 4)

	var hello protocol.Hello
	readJSON(t, conn, &hello)
	if hello.Type != protocol.TypeHello || hello.Width != 5 || hello.Height != 4 {
		t.Fatalf("hello = %+v", hello)
	}
	if len(hello.Tags) != sand.NumTiles {
		t.Fatalf("hello lists %d tags, want %d", len(hello.Tags), sand.NumTiles)
	}

	var full protocol.Frame
	readJSON(t, conn, &full)
	if !full.Full || len(full.Changes) != 20 {
		t.Fatalf("full frame has %d records (full=%v), want 20", len(full.Changes), full.Full)
	}
}

func TestViewerCommandsReachTheGrid(t *testing.T) {
	srv, conn := newTestServer(t, 4, 3)
	var hello protocol.Hello
	readJSON(t, conn, &hello)
	var full protocol.Frame
	readJSON(t, conn, &full)

	surface := make([]uint8, 4*3)
	for _, c := range full.Changes {
		surface[c[1]*4+c[0]] = uint8(c[2])
	}

	for _, msg := range []string{
		`{"type":"SELECT","tag":"w"}`,
		`{"type":"SELECT","tag":"nope"}`,
		`{"type":"PAINT","x":1,"y":0}`,
		`{"type":"PAINT","x":4,"y":0}`,
		`{"type":"BOGUS"}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitFor(t, "commands", func() bool {
		accepted, rejected := srv.Commands()
		return accepted == 4 && rejected == 1
	})

	if n := srv.Step(); n != 3 {
		t.Fatalf("step sent %d records, want paint + one fall swap", n)
	}
	var frame protocol.Frame
	readJSON(t, conn, &frame)
	if frame.Full || frame.Tick != 1 {
		t.Fatalf("frame = %+v", frame)
	}
	for _, c := range frame.Changes {
		surface[c[1]*4+c[0]] = uint8(c[2])
	}

	srv.WithSim(func(sim app.Sandbox) {
		e := sim.(*sand.Engine)
		if tile, _ := e.At(1, 1); tile != sand.Water {
			t.Fatalf("painted water should have fallen to (1,1), found %v", tile)
		}
		for i, tile := range e.Tiles() {
			if surface[i] != uint8(tile) {
				t.Fatalf("viewer surface cell %d = %d, grid = %v", i, surface[i], tile)
			}
		}
	})
}

func TestIdleStepSendsNothing(t *testing.T) {
	srv, conn := newTestServer(t, 3, 3)
	var hello protocol.Hello
	readJSON(t, conn, &hello)
	var full protocol.Frame
	readJSON(t, conn, &full)
	waitFor(t, "viewer registration", func() bool { return srv.Viewers() == 1 })

	if n := srv.Step(); n != 0 {
		t.Fatalf("empty grid step sent %d records", n)
	}
}

func TestClearBroadcastsEveryCell(t *testing.T) {
	srv, conn := newTestServer(t, 3, 2)
	var hello protocol.Hello
	readJSON(t, conn, &hello)
	var full protocol.Frame
	readJSON(t, conn, &full)

	srv.Apply(protocol.Command{Type: protocol.TypeClear})
	if n := srv.Step(); n != 6 {
		t.Fatalf("clear step sent %d records, want 6", n)
	}
	var frame protocol.Frame
	readJSON(t, conn, &frame)
	if len(frame.Changes) != 6 {
		t.Fatalf("clear frame has %d records", len(frame.Changes))
	}
}

func dialWithOrigin(t *testing.T, allowed []string, origin string) error {
	t.Helper()
	cfg := sand.DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	srv := NewServer(sand.NewWithConfig(cfg), nil)
	srv.AllowOrigins(allowed...)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if origin == "self" {
		origin = ts.URL
	}
	h := http.Header{}
	if origin != "" {
		h.Set("Origin", origin)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), h)
	if err == nil {
		conn.Close()
	}
	return err
}

func TestCrossOriginViewersNeedAllowList(t *testing.T) {
	if err := dialWithOrigin(t, nil, ""); err != nil {
		t.Fatalf("client without Origin rejected: %v", err)
	}
	if err := dialWithOrigin(t, nil, "self"); err != nil {
		t.Fatalf("same-host page rejected: %v", err)
	}
	if err := dialWithOrigin(t, nil, "https://evil.example"); !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("foreign page: err = %v, want ErrBadHandshake", err)
	}

	allowed := []string{"https://viewer.example", " ", "mirror.example:9000"}
	if err := dialWithOrigin(t, allowed, "https://viewer.example"); err != nil {
		t.Fatalf("allow-listed origin rejected: %v", err)
	}
	if err := dialWithOrigin(t, allowed, "http://mirror.example:9000"); err != nil {
		t.Fatalf("allow-listed host rejected: %v", err)
	}
	if err := dialWithOrigin(t, allowed, "https://evil.example"); !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("foreign page with allow-list: err = %v, want ErrBadHandshake", err)
	}
}
