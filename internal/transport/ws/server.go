// Package ws streams sandbox redraws to remote viewers over websocket and
// accepts their paint, select and clear commands.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	"mad-sand/internal/protocol"
	"mad-sand/internal/sims/sand"
)

// outbound frames buffered per viewer before it is dropped as too slow.
const viewerBuffer = 256

// Server owns the loop driver for a shared sandbox. mu covers one full tick
// or one full command, so viewers never observe a partially applied pass.
type Server struct {
	log *log.Logger

	mu      sync.Mutex
	sim     app.Sandbox
	pending app.Frame
	viewers map[uint64]chan []byte

	nextID   atomic.Uint64
	commands atomic.Uint64
	rejected atomic.Uint64

	// origins holds extra browser origin hosts allowed besides the
	// request's own host. Set before serving.
	origins  map[string]bool
	upgrader websocket.Upgrader
}

// NewServer wraps sim. The caller must not touch sim directly afterwards
// except through WithSim.
func NewServer(sim app.Sandbox, logger *log.Logger) *Server {
	s := &Server{
		log:     logger,
		sim:     sim,
		viewers: map[uint64]chan []byte{},
		origins: map[string]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

// AllowOrigins admits browser pages served from other hosts. Entries are
// either full origins ("https://example.com") or bare hosts ("example.com:8080").
func (s *Server) AllowOrigins(origins ...string) {
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		s.origins[strings.ToLower(o)] = true
	}
}

// checkOrigin accepts clients without an Origin header (non-browser), pages
// from the server's own host and the allow-listed hosts.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	return host == strings.ToLower(r.Host) || s.origins[host]
}

// WithSim runs fn with exclusive access to the sandbox.
func (s *Server) WithSim(fn func(app.Sandbox)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.sim)
}

// Commands returns how many viewer commands were accepted and rejected.
func (s *Server) Commands() (accepted, rejected uint64) {
	return s.commands.Load(), s.rejected.Load()
}

// Apply executes one viewer command. Out-of-range paints and unknown tags
// are ignored by the sandbox itself.
func (s *Server) Apply(cmd protocol.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd.Type {
	case protocol.TypePaint:
		if c, ok := s.sim.PaintAt(cmd.X, cmd.Y); ok {
			s.pending.Add(c)
		}
	case protocol.TypeSelect:
		s.sim.SetCurrentTile(cmd.Tag)
	case protocol.TypeClear:
		s.pending.Add(s.sim.Clear()...)
	}
	s.commands.Add(1)
}

// Step runs one tick and broadcasts it together with any command output
// queued since the previous step. It returns the number of records sent.
func (s *Server) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Add(s.sim.Tick()...)
	changes := s.pending.Take()
	if len(changes) == 0 {
		return 0
	}
	s.broadcastLocked(protocol.NewFrame(s.sim.TickCount(), false, changes))
	return len(changes)
}

// Run steps the sandbox at tps until ctx is cancelled.
func (s *Server) Run(ctx context.Context, tps int) error {
	pacer := core.NewFixedStep(tps)
	step := pacer.Step()
	if step < time.Millisecond {
		step = time.Millisecond
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for n := pacer.Due(); n > 0; n-- {
				s.Step()
			}
		}
	}
}

func (s *Server) broadcastLocked(frame protocol.Frame) {
	b, err := json.Marshal(frame)
	if err != nil {
		s.logf("marshal frame: %v", err)
		return
	}
	for id, out := range s.viewers {
		select {
		case out <- b:
		default:
			// A skipped frame would desync the viewer's surface; drop it instead.
			delete(s.viewers, id)
			close(out)
			s.logf("viewer V%d dropped: too slow", id)
		}
	}
}

// subscribe registers a viewer and queues a full frame for it in the same
// critical section, so no tick falls between the two.
func (s *Server) subscribe() (uint64, chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID.Add(1)
	out := make(chan []byte, viewerBuffer)

	size := s.sim.Size()
	hello, err := json.Marshal(protocol.Hello{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		Width:           size.W,
		Height:          size.H,
		Tags:            sand.Tags(),
	})
	if err != nil {
		return 0, nil, err
	}
	full, err := json.Marshal(protocol.NewFrame(s.sim.TickCount(), true, s.sim.Snapshot()))
	if err != nil {
		return 0, nil, err
	}
	out <- hello
	out <- full
	s.viewers[id] = out
	return id, out, nil
}

func (s *Server) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, ok := s.viewers[id]; ok {
		delete(s.viewers, id)
		close(out)
	}
}

// Viewers returns the number of connected viewers.
func (s *Server) Viewers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// Handler upgrades the request and serves one viewer.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out, err := s.subscribe()
		if err != nil {
			s.logf("subscribe: %v", err)
			return
		}
		defer s.unsubscribe(id)
		s.logf("viewer V%d connected from %s", id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						_ = conn.WriteControl(websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
							time.Now().Add(time.Second))
						cancel()
						_ = conn.Close()
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						_ = conn.Close()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			cmd, err := protocol.DecodeCommand(msg)
			if err != nil {
				s.rejected.Add(1)
				s.logf("viewer V%d: %v", id, err)
				continue
			}
			s.Apply(cmd)
		}

		cancel()
		select {
		case <-writeDone:
		case <-time.After(500 * time.Millisecond):
		}
		s.logf("viewer V%d disconnected", id)
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}
