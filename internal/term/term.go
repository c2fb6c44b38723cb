// Package term drives the sandbox in a terminal: one terminal cell per grid
// cell, mouse painting and key-based tile selection.
package term

import (
	"context"
	"fmt"
	"log"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sand"

	"github.com/gdamore/tcell/v2"
)

// Tone is played when a tile is selected or painted.
type Tone interface {
	Play()
}

// Options configures a Session.
type Options struct {
	TPS    int
	Brush  int
	Tone   Tone
	Logger *log.Logger
}

// Session owns the loop driver for one terminal.
type Session struct {
	screen tcell.Screen
	sim    app.Sandbox
	pacer  *core.FixedStep
	frame  app.Frame
	opts   Options

	paused   bool
	tickOnce bool
	painting bool
	styles   []tcell.Style
}

// NewSession wraps an initialized screen. The first Flush draws every cell.
func NewSession(screen tcell.Screen, sim app.Sandbox, opts Options) *Session {
	s := &Session{
		screen: screen,
		sim:    sim,
		pacer:  core.NewFixedStep(opts.TPS),
		opts:   opts,
		styles: buildStyles(),
	}
	s.frame.Add(sim.Snapshot()...)
	return s
}

func buildStyles() []tcell.Style {
	styles := make([]tcell.Style, sand.NumTiles)
	for i := range styles {
		c := render.TileColor(sand.Tile(i))
		styles[i] = tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	}
	return styles
}

// styleFor returns the background style for a tile value.
func (s *Session) styleFor(v uint8) tcell.Style {
	if int(v) >= len(s.styles) {
		return s.styles[sand.Air]
	}
	return s.styles[v]
}

// HandleEvent applies one input event. It returns false when the user asked
// to quit.
func (s *Session) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); r {
		case 'c':
			s.frame.Add(s.sim.Clear()...)
			s.logf("cleared at tick %d", s.sim.TickCount())
		case ' ':
			s.paused = !s.paused
		case 'n':
			s.tickOnce = true
		case 'r':
			s.sim.Reset(0)
			s.frame.Add(s.sim.Snapshot()...)
			s.logf("reset")
		default:
			if s.sim.SetCurrentTile(string(r)) {
				s.beep()
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			s.painting = false
			return true
		}
		x, y := ev.Position()
		changes := s.sim.PaintArea(x, y, s.opts.Brush)
		if len(changes) > 0 && !s.painting {
			s.beep()
		}
		s.painting = len(changes) > 0
		s.frame.Add(changes...)
	case *tcell.EventResize:
		s.screen.Sync()
		s.frame.Add(s.sim.Snapshot()...)
	}
	return true
}

// Advance runs n ticks unless paused; a pending single step runs once.
func (s *Session) Advance(n int) {
	if s.paused {
		if !s.tickOnce {
			return
		}
		n = 1
	}
	s.tickOnce = false
	for i := 0; i < n; i++ {
		s.frame.Add(s.sim.Tick()...)
	}
}

// Flush draws the pending changes and the status line, then shows the screen.
// It returns the number of grid cells redrawn.
func (s *Session) Flush() int {
	changes := s.frame.Take()
	for _, c := range changes {
		s.screen.SetContent(c.X, c.Y, ' ', nil, s.styleFor(c.Value))
	}
	s.drawStatus()
	s.screen.Show()
	return len(changes)
}

func (s *Session) drawStatus() {
	size := s.sim.Size()
	state := "run"
	if s.paused {
		state = "pause"
	}
	current := s.sim.CurrentTile()
	line := fmt.Sprintf(" %s [%s]  tick %d  %s  keys: a l w s 0-9 - =  c clear  space pause  esc quit ",
		current, current.Tag(), s.sim.TickCount(), state)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, r := range line {
		s.screen.SetContent(i, size.H, r, nil, style)
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.opts.Logger != nil {
		s.opts.Logger.Printf(format, args...)
	}
}

func (s *Session) beep() {
	if s.opts.Tone != nil {
		s.opts.Tone.Play()
	}
}

// Run polls input on a goroutine and advances the sandbox at the configured
// rate until the user quits or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.screen.EnableMouse()
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := newTicker(s.pacer.Step())
	defer ticker.Stop()

	s.Flush()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !s.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			s.Advance(s.pacer.Due())
			s.Flush()
		}
	}
}
