// Package sound plays short feedback tones through the system speaker.
package sound

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Beeper plays a fixed sine blip. A Beeper whose speaker failed to open is
// silent rather than an error, so callers can always Play.
type Beeper struct {
	freq  float64
	dur   time.Duration
	gain  float64
	ready bool
}

// NewBeeper returns a beeper for a tone of freq Hz lasting dur.
func NewBeeper(freq float64, dur time.Duration) *Beeper {
	return &Beeper{freq: freq, dur: dur, gain: -1.5}
}

// Open initializes the speaker. Failure leaves the beeper silent.
func (b *Beeper) Open() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	b.ready = true
	return nil
}

// Streamer builds one blip.
func (b *Beeper) Streamer() (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, b.freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(b.dur), sine),
		Base:     2,
		Volume:   b.gain,
	}, nil
}

// Play queues one blip on the speaker.
func (b *Beeper) Play() {
	if b == nil || !b.ready {
		return
	}
	s, err := b.Streamer()
	if err != nil {
		return
	}
	speaker.Play(s)
}
