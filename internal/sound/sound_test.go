package sound

import (
	"testing"
	"time"
)

func TestStreamerLength(t *testing.T) {
	b := NewBeeper(880, 50*time.Millisecond)
	s, err := b.Streamer()
	if err != nil {
		t.Fatalf("streamer: %v", err)
	}
	want := sampleRate.N(50 * time.Millisecond)
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok || n == 0 {
			break
		}
	}
	if total != want {
		t.Fatalf("streamed %d samples, want %d", total, want)
	}
}

func TestStreamerRejectsBadFrequency(t *testing.T) {
	// Nyquist for 44.1kHz is 22050 Hz.
	if _, err := NewBeeper(30000, time.Millisecond).Streamer(); err == nil {
		t.Fatal("expected an error above the Nyquist frequency")
	}
}

func TestPlayWithoutSpeakerIsSilent(t *testing.T) {
	var nilBeeper *Beeper
	nilBeeper.Play()
	NewBeeper(440, time.Millisecond).Play()
}
