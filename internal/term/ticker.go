package term

import "time"

// Redraws are capped near 60 fps; the pacer decides how many ticks run.
const minFrame = 16 * time.Millisecond

func newTicker(step time.Duration) *time.Ticker {
	if step < minFrame {
		step = minFrame
	}
	return time.NewTicker(step)
}
