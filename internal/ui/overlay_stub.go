//go:build !ebiten

package ui

import "mad-sand/internal/core"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Record is a no-op in headless builds.
func (o *Overlay) Record([]core.Change) {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
