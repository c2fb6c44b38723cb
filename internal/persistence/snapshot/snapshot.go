// Package snapshot saves and restores sandbox grids as zstd-compressed files:
// one JSON header line followed by a gob body.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"mad-sand/internal/sims/sand"
)

// Version is the current on-disk format.
const Version = 1

var (
	// ErrDimensionMismatch is returned when restoring into a grid of another size.
	ErrDimensionMismatch = errors.New("snapshot: dimension mismatch")
	// ErrBadSnapshot is returned for unreadable or inconsistent files.
	ErrBadSnapshot = errors.New("snapshot: bad snapshot")
)

// Header is the JSON first line of the decompressed snapshot stream.
type Header struct {
	Version int    `json:"version"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	Tick    uint64 `json:"tick"`
}

// SnapshotV1 is the gob body: the header repeated plus the grid and the
// settings needed to rebuild the engine.
type SnapshotV1 struct {
	Header Header

	Seed    int64
	Fill    string
	Current uint8

	// Row-major tile values.
	Cells []uint8
}

// FromEngine captures the engine's grid and selection.
func FromEngine(e *sand.Engine) SnapshotV1 {
	size := e.Size()
	tiles := e.Tiles()
	cells := make([]uint8, len(tiles))
	for i, t := range tiles {
		cells[i] = uint8(t)
	}
	cfg := e.Config()
	return SnapshotV1{
		Header:  Header{Version: Version, Width: size.W, Height: size.H, Tick: e.TickCount()},
		Seed:    cfg.Seed,
		Fill:    cfg.Fill,
		Current: uint8(e.CurrentTile()),
		Cells:   cells,
	}
}

// Restore writes the snapshot's cells and selection into e. The engine must
// have the snapshot's dimensions.
func Restore(e *sand.Engine, snap SnapshotV1) error {
	size := e.Size()
	if size.W != snap.Header.Width || size.H != snap.Header.Height {
		return fmt.Errorf("%w: grid %dx%d, snapshot %dx%d",
			ErrDimensionMismatch, size.W, size.H, snap.Header.Width, snap.Header.Height)
	}
	if err := validate(snap); err != nil {
		return err
	}
	for i, v := range snap.Cells {
		e.Set(i%size.W, i/size.W, sand.Tile(v))
	}
	e.SetCurrentTile(sand.Tile(snap.Current).Tag())
	return nil
}

// NewEngine builds a fresh engine sized and filled from the snapshot.
func NewEngine(snap SnapshotV1) (*sand.Engine, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}
	cfg := sand.DefaultConfig()
	cfg.Width = snap.Header.Width
	cfg.Height = snap.Header.Height
	cfg.Seed = snap.Seed
	cfg.Fill = "empty"
	e := sand.NewWithConfig(cfg)
	if err := Restore(e, snap); err != nil {
		return nil, err
	}
	return e, nil
}

func validate(snap SnapshotV1) error {
	h := snap.Header
	if h.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, h.Version)
	}
	if h.Width <= 0 || h.Height <= 0 || len(snap.Cells) != h.Width*h.Height {
		return fmt.Errorf("%w: %d cells for %dx%d", ErrBadSnapshot, len(snap.Cells), h.Width, h.Height)
	}
	for i, v := range snap.Cells {
		if !sand.Tile(v).Valid() {
			return fmt.Errorf("%w: cell %d holds %d", ErrBadSnapshot, i, v)
		}
	}
	return nil
}

// Write stores snap at path, creating parent directories.
func Write(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// Read loads a snapshot written by Write.
func Read(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return snap, fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return snap, fmt.Errorf("%w: gob decode: %v", ErrBadSnapshot, err)
	}
	if snap.Header != h {
		return snap, fmt.Errorf("%w: header disagrees with body", ErrBadSnapshot)
	}
	return snap, validate(snap)
}

// ReadHeader returns only the header line, without decoding the grid.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()
	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)
	}
	return h, nil
}
