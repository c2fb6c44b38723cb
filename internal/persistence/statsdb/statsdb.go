// Package statsdb keeps a sqlite index of headless runs: one row per run and
// one row per recorded tick.
package statsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("statsdb: closed")

// Run describes one batch of ticks on a seeded grid.
type Run struct {
	Width  int
	Height int
	Seed   int64
	Fill   string
}

// TickRow is the per-tick record: the number of changed cells and the
// population of the moving tiles after the tick.
type TickRow struct {
	Tick    uint64
	Changes int
	Land    int
	Water   int
	Air     int
}

// Summary aggregates the recorded ticks of a run.
type Summary struct {
	RunID        int64
	Ticks        int
	LastTick     uint64
	TotalChanges int64
	MaxChanges   int
	// Settled is set when the last recorded tick changed nothing. SettledAt
	// is then the first tick of that quiet tail.
	Settled   bool
	SettledAt uint64
}

// DB is an open stats index with its background writer.
type DB struct {
	db *sql.DB

	// sendMu orders RecordTick sends against close(ch).
	sendMu sync.RWMutex
	ch     chan tickReq
	wg     sync.WaitGroup
	once   sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
	failed  atomic.Uint64
}

type tickReq struct {
	runID int64
	row   TickRow
}

// Open creates or opens the database at path and starts the writer.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &DB{
		db: db,
		ch: make(chan tickReq, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			fill TEXT NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			tick INTEGER NOT NULL,
			changes INTEGER NOT NULL,
			land INTEGER NOT NULL,
			water INTEGER NOT NULL,
			air INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// StartRun inserts a run row synchronously and returns its id.
func (s *DB) StartRun(ctx context.Context, r Run) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(width,height,seed,fill,started_at) VALUES(?,?,?,?,?)`,
		r.Width, r.Height, r.Seed, r.Fill, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecordTick queues a tick row. It never blocks the caller: when the queue is
// full the row is dropped and counted. It is safe to call concurrently with
// Close.
func (s *DB) RecordTick(runID int64, row TickRow) error {
	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed.Load() {
		return ErrClosed
	}
	select {
	case s.ch <- tickReq{runID: runID, row: row}:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// Dropped reports how many tick rows were discarded because the queue was
// full or a write failed.
func (s *DB) Dropped() uint64 { return s.dropped.Load() + s.failed.Load() }

// Close drains the queue, commits and closes the database.
func (s *DB) Close() error {
	var err error
	s.once.Do(func() {
		s.sendMu.Lock()
		s.closed.Store(true)
		close(s.ch)
		s.sendMu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *DB) loop() {
	ctx := context.Background()
	insertTick, err := s.db.Prepare(`INSERT OR REPLACE INTO ticks(run_id,tick,changes,land,water,air) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		for range s.ch {
			s.failed.Add(1)
		}
		return
	}
	defer insertTick.Close()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 1000
		commitMaxWait = time.Second
	)
	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			s.failed.Add(uint64(opCount))
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			s.failed.Add(1)
			continue
		}
		row := r.row
		if _, err := tx.Stmt(insertTick).Exec(r.runID, int64(row.Tick), row.Changes, row.Land, row.Water, row.Air); err != nil {
			s.failed.Add(1)
			continue
		}
		opCount++
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}

// RunSummary aggregates the committed tick rows of runID. Rows still queued
// are not visible until the writer commits them; reopen the database after
// Close for a complete summary.
func (s *DB) RunSummary(ctx context.Context, runID int64) (Summary, error) {
	if s.closed.Load() {
		return Summary{}, ErrClosed
	}
	db := s.db
	sum := Summary{RunID: runID}
	var (
		last  sql.NullInt64
		total sql.NullInt64
		peak  sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(tick), SUM(changes), MAX(changes) FROM ticks WHERE run_id = ?`, runID).
		Scan(&sum.Ticks, &last, &total, &peak)
	if err != nil {
		return sum, fmt.Errorf("summary: %w", err)
	}
	if sum.Ticks == 0 {
		return sum, nil
	}
	sum.LastTick = uint64(last.Int64)
	sum.TotalChanges = total.Int64
	sum.MaxChanges = int(peak.Int64)

	var settledAt sql.NullInt64
	err = db.QueryRowContext(ctx,
		`SELECT MIN(tick) FROM ticks WHERE run_id = ? AND changes = 0
			AND tick > COALESCE((SELECT MAX(tick) FROM ticks WHERE run_id = ? AND changes > 0), -1)`,
		runID, runID).Scan(&settledAt)
	if err != nil {
		return sum, fmt.Errorf("summary: %w", err)
	}
	if settledAt.Valid {
		sum.Settled = true
		sum.SettledAt = uint64(settledAt.Int64)
	}
	return sum, nil
}
