package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MetalCharts/internal/model"
)

// SQLiteRecorder persists payloads and observations to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets the preview server read while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS latest_payloads (
			kind       TEXT PRIMARY KEY,
			seq        INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			body       BLOB NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS price_observations (
			instrument TEXT NOT NULL,
			date       TEXT NOT NULL,
			value      REAL NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (instrument, date)
		)`,

		`CREATE TABLE IF NOT EXISTS refresh_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			seq         INTEGER,
			source      TEXT,
			dates       INTEGER,
			historical  INTEGER,
			predicted   INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_log(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordPayload replaces the stored payload of p.Kind. Sequence numbers
// restart with every process, so ordering is left to the collector and
// the last recorded payload always wins.
func (r *SQLiteRecorder) RecordPayload(p *Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fetched := p.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO latest_payloads (kind, seq, fetched_at, body)
		VALUES (?,?,?,?)
		ON CONFLICT(kind) DO UPDATE SET seq = excluded.seq, fetched_at = excluded.fetched_at, body = excluded.body`,
		p.Kind, int64(p.Seq), fetched.Unix(), p.Body,
	)
	if err != nil {
		return fmt.Errorf("record %s payload: %w", p.Kind, err)
	}
	return nil
}

// LatestPayloads returns the stored body of every payload kind.
func (r *SQLiteRecorder) LatestPayloads() (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT kind, body FROM latest_payloads`)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var kind string
		var body []byte
		if err := rows.Scan(&kind, &body); err != nil {
			return nil, fmt.Errorf("scan payload: %w", err)
		}
		out[kind] = body
	}
	return out, rows.Err()
}

// RecordPrices upserts every observed point of ns.
func (r *SQLiteRecorder) RecordPrices(ns *model.NormalizedSeries) error {
	if ns == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO price_observations (instrument, date, value, updated_at)
		VALUES (?,?,?,?)
		ON CONFLICT(instrument, date) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for code, pts := range ns.Series {
		for _, p := range pts {
			if _, err := stmt.Exec(code, model.DateKey(p.Date), p.Value, now); err != nil {
				tx.Rollback()
				return fmt.Errorf("record %s %s: %w", code, model.DateKey(p.Date), err)
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_log
		(timestamp, seq, source, dates, historical, predicted, duration_ms, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), int64(evt.Seq), evt.Source, evt.Dates,
		evt.Historical, evt.Predicted, evt.Duration.Milliseconds(), evt.Err,
	)
	return err
}

// RefreshCount returns the number of logged refresh runs.
func (r *SQLiteRecorder) RefreshCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM refresh_log`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
