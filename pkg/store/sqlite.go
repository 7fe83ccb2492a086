package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"tableflip.dev/moodlog/pkg/entry"
)

// Persistence defines the persistence contract for mood entries.
//
// Absent records are not errors: Get returns nil, and Update or Delete of
// an unknown id do nothing.
type Persistence interface {
	ListAll(ctx context.Context) ([]*entry.Entry, error)
	Get(ctx context.Context, id int64) (*entry.Entry, error)
	Distribution(ctx context.Context) ([]entry.Distribution, error)
	Insert(ctx context.Context, e *entry.Entry) error
	Update(ctx context.Context, e *entry.Entry) error
	Delete(ctx context.Context, e *entry.Entry) error
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// ErrNilEntry is returned when a mutation is handed a nil entry.
var ErrNilEntry = errors.New("store: nil entry")

const schema = `
CREATE TABLE IF NOT EXISTS mood_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mood TEXT,
    moodLevel INTEGER,
    notes TEXT,
    timestamp INTEGER
);

CREATE INDEX IF NOT EXISTS idx_mood_entries_timestamp ON mood_entries(timestamp);
`

const (
	columns = `id, mood, moodLevel, notes, timestamp`

	// Equal timestamps fall back to id so the newest insert is listed first.
	selectAll          = `SELECT ` + columns + ` FROM mood_entries ORDER BY timestamp DESC, id DESC`
	selectByID         = `SELECT ` + columns + ` FROM mood_entries WHERE id = ?`
	selectDistribution = `SELECT mood, COUNT(*) AS count FROM mood_entries GROUP BY mood`
	insertEntry        = `INSERT INTO mood_entries (mood, moodLevel, notes, timestamp) VALUES (?, ?, ?, ?)`
	updateEntry        = `UPDATE mood_entries SET mood = ?, moodLevel = ?, notes = ?, timestamp = ? WHERE id = ?`
	deleteEntry        = `DELETE FROM mood_entries WHERE id = ?`
)

// Load opens the persistence described by cfg, loading the configuration
// from the environment when cfg is nil.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return Open(cfg.DatabasePath())
}

// Open opens (creating if needed) the SQLite database at path. Use
// MemoryPath for a private in-memory database.
func Open(path string) (Persistence, error) {
	dsn := MemoryPath
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure database directory: %w", err)
		}
		dsn = "file:" + filepath.ToSlash(path) + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// One connection serializes every statement, and keeps a :memory:
	// database alive for the lifetime of the handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	p := &persistence{db: db, hub: newHub()}
	if path != MemoryPath {
		p.path = path
	}
	return p, nil
}

type persistence struct {
	db   *sql.DB
	path string // empty for in-memory databases
	hub  *hub
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*entry.Entry, error) {
	var (
		e      entry.Entry
		mood   sql.NullString
		level  sql.NullInt64
		notes  sql.NullString
		millis sql.NullInt64
	)
	if err := row.Scan(&e.ID, &mood, &level, &notes, &millis); err != nil {
		return nil, err
	}
	e.Mood = mood.String
	e.MoodLevel = int(level.Int64)
	e.Notes = notes.String
	if millis.Valid {
		e.Timestamp = entry.FromMillis(millis.Int64)
	}
	return &e, nil
}

func (p *persistence) ListAll(ctx context.Context) ([]*entry.Entry, error) {
	rows, err := p.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	defer rows.Close()

	all := make([]*entry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		all = append(all, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list entries: %w", err)
	}
	return all, nil
}

func (p *persistence) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	e, err := scanEntry(p.db.QueryRowContext(ctx, selectByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get entry %d: %w", id, err)
	}
	return e, nil
}

func (p *persistence) Distribution(ctx context.Context) ([]entry.Distribution, error) {
	rows, err := p.db.QueryContext(ctx, selectDistribution)
	if err != nil {
		return nil, fmt.Errorf("store: mood distribution: %w", err)
	}
	defer rows.Close()

	dist := make([]entry.Distribution, 0)
	for rows.Next() {
		var (
			mood sql.NullString
			d    entry.Distribution
		)
		if err := rows.Scan(&mood, &d.Count); err != nil {
			return nil, fmt.Errorf("store: scan distribution: %w", err)
		}
		d.Mood = mood.String
		dist = append(dist, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: mood distribution: %w", err)
	}
	return dist, nil
}

// Insert stores e under a freshly assigned id, written back into e. Any id
// already on e is ignored.
func (p *persistence) Insert(ctx context.Context, e *entry.Entry) error {
	if e == nil {
		return ErrNilEntry
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = entry.Now()
	} else {
		e.Timestamp = entry.FromMillis(e.Timestamp.Millis())
	}
	res, err := p.db.ExecContext(ctx, insertEntry, e.Mood, e.MoodLevel, e.Notes, e.Timestamp.Millis())
	if err != nil {
		return fmt.Errorf("store: insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: insert entry: %w", err)
	}
	e.ID = id
	p.hub.publish(Event{Type: EventEntryCreated, ID: id})
	return nil
}

func (p *persistence) Update(ctx context.Context, e *entry.Entry) error {
	if e == nil {
		return ErrNilEntry
	}
	res, err := p.db.ExecContext(ctx, updateEntry, e.Mood, e.MoodLevel, e.Notes, e.Timestamp.Millis(), e.ID)
	if err != nil {
		return fmt.Errorf("store: update entry %d: %w", e.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	p.hub.publish(Event{Type: EventEntryUpdated, ID: e.ID})
	return nil
}

func (p *persistence) Delete(ctx context.Context, e *entry.Entry) error {
	if e == nil {
		return nil
	}
	res, err := p.db.ExecContext(ctx, deleteEntry, e.ID)
	if err != nil {
		return fmt.Errorf("store: delete entry %d: %w", e.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	p.hub.publish(Event{Type: EventEntryDeleted, ID: e.ID})
	return nil
}

func (p *persistence) Close() error {
	p.hub.close()
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("store: close database: %w", err)
	}
	return nil
}
