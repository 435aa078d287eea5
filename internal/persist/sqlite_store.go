package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// SQLiteStore keeps save blobs in a single-table SQLite database, one row
// per slot.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping save database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS saves (
			slot       TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, slot string, gs *state.GameState) (SaveReceipt, error) {
	if err := gs.Validate(); err != nil {
		return SaveReceipt{}, &ValidationError{Err: err}
	}
	b, err := json.Marshal(gs)
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "encode save", Err: err}
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		slotName(slot), b, now.Format(time.RFC3339Nano))
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "write save", Err: err}
	}
	return SaveReceipt{SavedAt: now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, slot string) (*state.GameState, error) {
	var b []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM saves WHERE slot = ?`, slotName(slot)).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &TransportError{Op: "read save", Err: err}
	}

	var gs state.GameState
	if err := json.Unmarshal(b, &gs); err != nil {
		return nil, ErrNotFound
	}
	gs.Normalize()
	if err := gs.Validate(); err != nil {
		return nil, ErrNotFound
	}
	return &gs, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, slot string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slotName(slot))
	if err != nil {
		return &TransportError{Op: "delete save", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ForSlot(slot string) Store {
	return &sqliteSlot{store: s, slot: slotName(slot)}
}

type sqliteSlot struct {
	store *SQLiteStore
	slot  string
}

func (s *sqliteSlot) Save(ctx context.Context, gs *state.GameState) (SaveReceipt, error) {
	return s.store.Put(ctx, s.slot, gs)
}

func (s *sqliteSlot) Load(ctx context.Context) (*state.GameState, error) {
	return s.store.Get(ctx, s.slot)
}
