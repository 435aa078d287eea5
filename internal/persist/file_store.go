package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// FileStore keeps one JSON file per save slot under a data directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dataDir}, nil
}

func slotName(slot string) string {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		slot = "default"
	}
	return slot
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slotName(slot)+".json")
}

// Put validates and writes a slot. The write goes through a temp file and
// rename so a crash never leaves a half-written save.
func (f *FileStore) Put(ctx context.Context, slot string, s *state.GameState) (SaveReceipt, error) {
	if err := s.Validate(); err != nil {
		return SaveReceipt{}, &ValidationError{Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "encode save", Err: err}
	}

	dst := f.path(slot)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return SaveReceipt{}, &TransportError{Op: "write save", Err: err}
	}
	if err := os.Rename(tmp, dst); err != nil {
		return SaveReceipt{}, &TransportError{Op: "commit save", Err: err}
	}
	return SaveReceipt{SavedAt: time.Now().UTC()}, nil
}

// Get loads a slot. Missing files and blobs that fail validation both
// come back as ErrNotFound.
func (f *FileStore) Get(ctx context.Context, slot string) (*state.GameState, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b, err := os.ReadFile(f.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &TransportError{Op: "read save", Err: err}
	}

	var s state.GameState
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, ErrNotFound
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (f *FileStore) Delete(ctx context.Context, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return &TransportError{Op: "delete save", Err: err}
	}
	return nil
}

// ForSlot binds the store to one slot so it satisfies the engine-facing
// Store interface.
func (f *FileStore) ForSlot(slot string) Store {
	return &fileSlot{store: f, slot: slotName(slot)}
}

type fileSlot struct {
	store *FileStore
	slot  string
}

func (s *fileSlot) Save(ctx context.Context, gs *state.GameState) (SaveReceipt, error) {
	return s.store.Put(ctx, s.slot, gs)
}

func (s *fileSlot) Load(ctx context.Context) (*state.GameState, error) {
	return s.store.Get(ctx, s.slot)
}
