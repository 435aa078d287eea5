// Package persist is the persistence gateway for game saves. The engine
// only sees the slot-bound Store interface; the slot-keyed repositories
// behind it back the companion server's save API.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// ErrNotFound means no save exists for the slot. A stored blob that fails
// schema validation on load is reported the same way.
var ErrNotFound = errors.New("no saved game")

// TransportError wraps a failure reaching the backing store. The engine
// treats it as report-only and keeps playing on the local state.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("persist: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError means a state failed the schema check before transport.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("persist: invalid game state: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type SaveReceipt struct {
	SavedAt time.Time `json:"saved_at"`
}

// Store is the engine-facing gateway, bound to a single save slot. Save
// sees a snapshot only; implementations must not hold a reference past
// the call.
type Store interface {
	Save(ctx context.Context, s *state.GameState) (SaveReceipt, error)
	Load(ctx context.Context) (*state.GameState, error)
}
