package ledger

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ActionType is the kind of mutation recorded by a snapshot.
type ActionType string

const (
	ActionInit   ActionType = "init" // the state before the first recorded mutation
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
	ActionImport ActionType = "import"
)

// EntityType is the kind of entity a snapshot's mutation was about.
type EntityType string

const (
	EntityAccount     EntityType = "account"
	EntityTransaction EntityType = "transaction"
	EntityCategory    EntityType = "category"
	EntityCurrency    EntityType = "currency"
	EntityData        EntityType = "data"
)

// DefaultHistoryLimit is the number of snapshots kept by default.
const DefaultHistoryLimit = 100

// Snapshot is a ledger state recorded after a mutation.
type Snapshot struct {
	ID        string
	Timestamp time.Time
	Action    ActionType
	Entity    EntityType
	Name      string // Name is a human label of the mutated entity.
	state     *State
}

// State returns the state captured by the snapshot.
func (s Snapshot) State() *State { return s.state }

// Description returns a one line summary like "create account Wallet".
func (s Snapshot) Description() string {
	if s.Action == ActionInit {
		return "initial state"
	}
	if s.Name == "" {
		return fmt.Sprintf("%s %s", s.Action, s.Entity)
	}
	return fmt.Sprintf("%s %s %s", s.Action, s.Entity, s.Name)
}

// History is a linear log of snapshots with a cursor on the one matching the
// live state.
//
// An empty history has a single implicit state, the live one. The first
// recorded mutation makes it explicit as an ActionInit snapshot so that the
// mutation can be undone.
type History struct {
	snapshots []Snapshot
	cursor    int // -1 when empty
	limit     int // <= 0 means unbounded
}

func newHistory(limit int) *History {
	if limit > 0 && limit < 2 {
		limit = 2 // room for the initial state and one mutation.
	}
	return &History{cursor: -1, limit: limit}
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the current snapshot, -1 if the log is empty.
func (h *History) Cursor() int { return h.cursor }

// Limit returns the retention limit, 0 when unbounded.
func (h *History) Limit() int { return max(h.limit, 0) }

// CanUndo reports whether there is an older snapshot to go back to.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether there is a newer snapshot to go forward to.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Snapshots iterates over the log from the oldest snapshot.
func (h *History) Snapshots() iter.Seq2[int, Snapshot] {
	return func(yield func(int, Snapshot) bool) {
		for i, s := range h.snapshots {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Current returns the snapshot under the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.snapshots[h.cursor], true
}

// Snapshot returns the snapshot with id.
func (h *History) Snapshot(id string) (Snapshot, bool) {
	i := h.index(id)
	if i < 0 {
		return Snapshot{}, false
	}
	return h.snapshots[i], true
}

func (h *History) index(id string) int {
	return slices.IndexFunc(h.snapshots, func(s Snapshot) bool { return s.ID == id })
}

// record appends a snapshot of next, dropping snapshots after the cursor.
// prev is the state next was derived from, used as the initial state when
// the log is empty.
func (h *History) record(prev *State, s Snapshot) Snapshot {
	if len(h.snapshots) == 0 {
		h.snapshots = append(h.snapshots, Snapshot{
			ID:        uuid.NewString(),
			Timestamp: s.Timestamp,
			Action:    ActionInit,
			Entity:    EntityData,
			state:     prev,
		})
		h.cursor = 0
	}
	h.snapshots = append(h.snapshots[:h.cursor+1], s)
	h.cursor = len(h.snapshots) - 1
	if h.limit > 0 && len(h.snapshots) > h.limit {
		n := len(h.snapshots) - h.limit
		h.snapshots = slices.Delete(h.snapshots, 0, n)
		h.cursor -= n
	}
	return s
}

// undo moves the cursor back and returns the snapshot to restore.
func (h *History) undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// redo moves the cursor forward and returns the snapshot to restore.
func (h *History) redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// restore moves the cursor onto the snapshot with id. The log is kept as is,
// so undo and redo keep walking the same line afterward.
func (h *History) restore(id string) (Snapshot, error) {
	i := h.index(id)
	if i < 0 {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrNotFound)
	}
	h.cursor = i
	return h.snapshots[i], nil
}

func (h *History) clear() {
	h.snapshots = nil
	h.cursor = -1
}
