package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// This file persists a whole ledger session: the live state and the history
// log, so that undo survives between two runs of a short lived program.
//
// The format is a single JSON object:
//
//	{"version":1, "state":{<document>}, "cursor":2, "history":[{"id":..., "state":{<document>}}, ...]}
//
// History entries whose state is the live one are written without a state
// and carry "live":true instead, which keeps the common case small.

type jsnapshot struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Action    ActionType `json:"action"`
	Entity    EntityType `json:"entity"`
	Name      string     `json:"name,omitempty"`
	Live      bool       `json:"live,omitempty"`
	State     *Document  `json:"state,omitempty"`
}

type jsession struct {
	Version int         `json:"version"`
	State   Document    `json:"state"`
	Limit   int         `json:"limit,omitempty"`
	Cursor  int         `json:"cursor"`
	History []jsnapshot `json:"history"`
}

// EncodeLedger writes the ledger state and history to w.
func EncodeLedger(w io.Writer, l *Ledger) error {
	js := jsession{
		Version: DocumentVersion,
		State:   l.state.document(),
		Limit:   l.history.Limit(),
		Cursor:  l.history.cursor,
		History: make([]jsnapshot, 0, l.history.Len()),
	}
	for _, s := range l.history.snapshots {
		j := jsnapshot{
			ID:        s.ID,
			Timestamp: s.Timestamp,
			Action:    s.Action,
			Entity:    s.Entity,
			Name:      s.Name,
		}
		if s.state == l.state {
			j.Live = true
		} else {
			doc := s.state.document()
			j.State = &doc
		}
		js.History = append(js.History, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(js); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return nil
}

// DecodeLedger reads a ledger written by EncodeLedger. Options apply as for
// NewLedger, except the main currency which comes from the stream, and the
// history limit which defaults to the recorded one.
func DecodeLedger(r io.Reader, opts ...Option) (*Ledger, error) {
	var js jsession
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	opts = append([]Option{WithHistoryLimit(js.Limit)}, opts...)
	c := newConfig(opts)

	live, err := newStateFromDocument(js.State, c.clock)
	if err != nil {
		return nil, fmt.Errorf("live state: %w", err)
	}
	h := newHistory(c.historyLimit)
	for i, j := range js.History {
		state := live
		if !j.Live {
			if j.State == nil {
				return nil, fmt.Errorf("%w: snapshot %d has no state", ErrInvalidDocument, i)
			}
			if state, err = newStateFromDocument(*j.State, c.clock); err != nil {
				return nil, fmt.Errorf("snapshot %q: %w", j.ID, err)
			}
		}
		h.snapshots = append(h.snapshots, Snapshot{
			ID:        j.ID,
			Timestamp: j.Timestamp,
			Action:    j.Action,
			Entity:    j.Entity,
			Name:      j.Name,
			state:     state,
		})
	}
	h.cursor = js.Cursor
	if h.cursor < -1 || h.cursor >= len(h.snapshots) || (h.cursor == -1) != (len(h.snapshots) == 0) {
		return nil, fmt.Errorf("%w: history cursor %d out of %d snapshots", ErrInvalidDocument, js.Cursor, len(h.snapshots))
	}
	// the cursor snapshot and the live state are one and the same.
	if h.cursor >= 0 {
		h.snapshots[h.cursor].state = live
	}
	return &Ledger{
		state:   live,
		history: h,
		log:     c.logger,
		clock:   c.clock,
	}, nil
}
