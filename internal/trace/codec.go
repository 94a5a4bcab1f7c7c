package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrMissingAction = errors.New("trace: entry has no action")

// MarshalJSON writes a position as [col, row].
func (p Pos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Col, p.Row})
}

func (p *Pos) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("trace: position: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("trace: position has %d coordinates, want 2", len(xy))
	}
	p.Col, p.Row = xy[0], xy[1]
	return nil
}

// Solvers print either the nested form
//
//	{"frametime": t, "action": "visited", "data": {"position": [c, r], "path": [...]}}
//
// or the flat form with "type", "position" and "path" at the top level.
type wireEvent struct {
	Frametime float64   `json:"frametime"`
	Action    string    `json:"action,omitempty"`
	Type      string    `json:"type,omitempty"`
	Data      *wireData `json:"data,omitempty"`
	Position  *Pos      `json:"position,omitempty"`
	Path      []Pos     `json:"path,omitempty"`
}

type wireData struct {
	Position *Pos  `json:"position,omitempty"`
	Path     []Pos `json:"path"`
}

type wireTrace struct {
	ExecutionTime float64           `json:"execution_time"`
	Entries       []json.RawMessage `json:"entries"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{Frametime: e.Time, Action: e.Kind.String()}
	if e.HasPos || e.Path != nil {
		w.Data = &wireData{Path: e.Path}
		if e.HasPos {
			pos := e.Pos
			w.Data.Position = &pos
		}
	}
	return json.Marshal(w)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	action := w.Action
	if action == "" {
		action = w.Type
	}
	if action == "" {
		return ErrMissingAction
	}
	kind, err := ParseKind(action)
	if err != nil {
		return err
	}

	*e = Event{Time: w.Frametime, Kind: kind}

	pos, path := w.Position, w.Path
	if w.Data != nil {
		if w.Data.Position != nil {
			pos = w.Data.Position
		}
		if w.Data.Path != nil {
			path = w.Data.Path
		}
	}
	if pos != nil {
		e.Pos = *pos
		e.HasPos = true
	}
	e.Path = path
	return nil
}

func (t Trace) MarshalJSON() ([]byte, error) {
	entries := make([]json.RawMessage, len(t.Events))
	for i, ev := range t.Events {
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		entries[i] = raw
	}
	return json.Marshal(wireTrace{ExecutionTime: t.ExecutionTime, Entries: entries})
}

// UnmarshalJSON decodes entries one at a time so a bad entry is reported
// with its index.
func (t *Trace) UnmarshalJSON(data []byte) error {
	var w wireTrace
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	events := make([]Event, len(w.Entries))
	for i, raw := range w.Entries {
		if err := json.Unmarshal(raw, &events[i]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	t.ExecutionTime = w.ExecutionTime
	t.Events = events
	return nil
}

// Decode reads one JSON trace document.
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	return &t, nil
}

// Parse decodes solver output, ignoring surrounding whitespace.
func Parse(output []byte) (*Trace, error) {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil, fmt.Errorf("trace: decode: empty output")
	}
	return Decode(bytes.NewReader(output))
}
