package trace

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownKind      = errors.New("trace: unknown event kind")
	ErrUnknownAlgorithm = errors.New("trace: unknown algorithm")
)

// Algorithm identifies a solver variant. The declaration order is the
// lane order used for layout.
type Algorithm int

const (
	Sequential Algorithm = iota
	ParallelExhaustive
	ParallelFirst

	NumAlgorithms
)

// Algorithms returns every algorithm in registration order.
func Algorithms() []Algorithm {
	return []Algorithm{Sequential, ParallelExhaustive, ParallelFirst}
}

// String returns the lane label.
func (a Algorithm) String() string {
	switch a {
	case Sequential:
		return "Seq"
	case ParallelExhaustive:
		return "Par-Ex"
	case ParallelFirst:
		return "Par-P"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Key returns the lowercase name used on the command line and in file names.
func (a Algorithm) Key() string {
	switch a {
	case Sequential:
		return "seq"
	case ParallelExhaustive:
		return "par-ex"
	case ParallelFirst:
		return "par-p"
	}
	return fmt.Sprintf("algo%d", int(a))
}

func (a Algorithm) Valid() bool {
	return a >= Sequential && a < NumAlgorithms
}

func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if s == a.Key() {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Kind is the type of a trace event.
type Kind int

const (
	Visited Kind = iota
	Successor
	Goal
	End
)

func (k Kind) String() string {
	switch k {
	case Visited:
		return "visited"
	case Successor:
		return "successor"
	case Goal:
		return "goal"
	case End:
		return "end"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	return k >= Visited && k <= End
}

// Drawable reports whether events of this kind place a marker.
func (k Kind) Drawable() bool {
	return k.Valid() && k != End
}

// ParseKind accepts the solver's "sucessor" spelling as well as the
// correct one.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "visited":
		return Visited, nil
	case "successor", "sucessor":
		return Successor, nil
	case "goal":
		return Goal, nil
	case "end":
		return End, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Pos is a grid coordinate.
type Pos struct {
	Col, Row int
}

type Event struct {
	Time   float64
	Kind   Kind
	Pos    Pos
	HasPos bool
	// Path is the best path known when the event was emitted. A nil Path
	// means the event carried none; an empty one clears the current path.
	Path []Pos
}

// Trace is one solver run.
type Trace struct {
	ExecutionTime float64
	Events        []Event
}

// Sorted returns the events ordered by timestamp. Events with equal
// timestamps keep their recorded order.
func (t *Trace) Sorted() []Event {
	events := make([]Event, len(t.Events))
	copy(events, t.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}

// Set holds at most one trace per algorithm. A nil entry means the
// algorithm did not take part in the run.
type Set [NumAlgorithms]*Trace

// Len returns the number of participating algorithms.
func (s Set) Len() int {
	n := 0
	for _, t := range s {
		if t != nil {
			n++
		}
	}
	return n
}

// Present returns the participating algorithms in registration order.
func (s Set) Present() []Algorithm {
	algos := make([]Algorithm, 0, len(s))
	for _, a := range Algorithms() {
		if s[a] != nil {
			algos = append(algos, a)
		}
	}
	return algos
}
