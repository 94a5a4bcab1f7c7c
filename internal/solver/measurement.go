// Package solver runs the maze solver binaries and keeps the fastest
// trace of each algorithm.
package solver

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/trace"
)

// Measurement identifies one solver invocation.
type Measurement struct {
	Problem   string
	Instance  string
	Algorithm trace.Algorithm
	Threads   int
}

// Binary is ./<problem>/bin/<problem>.
func (m Measurement) Binary() string {
	return "./" + filepath.ToSlash(filepath.Join(m.Problem, "bin", m.Problem))
}

// Args builds the solver flags. Parallel runs get -n only when Threads is
// positive, and Par-P adds -p in front of it.
func (m Measurement) Args() []string {
	var args []string
	if m.Algorithm != trace.Sequential && m.Threads > 0 {
		if m.Algorithm == trace.ParallelFirst {
			args = append(args, "-p")
		}
		args = append(args, "-n", strconv.Itoa(m.Threads))
	}
	return append(args, maze.InstancePath(m.Instance))
}

// Command returns the binary and its arguments as one printable line.
func (m Measurement) Command() string {
	return m.Binary() + " " + strings.Join(m.Args(), " ")
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s/%s [%s]", m.Problem, m.Instance, m.Algorithm)
}

// ParseSelection maps seq, par-ex, par-p or all onto the algorithms to
// measure, in lane order.
func ParseSelection(s string) ([]trace.Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return trace.Algorithms(), nil
	}
	a, err := trace.ParseAlgorithm(s)
	if err != nil {
		return nil, err
	}
	return []trace.Algorithm{a}, nil
}
