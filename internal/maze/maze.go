// Package maze loads maze instances and rasterizes them into board images.
package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrEmpty  = errors.New("maze: no rows")
	ErrRagged = errors.New("maze: rows have different lengths")
)

type Cell uint8

const (
	Empty Cell = iota
	Wall
	Path
)

// CellFor maps a layout character to a cell: '.' is empty, 'X' is a
// wall, anything else is part of a path.
func CellFor(ch rune) Cell {
	switch ch {
	case '.':
		return Empty
	case 'X':
		return Wall
	default:
		return Path
	}
}

// Maze is an immutable rectangular grid.
type Maze struct {
	Cols, Rows int
	cells      []Cell
}

func Parse(r io.Reader) (*Maze, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("maze: read: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmpty
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("maze: read: %w", err)
	}

	cols := len([]rune(lines[0]))
	m := &Maze{Cols: cols, Rows: len(lines), cells: make([]Cell, 0, cols*len(lines))}
	for row, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRagged, row, len(runes), cols)
		}
		for _, ch := range runes {
			m.cells = append(m.cells, CellFor(ch))
		}
	}
	return m, nil
}

func Load(path string) (*Maze, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// InstancePath returns where the solvers expect instance files.
func InstancePath(instance string) string {
	return "./instances/maze_" + instance
}

func (m *Maze) InBounds(col, row int) bool {
	return col >= 0 && col < m.Cols && row >= 0 && row < m.Rows
}

// At returns the cell at (col, row). Out-of-range coordinates are Empty.
func (m *Maze) At(col, row int) Cell {
	if !m.InBounds(col, row) {
		return Empty
	}
	return m.cells[row*m.Cols+col]
}

func (m *Maze) String() string {
	var b strings.Builder
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			switch m.At(col, row) {
			case Empty:
				b.WriteByte('.')
			case Wall:
				b.WriteByte('X')
			case Path:
				b.WriteByte('c')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
