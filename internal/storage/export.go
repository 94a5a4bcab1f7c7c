package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/astarviz/internal/trace"
)

var csvHeader = []string{"algorithm", "index", "frametime", "scaled_time", "kind", "col", "row", "path_length"}

// ExportCSV writes one row per event, lanes in registration order and
// events in recorded order. scaled_time is frametime times modifier;
// path_length is empty for events without a path.
func ExportCSV(w io.Writer, set trace.Set, modifier float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, a := range set.Present() {
		for i, ev := range set[a].Events {
			row := []string{
				a.Key(),
				strconv.Itoa(i),
				strconv.FormatFloat(ev.Time, 'g', -1, 64),
				strconv.FormatFloat(ev.Time*modifier, 'f', 6, 64),
				ev.Kind.String(),
				"", "", "",
			}
			if ev.HasPos {
				row[5] = strconv.Itoa(ev.Pos.Col)
				row[6] = strconv.Itoa(ev.Pos.Row)
			}
			if ev.Path != nil {
				row[7] = strconv.Itoa(len(ev.Path))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	Run    *RunMetadata            `json:"run,omitempty"`
	Traces map[string]*trace.Trace `json:"traces"`
}

// ExportJSON writes the run metadata and every trace in the solver wire
// format, keyed by algorithm.
func ExportJSON(w io.Writer, meta *RunMetadata, set trace.Set) error {
	data := ExportData{Run: meta, Traces: make(map[string]*trace.Trace)}
	for _, a := range set.Present() {
		data.Traces[a.Key()] = set[a]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
