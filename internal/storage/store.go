package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/astarviz/internal/trace"
)

var ErrNoTraces = errors.New("storage: run has no traces")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID             string             `json:"id"`
	Problem        string             `json:"problem"`
	Instance       string             `json:"instance"`
	MazePath       string             `json:"maze_path"`
	Timestamp      time.Time          `json:"timestamp"`
	Algorithms     []string           `json:"algorithms"`
	ExecutionTimes map[string]float64 `json:"execution_times"`
	Events         map[string]int     `json:"events"`
	Runs           int                `json:"runs"`
	Threads        int                `json:"threads"`
}

// Save writes metadata.json and one <algo>.json trace per present lane
// under a fresh run directory. Algorithms, execution times and event
// counts are filled from set.
func (s *Store) Save(meta RunMetadata, set trace.Set) (string, error) {
	if set.Len() == 0 {
		return "", ErrNoTraces
	}

	now := s.now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s-%s_%d", meta.Problem, meta.Instance, now.Unix()))
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Algorithms = nil
	meta.ExecutionTimes = make(map[string]float64)
	meta.Events = make(map[string]int)

	for _, a := range set.Present() {
		tr := set[a]
		meta.Algorithms = append(meta.Algorithms, a.Key())
		meta.ExecutionTimes[a.Key()] = tr.ExecutionTime
		meta.Events[a.Key()] = len(tr.Events)

		if err := writeJSON(filepath.Join(runDir, a.Key()+".json"), tr); err != nil {
			os.RemoveAll(runDir)
			return "", err
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// newRunDir creates base, or base.1, base.2, ... when runs share a second.
func (s *Store) newRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s.%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTraces reads back the traces of a run. Algorithms missing from the
// run stay nil in the returned set.
func (s *Store) LoadTraces(runID string) (*RunMetadata, trace.Set, error) {
	var set trace.Set
	meta, err := s.Load(runID)
	if err != nil {
		return nil, set, err
	}

	for _, key := range meta.Algorithms {
		a, err := trace.ParseAlgorithm(key)
		if err != nil {
			return nil, set, fmt.Errorf("storage: %s: %w", runID, err)
		}
		f, err := os.Open(filepath.Join(s.baseDir, runID, key+".json"))
		if err != nil {
			return nil, set, err
		}
		tr, err := trace.Decode(f)
		f.Close()
		if err != nil {
			return nil, set, fmt.Errorf("storage: %s/%s: %w", runID, key, err)
		}
		set[a] = tr
	}

	if set.Len() == 0 {
		return nil, set, fmt.Errorf("%w: %s", ErrNoTraces, runID)
	}
	return meta, set, nil
}
