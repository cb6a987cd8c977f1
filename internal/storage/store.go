package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/metrics"
	"github.com/san-kum/fieldsim/internal/sim"
)

// Store resolves output stems relative to a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "."
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Paths are the files written for one output stem.
type Paths struct {
	Archive string
	Metrics string
}

func (s *Store) Paths(out string) Paths {
	stem := out
	if !filepath.IsAbs(stem) {
		stem = filepath.Join(s.baseDir, stem)
	}
	return Paths{Archive: stem + ".npz", Metrics: stem + "_metrics.csv"}
}

// Save writes the archive and the metrics table for a finished run.
func (s *Store) Save(result *sim.Result) (Paths, error) {
	paths := s.Paths(result.Params.Out)

	a := &Archive{
		Params: result.Params,
		U:      result.State.U,
		V:      result.State.V,
		Rows:   result.Rows,
	}
	if err := WriteArchive(paths.Archive, a); err != nil {
		return paths, err
	}
	if err := WriteMetricsCSV(paths.Metrics, result.Rows); err != nil {
		return paths, err
	}
	return paths, nil
}

type RunInfo struct {
	Name     string         `json:"name"`
	Modified time.Time      `json:"modified"`
	Params   *config.Params `json:"params"`
	Final    metrics.Row    `json:"final"`
}

// List returns the archives in the base directory, newest first. Files that
// fail to decode are skipped.
func (s *Store) List() ([]RunInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunInfo{}, nil
		}
		return nil, err
	}

	runs := make([]RunInfo, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".npz") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		a, err := ReadArchive(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}

		run := RunInfo{
			Name:     strings.TrimSuffix(entry.Name(), ".npz"),
			Modified: info.ModTime(),
			Params:   a.Params,
		}
		if len(a.Rows) > 0 {
			run.Final = a.Rows[len(a.Rows)-1]
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Modified.After(runs[j].Modified) })
	return runs, nil
}
