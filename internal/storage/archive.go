package storage

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/metrics"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Archive entry names. Arrays are NumPy .npy files inside a deflated zip, so
// the archive loads with numpy.load.
const (
	EntryU       = "u.npy"
	EntryV       = "v.npy"
	EntryMetrics = "metrics.npy"
	EntryParams  = "params.yaml"
)

var (
	ErrMissingEntry = errors.New("storage: archive entry missing")
	ErrNoRows       = errors.New("storage: no diagnostics rows")
)

// Archive is the persisted outcome of one run.
type Archive struct {
	Params *config.Params
	U, V   *field.Grid
	Rows   []metrics.Row
}

func WriteArchive(path string, a *Archive) (err error) {
	if !a.U.SameShape(a.V) {
		return field.ErrShapeMismatch
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	if err := writeNpy(zw, EntryU, a.U.Dense()); err != nil {
		return err
	}
	if err := writeNpy(zw, EntryV, a.V.Dense()); err != nil {
		return err
	}
	if len(a.Rows) > 0 {
		if err := writeNpy(zw, EntryMetrics, rowsMatrix(a.Rows)); err != nil {
			return err
		}
	}

	params, err := yaml.Marshal(a.Params)
	if err != nil {
		return err
	}
	w, err := create(zw, EntryParams)
	if err != nil {
		return err
	}
	if _, err := w.Write(params); err != nil {
		return err
	}

	return zw.Close()
}

func ReadArchive(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	a := &Archive{}
	if a.U, err = readGrid(entries, EntryU); err != nil {
		return nil, err
	}
	if a.V, err = readGrid(entries, EntryV); err != nil {
		return nil, err
	}

	if f, ok := entries[EntryMetrics]; ok {
		m, err := readNpy(f)
		if err != nil {
			return nil, err
		}
		a.Rows = matrixRows(m)
	}

	f, ok := entries[EntryParams]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, EntryParams)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	a.Params = &config.Params{}
	if err := yaml.Unmarshal(data, a.Params); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EntryParams, err)
	}

	return a, nil
}

func create(zw *zip.Writer, name string) (io.Writer, error) {
	return zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
}

func writeNpy(zw *zip.Writer, name string, m *mat.Dense) error {
	w, err := create(zw, name)
	if err != nil {
		return err
	}
	if err := npyio.Write(w, m); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

func readNpy(f *zip.File) (*mat.Dense, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var m mat.Dense
	if err := npyio.Read(rc, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return &m, nil
}

func readGrid(entries map[string]*zip.File, name string) (*field.Grid, error) {
	f, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
	}
	m, err := readNpy(f)
	if err != nil {
		return nil, err
	}
	return field.FromDense(m), nil
}

func rowsMatrix(rows []metrics.Row) *mat.Dense {
	m := mat.NewDense(len(rows), 3, nil)
	for i, r := range rows {
		m.Set(i, 0, float64(r.Step))
		m.Set(i, 1, r.Energy)
		m.Set(i, 2, r.Coherence)
	}
	return m
}

func matrixRows(m *mat.Dense) []metrics.Row {
	n, _ := m.Dims()
	rows := make([]metrics.Row, n)
	for i := range rows {
		rows[i] = metrics.Row{Step: int(m.At(i, 0)), Energy: m.At(i, 1), Coherence: m.At(i, 2)}
	}
	return rows
}
