package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/fieldsim/internal/metrics"
)

var MetricsHeader = []string{"step", "energy_like", "coherence_proxy"}

// FormatFloat writes the shortest round-tripping form of v the way Python's
// repr does: fixed notation with a trailing ".0" for whole numbers, and
// exponent notation below 1e-4 or from 1e16 up.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func WriteMetricsCSV(path string, rows []metrics.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := EncodeMetricsCSV(file, rows); err != nil {
		return err
	}
	return file.Close()
}

func EncodeMetricsCSV(out io.Writer, rows []metrics.Row) error {
	w := csv.NewWriter(out)
	if err := w.Write(MetricsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{strconv.Itoa(r.Step), FormatFloat(r.Energy), FormatFloat(r.Coherence)}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadMetricsCSV(path string) ([]metrics.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(MetricsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, path)
	}

	rows := make([]metrics.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LastMetricsRow returns the final diagnostics row of a metrics CSV.
func LastMetricsRow(path string) (metrics.Row, error) {
	rows, err := ReadMetricsCSV(path)
	if err != nil {
		return metrics.Row{}, err
	}
	return rows[len(rows)-1], nil
}

func parseRow(rec []string) (metrics.Row, error) {
	step, err := strconv.ParseFloat(rec[0], 64)
	if err != nil {
		return metrics.Row{}, err
	}
	energy, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return metrics.Row{}, err
	}
	coh, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return metrics.Row{}, err
	}
	return metrics.Row{Step: int(step), Energy: energy, Coherence: coh}, nil
}
