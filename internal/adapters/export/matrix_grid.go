package export

import (
	"archive-route-service/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Labels returns the row/column labels for a location list, optionally anonymised.
func Labels(locations []*domain.PhysicalLocation, anonymise bool) []string {
	labels := make([]string, len(locations))
	for i, loc := range locations {
		if anonymise {
			labels[i] = loc.AnonymousName()
		} else {
			labels[i] = loc.Name
		}
	}
	return labels
}

// WriteMatrixGrid writes one matrix as a CSV grid with a header row and a
// header column of labels. The diagonal is written as the round trip through
// the depot (index 0).
func WriteMatrixGrid(w io.Writer, labels []string, grid [][]float64) error {
	n := len(labels)
	if len(grid) != n {
		return fmt.Errorf("write matrix grid: %d labels for %d rows", n, len(grid))
	}
	for i, row := range grid {
		if len(row) != n {
			return fmt.Errorf("write matrix grid: row %d has %d values, want %d", i, len(row), n)
		}
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, n+1)
	header = append(header, "")
	header = append(header, labels...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write matrix grid: header: %w", err)
	}

	out := domain.DepotRoundTrip(grid)
	for i, row := range out {
		rec := make([]string, 0, n+1)
		rec = append(rec, labels[i])
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write matrix grid: row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write matrix grid: flush: %w", err)
	}
	return nil
}

// ReadMatrixGrid reads a grid written by WriteMatrixGrid, values as stored.
// Rows end at the first blank row label; columns at the first blank header label.
func ReadMatrixGrid(r io.Reader) ([]string, [][]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read matrix grid: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("read matrix grid: missing header row")
	}

	labels := make([]string, 0, len(records[0]))
	for _, h := range records[0][1:] {
		if strings.TrimSpace(h) == "" {
			break
		}
		labels = append(labels, h)
	}
	n := len(labels)

	grid := make([][]float64, 0, n)
	for i, rec := range records[1:] {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			break
		}
		if len(rec) < n+1 {
			return nil, nil, fmt.Errorf("read matrix grid: row %d has %d values, want %d", i+2, len(rec)-1, n)
		}
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j+1]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("read matrix grid: row %d col %d: %w", i+2, j+2, err)
			}
			row[j] = v
		}
		grid = append(grid, row)
	}

	if len(grid) != n {
		return nil, nil, fmt.Errorf("read matrix grid: %d rows for %d columns", len(grid), n)
	}

	return labels, grid, nil
}
