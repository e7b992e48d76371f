// Package tablefile persists the result tables of a pipeline run as CSV files
// in one directory. The events table is split into two halves. Nested values
// (locations, tactics, freeze frames, rosters) are stored as JSON cells.
package tablefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pable/go-soccer-metrics/internal/model"
)

// File names inside a table directory.
const (
	EventsFirstHalf  = "events_1.csv"
	EventsSecondHalf = "events_2.csv"
	HighLevelKPIs    = "high_level_kpis.csv"
	CenterEvents     = "center_events.csv"
	GoalsXG          = "goals_xg.csv"
	AssistsXG        = "assists_xg.csv"
	PassedOpponents  = "passed_opponents.csv"
)

// Exists reports whether dir holds a previous run. Only the first events file
// is checked.
func Exists(dir string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, EventsFirstHalf))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat table dir: %w", err)
}

// Write stores every table of res under dir, creating it if needed. The gate
// file is written last so an interrupted write is not mistaken for a
// complete run.
func Write(dir string, res *model.Results) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	half := len(res.Events) / 2
	steps := []struct {
		name  string
		write func(io.Writer) error
	}{
		{EventsSecondHalf, func(w io.Writer) error { return writeTable(w, eventColumns, res.Events[half:]) }},
		{HighLevelKPIs, func(w io.Writer) error { return writeTable(w, kpiColumns, res.KPIs) }},
		{CenterEvents, func(w io.Writer) error { return writeTable(w, centerColumns, res.CenterEvents) }},
		{GoalsXG, func(w io.Writer) error { return writeTable(w, goalsColumns, res.GoalsXG) }},
		{AssistsXG, func(w io.Writer) error { return writeTable(w, assistColumns, res.AssistsXG) }},
		{PassedOpponents, func(w io.Writer) error { return writeTable(w, passedColumns, res.PassedOpponents) }},
		{EventsFirstHalf, func(w io.Writer) error { return writeTable(w, eventColumns, res.Events[:half]) }},
	}
	for _, s := range steps {
		if err := writeFile(filepath.Join(dir, s.name), s.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Read loads every table from dir.
func Read(dir string) (*model.Results, error) {
	var res model.Results
	first, err := readFile(dir, EventsFirstHalf, eventColumns)
	if err != nil {
		return nil, err
	}
	second, err := readFile(dir, EventsSecondHalf, eventColumns)
	if err != nil {
		return nil, err
	}
	res.Events = append(first, second...)
	if res.KPIs, err = readFile(dir, HighLevelKPIs, kpiColumns); err != nil {
		return nil, err
	}
	if res.CenterEvents, err = readFile(dir, CenterEvents, centerColumns); err != nil {
		return nil, err
	}
	if res.GoalsXG, err = readFile(dir, GoalsXG, goalsColumns); err != nil {
		return nil, err
	}
	if res.AssistsXG, err = readFile(dir, AssistsXG, assistColumns); err != nil {
		return nil, err
	}
	if res.PassedOpponents, err = readFile(dir, PassedOpponents, passedColumns); err != nil {
		return nil, err
	}
	return &res, nil
}

func readFile[T any](dir, name string, cols []column[T]) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	rows, err := readTable(f, cols)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}

func writeTable[T any](w io.Writer, cols []column[T], rows []T) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range rows {
		rec, err := encodeRow(cols, &rows[i])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readTable decodes rows by header name, so column order and extra columns
// do not matter. Every known column must be present.
func readTable[T any](r io.Reader, cols []column[T]) ([]T, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", model.ErrMissingRequiredColumn)
	}
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		p, ok := pos[c.name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrMissingRequiredColumn, c.name)
		}
		idx[i] = p
	}

	var out []T
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var row T
		for i, c := range cols {
			if err := c.set(&row, rec[idx[i]]); err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, c.name, err)
			}
		}
		out = append(out, row)
	}
	return out, nil
}
