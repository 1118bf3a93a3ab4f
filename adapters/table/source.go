// Package table provides a file-backed layer source reading Excel and CSV
// files fully into memory. Record IDs are 1-based data-row numbers, stable
// for the lifetime of the source.
package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/classify"
)

// typeSampleSize caps how many rows storage-type inference examines per column.
const typeSampleSize = 500

// Source is an in-memory layer loaded from an .xlsx or .csv file.
type Source struct {
	layer   string
	infos   []field.Info
	columns map[string][]field.Value // column name -> per-row values
	rowIDs  []field.RecordID
}

// Open loads a layer file. The extension selects the reader; anything that is
// not .csv goes through the Excel path.
func Open(path string) (*Source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("layer file not found: %s", path)
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		rows, err = readCSV(path)
	} else {
		rows, err = readExcel(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("layer file %s has no header row", path)
	}

	layer := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return build(layer, rows), nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// build turns raw string rows into typed columns. Storage types come from
// sampling each column's cells; cells then parse against the inferred
// storage, falling back to text when a cell refuses its column's type so the
// numeric analyzer can count it as a conversion error.
func build(layer string, rows [][]string) *Source {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	data := rows[1:]

	s := &Source{
		layer:   layer,
		columns: make(map[string][]field.Value, len(headers)),
		rowIDs:  make([]field.RecordID, len(data)),
	}
	for i := range data {
		s.rowIDs[i] = field.RecordID(i + 1)
	}

	for col, name := range headers {
		if name == "" {
			name = fmt.Sprintf("column_%d", col+1)
		}
		cells := make([]string, len(data))
		for i, row := range data {
			if col < len(row) {
				cells[i] = row[col]
			}
		}
		storage := inferStorage(cells)
		values := make([]field.Value, len(cells))
		for i, cell := range cells {
			values[i] = parseCell(cell, storage)
		}
		s.infos = append(s.infos, field.Info{Name: name, Storage: storage})
		s.columns[name] = values
	}
	return s
}

// inferStorage samples a column's cells and picks the dominant parse. Empty
// cells don't vote; a column needs 95% agreement to claim a non-string type.
func inferStorage(cells []string) field.StorageType {
	sample := cells
	if len(sample) > typeSampleSize {
		sample = sample[:typeSampleSize]
	}

	var nonEmpty, numeric, boolean, temporal, withTime int
	for _, cell := range sample {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		nonEmpty++
		if _, ok := classify.ParseBool(v); ok {
			boolean++
		}
		if _, ok := classify.ParseNumber(v); ok {
			numeric++
		}
		if _, hasTime, ok := classify.ParseTemporal(v); ok {
			temporal++
			if hasTime {
				withTime++
			}
		}
	}
	if nonEmpty == 0 {
		return field.StorageString
	}

	threshold := int(float64(nonEmpty)*0.95 + 0.5)
	switch {
	case boolean >= threshold && boolean > numeric:
		return field.StorageBoolean
	case numeric >= threshold:
		return field.StorageNumeric
	case temporal >= threshold && withTime*2 > temporal:
		return field.StorageDateTime
	case temporal >= threshold:
		return field.StorageDate
	}
	return field.StorageString
}

// parseCell converts one raw cell against its column's storage type. An empty
// cell is NULL except in string columns, where it stays an empty string; the
// distinction feeds separate data-quality statistics downstream.
func parseCell(cell string, storage field.StorageType) field.Value {
	trimmed := strings.TrimSpace(cell)
	switch storage {
	case field.StorageNumeric:
		if trimmed == "" {
			return field.Null()
		}
		if f, ok := classify.ParseNumber(trimmed); ok {
			return field.Number(f)
		}
		return field.Text(cell)
	case field.StorageBoolean:
		if trimmed == "" {
			return field.Null()
		}
		if b, ok := classify.ParseBool(trimmed); ok {
			return field.Bool(b)
		}
		return field.Text(cell)
	case field.StorageDate, field.StorageDateTime:
		if trimmed == "" {
			return field.Null()
		}
		if t, hasTime, ok := classify.ParseTemporal(trimmed); ok {
			if hasTime {
				return field.DateTime(t)
			}
			return field.Date(t)
		}
		return field.Text(cell)
	}
	return field.Text(cell)
}

// Layer returns the layer name derived from the file name.
func (s *Source) Layer() string { return s.layer }

// RecordCount returns the number of data rows.
func (s *Source) RecordCount() int { return len(s.rowIDs) }

// Fields lists the layer's columns with their inferred storage types.
func (s *Source) Fields(_ context.Context) ([]field.Info, error) {
	out := make([]field.Info, len(s.infos))
	copy(out, s.infos)
	return out, nil
}

// Extract returns one column's values over the given scope.
func (s *Source) Extract(_ context.Context, fieldName string, scope profile.Scope) (*field.ValueSet, error) {
	values, ok := s.columns[fieldName]
	if !ok {
		return nil, core.NewFieldNotFoundError(fieldName)
	}
	set := field.NewValueSet(len(values))
	for i, id := range s.rowIDs {
		if scope.Contains(id) {
			set.Append(id, values[i])
		}
	}
	return set, nil
}

// SelectWhere evaluates a condition in memory over the given scope.
func (s *Source) SelectWhere(_ context.Context, cond profile.Condition, scope profile.Scope) ([]field.RecordID, error) {
	values, ok := s.columns[cond.Field]
	if !ok {
		return nil, core.NewFieldNotFoundError(cond.Field)
	}
	var ids []field.RecordID
	for i, id := range s.rowIDs {
		if !scope.Contains(id) {
			continue
		}
		if matches(values[i], cond) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func matches(v field.Value, cond profile.Condition) bool {
	switch cond.Op {
	case profile.OpIsNull:
		return v.IsNull()
	case profile.OpEquals:
		if cond.Value.IsNull() {
			return v.IsNull()
		}
		return v.Equal(cond.Value)
	case profile.OpNotTrimmed:
		s, ok := v.Text()
		if !ok || s == "" {
			return false
		}
		return strings.TrimSpace(s) != s
	case profile.OpOutsideBounds:
		f, ok := v.Number()
		if !ok {
			return false
		}
		return f < cond.Lower || f > cond.Upper
	}
	return false
}
