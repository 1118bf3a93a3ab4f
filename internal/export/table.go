package export

import (
	"encoding/csv"
	"io"

	"github.com/rick2x/fieldprofiler/domain/profile"
)

// Table lays profiling records out as one row per field with one column per
// statistic key, the union of keys across all records, shared keys first.
type Table struct {
	Header []string
	Rows   [][]string
}

// BuildTable flattens records into tabular form. Column order is the order
// keys first appeared across the records, which keeps the shared statistics
// leftmost since every record emits them first.
func BuildTable(records []*profile.Record, precision int) Table {
	var keys []profile.Key
	seen := make(map[profile.Key]struct{})
	for _, rec := range records {
		for _, s := range rec.Stats() {
			if _, ok := seen[s.Key]; !ok {
				seen[s.Key] = struct{}{}
				keys = append(keys, s.Key)
			}
		}
	}

	header := make([]string, 0, len(keys)+3)
	header = append(header, "field", "storage_type", "working_type")
	for _, k := range keys {
		header = append(header, string(k))
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, 0, len(header))
		row = append(row, rec.Field, string(rec.Storage), string(rec.Working))
		for _, k := range keys {
			s, ok := rec.Get(k)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, RenderStat(s, precision))
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

// WriteCSV writes the table as RFC 4180 CSV.
func WriteCSV(w io.Writer, t Table) error {
	return writeDelimited(w, t, ',')
}

// WriteTSV writes the table tab-separated.
func WriteTSV(w io.Writer, t Table) error {
	return writeDelimited(w, t, '\t')
}

func writeDelimited(w io.Writer, t Table, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
