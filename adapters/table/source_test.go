package table

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layer.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const citiesCSV = `name,population,founded,active
Springfield,30720,1821-05-01,true
Shelbyville,12000,1839-11-20,false
Capital City,,1790-07-16,true
Ogdenville,4500,,true
`

func TestOpenCSV(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}
	if src.Layer() != "layer" {
		t.Errorf("layer = %q, want layer", src.Layer())
	}
	if src.RecordCount() != 4 {
		t.Errorf("record count = %d, want 4", src.RecordCount())
	}

	infos, err := src.Fields(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]field.StorageType{
		"name":       field.StorageString,
		"population": field.StorageNumeric,
		"founded":    field.StorageDate,
		"active":     field.StorageBoolean,
	}
	if len(infos) != len(want) {
		t.Fatalf("fields = %v", infos)
	}
	for _, info := range infos {
		if want[info.Name] != info.Storage {
			t.Errorf("field %s storage = %v, want %v", info.Name, info.Storage, want[info.Name])
		}
	}
}

func TestExtractTypedValues(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}

	set, err := src.Extract(context.Background(), "population", profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 4 {
		t.Fatalf("set length = %d, want 4", set.Len())
	}
	entries := set.Entries()
	if f, ok := entries[0].Value.Number(); !ok || f != 30720 {
		t.Errorf("row 1 population = %v, want 30720", entries[0].Value)
	}
	// Empty numeric cells extract as NULL, not zero.
	if !entries[2].Value.IsNull() {
		t.Errorf("row 3 population = %v, want NULL", entries[2].Value)
	}
}

func TestExtractEmptyTemporalCellIsNull(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}
	set, err := src.Extract(context.Background(), "founded", profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if !set.Entries()[3].Value.IsNull() {
		t.Error("empty date cell should extract as NULL")
	}
	if set.NullCount() != 1 {
		t.Errorf("null count = %d, want 1", set.NullCount())
	}
}

func TestExtractScope(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}
	scope := profile.SelectedRecords([]field.RecordID{2, 4})
	set, err := src.Extract(context.Background(), "name", scope)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 {
		t.Fatalf("scoped set length = %d, want 2", set.Len())
	}
	if set.Entries()[0].ID != 2 || set.Entries()[1].ID != 4 {
		t.Errorf("scoped IDs = %v, %v, want 2, 4", set.Entries()[0].ID, set.Entries()[1].ID)
	}
}

func TestExtractUnknownField(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}
	_, err = src.Extract(context.Background(), "elevation", profile.AllRecords())
	if !core.IsNotFoundError(err) {
		t.Errorf("err = %v, want field-not-found", err)
	}
}

func TestSelectWhere(t *testing.T) {
	src, err := Open(writeCSV(t, citiesCSV))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	nulls, err := src.SelectWhere(ctx, profile.Condition{Field: "founded", Op: profile.OpIsNull}, profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if len(nulls) != 1 || nulls[0] != 4 {
		t.Errorf("IS NULL ids = %v, want [4]", nulls)
	}

	equals, err := src.SelectWhere(ctx, profile.Condition{
		Field: "name", Op: profile.OpEquals, Value: field.Text("Springfield"),
	}, profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if len(equals) != 1 || equals[0] != 1 {
		t.Errorf("equals ids = %v, want [1]", equals)
	}

	bounded, err := src.SelectWhere(ctx, profile.Condition{
		Field: "population", Op: profile.OpOutsideBounds, Lower: 5000, Upper: 20000,
	}, profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if len(bounded) != 2 || bounded[0] != 1 || bounded[1] != 4 {
		t.Errorf("outside-bounds ids = %v, want [1 4]", bounded)
	}

	_, err = src.SelectWhere(ctx, profile.Condition{Field: "gone", Op: profile.OpIsNull}, profile.AllRecords())
	if !core.IsNotFoundError(err) {
		t.Errorf("err = %v, want field-not-found", err)
	}
}

func TestSelectWhereNotTrimmed(t *testing.T) {
	src, err := Open(writeCSV(t, "label\nclean\n padded\nalso \n"))
	if err != nil {
		t.Fatal(err)
	}
	ids, err := src.SelectWhere(context.Background(), profile.Condition{
		Field: "label", Op: profile.OpNotTrimmed,
	}, profile.AllRecords())
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("not-trimmed ids = %v, want [2 3]", ids)
	}
}
