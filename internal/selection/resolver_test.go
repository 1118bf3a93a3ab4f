package selection

import (
	"context"
	"strings"
	"testing"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

// memorySource is an in-memory layer over one field's entries.
type memorySource struct {
	fieldName string
	entries   []field.Entry
}

func (m *memorySource) Fields(context.Context) ([]field.Info, error) {
	return []field.Info{{Name: m.fieldName, Storage: field.StorageString}}, nil
}

func (m *memorySource) Extract(_ context.Context, fieldName string, scope profile.Scope) (*field.ValueSet, error) {
	if fieldName != m.fieldName {
		return nil, core.NewFieldNotFoundError(fieldName)
	}
	set := field.NewValueSet(len(m.entries))
	for _, e := range m.entries {
		if scope.Contains(e.ID) {
			set.Append(e.ID, e.Value)
		}
	}
	return set, nil
}

func (m *memorySource) SelectWhere(_ context.Context, cond profile.Condition, scope profile.Scope) ([]field.RecordID, error) {
	if cond.Field != m.fieldName {
		return nil, core.NewFieldNotFoundError(cond.Field)
	}
	var ids []field.RecordID
	for _, e := range m.entries {
		if !scope.Contains(e.ID) {
			continue
		}
		match := false
		switch cond.Op {
		case profile.OpIsNull:
			match = e.Value.IsNull()
		case profile.OpEquals:
			match = e.Value.Equal(cond.Value)
		case profile.OpNotTrimmed:
			s, ok := e.Value.Text()
			match = ok && s != "" && strings.TrimSpace(s) != s
		case profile.OpOutsideBounds:
			f, ok := e.Value.Number()
			match = ok && (f < cond.Lower || f > cond.Upper)
		}
		if match {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

func testSource() *memorySource {
	return &memorySource{
		fieldName: "name",
		entries: []field.Entry{
			{ID: 1, Value: field.Text("alpha")},
			{ID: 2, Value: field.Null()},
			{ID: 3, Value: field.Text("beta ")},
			{ID: 4, Value: field.Null()},
			{ID: 5, Value: field.Text("alpha")},
		},
	}
}

func TestResolveIDEvidence(t *testing.T) {
	r := NewResolver(testSource())
	result := r.Resolve(context.Background(), profile.IDEvidence([]field.RecordID{5, 1, 3}), profile.AllRecords())

	if result.Stale {
		t.Fatalf("unexpected stale result: %s", result.Reason)
	}
	want := []field.RecordID{1, 3, 5}
	if len(result.IDs) != len(want) {
		t.Fatalf("IDs = %v, want %v", result.IDs, want)
	}
	for i := range want {
		if result.IDs[i] != want[i] {
			t.Fatalf("IDs = %v, want %v (sorted)", result.IDs, want)
		}
	}
}

func TestResolveIDEvidenceIntersectsSelection(t *testing.T) {
	r := NewResolver(testSource())
	scope := profile.SelectedRecords([]field.RecordID{1, 2})
	result := r.Resolve(context.Background(), profile.IDEvidence([]field.RecordID{1, 3, 5}), scope)

	if result.Stale {
		t.Fatalf("unexpected stale result: %s", result.Reason)
	}
	if len(result.IDs) != 1 || result.IDs[0] != 1 {
		t.Errorf("IDs = %v, want [1]", result.IDs)
	}
}

func TestResolveIsNullCondition(t *testing.T) {
	r := NewResolver(testSource())
	ev := profile.CondEvidence(profile.Condition{Field: "name", Op: profile.OpIsNull})
	result := r.Resolve(context.Background(), ev, profile.AllRecords())

	if result.Stale {
		t.Fatalf("unexpected stale result: %s", result.Reason)
	}
	if len(result.IDs) != 2 || result.IDs[0] != 2 || result.IDs[1] != 4 {
		t.Errorf("IDs = %v, want [2 4]", result.IDs)
	}
}

func TestResolveEqualsCondition(t *testing.T) {
	r := NewResolver(testSource())
	ev := profile.EqualsEvidence("name", field.Text("alpha"))
	result := r.Resolve(context.Background(), ev, profile.AllRecords())

	if result.Count() != 2 {
		t.Errorf("IDs = %v, want records 1 and 5", result.IDs)
	}
}

func TestResolveNotTrimmedCondition(t *testing.T) {
	r := NewResolver(testSource())
	ev := profile.CondEvidence(profile.Condition{Field: "name", Op: profile.OpNotTrimmed})
	result := r.Resolve(context.Background(), ev, profile.AllRecords())

	if len(result.IDs) != 1 || result.IDs[0] != 3 {
		t.Errorf("IDs = %v, want [3]", result.IDs)
	}
}

func TestResolveStaleField(t *testing.T) {
	r := NewResolver(testSource())
	ev := profile.CondEvidence(profile.Condition{Field: "deleted_field", Op: profile.OpIsNull})
	result := r.Resolve(context.Background(), ev, profile.AllRecords())

	if !result.Stale {
		t.Fatal("vanished field should resolve stale")
	}
	if len(result.IDs) != 0 {
		t.Errorf("stale result should be empty, got %v", result.IDs)
	}
	if result.Reason == "" {
		t.Error("stale result should carry a reason")
	}
}

func TestResolveNilEvidence(t *testing.T) {
	r := NewResolver(testSource())
	result := r.Resolve(context.Background(), nil, profile.AllRecords())
	if !result.Stale {
		t.Error("nil evidence should resolve stale, not panic or error")
	}
}

func TestResolveStatPassesEvidenceThrough(t *testing.T) {
	r := NewResolver(testSource())
	stat := profile.Stat{
		Key:      profile.KeyNullCount,
		Value:    2,
		Evidence: profile.CondEvidence(profile.Condition{Field: "name", Op: profile.OpIsNull}),
	}
	result := r.ResolveStat(context.Background(), stat, profile.AllRecords())
	if result.Count() != 2 {
		t.Errorf("resolved %d records, want 2", result.Count())
	}
}
