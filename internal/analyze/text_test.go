package analyze

import (
	"testing"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

func analyzeTexts(t *testing.T, set *field.ValueSet) *profile.Record {
	t.Helper()
	a := New(nil)
	return a.Analyze(core.NewRunID(), "name", field.StorageString, set, profile.DefaultConfig(), false)
}

func textSet(values ...any) *field.ValueSet {
	set := field.NewValueSet(len(values))
	for i, v := range values {
		if v == nil {
			set.Append(field.RecordID(i+1), field.Null())
		} else {
			set.Append(field.RecordID(i+1), field.Text(v.(string)))
		}
	}
	return set
}

func TestTextQualitySignals(t *testing.T) {
	rec := analyzeTexts(t, textSet("Apple", "apple", "", nil, "APPLE "))

	wantInt(t, rec, profile.KeyCount, 4)
	wantInt(t, rec, profile.KeyNullCount, 1)
	wantInt(t, rec, profile.KeyEmptyStringCount, 1)
	wantInt(t, rec, profile.KeyLeadingSpaceCount, 0)
	wantInt(t, rec, profile.KeyTrailingSpaceCount, 1)

	// Distinct non-empty values; case and whitespace both distinguish.
	wantInt(t, rec, profile.KeyVariety, 3)

	trailing, _ := rec.Get(profile.KeyTrailingSpaceCount)
	if trailing.Evidence == nil || len(trailing.Evidence.IDs) != 1 || trailing.Evidence.IDs[0] != 5 {
		t.Errorf("trailing space evidence should name record 5, got %+v", trailing.Evidence)
	}

	wantInt(t, rec, profile.KeyUntrimmedCount, 1)
	untrimmed, _ := rec.Get(profile.KeyUntrimmedCount)
	if untrimmed.Evidence == nil || untrimmed.Evidence.Kind != profile.EvidenceCondition {
		t.Fatal("untrimmed_count should carry condition evidence")
	}
	if untrimmed.Evidence.Cond.Op != profile.OpNotTrimmed {
		t.Errorf("untrimmed condition op = %v, want not-trimmed", untrimmed.Evidence.Cond.Op)
	}

	empty, _ := rec.Get(profile.KeyEmptyStringCount)
	if empty.Evidence == nil || empty.Evidence.Kind != profile.EvidenceCondition {
		t.Fatal("empty_string_count should carry condition evidence")
	}
	if empty.Evidence.Cond.Op != profile.OpEquals {
		t.Errorf("empty string condition op = %v, want equals", empty.Evidence.Cond.Op)
	}
}

func TestTextCasePartition(t *testing.T) {
	rec := analyzeTexts(t, textSet("Apple", "apple", "", nil, "APPLE "))

	wantInt(t, rec, profile.KeyUpperCount, 1) // "APPLE "
	wantInt(t, rec, profile.KeyLowerCount, 1) // "apple"
	wantInt(t, rec, profile.KeyTitleCount, 1) // "Apple"
	wantInt(t, rec, profile.KeyMixedCount, 0)

	upper, _ := rec.Int(profile.KeyUpperCount)
	lower, _ := rec.Int(profile.KeyLowerCount)
	title, _ := rec.Int(profile.KeyTitleCount)
	mixed, _ := rec.Int(profile.KeyMixedCount)
	count, _ := rec.Int(profile.KeyCount)
	emptyCount, _ := rec.Int(profile.KeyEmptyStringCount)
	if upper+lower+title+mixed != count-emptyCount {
		t.Errorf("case partition %d+%d+%d+%d should cover the %d non-empty values",
			upper, lower, title, mixed, count-emptyCount)
	}
}

func TestTextCaseClassification(t *testing.T) {
	tests := []struct {
		value string
		key   profile.Key
	}{
		{"HELLO WORLD", profile.KeyUpperCount},
		{"hello world", profile.KeyLowerCount},
		{"Hello World", profile.KeyTitleCount},
		{"hELLo", profile.KeyMixedCount},
		{"ABC-123", profile.KeyUpperCount}, // digits don't break upper
		{"123", profile.KeyMixedCount},     // no cased letters at all
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := analyzeTexts(t, textSet(tt.value))
			wantInt(t, rec, tt.key, 1)
		})
	}
}

func TestTextLengths(t *testing.T) {
	rec := analyzeTexts(t, textSet("ab", "abcd", "abcdef"))
	wantInt(t, rec, profile.KeyMinLength, 2)
	wantInt(t, rec, profile.KeyMaxLength, 6)
	wantFloat(t, rec, profile.KeyAvgLength, 4)
}

func TestTextLengthsCountRunes(t *testing.T) {
	rec := analyzeTexts(t, textSet("héllo"))
	wantInt(t, rec, profile.KeyMinLength, 5)
	wantInt(t, rec, profile.KeyMaxLength, 5)
}

func TestTextTopValues(t *testing.T) {
	rec := analyzeTexts(t, textSet("red", "blue", "red", "green", "red", "blue"))

	top, ok := rec.Value(profile.KeyTopValues).([]profile.TopValue)
	if !ok {
		t.Fatalf("unique_top_values has unexpected type %T", rec.Value(profile.KeyTopValues))
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 top values, got %d", len(top))
	}
	if top[0].Display != "red" || top[0].Count != 3 {
		t.Errorf("top[0] = %+v, want red x3", top[0])
	}
	if top[1].Display != "blue" || top[1].Count != 2 {
		t.Errorf("top[1] = %+v, want blue x2", top[1])
	}

	first, _ := rec.Get(profile.KeyTopValue)
	if first.Value != "red" {
		t.Errorf("unique_top_value = %v, want red", first.Value)
	}
	if first.Evidence == nil || first.Evidence.Kind != profile.EvidenceIDs {
		t.Fatal("unique_top_value should carry ID evidence")
	}
	if len(first.Evidence.IDs) != 3 {
		t.Errorf("top value evidence should hold 3 records, got %v", first.Evidence.IDs)
	}
}

func TestTextSingletons(t *testing.T) {
	rec := analyzeTexts(t, textSet("a", "a", "b", "c"))
	wantInt(t, rec, profile.KeySingletonCount, 2)

	stat, _ := rec.Get(profile.KeySingletonCount)
	if stat.Evidence == nil || len(stat.Evidence.IDs) != 2 {
		t.Fatalf("singleton evidence = %+v, want 2 IDs", stat.Evidence)
	}
	if stat.Evidence.IDs[0] != 3 || stat.Evidence.IDs[1] != 4 {
		t.Errorf("singleton IDs = %v, want [3 4]", stat.Evidence.IDs)
	}
}

func TestTextNonPrintable(t *testing.T) {
	rec := analyzeTexts(t, textSet("clean", "bad\x00value", "tabs\tok"))
	wantInt(t, rec, profile.KeyNonPrintableCount, 1)
}

func TestTextPatterns(t *testing.T) {
	rec := analyzeTexts(t, textSet(
		"https://example.com/page",
		"example.org",
		"user@example.com",
		"plain words here",
	))
	wantInt(t, rec, profile.KeyPatternURLCount, 2)
	wantInt(t, rec, profile.KeyPatternEmailCount, 1)
}

func TestTextTopWords(t *testing.T) {
	rec := analyzeTexts(t, textSet(
		"the quick brown fox",
		"the lazy brown dog",
		"a brown bear",
	))
	words, ok := rec.Value(profile.KeyTopWords).([]profile.TopValue)
	if !ok || len(words) == 0 {
		t.Fatalf("top_words missing or wrong type: %v", rec.Value(profile.KeyTopWords))
	}
	if words[0].Display != "brown" || words[0].Count != 3 {
		t.Errorf("top word = %+v, want brown x3", words[0])
	}
	for _, w := range words {
		if w.Display == "the" || w.Display == "a" {
			t.Errorf("stop word %q should not rank", w.Display)
		}
	}
}

func TestBooleanProfilesAsText(t *testing.T) {
	set := field.NewValueSet(4)
	set.Append(1, field.Bool(true))
	set.Append(2, field.Bool(false))
	set.Append(3, field.Bool(true))
	set.Append(4, field.Null())

	a := New(nil)
	rec := a.Analyze(core.NewRunID(), "flag", field.StorageBoolean, set, profile.DefaultConfig(), false)

	if rec.Working != field.WorkingBoolean {
		t.Fatalf("working type = %v, want boolean", rec.Working)
	}
	wantInt(t, rec, profile.KeyCount, 3)
	wantInt(t, rec, profile.KeyNullCount, 1)
	wantInt(t, rec, profile.KeyVariety, 2)

	top, _ := rec.Value(profile.KeyTopValues).([]profile.TopValue)
	if len(top) != 2 || top[0].Display != "true" || top[0].Count != 2 {
		t.Errorf("boolean top values = %+v, want true x2 first", top)
	}
}
