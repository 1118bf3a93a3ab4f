package analyze

import (
	"strconv"
	"time"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/classify"
	"github.com/rick2x/fieldprofiler/ports"
)

// Analyzer turns one field's value set into a statistics record. It is
// stateless across calls and safe for concurrent use; the distribution-shape
// capability is optional and its absence degrades the shape statistics only.
type Analyzer struct {
	shape ports.DistributionShape
	now   func() time.Time
}

// New builds an analyzer. shape may be nil when no distribution-shape
// capability is available.
func New(shape ports.DistributionShape) *Analyzer {
	return &Analyzer{shape: shape, now: time.Now}
}

// Analyze classifies the field from its values, runs the matching statistic
// pipeline and returns the finished record. It never fails: per-statistic
// problems degrade to unavailable entries inside the record.
func (a *Analyzer) Analyze(runID core.RunID, fieldName string, storage field.StorageType, set *field.ValueSet, cfg profile.Config, scoped bool) *profile.Record {
	cfg = cfg.Normalize()
	dist := classify.Analyze(set)
	working := classify.Classify(set, storage)

	rec := profile.NewRecord(runID, fieldName, storage, working, scoped)

	total := set.Len()
	nullCount := set.NullCount()
	rec.AddFlagged(profile.KeyNullCount, nullCount,
		profile.CondEvidence(profile.Condition{Field: fieldName, Op: profile.OpIsNull}))
	if total > 0 {
		rec.Add(profile.KeyPctNull, float64(nullCount)/float64(total))
	} else {
		rec.Add(profile.KeyPctNull, 0.0)
	}

	switch working {
	case field.WorkingUnknown:
		rec.Add(profile.KeyCount, 0)
		if total == 0 {
			rec.Add(profile.KeyStatus, "no records in scope")
		} else {
			rec.Add(profile.KeyStatus, "all values are NULL")
		}
	case field.WorkingNumeric:
		a.analyzeNumeric(set, cfg, rec)
	case field.WorkingDate, field.WorkingDateTime:
		a.analyzeTemporal(set, cfg, rec)
	case field.WorkingBoolean:
		// Booleans have no dedicated pipeline; their stringified form runs
		// through the text statistics, which yields counts per truth value.
		a.analyzeText(stringifyBooleans(set), cfg, rec)
	default:
		a.analyzeText(set, cfg, rec)
	}

	if hint := advise(storage, working, dist, rec); hint != "" {
		rec.Add(profile.KeyMismatchHint, hint)
	}
	return rec
}

// stringifyBooleans rewrites a boolean set as text so the text pipeline can
// profile it. Nulls stay null; unparseable leftovers keep their text form.
func stringifyBooleans(set *field.ValueSet) *field.ValueSet {
	out := field.NewValueSet(set.Len())
	for _, e := range set.Entries() {
		switch e.Value.Kind() {
		case field.KindNull:
			out.Append(e.ID, e.Value)
		case field.KindBool:
			b, _ := e.Value.Bool()
			out.Append(e.ID, field.Text(strconv.FormatBool(b)))
		default:
			out.Append(e.ID, field.Text(e.Value.String()))
		}
	}
	return out
}
