package classify

import (
	"github.com/rick2x/fieldprofiler/domain/field"
)

// Coercion thresholds. A field classifies as a type when at least this
// fraction of its non-null values coerces to it.
const (
	numericThreshold  = 0.95
	booleanThreshold  = 0.95
	temporalThreshold = 0.80
)

// Distribution summarizes how a field's non-null values coerce across the
// working types. The advisor consumes it to spot storage/content mismatches.
type Distribution struct {
	NonNull       int
	NumericCount  int
	BooleanCount  int
	TemporalCount int
	// WithTime counts the temporal-coercible values carrying a time-of-day
	// component.
	WithTime int
}

// NumericRatio is the fraction of non-null values that coerce to a number.
func (d Distribution) NumericRatio() float64 {
	if d.NonNull == 0 {
		return 0
	}
	return float64(d.NumericCount) / float64(d.NonNull)
}

// TemporalRatio is the fraction of non-null values that coerce to a
// date or datetime.
func (d Distribution) TemporalRatio() float64 {
	if d.NonNull == 0 {
		return 0
	}
	return float64(d.TemporalCount) / float64(d.NonNull)
}

func (d Distribution) booleanRatio() float64 {
	if d.NonNull == 0 {
		return 0
	}
	return float64(d.BooleanCount) / float64(d.NonNull)
}

// Analyze inspects every non-null value once and counts how many coerce to
// each candidate type.
func Analyze(set *field.ValueSet) Distribution {
	var d Distribution
	for _, e := range set.Entries() {
		v := e.Value
		if v.IsNull() {
			continue
		}
		d.NonNull++
		switch v.Kind() {
		case field.KindNumber:
			d.NumericCount++
		case field.KindBool:
			d.BooleanCount++
		case field.KindDate:
			d.TemporalCount++
		case field.KindDateTime:
			d.TemporalCount++
			d.WithTime++
		case field.KindText:
			s, _ := v.Text()
			if _, ok := ParseNumber(s); ok {
				d.NumericCount++
			}
			if _, ok := ParseBool(s); ok {
				d.BooleanCount++
			}
			if _, hasTime, ok := ParseTemporal(s); ok {
				d.TemporalCount++
				if hasTime {
					d.WithTime++
				}
			}
		}
	}
	return d
}

// Classify derives the working type for a field from its values and declared
// storage. Storage types lie, so values win: a text column holding numbers
// classifies Numeric. An all-null set yields Unknown, which is a valid
// terminal state, not a failure.
func Classify(set *field.ValueSet, storage field.StorageType) field.WorkingType {
	d := Analyze(set)
	if d.NonNull == 0 {
		return field.WorkingUnknown
	}

	// Declared temporal and numeric columns keep their shape; the numeric
	// analyzer reports per-value conversion errors on its own.
	switch storage {
	case field.StorageDate:
		return field.WorkingDate
	case field.StorageDateTime:
		return field.WorkingDateTime
	case field.StorageNumeric:
		return field.WorkingNumeric
	case field.StorageBoolean:
		return field.WorkingBoolean
	}

	// Boolean before numeric: "0"/"1" columns coerce both ways, and an
	// all-boolean column is the stronger signal.
	if d.booleanRatio() >= booleanThreshold && d.BooleanCount > d.NumericCount {
		return field.WorkingBoolean
	}
	if d.NumericRatio() >= numericThreshold {
		return field.WorkingNumeric
	}
	if d.TemporalRatio() >= temporalThreshold {
		// DateTime when the majority of temporal values carry a time of day.
		if d.WithTime*2 > d.TemporalCount {
			return field.WorkingDateTime
		}
		return field.WorkingDate
	}
	return field.WorkingText
}
