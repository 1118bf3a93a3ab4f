package analyze

import (
	"fmt"

	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/classify"
)

const (
	// Share of non-null values that must parse as another type before the
	// advisor suggests a retype.
	adviseParseThreshold = 0.95
	// Conversion failure rate above which a numeric column is flagged dirty.
	adviseDirtyThreshold = 0.05
	// A numeric column with fewer distinct values than this, over more rows
	// than adviseCategoricalMinCount, reads as a coded category.
	adviseCategoricalMaxVariety = 15
	adviseCategoricalMinCount   = 20
)

// advise inspects the finished record together with the declared storage and
// the pre-classification value distribution, and returns a single
// human-readable storage hint, or "" when the declared type already fits the
// data. A text column whose content coerced to another working type is the
// canonical case: the classification promoted it, and the hint tells the
// owner to retype the column so the promotion becomes unnecessary.
func advise(storage field.StorageType, working field.WorkingType, dist classify.Distribution, rec *profile.Record) string {
	switch working {
	case field.WorkingNumeric:
		if storage == field.StorageString && dist.NumericRatio() >= adviseParseThreshold {
			return fmt.Sprintf("stored as text but %.0f%% of values parse as numbers; a numeric type would fit the content", dist.NumericRatio()*100)
		}
		count, _ := rec.Int(profile.KeyCount)
		convErrs, _ := rec.Int(profile.KeyConversionErrors)
		total := count + convErrs
		if total > 0 && float64(convErrs)/float64(total) > adviseDirtyThreshold {
			return fmt.Sprintf("%d of %d values failed numeric conversion; the column may hold mixed content", convErrs, total)
		}
		variety, ok := rec.Int(profile.KeyVariety)
		if ok && count > adviseCategoricalMinCount && variety < adviseCategoricalMaxVariety {
			return fmt.Sprintf("only %d distinct values across %d rows; the column may be categorical rather than a measure", variety, count)
		}
	case field.WorkingDate, field.WorkingDateTime:
		if storage == field.StorageString && dist.TemporalRatio() >= adviseParseThreshold {
			return fmt.Sprintf("stored as text but %.0f%% of values parse as dates; a date type would fit the content", dist.TemporalRatio()*100)
		}
	}
	return ""
}
