package analyze

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/classify"
)

const (
	// lowVarianceCV flags a field as low-variance when |std/mean| falls below it.
	lowVarianceCV = 0.1
	// defaultBinCount is the Freedman-Diaconis fallback for degenerate inputs.
	defaultBinCount = 10
	// shapeMinCount is the minimum sample the normality test needs.
	shapeMinCount = 3
)

// coerceNumeric converts one non-null value to a float64. Booleans coerce to
// 0/1; text goes through the tolerant number parser. Non-finite numbers are
// rejected so downstream formulas stay defined.
func coerceNumeric(v field.Value) (float64, bool) {
	switch v.Kind() {
	case field.KindNumber:
		f, _ := v.Number()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case field.KindBool:
		if b, _ := v.Bool(); b {
			return 1, true
		}
		return 0, true
	case field.KindText:
		s, _ := v.Text()
		return classify.ParseNumber(s)
	}
	return 0, false
}

// analyzeNumeric fills rec with the numeric statistic groups. Every detailed
// metric is independently guarded: a failing metric degrades to unavailable
// without aborting the rest of the record.
func (a *Analyzer) analyzeNumeric(set *field.ValueSet, cfg profile.Config, rec *profile.Record) {
	values := make([]float64, 0, set.Len())
	ids := make([]field.RecordID, 0, set.Len())
	var convErrIDs []field.RecordID

	for _, e := range set.NonNull() {
		f, ok := coerceNumeric(e.Value)
		if !ok {
			convErrIDs = append(convErrIDs, e.ID)
			continue
		}
		values = append(values, f)
		ids = append(ids, e.ID)
	}

	count := len(values)
	rec.Add(profile.KeyCount, count)
	rec.AddFlagged(profile.KeyConversionErrors, len(convErrIDs), profile.IDEvidence(convErrIDs))

	if count == 0 {
		if len(convErrIDs) > 0 {
			rec.Add(profile.KeyStatus, fmt.Sprintf("no valid numeric data (%d conversion errors)", len(convErrIDs)))
		} else {
			rec.Add(profile.KeyStatus, "no valid numeric data")
		}
		rec.Add(profile.KeyVariety, 0)
		rec.Add(profile.KeyOutlierCount, 0)
		rec.Add(profile.KeyPctOutliers, 0.0)
		rec.Add(profile.KeyZeroCount, 0)
		rec.Add(profile.KeyPositiveCount, 0)
		rec.Add(profile.KeyNegativeCount, 0)
		rec.Add(profile.KeyLowVariance, false)
		return
	}

	minVal, _ := stats.Min(values)
	maxVal, _ := stats.Max(values)
	sum, _ := stats.Sum(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	stdev, _ := stats.StandardDeviationPopulation(values)

	rec.Add(profile.KeyMin, minVal)
	rec.Add(profile.KeyMax, maxVal)
	rec.Add(profile.KeyRange, maxVal-minVal)
	rec.Add(profile.KeySum, sum)
	rec.Add(profile.KeyMean, mean)
	rec.Add(profile.KeyMedian, median)
	rec.Add(profile.KeyStdevPop, stdev)

	a.addMode(values, rec)

	variety := distinctFloats(values)
	rec.Add(profile.KeyVariety, variety)

	q1 := percentile(values, 25)
	q3 := percentile(values, 75)
	iqr := q3 - q1
	rec.Add(profile.KeyQ1, q1)
	rec.Add(profile.KeyQ3, q3)
	rec.Add(profile.KeyIQR, iqr)

	addOutlierStats(values, ids, count, q1, q3, iqr, cfg, rec)

	var zeros, positives, negatives int
	for _, v := range values {
		switch {
		case v == 0:
			zeros++
		case v > 0:
			positives++
		default:
			negatives++
		}
	}
	rec.Add(profile.KeyZeroCount, zeros)
	rec.Add(profile.KeyPositiveCount, positives)
	rec.Add(profile.KeyNegativeCount, negatives)

	cvDefined := mean != 0
	var cv float64
	if cvDefined {
		cv = stdev / mean
		rec.Add(profile.KeyCV, cv)
	} else {
		rec.AddUnavailable(profile.KeyCV, "undefined: mean is zero")
	}

	lowVariance := count == 1 || variety == 1 || stdev == 0 ||
		(cvDefined && math.Abs(cv) < lowVarianceCV)
	rec.Add(profile.KeyLowVariance, lowVariance)

	if cfg.NumericIntDecimal {
		addIntegerDecimalStats(values, minVal, maxVal, iqr, rec)
	}
	if cfg.NumericPercentiles {
		rec.Add(profile.KeyPctl1, percentile(values, 1))
		rec.Add(profile.KeyPctl5, percentile(values, 5))
		rec.Add(profile.KeyPctl95, percentile(values, 95))
		rec.Add(profile.KeyPctl99, percentile(values, 99))
	}
	if cfg.NumericShape {
		a.addShapeStats(values, rec)
	}
}

// addMode reports the most frequent value(s). The underlying routine is
// best-effort: on failure it retries with non-finite values removed, and on
// persistent failure the statistic degrades instead of failing the run.
func (a *Analyzer) addMode(values []float64, rec *profile.Record) {
	modes, err := stats.Mode(values)
	if err != nil {
		finite := values[:0:0]
		for _, v := range values {
			if !math.IsInf(v, 0) && !math.IsNaN(v) {
				finite = append(finite, v)
			}
		}
		modes, err = stats.Mode(finite)
	}
	switch {
	case err != nil:
		rec.AddUnavailable(profile.KeyMode, "mode computation failed")
	case len(modes) == 0:
		rec.AddUnavailable(profile.KeyMode, "no repeated values")
	default:
		rec.Add(profile.KeyMode, modes)
	}
}

// addOutlierStats computes the IQR fences and the outlier statistics with
// record-ID evidence for later selection.
func addOutlierStats(values []float64, ids []field.RecordID, count int, q1, q3, iqr float64, cfg profile.Config, rec *profile.Record) {
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var outlierIDs []field.RecordID
	var belowCount, aboveCount int
	minOutlier := math.Inf(1)
	maxOutlier := math.Inf(-1)
	for i, v := range values {
		if v >= lower && v <= upper {
			continue
		}
		outlierIDs = append(outlierIDs, ids[i])
		if v < lower {
			belowCount++
		} else {
			aboveCount++
		}
		if v < minOutlier {
			minOutlier = v
		}
		if v > maxOutlier {
			maxOutlier = v
		}
	}

	total := belowCount + aboveCount
	ev := profile.IDEvidence(outlierIDs)
	rec.AddFlagged(profile.KeyOutlierCount, total, ev)
	rec.AddFlagged(profile.KeyMinOutlierCount, belowCount, ev)
	rec.AddFlagged(profile.KeyMaxOutlierCount, aboveCount, ev)

	pct := 0.0
	if count > 0 && total > 0 {
		pct = float64(total) / float64(count)
	}
	rec.AddFlagged(profile.KeyPctOutliers, pct, ev)

	if cfg.NumericOutlierDetail {
		if total > 0 {
			rec.Add(profile.KeyMinOutlier, minOutlier)
			rec.Add(profile.KeyMaxOutlier, maxOutlier)
		} else {
			rec.AddUnavailable(profile.KeyMinOutlier, "no outliers")
			rec.AddUnavailable(profile.KeyMaxOutlier, "no outliers")
		}
	}
}

// addIntegerDecimalStats counts whole vs fractional values and derives the
// Freedman-Diaconis histogram bin count.
func addIntegerDecimalStats(values []float64, minVal, maxVal, iqr float64, rec *profile.Record) {
	integers := 0
	for _, v := range values {
		if v == math.Trunc(v) {
			integers++
		}
	}
	n := len(values)
	rec.Add(profile.KeyIntegerCount, integers)
	rec.Add(profile.KeyDecimalCount, n-integers)
	rec.Add(profile.KeyPctInteger, float64(integers)/float64(n))

	rec.Add(profile.KeyOptimalBins, freedmanDiaconisBins(n, iqr, maxVal-minVal))
}

// freedmanDiaconisBins suggests a histogram bin count via
// bin_width = 2*IQR*n^(-1/3), falling back to a fixed default for degenerate
// inputs (IQR of zero, a single value, or a non-finite width).
func freedmanDiaconisBins(n int, iqr, dataRange float64) int {
	if n <= 1 || iqr <= 0 {
		return defaultBinCount
	}
	binWidth := 2 * iqr / math.Cbrt(float64(n))
	if binWidth <= 0 || math.IsInf(binWidth, 0) || math.IsNaN(binWidth) {
		return defaultBinCount
	}
	if dataRange <= 0 {
		return 1
	}
	bins := int(math.Ceil(dataRange / binWidth))
	if bins < 1 {
		return 1
	}
	return bins
}

// addShapeStats delegates skewness, kurtosis and normality to the injected
// capability, degrading each field to unavailable when it is missing or errs.
func (a *Analyzer) addShapeStats(values []float64, rec *profile.Record) {
	if a.shape == nil {
		markShapeUnavailable(rec, "distribution shape capability not configured")
		return
	}
	if len(values) < shapeMinCount {
		markShapeUnavailable(rec, fmt.Sprintf("needs at least %d values", shapeMinCount))
		return
	}
	res, err := a.shape.Shape(values)
	if err != nil {
		markShapeUnavailable(rec, "distribution shape capability failed")
		return
	}
	rec.Add(profile.KeySkewness, res.Skewness)
	rec.Add(profile.KeyKurtosis, res.Kurtosis)
	rec.Add(profile.KeyShapiroP, res.ShapiroP)
	rec.Add(profile.KeyLikelyNormal, res.LikelyNormal)
}

func markShapeUnavailable(rec *profile.Record, reason string) {
	rec.AddUnavailable(profile.KeySkewness, reason)
	rec.AddUnavailable(profile.KeyKurtosis, reason)
	rec.AddUnavailable(profile.KeyShapiroP, reason)
	rec.AddUnavailable(profile.KeyLikelyNormal, reason)
}

func distinctFloats(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
