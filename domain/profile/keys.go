package profile

// Key is a fixed, language-neutral statistic identifier. Presentation layers
// translate keys for display; the core and the selection resolver only ever
// see keys.
type Key string

// Shared keys
const (
	KeyCount        Key = "count"
	KeyNullCount    Key = "null_count"
	KeyPctNull      Key = "pct_null"
	KeyVariety      Key = "variety"
	KeyTopValues    Key = "unique_top_values"
	KeyTopValue     Key = "unique_top_value"
	KeyStatus       Key = "status"
	KeyMismatchHint Key = "mismatch_hint"
)

// Numeric keys
const (
	KeyConversionErrors Key = "conversion_errors"
	KeyMin              Key = "min"
	KeyMax              Key = "max"
	KeyRange            Key = "range"
	KeySum              Key = "sum"
	KeyMean             Key = "mean"
	KeyMedian           Key = "median"
	KeyStdevPop         Key = "stdev_pop"
	KeyMode             Key = "mode"
	KeyQ1               Key = "q1"
	KeyQ3               Key = "q3"
	KeyIQR              Key = "iqr"
	KeyOutlierCount     Key = "outlier_count"
	KeyMinOutlierCount  Key = "min_outlier_count"
	KeyMaxOutlierCount  Key = "max_outlier_count"
	KeyMinOutlier       Key = "min_outlier"
	KeyMaxOutlier       Key = "max_outlier"
	KeyPctOutliers      Key = "pct_outliers"
	KeyLowVariance      Key = "low_variance"
	KeyZeroCount        Key = "zero_count"
	KeyPositiveCount    Key = "positive_count"
	KeyNegativeCount    Key = "negative_count"
	KeyCV               Key = "cv"
	KeyIntegerCount     Key = "integer_count"
	KeyDecimalCount     Key = "decimal_count"
	KeyPctInteger       Key = "pct_integer"
	KeySkewness         Key = "skewness"
	KeyKurtosis         Key = "kurtosis"
	KeyShapiroP         Key = "shapiro_p"
	KeyLikelyNormal     Key = "likely_normal"
	KeyPctl1            Key = "pctl_1"
	KeyPctl5            Key = "pctl_5"
	KeyPctl95           Key = "pctl_95"
	KeyPctl99           Key = "pctl_99"
	KeyOptimalBins      Key = "optimal_bins"
)

// Text keys
const (
	KeyEmptyStringCount   Key = "empty_string_count"
	KeyPctEmpty           Key = "pct_empty"
	KeyLeadingSpaceCount  Key = "leading_space_count"
	KeyTrailingSpaceCount Key = "trailing_space_count"
	KeyUntrimmedCount     Key = "untrimmed_count"
	KeyMultiSpaceCount    Key = "internal_multi_space_count"
	KeyMinLength          Key = "min_length"
	KeyMaxLength          Key = "max_length"
	KeyAvgLength          Key = "avg_length"
	KeySingletonCount     Key = "singleton_count"
	KeyNonPrintableCount  Key = "non_printable_count"
	KeyTopWords           Key = "top_words"
	KeyPatternURLCount    Key = "pattern_url_count"
	KeyPatternEmailCount  Key = "pattern_email_count"
	KeyUpperCount         Key = "upper_count"
	KeyLowerCount         Key = "lower_count"
	KeyTitleCount         Key = "title_count"
	KeyMixedCount         Key = "mixed_count"
	KeyPctUpper           Key = "pct_upper"
	KeyPctLower           Key = "pct_lower"
	KeyPctTitle           Key = "pct_title"
	KeyPctMixed           Key = "pct_mixed"
)

// Temporal keys
const (
	KeyMinDate          Key = "min_date"
	KeyMaxDate          Key = "max_date"
	KeyBeforeTodayCount Key = "before_today_count"
	KeyAfterTodayCount  Key = "after_today_count"
	KeyCommonYears      Key = "common_years"
	KeyCommonMonths     Key = "common_months"
	KeyCommonWeekdays   Key = "common_weekdays"
	KeyCommonHours      Key = "common_hours"
	KeyPctMidnight      Key = "pct_midnight"
	KeyPctNoon          Key = "pct_noon"
	KeyPctWeekend       Key = "pct_weekend"
	KeyPctWeekday       Key = "pct_weekday"
)
