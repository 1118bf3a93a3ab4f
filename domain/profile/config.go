package profile

// Config is the immutable per-run analysis configuration. It is passed into
// every analyzer call; there is no process-wide analysis state.
type Config struct {
	// TopValueLimit caps the distinct values reported by unique_top_values.
	TopValueLimit int `json:"top_value_limit"`
	// Precision is the number of decimal places used when rendering numeric
	// statistics.
	Precision int `json:"precision"`

	// Detailed statistic groups. Disabling a group is the only mitigation the
	// core offers for very large value sets.
	NumericShape         bool `json:"numeric_shape"`
	NumericPercentiles   bool `json:"numeric_percentiles"`
	NumericIntDecimal    bool `json:"numeric_int_decimal"`
	NumericOutlierDetail bool `json:"numeric_outlier_detail"`
	TextCase             bool `json:"text_case"`
	TextRarity           bool `json:"text_rarity"`
	DateTimeDetail       bool `json:"datetime_detail"`
}

// DefaultConfig mirrors the defaults a fresh profiling session starts with:
// every detailed group on, five top values, two decimal places.
func DefaultConfig() Config {
	return Config{
		TopValueLimit:        5,
		Precision:            2,
		NumericShape:         true,
		NumericPercentiles:   true,
		NumericIntDecimal:    true,
		NumericOutlierDetail: true,
		TextCase:             true,
		TextRarity:           true,
		DateTimeDetail:       true,
	}
}

// Normalize clamps nonsensical values to usable ones.
func (c Config) Normalize() Config {
	if c.TopValueLimit < 1 {
		c.TopValueLimit = 1
	}
	if c.TopValueLimit > 100 {
		c.TopValueLimit = 100
	}
	if c.Precision < 0 {
		c.Precision = 0
	}
	if c.Precision > 10 {
		c.Precision = 10
	}
	return c
}
