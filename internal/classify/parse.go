package classify

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber attempts numeric coercion of a string with the same tolerance
// the ingestion path applies: surrounding whitespace, currency symbols,
// percent signs, parenthesized negatives and thousands separators are
// stripped before parsing. Non-finite results are rejected.
func ParseNumber(s string) (float64, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		neg = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		clean = strings.ReplaceAll(clean, symbol, "")
	}
	clean = strings.TrimSpace(clean)

	// Thousands separators; a single trailing comma group of <=2 digits is a
	// decimal comma.
	if i := strings.LastIndex(clean, ","); i >= 0 && !strings.Contains(clean, ".") && len(clean)-i-1 <= 2 {
		clean = clean[:i] + "." + clean[i+1:]
	}
	clean = strings.ReplaceAll(clean, ",", "")

	if neg {
		clean = "-" + clean
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// temporalLayouts pairs each accepted layout with whether it carries a
// time-of-day component.
var temporalLayouts = []struct {
	layout  string
	hasTime bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"2006/01/02", false},
	{"01/02/2006", false},
	{"02-Jan-2006", false},
}

// ParseTemporal attempts date/datetime coercion of a string. The second
// result reports whether the parsed layout carried a time-of-day component.
func ParseTemporal(s string) (time.Time, bool, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}, false, false
	}
	for _, l := range temporalLayouts {
		if t, err := time.Parse(l.layout, clean); err == nil {
			return t, l.hasTime, true
		}
	}
	return time.Time{}, false, false
}

// ParseBool attempts boolean coercion of a string.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}
