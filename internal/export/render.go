package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rick2x/fieldprofiler/domain/profile"
)

// unavailableCell is the single token emitted for statistics that degraded.
const unavailableCell = "N/A"

// RenderValue flattens one statistic value into a single display token so
// every statistic occupies exactly one cell in tabular exports. Floats honor
// the configured precision; composite values collapse with "; " separators.
func RenderValue(v any, precision int) string {
	switch val := v.(type) {
	case nil:
		return unavailableCell
	case float64:
		return strconv.FormatFloat(val, 'f', precision, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'f', precision, 64)
		}
		return strings.Join(parts, "; ")
	case []profile.TopValue:
		parts := make([]string, len(val))
		for i, tv := range val {
			parts[i] = fmt.Sprintf("%s (%d)", tv.Display, tv.Count)
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(val)
	}
}

// RenderStat flattens one statistic entry, falling back to its degradation
// note when the value is unavailable.
func RenderStat(s profile.Stat, precision int) string {
	if s.Unavailable() {
		if s.Note != "" {
			return unavailableCell + " (" + s.Note + ")"
		}
		return unavailableCell
	}
	return RenderValue(s.Value, precision)
}

// MonthName maps a 1-based month number token to its English name; tokens
// outside 1-12 pass through unchanged.
func MonthName(token string) string {
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > 12 {
		return token
	}
	return time.Month(n).String()
}

// WeekdayName maps an ISO weekday token (Monday=1 .. Sunday=7) to its English
// name; tokens outside 1-7 pass through unchanged.
func WeekdayName(token string) string {
	n, err := strconv.Atoi(token)
	if err != nil || n < 1 || n > 7 {
		return token
	}
	return time.Weekday(n % 7).String()
}

// renderParts flattens a common-parts ranking, translating the numeric tokens
// through the given namer for readability.
func renderParts(parts []profile.TopValue, namer func(string) string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("%s (%d)", namer(p.Display), p.Count)
	}
	return strings.Join(out, "; ")
}

// DisplayStat renders a statistic for human-facing output, mapping month and
// weekday rankings to names. Tabular exports use RenderStat instead so cells
// stay locale-independent.
func DisplayStat(s profile.Stat, precision int) string {
	if s.Unavailable() {
		return RenderStat(s, precision)
	}
	if parts, ok := s.Value.([]profile.TopValue); ok {
		switch s.Key {
		case profile.KeyCommonMonths:
			return renderParts(parts, MonthName)
		case profile.KeyCommonWeekdays:
			return renderParts(parts, WeekdayName)
		}
	}
	return RenderValue(s.Value, precision)
}
