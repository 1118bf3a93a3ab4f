package field

import (
	"fmt"
	"time"
)

// Kind tags the runtime shape of a raw attribute value. Analyzers dispatch on
// this tag rather than on reflection.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindDate
	KindDateTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is the tagged union for a single raw attribute value at the extractor
// boundary. The zero value is Null.
type Value struct {
	kind Kind
	num  float64
	str  string
	t    time.Time
	b    bool
}

// Null returns the missing value.
func Null() Value { return Value{kind: KindNull} }

// Number wraps a numeric raw value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string raw value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// Date wraps a pure date (time-of-day is ignored by consumers).
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// DateTime wraps a full timestamp.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Bool wraps a boolean raw value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload when the value carries one.
func (v Value) Number() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Text returns the string payload when the value carries one.
func (v Value) Text() (string, bool) {
	if v.kind == KindText {
		return v.str, true
	}
	return "", false
}

// Time returns the temporal payload for Date and DateTime values.
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindDate || v.kind == KindDateTime {
		return v.t, true
	}
	return time.Time{}, false
}

// Bool returns the boolean payload when the value carries one.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Equal reports exact equality of tag and payload. Temporal values compare by
// instant, so two DateTime values in different locations describing the same
// instant are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.str == o.str
	case KindDate, KindDateTime:
		return v.t.Equal(o.t)
	case KindBool:
		return v.b == o.b
	}
	return false
}

// String renders the value for display. Nulls render as NULL, dates as ISO
// date, datetimes as ISO timestamp.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindText:
		return v.str
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindDateTime:
		return v.t.Format("2006-01-02 15:04:05")
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	}
	return ""
}

// SortKey gives a stable ordering key used for deterministic tie-breaking in
// frequency rankings.
func (v Value) SortKey() string {
	return fmt.Sprintf("%d|%s", v.kind, v.String())
}
