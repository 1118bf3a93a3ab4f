package analyze

import (
	"sort"
	"strconv"
	"time"

	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal/classify"
)

const commonPartLimit = 3

type temporalEntry struct {
	id    field.RecordID
	value field.Value // original value, kept for exact selection rebuilds
	t     time.Time
}

// coerceTemporal converts one non-null value to a timestamp. Text goes
// through the layout ladder; other kinds are rejected.
func coerceTemporal(v field.Value) (time.Time, bool) {
	switch v.Kind() {
	case field.KindDate, field.KindDateTime:
		t, _ := v.Time()
		return t, true
	case field.KindText:
		s, _ := v.Text()
		t, _, ok := classify.ParseTemporal(s)
		return t, ok
	}
	return time.Time{}, false
}

// analyzeTemporal fills rec with the date/datetime statistic groups. For pure
// Date fields every comparison uses the date component only; DateTime fields
// compare full timestamps. All "most common" rankings key on
// locale-independent numbers (year, month 1-12, ISO weekday 1-7, hour 0-23)
// so statistic identity never depends on display language.
func (a *Analyzer) analyzeTemporal(set *field.ValueSet, cfg profile.Config, rec *profile.Record) {
	isDateTime := rec.Working == field.WorkingDateTime

	entries := make([]temporalEntry, 0, set.Len())
	for _, e := range set.NonNull() {
		if t, ok := coerceTemporal(e.Value); ok {
			entries = append(entries, temporalEntry{id: e.ID, value: e.Value, t: t})
		}
	}

	rec.Add(profile.KeyCount, len(entries))
	if len(entries) == 0 {
		rec.Add(profile.KeyStatus, "no valid temporal data")
		rec.Add(profile.KeyBeforeTodayCount, 0)
		rec.Add(profile.KeyAfterTodayCount, 0)
		rec.Add(profile.KeyVariety, 0)
		return
	}

	compare := func(t time.Time) time.Time {
		if isDateTime {
			return t
		}
		return dateOnly(t)
	}

	minT, maxT := compare(entries[0].t), compare(entries[0].t)
	for _, e := range entries[1:] {
		c := compare(e.t)
		if c.Before(minT) {
			minT = c
		}
		if c.After(maxT) {
			maxT = c
		}
	}
	rec.Add(profile.KeyMinDate, renderTemporal(minT, isDateTime))
	rec.Add(profile.KeyMaxDate, renderTemporal(maxT, isDateTime))

	// Strictly before / strictly after today by date part; a value falling on
	// today's date lands in neither bucket.
	today := dateOnly(a.now())
	var before, after int
	for _, e := range entries {
		d := dateOnly(e.t)
		if d.Before(today) {
			before++
		} else if d.After(today) {
			after++
		}
	}
	rec.Add(profile.KeyBeforeTodayCount, before)
	rec.Add(profile.KeyAfterTodayCount, after)

	distinct := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		distinct[compare(e.t).UnixNano()] = struct{}{}
	}
	rec.Add(profile.KeyVariety, len(distinct))

	addCommonParts(entries, rec)
	addTopTemporalValues(entries, set.NullIDs(), compare, isDateTime, cfg.TopValueLimit, rec)

	if cfg.DateTimeDetail && isDateTime {
		addTimeOfDayStats(entries, rec)
	}
	if cfg.DateTimeDetail {
		addWeekendStats(entries, rec)
	}
}

// addCommonParts ranks years, months and weekdays by frequency, ties broken
// by earliest occurrence in the value set.
func addCommonParts(entries []temporalEntry, rec *profile.Record) {
	years := newPartCounter()
	months := newPartCounter()
	weekdays := newPartCounter()
	for _, e := range entries {
		years.add(e.t.Year())
		months.add(int(e.t.Month()))
		weekdays.add(isoWeekday(e.t))
	}
	rec.Add(profile.KeyCommonYears, years.top(commonPartLimit))
	rec.Add(profile.KeyCommonMonths, months.top(commonPartLimit))
	rec.Add(profile.KeyCommonWeekdays, weekdays.top(commonPartLimit))
}

// addTopTemporalValues ranks the distinct temporal values, the null bucket
// included, and stores the original value object as evidence so the resolver
// can rebuild an exact comparison, IS NULL branch included.
func addTopTemporalValues(entries []temporalEntry, nullIDs []field.RecordID, compare func(time.Time) time.Time, isDateTime bool, limit int, rec *profile.Record) {
	type bucket struct {
		display string
		value   field.Value
		count   int
		first   int // insertion index of earliest occurrence, for tie-breaks
	}
	buckets := make(map[int64]*bucket, len(entries))
	order := make([]*bucket, 0, len(entries))
	for i, e := range entries {
		key := compare(e.t).UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{display: renderTemporal(compare(e.t), isDateTime), value: e.value, first: i}
			buckets[key] = b
			order = append(order, b)
		}
		b.count++
	}
	if len(nullIDs) > 0 {
		order = append(order, &bucket{display: "NULL", value: field.Null(), count: len(nullIDs), first: len(entries)})
	}
	if len(order) == 0 {
		return
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if limit > len(order) {
		limit = len(order)
	}
	top := make([]profile.TopValue, limit)
	for i := 0; i < limit; i++ {
		top[i] = profile.TopValue{Display: order[i].display, Count: order[i].count}
	}
	rec.Add(profile.KeyTopValues, top)
	rec.AddFlagged(profile.KeyTopValue, order[0].display,
		profile.EqualsEvidence(rec.Field, order[0].value))
}

// addTimeOfDayStats reports the most common hours and the share of exact
// midnight and exact noon timestamps.
func addTimeOfDayStats(entries []temporalEntry, rec *profile.Record) {
	hours := newPartCounter()
	var midnight, noon int
	for _, e := range entries {
		hours.add(e.t.Hour())
		h, m, s := e.t.Clock()
		if h == 0 && m == 0 && s == 0 {
			midnight++
		}
		if h == 12 && m == 0 && s == 0 {
			noon++
		}
	}
	n := float64(len(entries))
	rec.Add(profile.KeyCommonHours, hours.top(commonPartLimit))
	rec.Add(profile.KeyPctMidnight, float64(midnight)/n)
	rec.Add(profile.KeyPctNoon, float64(noon)/n)
}

// addWeekendStats partitions values by the date part's day of week.
func addWeekendStats(entries []temporalEntry, rec *profile.Record) {
	weekend := 0
	for _, e := range entries {
		if isoWeekday(e.t) >= 6 {
			weekend++
		}
	}
	n := float64(len(entries))
	rec.Add(profile.KeyPctWeekend, float64(weekend)/n)
	rec.Add(profile.KeyPctWeekday, float64(len(entries)-weekend)/n)
}

// partCounter counts integer-keyed parts preserving first-seen order for
// deterministic tie-breaking.
type partCounter struct {
	counts map[int]int
	first  map[int]int
	n      int
}

func newPartCounter() *partCounter {
	return &partCounter{counts: make(map[int]int), first: make(map[int]int)}
}

func (c *partCounter) add(part int) {
	if _, ok := c.counts[part]; !ok {
		c.first[part] = c.n
	}
	c.counts[part]++
	c.n++
}

func (c *partCounter) top(limit int) []profile.TopValue {
	parts := make([]int, 0, len(c.counts))
	for p := range c.counts {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool {
		if c.counts[parts[i]] != c.counts[parts[j]] {
			return c.counts[parts[i]] > c.counts[parts[j]]
		}
		return c.first[parts[i]] < c.first[parts[j]]
	})
	if limit > len(parts) {
		limit = len(parts)
	}
	out := make([]profile.TopValue, limit)
	for i := 0; i < limit; i++ {
		out[i] = profile.TopValue{Display: strconv.Itoa(parts[i]), Count: c.counts[parts[i]]}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isoWeekday maps Go's Sunday-first weekday to ISO 8601 (Mon=1 .. Sun=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func renderTemporal(t time.Time, isDateTime bool) string {
	if isDateTime {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02")
}
