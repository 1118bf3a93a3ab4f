package profile

import (
	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
)

// Stat is one statistic entry of a Record. Value is a primitive
// (float64, int, string, bool) or nil when the statistic is unavailable for
// this field; Note carries the reason for unavailable entries. Evidence, when
// present, lets the selection resolver rebuild the matching record subset.
type Stat struct {
	Key      Key
	Value    any
	Note     string
	Evidence *Evidence
}

// Unavailable reports whether the statistic degraded instead of computing.
func (s Stat) Unavailable() bool { return s.Value == nil && s.Note != "" }

// Record is the immutable outcome of one analysis run over one field. Entries
// keep insertion order so the presentation layer renders them stably.
type Record struct {
	RunID    core.RunID
	Field    string
	Storage  field.StorageType
	Working  field.WorkingType
	Scoped   bool // true when the run analyzed a caller-supplied selection
	Produced core.Timestamp

	stats []Stat
	index map[Key]int
}

// NewRecord starts an empty record for one (field, scope, configuration) run.
func NewRecord(runID core.RunID, fieldName string, storage field.StorageType, working field.WorkingType, scoped bool) *Record {
	return &Record{
		RunID:    runID,
		Field:    fieldName,
		Storage:  storage,
		Working:  working,
		Scoped:   scoped,
		Produced: core.Now(),
		index:    make(map[Key]int),
	}
}

// Add appends a plain statistic, replacing any earlier entry with the same key.
func (r *Record) Add(key Key, value any) {
	r.put(Stat{Key: key, Value: value})
}

// AddFlagged appends a statistic together with its selection evidence.
func (r *Record) AddFlagged(key Key, value any, ev *Evidence) {
	r.put(Stat{Key: key, Value: value, Evidence: ev})
}

// AddUnavailable records a statistic that degraded, with the reason.
func (r *Record) AddUnavailable(key Key, reason string) {
	r.put(Stat{Key: key, Value: nil, Note: reason})
}

func (r *Record) put(s Stat) {
	if i, ok := r.index[s.Key]; ok {
		r.stats[i] = s
		return
	}
	r.index[s.Key] = len(r.stats)
	r.stats = append(r.stats, s)
}

// Get returns the entry for a key.
func (r *Record) Get(key Key) (Stat, bool) {
	i, ok := r.index[key]
	if !ok {
		return Stat{}, false
	}
	return r.stats[i], true
}

// Value returns the raw value for a key, nil when absent or unavailable.
func (r *Record) Value(key Key) any {
	s, ok := r.Get(key)
	if !ok {
		return nil
	}
	return s.Value
}

// Float returns the value for a key as float64 when it is numeric.
func (r *Record) Float(key Key) (float64, bool) {
	switch v := r.Value(key).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int returns the value for a key as int when it is an integer count.
func (r *Record) Int(key Key) (int, bool) {
	v, ok := r.Value(key).(int)
	return v, ok
}

// Stats exposes the ordered entries. Callers must not mutate the slice.
func (r *Record) Stats() []Stat { return r.stats }
