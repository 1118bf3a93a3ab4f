package field

// RecordID uniquely identifies one record (feature/row) within its layer.
type RecordID int64

// Entry pairs one record with its raw value for the analyzed field.
type Entry struct {
	ID    RecordID
	Value Value
}

// ValueSet is the ordered sequence of (record, raw value) pairs for one field
// over the chosen scope. Order is insertion order from the source and carries
// no meaning; record IDs are unique within the set (the source guarantees it).
type ValueSet struct {
	entries []Entry
}

// NewValueSet creates an empty set with room for n entries.
func NewValueSet(n int) *ValueSet {
	return &ValueSet{entries: make([]Entry, 0, n)}
}

// Append adds one record's value preserving insertion order.
func (s *ValueSet) Append(id RecordID, v Value) {
	s.entries = append(s.entries, Entry{ID: id, Value: v})
}

// Len returns the total number of records in the set, nulls included.
func (s *ValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries exposes the ordered pairs. Callers must not mutate the slice.
func (s *ValueSet) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// NullCount counts the missing values.
func (s *ValueSet) NullCount() int {
	n := 0
	for _, e := range s.Entries() {
		if e.Value.IsNull() {
			n++
		}
	}
	return n
}

// NullIDs returns the record IDs whose value is missing, in set order.
func (s *ValueSet) NullIDs() []RecordID {
	var ids []RecordID
	for _, e := range s.Entries() {
		if e.Value.IsNull() {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// NonNull returns the entries whose value is present, in set order.
func (s *ValueSet) NonNull() []Entry {
	out := make([]Entry, 0, s.Len())
	for _, e := range s.Entries() {
		if !e.Value.IsNull() {
			out = append(out, e)
		}
	}
	return out
}
