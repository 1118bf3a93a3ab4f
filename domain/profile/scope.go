package profile

import (
	"github.com/rick2x/fieldprofiler/domain/field"
)

// Scope is the record subset an analysis run considers: the whole layer, or a
// caller-supplied explicit set of record IDs. Read-only input to the value
// extractor.
type Scope struct {
	ids      []field.RecordID
	selected bool
}

// AllRecords scopes the run to every record of the layer.
func AllRecords() Scope { return Scope{} }

// SelectedRecords scopes the run to an explicit record set.
func SelectedRecords(ids []field.RecordID) Scope {
	cp := make([]field.RecordID, len(ids))
	copy(cp, ids)
	return Scope{ids: cp, selected: true}
}

// IsSelection reports whether the scope is a caller-supplied subset.
func (s Scope) IsSelection() bool { return s.selected }

// IDs returns the explicit record set; nil for an all-records scope.
func (s Scope) IDs() []field.RecordID { return s.ids }

// Contains reports whether a record falls inside the scope.
func (s Scope) Contains(id field.RecordID) bool {
	if !s.selected {
		return true
	}
	for _, sid := range s.ids {
		if sid == id {
			return true
		}
	}
	return false
}
