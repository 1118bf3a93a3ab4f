package profile

import (
	"github.com/rick2x/fieldprofiler/domain/field"
)

// EvidenceKind discriminates the two resolution strategies: an explicit
// record-ID set captured during analysis, or a condition the resolver
// re-evaluates against the data source.
type EvidenceKind uint8

const (
	EvidenceIDs EvidenceKind = iota
	EvidenceCondition
)

// Op names the condition shapes a source must be able to evaluate.
type Op uint8

const (
	// OpEquals matches records whose value equals Condition.Value exactly.
	// With a null Value it degrades to OpIsNull.
	OpEquals Op = iota
	// OpIsNull matches records whose value is missing.
	OpIsNull
	// OpNotTrimmed matches non-empty strings carrying leading or trailing
	// whitespace.
	OpNotTrimmed
	// OpOutsideBounds matches non-null numeric values below Lower or above
	// Upper.
	OpOutsideBounds
)

// Condition is a reconstructable predicate over one field, recorded at
// analysis time so a later selection can rebuild the exact record subset.
type Condition struct {
	Field string      `json:"field"`
	Op    Op          `json:"op"`
	Value field.Value `json:"-"`
	Lower float64     `json:"lower,omitempty"`
	Upper float64     `json:"upper,omitempty"`
}

// Evidence is the per-statistic side channel enabling later selection. It is
// owned by the Record that produced it and never mutated.
type Evidence struct {
	Kind EvidenceKind
	IDs  []field.RecordID
	Cond *Condition
}

// IDEvidence captures an explicit record-ID set.
func IDEvidence(ids []field.RecordID) *Evidence {
	cp := make([]field.RecordID, len(ids))
	copy(cp, ids)
	return &Evidence{Kind: EvidenceIDs, IDs: cp}
}

// CondEvidence captures a reconstructable predicate.
func CondEvidence(c Condition) *Evidence {
	return &Evidence{Kind: EvidenceCondition, Cond: &c}
}

// EqualsEvidence captures equality against one exact value; a null value
// becomes an IS NULL condition.
func EqualsEvidence(fieldName string, v field.Value) *Evidence {
	if v.IsNull() {
		return CondEvidence(Condition{Field: fieldName, Op: OpIsNull})
	}
	return CondEvidence(Condition{Field: fieldName, Op: OpEquals, Value: v})
}
