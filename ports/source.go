package ports

import (
	"context"

	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

// LayerSource is the data-source collaborator: it supplies raw field values
// for an analysis run and evaluates reconstructed selection conditions. The
// core never touches a backing store directly.
type LayerSource interface {
	// Fields lists the layer's fields with their declared storage types.
	Fields(ctx context.Context) ([]field.Info, error)

	// Extract returns the ordered (record, raw value) pairs for one field
	// over the given scope. Returns core.ErrFieldNotFound for unknown fields.
	Extract(ctx context.Context, fieldName string, scope profile.Scope) (*field.ValueSet, error)

	// SelectWhere evaluates a condition against the layer within the given
	// scope and returns the matching record IDs. Returns core.ErrFieldNotFound
	// when the condition references a field the layer no longer exposes.
	SelectWhere(ctx context.Context, cond profile.Condition, scope profile.Scope) ([]field.RecordID, error)
}
