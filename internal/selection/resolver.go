// Package selection rebuilds record subsets from statistic evidence. The
// resolver is deliberately infallible at the API level: evidence that no
// longer matches the live layer yields an empty, stale-flagged result rather
// than an error, because the caller is a presentation layer that can only
// display the outcome.
package selection

import (
	"context"
	"sort"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/ports"
)

// Result is the outcome of resolving one piece of evidence. Stale marks
// evidence that referenced data the layer no longer exposes; Reason explains
// a stale or empty outcome in display-ready form.
type Result struct {
	IDs    []field.RecordID `json:"ids"`
	Stale  bool             `json:"stale"`
	Reason string           `json:"reason,omitempty"`
}

// Count returns the number of resolved records.
func (r Result) Count() int { return len(r.IDs) }

// Resolver maps statistic evidence back to record IDs on a layer.
type Resolver struct {
	source ports.LayerSource
}

// NewResolver builds a resolver over one layer source.
func NewResolver(source ports.LayerSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve turns evidence into the matching record set, restricted to scope
// when the caller holds an active selection. A nil evidence, a vanished
// field, or a source failure all resolve to an empty stale result.
func (r *Resolver) Resolve(ctx context.Context, ev *profile.Evidence, scope profile.Scope) Result {
	if ev == nil {
		return Result{Stale: true, Reason: "statistic carries no selection evidence"}
	}

	switch ev.Kind {
	case profile.EvidenceIDs:
		ids := restrict(ev.IDs, scope)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return Result{IDs: ids}

	case profile.EvidenceCondition:
		if ev.Cond == nil {
			return Result{Stale: true, Reason: "condition evidence is missing its condition"}
		}
		ids, err := r.source.SelectWhere(ctx, *ev.Cond, scope)
		if err != nil {
			if core.IsNotFoundError(err) {
				return Result{Stale: true, Reason: "field " + ev.Cond.Field + " no longer exists on the layer"}
			}
			return Result{Stale: true, Reason: "selection failed: " + err.Error()}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return Result{IDs: ids}
	}
	return Result{Stale: true, Reason: "unknown evidence kind"}
}

// ResolveStat resolves the evidence attached to one statistic entry.
func (r *Resolver) ResolveStat(ctx context.Context, stat profile.Stat, scope profile.Scope) Result {
	return r.Resolve(ctx, stat.Evidence, scope)
}

// restrict intersects captured IDs with an active selection. Records deleted
// since capture drop out naturally when the scope no longer lists them; for
// an all-records scope the captured set passes through unchanged.
func restrict(ids []field.RecordID, scope profile.Scope) []field.RecordID {
	out := make([]field.RecordID, 0, len(ids))
	for _, id := range ids {
		if scope.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
