package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal"
	"github.com/rick2x/fieldprofiler/internal/analyze"
	"github.com/rick2x/fieldprofiler/internal/errors"
	"github.com/rick2x/fieldprofiler/internal/selection"
	"github.com/rick2x/fieldprofiler/ports"
)

// ProfileService orchestrates analysis runs: it extracts each requested
// field's values from a layer source, fans the per-field analysis out across
// workers, and retains finished runs so later selection and export calls can
// reference them by run ID.
type ProfileService struct {
	analyzer *analyze.Analyzer
	logger   *internal.Logger

	mu   sync.RWMutex
	runs map[core.RunID]*RunResult
}

// ProfileRequest defines the inputs for one analysis run
type ProfileRequest struct {
	Layer string
	// Fields to analyze; empty means every field the layer exposes.
	Fields []string
	// SelectedIDs restricts the run to an explicit record subset.
	SelectedIDs []field.RecordID
	// Config overrides the service defaults when non-nil.
	Config *profile.Config
}

// RunResult contains the complete output of one analysis run
type RunResult struct {
	RunID     core.RunID        `json:"run_id"`
	Layer     string            `json:"layer"`
	Records   []*profile.Record `json:"-"`
	RuntimeMs int64             `json:"runtime_ms"`

	scope  profile.Scope
	source ports.LayerSource
	config profile.Config
}

// Config returns the analysis configuration the run used.
func (r *RunResult) Config() profile.Config { return r.config }

// Record returns the run's record for one field.
func (r *RunResult) Record(fieldName string) (*profile.Record, bool) {
	for _, rec := range r.Records {
		if rec.Field == fieldName {
			return rec, true
		}
	}
	return nil, false
}

// NewProfileService creates a profile service
func NewProfileService(analyzer *analyze.Analyzer, logger *internal.Logger) *ProfileService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ProfileService{
		analyzer: analyzer,
		logger:   logger,
		runs:     make(map[core.RunID]*RunResult),
	}
}

// Profile runs the full analysis pipeline over one layer. Fields analyze
// independently and concurrently; one field's failure fails the run, since a
// partial profile is worse than a retryable error. Per-statistic problems
// never surface here, they degrade inside the records.
func (s *ProfileService) Profile(ctx context.Context, source ports.LayerSource, req ProfileRequest, defaults profile.Config) (*RunResult, error) {
	start := time.Now()
	runID := core.NewRunID()

	cfg := defaults
	if req.Config != nil {
		cfg = *req.Config
	}
	cfg = cfg.Normalize()

	infos, err := source.Fields(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing layer fields")
	}
	targets, err := resolveTargets(infos, req.Fields)
	if err != nil {
		return nil, err
	}

	scope := profile.AllRecords()
	if len(req.SelectedIDs) > 0 {
		scope = profile.SelectedRecords(req.SelectedIDs)
	}

	s.logger.Info("run %s: profiling %d field(s) on layer %s", runID, len(targets), req.Layer)

	records := make([]*profile.Record, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, info := range targets {
		i, info := i, info
		g.Go(func() error {
			set, err := source.Extract(gctx, info.Name, scope)
			if err != nil {
				return errors.Wrapf(err, "extracting field %q", info.Name)
			}
			records[i] = s.analyzer.Analyze(runID, info.Name, info.Storage, set, cfg, scope.IsSelection())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:     runID,
		Layer:     req.Layer,
		Records:   records,
		RuntimeMs: time.Since(start).Milliseconds(),
		scope:     scope,
		source:    source,
		config:    cfg,
	}

	s.mu.Lock()
	s.runs[runID] = result
	s.mu.Unlock()

	s.logger.Info("run %s: finished in %dms", runID, result.RuntimeMs)
	return result, nil
}

// Run returns a retained run by ID.
func (s *ProfileService) Run(runID core.RunID) (*RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	return r, ok
}

// Select resolves one statistic of a retained run back to record IDs on the
// layer the run analyzed, restricted to the run's scope. Unknown run, field
// or statistic is a caller error; evidence problems come back inside the
// Result as a stale flag.
func (s *ProfileService) Select(ctx context.Context, runID core.RunID, fieldName string, key profile.Key) (selection.Result, error) {
	run, ok := s.Run(runID)
	if !ok {
		return selection.Result{}, errors.NotFound("run " + runID.String())
	}
	rec, ok := run.Record(fieldName)
	if !ok {
		return selection.Result{}, errors.FieldNotFound(fieldName)
	}
	stat, ok := rec.Get(key)
	if !ok {
		return selection.Result{}, errors.NotFound("statistic " + string(key))
	}

	resolver := selection.NewResolver(run.source)
	result := resolver.ResolveStat(ctx, stat, run.scope)
	if result.Stale {
		s.logger.Warn("run %s: stale selection for %s.%s: %s", runID, fieldName, key, result.Reason)
	}
	return result, nil
}

// resolveTargets filters the layer's fields down to the requested ones,
// preserving request order; an unknown name fails the run up front.
func resolveTargets(infos []field.Info, requested []string) ([]field.Info, error) {
	if len(requested) == 0 {
		return infos, nil
	}
	byName := make(map[string]field.Info, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}
	out := make([]field.Info, 0, len(requested))
	for _, name := range requested {
		info, ok := byName[name]
		if !ok {
			return nil, errors.FieldNotFound(name)
		}
		out = append(out, info)
	}
	return out, nil
}
