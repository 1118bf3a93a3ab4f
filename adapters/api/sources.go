package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/rick2x/fieldprofiler/adapters/postgres"
	"github.com/rick2x/fieldprofiler/adapters/table"
	"github.com/rick2x/fieldprofiler/domain/core"
	apperrors "github.com/rick2x/fieldprofiler/internal/errors"
	"github.com/rick2x/fieldprofiler/ports"
)

// SourceResolver maps layer names to layer sources. Plain names resolve to
// files under the configured directory; names with a "db/" prefix resolve to
// PostgreSQL tables when a connection is configured. File sources cache on
// first open since the table adapter loads everything into memory.
type SourceResolver struct {
	dir    string
	db     *sqlx.DB
	schema string

	mu    sync.Mutex
	cache map[string]ports.LayerSource
}

// NewSourceResolver creates a resolver. db may be nil when no database is
// configured.
func NewSourceResolver(dir string, db *sqlx.DB, schema string) *SourceResolver {
	return &SourceResolver{
		dir:    dir,
		db:     db,
		schema: schema,
		cache:  make(map[string]ports.LayerSource),
	}
}

// Resolve returns the source for a layer name.
func (r *SourceResolver) Resolve(layer string) (ports.LayerSource, error) {
	if table, ok := strings.CutPrefix(layer, "db/"); ok {
		if r.db == nil {
			return nil, fmt.Errorf("%w: no database configured for layer %s", core.ErrLayerNotFound, layer)
		}
		return postgres.NewLayerSource(r.db, r.schema, table, "id"), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if src, ok := r.cache[layer]; ok {
		return src, nil
	}
	src, err := r.openFile(layer)
	if err != nil {
		return nil, err
	}
	r.cache[layer] = src
	return src, nil
}

// Invalidate drops a cached file layer so the next resolve rereads it.
func (r *SourceResolver) Invalidate(layer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, layer)
}

func (r *SourceResolver) openFile(layer string) (ports.LayerSource, error) {
	// Reject names escaping the layer directory.
	if strings.Contains(layer, "..") || strings.ContainsAny(layer, `/\`) {
		return nil, fmt.Errorf("%w: invalid layer name %q", core.ErrLayerNotFound, layer)
	}
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(r.dir, layer+ext)
		if _, err := os.Stat(path); err == nil {
			src, err := table.Open(path)
			if err != nil {
				return nil, apperrors.SourceError("opening layer " + layer + ": " + err.Error())
			}
			return src, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrLayerNotFound, layer)
}
