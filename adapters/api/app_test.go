package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rick2x/fieldprofiler/adapters/distshape"
	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/domain/profile"
	"github.com/rick2x/fieldprofiler/internal"
	"github.com/rick2x/fieldprofiler/internal/analyze"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, _ := newTestAppWithDir(t)
	return a
}

func newTestAppWithDir(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	csv := "city,score\nSpringfield,1\nShelbyville,2\nCapital City,3\nOgdenville,4\nNorth Haverbrook,100\n"
	if err := os.WriteFile(filepath.Join(dir, "cities.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := internal.NewLogger(internal.LogLevelError)
	profiles := app.NewProfileService(analyze.New(distshape.NewAnalyzer()), logger)
	exports := app.NewExportService(profiles, logger)
	sources := NewSourceResolver(dir, nil, "public")
	return NewApp(profiles, exports, sources, profile.DefaultConfig(), logger), dir
}

func doJSON(t *testing.T, handler http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProfileEndpoint(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodPost, "/api/layers/cities/profile", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var run RunDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.RunID == "" || run.Layer != "cities" {
		t.Errorf("run = %+v", run)
	}
	if len(run.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(run.Records))
	}
	score := run.Records[1]
	if score.Field != "score" || score.WorkingType != "numeric" {
		t.Errorf("score record = %+v", score)
	}
	if len(score.Stats) == 0 {
		t.Error("score record should carry statistics")
	}
}

func TestProfileUnknownLayer(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodPost, "/api/layers/missing/profile", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSelectEndpoint(t *testing.T) {
	a := newTestApp(t)
	runRec := doJSON(t, a.Router(), http.MethodPost, "/api/layers/cities/profile", nil)
	var run RunDTO
	if err := json.Unmarshal(runRec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, a.Router(), http.MethodPost, "/api/runs/"+run.RunID+"/select",
		SelectRequestDTO{Field: "score", Key: "outlier_count"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		IDs   []int64 `json:"ids"`
		Stale bool    `json:"stale"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Stale || len(result.IDs) != 1 || result.IDs[0] != 5 {
		t.Errorf("selection = %+v, want record 5", result)
	}
}

func TestSelectValidation(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodPost, "/api/runs/nope/select", SelectRequestDTO{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	a := newTestApp(t)
	runRec := doJSON(t, a.Router(), http.MethodPost, "/api/layers/cities/profile", nil)
	var run RunDTO
	if err := json.Unmarshal(runRec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, a.Router(), http.MethodGet, "/api/runs/"+run.RunID+"/export?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "field,") {
		t.Errorf("csv body = %q", rec.Body.String()[:40])
	}

	rec = doJSON(t, a.Router(), http.MethodGet, "/api/runs/"+run.RunID+"/export?format=pdf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported format status = %d, want 400", rec.Code)
	}
}

func TestFieldsEndpoint(t *testing.T) {
	a := newTestApp(t)
	rec := doJSON(t, a.Router(), http.MethodGet, "/api/layers/cities/fields", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "score") {
		t.Errorf("fields body = %s", rec.Body.String())
	}
}

func TestDropLayerCacheEndpoint(t *testing.T) {
	a, dir := newTestAppWithDir(t)

	// First resolve caches the file source.
	rec := doJSON(t, a.Router(), http.MethodGet, "/api/layers/cities/fields", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	csv := "city,score,altitude\nSpringfield,1,300\n"
	if err := os.WriteFile(filepath.Join(dir, "cities.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, a.Router(), http.MethodGet, "/api/layers/cities/fields", nil)
	if strings.Contains(rec.Body.String(), "altitude") {
		t.Fatal("cached source should still serve the old schema")
	}

	rec = doJSON(t, a.Router(), http.MethodDelete, "/api/layers/cities/cache", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("invalidate status = %d", rec.Code)
	}

	rec = doJSON(t, a.Router(), http.MethodGet, "/api/layers/cities/fields", nil)
	if !strings.Contains(rec.Body.String(), "altitude") {
		t.Errorf("fields after invalidation = %s, want reread schema", rec.Body.String())
	}
}
