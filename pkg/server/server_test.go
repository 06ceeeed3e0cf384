package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
)

func newTestServer(t *testing.T, loaded bool) (*Server, *aggregate.Registry[[]ast.Pair]) {
	t.Helper()

	registry := aggregate.NewRegistry[[]ast.Pair]()
	if loaded {
		result := &aggregate.Result[[]ast.Pair]{
			RunID: "run-1",
			Entries: map[string][]ast.Pair{
				"GER": {{Identifier: "capital", Sign: "=", Value: ast.Number(64)}},
				"FRA": {{Identifier: "capital", Sign: "=", Value: ast.Number(16)}},
			},
			Files: []aggregate.FileStatus{
				{Path: "FRA.txt", Stem: "FRA", Status: aggregate.StatusOK, Checksum: "a"},
				{Path: "GER.txt", Stem: "GER", Status: aggregate.StatusOK, Checksum: "b"},
			},
		}
		if _, err := registry.Replace(result); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
	}

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("almanac_files_processed_total 2\n"))
	})

	srv := New(Config{
		Address:        "127.0.0.1:0",
		MetricsPath:    "/metrics",
		MetricsHandler: metrics,
	}, RegistrySource(registry), logging.Discard())
	return srv, registry
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t, true)
	h := srv.Handler()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/health", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{path: "/ready", wantStatus: http.StatusOK, wantBody: `"status":"ready"`},
		{path: "/stats", wantStatus: http.StatusOK, wantBody: `"run_id":"run-1"`},
		{path: "/entries", wantStatus: http.StatusOK, wantBody: `"stems":["FRA","GER"]`},
		{path: "/entries/GER", wantStatus: http.StatusOK, wantBody: `"capital"`},
		{path: "/entries/ITA", wantStatus: http.StatusNotFound, wantBody: `no entry for stem ITA`},
		{path: "/metrics", wantStatus: http.StatusOK, wantBody: `almanac_files_processed_total 2`},
		{path: "/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get(RequestIDHeader) == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestServer_NotReadyBeforeFirstLoad(t *testing.T) {
	srv, _ := newTestServer(t, false)

	rec := get(t, srv.Handler(), "/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	rec = get(t, srv.Handler(), "/entries")
	var body struct {
		Count int      `json:"count"`
		Stems []string `json:"stems"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Count != 0 || body.Stems == nil {
		t.Errorf("entries = %+v, want empty list", body)
	}
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "client-id" {
		t.Errorf("GetRequestID() = %q, want %q", seen, "client-id")
	}
	if got := rec.Header().Get(RequestIDHeader); got != "client-id" {
		t.Errorf("header = %q, want %q", got, "client-id")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("panic value leaked into the response")
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv, _ := newTestServer(t, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if srv.Addr() == nil {
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
