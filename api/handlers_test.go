package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"parsr/backend"
	"parsr/search"
	"parsr/storage"
)

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	client := backend.NewClient(backendURL, zap.NewNop())
	return NewServer(client, nil, nil, nil, zap.NewNop(), 0)
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestSearchRequiresQuery(t *testing.T) {
	server := newTestServer(t, "http://localhost:0")

	cases := []struct {
		name string
		body string
	}{
		{"MissingField", `{}`},
		{"BlankQuery", `{"query": "   "}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/search", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if body["error"] != "Query is required" {
				t.Errorf("unexpected error message: %v", body["error"])
			}
		})
	}
}

func TestSearchRelaysBackendStatusAndDetail(t *testing.T) {
	fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer fakeBackend.Close()

	server := newTestServer(t, fakeBackend.URL)
	rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/search", `{"query":"q"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected relayed 503, got %d", rec.Code)
	}
	if body["error"] != "overloaded" {
		t.Errorf("expected backend detail relayed, got %v", body["error"])
	}
	if body["backend_url"] != fakeBackend.URL {
		t.Errorf("expected backend_url debug field, got %v", body["backend_url"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Errorf("timestamp not RFC3339: %v", body["timestamp"])
	}
}

func TestSearchBackendUnreachable(t *testing.T) {
	fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	fakeBackend.Close()

	server := newTestServer(t, fakeBackend.URL)
	rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/search", `{"query":"q"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(strings.ToLower(msg), "reach") {
		t.Errorf("expected message saying the backend cannot be reached, got %q", msg)
	}
	if body["suggestion"] == "" {
		t.Error("expected an operator suggestion")
	}
}

func TestSearchSuccessRecordsHistory(t *testing.T) {
	fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.SearchResponse{
			Query:          "golang",
			TotalResults:   7,
			ProcessingTime: 0.5,
		})
	}))
	defer fakeBackend.Close()

	history, err := storage.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer history.Close()

	client := backend.NewClient(fakeBackend.URL, zap.NewNop())
	server := NewServer(client, nil, history, nil, zap.NewNop(), 0)

	rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/search", `{"query":"golang"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["total_results"].(float64) != 7 {
		t.Errorf("response not relayed: %v", body)
	}

	entries, err := history.Recent(5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "golang" || entries[0].TotalResults != 7 {
		t.Errorf("history not recorded: %+v", entries)
	}
}

func TestSummarizeValidatesFields(t *testing.T) {
	server := newTestServer(t, "http://localhost:0")

	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"MissingSourceURL", `{"original_query":"q"}`, "source_url is required"},
		{"MissingQuery", `{"source_url":"https://a"}`, "original_query is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/summarize", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if body["error"] != tc.wantMsg {
				t.Errorf("expected %q, got %v", tc.wantMsg, body["error"])
			}
		})
	}
}

func TestSummarizeRelaysSummary(t *testing.T) {
	fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarize" {
			t.Errorf("expected /summarize, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(backend.SourceSummary{
			Summary:         "sum",
			ContentType:     "article",
			ConfidenceScore: 0.8,
		})
	}))
	defer fakeBackend.Close()

	server := newTestServer(t, fakeBackend.URL)
	rec, body := doJSON(t, server.Handler(), http.MethodPost, "/api/summarize",
		`{"source_url":"https://a","original_query":"q"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["content_type"] != "article" {
		t.Errorf("summary not relayed: %v", body)
	}
}

type stubEngine struct {
	resp *search.Response
}

func (s *stubEngine) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	return s.resp, nil
}

func TestDirectSearchRoute(t *testing.T) {
	t.Run("Unconfigured", func(t *testing.T) {
		server := newTestServer(t, "http://localhost:0")
		rec, _ := doJSON(t, server.Handler(), http.MethodGet, "/api/search?q=apple", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500 without an engine, got %d", rec.Code)
		}
	})

	t.Run("MissingQueryParam", func(t *testing.T) {
		server := newTestServer(t, "http://localhost:0")
		rec, _ := doJSON(t, server.Handler(), http.MethodGet, "/api/search", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without q, got %d", rec.Code)
		}
	})

	t.Run("Configured", func(t *testing.T) {
		client := backend.NewClient("http://localhost:0", zap.NewNop())
		engine := &stubEngine{resp: &search.Response{
			Query:   "apple",
			Results: []search.Result{{Title: "Apple", Link: "https://apple.com"}},
		}}
		server := NewServer(client, engine, nil, nil, zap.NewNop(), 0)

		rec, body := doJSON(t, server.Handler(), http.MethodGet, "/api/search?q=apple", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		results := body["results"].([]any)
		if len(results) != 1 {
			t.Errorf("unexpected results: %v", body)
		}
	})
}

func TestHealthReportsBackendState(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				t.Errorf("expected /health, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(backend.HealthStatus{Status: "healthy", Message: "System is operational"})
		}))
		defer fakeBackend.Close()

		server := newTestServer(t, fakeBackend.URL)
		rec, body := doJSON(t, server.Handler(), http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK || body["status"] != "ok" {
			t.Errorf("expected ok health, got %d %v", rec.Code, body)
		}
	})

	t.Run("Degraded", func(t *testing.T) {
		fakeBackend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		fakeBackend.Close()

		server := newTestServer(t, fakeBackend.URL)
		rec, body := doJSON(t, server.Handler(), http.MethodGet, "/health", "")
		if rec.Code != http.StatusOK || body["status"] != "degraded" {
			t.Errorf("expected degraded health, got %d %v", rec.Code, body)
		}
	})
}

func TestPreflightSetsCORSHeaders(t *testing.T) {
	server := newTestServer(t, "http://localhost:0")

	rec, _ := doJSON(t, server.Handler(), http.MethodOptions, "/api/search", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on preflight")
	}
}

func TestHistoryEndpoint(t *testing.T) {
	history, err := storage.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer history.Close()

	history.Record(storage.HistoryEntry{Query: "one"})
	history.Record(storage.HistoryEntry{Query: "two"})

	client := backend.NewClient("http://localhost:0", zap.NewNop())
	server := NewServer(client, nil, history, nil, zap.NewNop(), 0)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=1", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var entries []storage.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Query != "two" {
		t.Errorf("expected newest entry only, got %+v", entries)
	}
}
