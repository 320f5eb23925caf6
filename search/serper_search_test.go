package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerperSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "apple inc" {
			t.Errorf("expected q=apple inc, got %q", got)
		}
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("expected apiKey forwarded, got %q", got)
		}
		w.Write([]byte(`{
			"organic": [
				{"position": 1, "title": "Apple", "link": "https://apple.com", "snippet": "Apple Inc."},
				{"position": 2, "title": "Wiki", "link": "https://en.wikipedia.org/wiki/Apple_Inc.", "snippet": "wiki"}
			],
			"knowledgeGraph": {"description": "American technology company"}
		}`))
	}))
	defer server.Close()

	engine := NewSerperSearchEngine("test-key")
	engine.baseURL = server.URL

	resp, err := engine.Search(context.Background(), &Request{Query: "apple inc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Title != "Apple" || resp.Results[0].Position != 1 {
		t.Errorf("unexpected first result: %+v", resp.Results[0])
	}
	if resp.KnowledgeGraph != "American technology company" {
		t.Errorf("unexpected knowledge graph: %q", resp.KnowledgeGraph)
	}
}

func TestSerperSearchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	engine := NewSerperSearchEngine("bad-key")
	engine.baseURL = server.URL

	if _, err := engine.Search(context.Background(), &Request{Query: "q"}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
