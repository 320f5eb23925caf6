package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"parsr/backend"
	"parsr/search"
	"parsr/storage"
)

// errorResponse is the uniform error shape of every /api route: a
// human-readable message plus debug fields for operators.
type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
	BackendURL string `json:"backend_url"`
	Timestamp  string `json:"timestamp"`
}

// handleSearch forwards a search request to the backend and normalizes its
// failures. One forward attempt per incoming request, no retry.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	var req backend.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "Query is required", "")
		return
	}

	resp, err := s.backend.Search(r.Context(), req)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	if s.history != nil {
		if err := s.history.Record(storage.HistoryEntry{
			Query:          req.Query,
			TotalResults:   resp.TotalResults,
			ProcessingTime: resp.ProcessingTime,
		}); err != nil {
			s.logger.Warn("failed to record search history", zap.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleSummarize forwards a per-source summary request to the backend.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	var req backend.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.SourceURL) == "" {
		s.writeError(w, http.StatusBadRequest, "source_url is required", "")
		return
	}
	if strings.TrimSpace(req.OriginalQuery) == "" {
		s.writeError(w, http.StatusBadRequest, "original_query is required", "")
		return
	}

	summary, err := s.backend.Summarize(r.Context(), req)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

// handleDirectSearch is the earlier route variant that queries the search
// provider directly instead of going through the backend.
func (s *Server) handleDirectSearch(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Query parameter q is required", "")
		return
	}

	if s.engine == nil {
		s.writeError(w, http.StatusInternalServerError,
			"Direct search is not configured", "set SERPER_API_KEY to enable this route")
		return
	}

	req := &search.Request{Query: query}
	if num, err := strconv.Atoi(r.URL.Query().Get("num")); err == nil {
		req.Num = num
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		req.Page = page
	}

	resp, err := s.engine.Search(r.Context(), req)
	if err != nil {
		s.logger.Warn("direct search failed", zap.String("query", query), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Search provider request failed", "")
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if s.history == nil {
		s.writeJSON(w, http.StatusOK, []storage.HistoryEntry{})
		return
	}

	limit := 20
	if parsed, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	entries, err := s.history.Recent(limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to read search history", "")
		return
	}

	s.writeJSON(w, http.StatusOK, entries)
}

// handleHealth reports this service and the result of probing the backend's
// own health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	type healthResponse struct {
		Status  string `json:"status"`
		Backend any    `json:"backend"`
	}

	probe, err := s.backend.Health(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusOK, healthResponse{
			Status:  "degraded",
			Backend: map[string]string{"status": "unreachable", "error": err.Error()},
		})
		return
	}

	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Backend: probe})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.WriteHeader(http.StatusOK)
}

// writeBackendError maps the typed backend errors onto proxy responses:
// backend HTTP errors relay the backend's status and detail, transport
// failures become a 500 with a classified suggestion.
func (s *Server) writeBackendError(w http.ResponseWriter, err error) {
	var serr *backend.StatusError
	if errors.As(err, &serr) {
		s.writeError(w, serr.Status, serr.Detail, "")
		return
	}

	var terr *backend.TransportError
	if errors.As(err, &terr) {
		switch terr.Kind {
		case backend.KindUnreachable:
			s.writeError(w, http.StatusInternalServerError,
				"Cannot reach the search backend",
				"the backend does not appear to be running; start it or check FASTAPI_URL")
		case backend.KindTimeout:
			s.writeError(w, http.StatusInternalServerError,
				"The search backend timed out", "")
		case backend.KindMalformed:
			s.writeError(w, http.StatusInternalServerError,
				"The search backend returned an unreadable response", "")
		default:
			s.writeError(w, http.StatusInternalServerError,
				"Network error talking to the search backend",
				"verify FASTAPI_URL points at the backend")
		}
		return
	}

	s.writeError(w, http.StatusInternalServerError, "Search request failed", "")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, suggestion string) {
	s.writeJSON(w, status, errorResponse{
		Error:      message,
		Suggestion: suggestion,
		BackendURL: s.backend.BaseURL(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
