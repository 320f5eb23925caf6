package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"parsr/backend"
	"parsr/search"
	"parsr/storage"
	"parsr/web"
)

// Server wires the proxy routes and the results page onto one mux.
type Server struct {
	backend *backend.Client
	engine  search.Engine
	history *storage.HistoryStore
	pages   *web.Handler
	logger  *zap.Logger
	port    int
}

// NewServer creates the API server. engine may be nil when no SERPER_API_KEY
// is configured; history and pages may be nil in tests.
func NewServer(client *backend.Client, engine search.Engine, history *storage.HistoryStore, pages *web.Handler, logger *zap.Logger, port int) *Server {
	return &Server{
		backend: client,
		engine:  engine,
		history: history,
		pages:   pages,
		logger:  logger,
		port:    port,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/search", s.handleDirectSearch)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("OPTIONS /api/", s.handlePreflight)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.pages != nil {
		s.pages.Register(mux)
	}

	return mux
}

// Start starts the API server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}
