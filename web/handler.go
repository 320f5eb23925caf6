package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"parsr/config"
	"parsr/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookie = "parsr_session"

// Handler serves the search results page and the tab/pagination actions that
// drive the per-session controller.
type Handler struct {
	store     *session.Store
	ui        config.UIConfig
	logger    *zap.Logger
	templates *template.Template
}

func NewHandler(store *session.Store, ui config.UIConfig, logger *zap.Logger) *Handler {
	funcs := template.FuncMap{
		"resultsBadge":    ResultsBadge,
		"elapsedBadge":    ElapsedBadge,
		"confidenceBadge": ConfidenceBadge,
		"sourceTab":       session.SourceTab,
		"pathEscape":      url.PathEscape,
		"add":             func(a, b int) int { return a + b },
		"sub":             func(a, b int) int { return a - b },
	}

	return &Handler{
		store:     store,
		ui:        ui,
		logger:    logger,
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

// Register mounts the page routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /search", h.handleSubmit)
	mux.HandleFunc("GET /search/{query}", h.handleResults)
	mux.HandleFunc("POST /search/{query}/open/{n}", h.handleOpenSource)
	mux.HandleFunc("POST /search/{query}/close/{n}", h.handleCloseSource)
}

type pageData struct {
	UI       config.UIConfig
	Snapshot session.Snapshot
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", pageData{UI: h.ui})
}

// handleSubmit navigates to the encoded query path. Empty and whitespace-only
// queries re-render the form without navigating.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.FormValue("q"))
	if query == "" {
		h.render(w, "index.html", pageData{UI: h.ui})
		return
	}
	http.Redirect(w, r, "/search/"+url.PathEscape(query), http.StatusSeeOther)
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	ctl := h.sessionController(w, r)

	if err := ctl.Navigate(r.Context(), query); err != nil && err == session.ErrEmptyQuery {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil {
			if snap := ctl.Snapshot(); snap.Page != page {
				ctl.SetPage(r.Context(), page)
			}
		}
	}

	if tab := r.URL.Query().Get("tab"); tab != "" {
		ctl.Activate(tab)
	}

	h.render(w, "results.html", pageData{UI: h.ui, Snapshot: ctl.Snapshot()})
}

func (h *Handler) handleOpenSource(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	ctl := h.sessionController(w, r)

	if n, err := strconv.Atoi(r.PathValue("n")); err == nil {
		// A failed summary renders as a terminal error card; the redirect
		// below shows it, so the error is not handled here.
		ctl.OpenSource(r.Context(), n)
	}

	http.Redirect(w, r, "/search/"+url.PathEscape(query), http.StatusSeeOther)
}

func (h *Handler) handleCloseSource(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	ctl := h.sessionController(w, r)

	if n, err := strconv.Atoi(r.PathValue("n")); err == nil {
		ctl.CloseSource(n)
	}

	http.Redirect(w, r, "/search/"+url.PathEscape(query), http.StatusSeeOther)
}

// sessionController resolves the controller bound to the request's session
// cookie, creating a session when none exists yet.
func (h *Handler) sessionController(w http.ResponseWriter, r *http.Request) *session.Controller {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if ctl, ok := h.store.Get(cookie.Value); ok {
			return ctl
		}
	}

	id, ctl := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctl
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}
