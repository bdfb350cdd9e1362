package httpx

import (
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/reallifegames/localauth/internal/apiclient"
)

// UIHandlers serves the admin console. Every action goes through API, never the database.
type UIHandlers struct {
	T            *TemplateRenderer
	API          *apiclient.Client
	CookieDomain string
	// TokenTTL is the lifetime of the browser cookie set after login.
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// clientFor returns an API client that carries the browser's session token.
func (h *UIHandlers) clientFor(r *http.Request) *apiclient.Client {
	return h.API.WithToken(tokenFromRequest(r))
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": tokenFromRequest(r) != "",
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	return data
}

// renderPage renders the full layout, or only the content section for htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.renderTemplateError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	title, _ := data["Title"].(string)
	// htmx picks up <title> on partial swaps.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	page, _ := data["CurrentPage"].(string)
	if err := h.T.RenderContent(w, page, data); err != nil {
		h.logger().ErrorContext(r.Context(), "partial content render failed", "error", err, "page", page)
	}
}

// notify reports t after a form submission. htmx requests get the toast event and no body;
// plain form posts get the page re-rendered with t as a flash message.
func (h *UIHandlers) notify(w http.ResponseWriter, r *http.Request, t Toast, rerender func(flash *Toast)) {
	if IsHTMX(r) {
		triggerToast(w, t)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rerender(&t)
}

func (h *UIHandlers) renderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "template render failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", RequestIDFromContext(r.Context()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// NotFound renders the console 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":   "Page Not Found - LocalAuth",
		"Code":    "404",
		"Message": "The page you're looking for doesn't exist.",
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T == nil || h.T.RenderError(w, r, data) != nil {
		_, _ = w.Write([]byte("Page not found"))
	}
}
