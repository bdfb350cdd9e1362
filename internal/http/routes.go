package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	localauth "github.com/reallifegames/localauth"
	"github.com/reallifegames/localauth/internal/apiclient"
	"github.com/reallifegames/localauth/internal/observability/metrics"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth  AuthAPI
	Users UsersAPI
	Dash  DashAPI
	// Console is the API client the admin console calls through. Nil disables the console.
	Console *apiclient.Client
	// Optional template and static filesystems. Nil selects disk (IsDev) or the embedded assets.
	TemplateFS fs.FS
	StaticFS   fs.FS

	CookieDomain string
	CORSOrigin   string
	TokenTTL     time.Duration
	Metrics      *metrics.Metrics
	// Compression gzips text responses at CompressionLevel (1-9).
	Compression      bool
	CompressionLevel int
	IsDev            bool
	Logger           *slog.Logger
}

// NewRouter wires the API, console, health and metrics routes behind the middleware chain.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	registerAPIRoutes(mux, &APIHandlers{
		Auth:         services.Auth,
		Users:        services.Users,
		Dash:         services.Dash,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       logger,
	})
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	var ui *UIHandlers
	if services.Console != nil {
		ui = setupUIHandlers(services, logger)
	}
	if ui != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS(services, logger))))
		registerUIRoutes(mux, ui)
	} else {
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) { writeStatus(w, http.StatusNotFound) })
	}

	var compression Middleware
	if services.Compression {
		compression = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})
	}
	return Chain(services.Metrics.Middleware(mux),
		Recover(logger),
		RequestID(),
		Logging(logger),
		CORS(CORSConfig{AllowOrigin: services.CORSOrigin}),
		CSRFProtection(CSRFConfig{
			CookieDomain:   services.CookieDomain,
			ExemptPrefixes: []string{"/api/", "/metrics", "/healthz", "/static/"},
		}),
		compression,
	)
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers) {
	mux.HandleFunc("GET /api/v1", h.Info)
	mux.HandleFunc("GET /api/v1/{$}", h.Info)
	mux.HandleFunc("POST /api/v1/login", h.Login)
	mux.HandleFunc("GET /api/v1/tokenValidity", h.TokenValidity)
	mux.HandleFunc("GET /api/v1/adminStatus", h.AdminStatus)
	mux.HandleFunc("GET /api/v1/dash", h.Dashboard)
	mux.HandleFunc("GET /api/v1/users", h.ListUsers)
	mux.HandleFunc("GET /api/v1/user/{username}", h.GetUser)
	mux.HandleFunc("POST /api/v1/createUser", h.CreateUser)
	mux.HandleFunc("PATCH /api/v1/editUser", h.EditUser)
	mux.HandleFunc("POST /api/v1/logout", h.Logout)
	// Unknown paths and unmatched methods under /api/ both answer a plain 404.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) { writeStatus(w, http.StatusNotFound) })
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Login)
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /dash", h.Dash)
	mux.HandleFunc("GET /management", h.Management)
	mux.HandleFunc("GET /createUser", h.CreateUser)
	mux.HandleFunc("POST /createUser", h.CreateUserSubmit)
	mux.HandleFunc("GET /editUsers", h.EditUsers)
	mux.HandleFunc("GET /editUser", h.EditUser)
	mux.HandleFunc("POST /editUser", h.EditUserSubmit)
	mux.HandleFunc("/", h.NotFound)
}

// setupUIHandlers builds the console handlers. Templates come from disk in dev mode so edits
// show up without a rebuild.
func setupUIHandlers(services RouterServices, logger *slog.Logger) *UIHandlers {
	templateFS := services.TemplateFS
	if templateFS == nil {
		templateFS = embeddedOrDisk(localauth.TemplateFS, TemplatePathFromRoot, services.IsDev, logger)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		logger.Error("failed to create template renderer; console disabled", slog.Any("error", err))
		return nil
	}
	return &UIHandlers{
		T:            tr,
		API:          services.Console,
		CookieDomain: services.CookieDomain,
		TokenTTL:     services.TokenTTL,
		Logger:       logger,
	}
}

func staticFS(services RouterServices, logger *slog.Logger) fs.FS {
	if services.StaticFS != nil {
		return services.StaticFS
	}
	return embeddedOrDisk(localauth.StaticFS, StaticPathFromRoot, services.IsDev, logger)
}

func embeddedOrDisk(embedded fs.FS, dir string, isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		logger.Warn("embedded assets unavailable; falling back to disk", "dir", dir, "error", err)
		return os.DirFS(dir)
	}
	return sub
}
