package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ahsanfayaz52/sharednotes/internal/ai"
	"github.com/ahsanfayaz52/sharednotes/internal/auth"
	"github.com/ahsanfayaz52/sharednotes/internal/middleware"
	"github.com/ahsanfayaz52/sharednotes/internal/notes"
	"github.com/ahsanfayaz52/sharednotes/internal/respond"
	"github.com/ahsanfayaz52/sharednotes/internal/sharing"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store     *store.Store
	Auth      *auth.Service
	Notes     *notes.Service
	Sharing   *sharing.Service
	Assistant ai.Assistant

	// Cache is pinged by /healthz when set.
	Cache Pinger

	// Limiter may be nil, which disables rate limiting.
	Limiter         middleware.Limiter
	TrustedProxies  *middleware.TrustedProxies
	LoginRateLimit  int
	LoginRateWindow time.Duration

	AllowedOrigins []string
	SecureCookie   bool
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.NotFoundHandler = middleware.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}))

	loginLimit := middleware.RateLimit(d.Limiter, d.TrustedProxies, "login", d.LoginRateLimit, d.LoginRateWindow)
	registerLimit := middleware.RateLimit(d.Limiter, d.TrustedProxies, "register", d.LoginRateLimit, d.LoginRateWindow)

	r.HandleFunc("/healthz", HealthHandler(d.Store, d.Cache)).Methods("GET")

	r.Handle("/register", registerLimit(RegisterHandler(d.Auth))).Methods("POST")
	r.Handle("/login", loginLimit(LoginHandler(d.Auth, d.SecureCookie))).Methods("POST")
	r.HandleFunc("/logout", LogoutHandler(d.Auth)).Methods("GET")

	// Authenticated routes
	s := r.PathPrefix("/").Subrouter()
	s.Use(auth.RequireActor(d.Auth))

	s.HandleFunc("/notes", ListNotesHandler(d.Notes)).Methods("GET")
	s.HandleFunc("/notes", CreateNoteHandler(d.Notes)).Methods("POST")
	s.HandleFunc("/notes/tags", TagsHandler(d.Notes)).Methods("GET")
	s.HandleFunc("/notes/ai-tools", AIToolsHandler(d.Assistant)).Methods("POST")
	s.HandleFunc("/notes/{id:[0-9]+}", GetNoteHandler(d.Notes)).Methods("GET")
	s.HandleFunc("/notes/{id:[0-9]+}", UpdateNoteHandler(d.Notes)).Methods("PUT")
	s.HandleFunc("/notes/{id:[0-9]+}", DeleteNoteHandler(d.Notes)).Methods("DELETE")
	s.HandleFunc("/notes/{id:[0-9]+}/share", ShareNoteHandler(d.Sharing)).Methods("POST")
	s.HandleFunc("/notes/{id:[0-9]+}/shares", ListSharesHandler(d.Sharing)).Methods("GET")
	s.HandleFunc("/users/search", SearchUsersHandler(d.Auth)).Methods("GET")

	return cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(r)
}

// HealthHandler fails when the database is unreachable. Redis is optional,
// so losing it only marks the service degraded.
func HealthHandler(db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			zap.L().Error("health check: database", zap.Error(err))
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
			return
		}

		body := map[string]string{"status": "ok", "database": "up"}
		if cache != nil {
			body["redis"] = "up"
			if err := cache.Ping(r.Context()); err != nil {
				zap.L().Warn("health check: redis", zap.Error(err))
				body["status"] = "degraded"
				body["redis"] = "down"
			}
		}
		respond.JSON(w, http.StatusOK, body)
	}
}
