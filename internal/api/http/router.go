package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	authmw "github.com/roomfit/roomfit/internal/auth/middleware"
	"github.com/roomfit/roomfit/internal/logging"
	"github.com/roomfit/roomfit/internal/match"
	"github.com/roomfit/roomfit/internal/metrics"
	"github.com/roomfit/roomfit/internal/rbac"
	syncx "github.com/roomfit/roomfit/internal/sync"
)

// Deps are the collaborators the gateway routes need.
type Deps struct {
	Auth         *authmw.AuthService
	Users        authmw.Users
	Admin        authmw.Admin
	AllowSignup  bool
	BcryptCost   int // 0 means the default cost
	Store        match.Store
	Events       syncx.Appender
	EventLog     EventLister // optional; enables /admin/events
	DB           Pinger      // optional; checked by /readyz
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	CORSOrigins  []string
	RequestLimit time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.RequestLimit <= 0 {
		d.RequestLimit = 30 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Requests(d.Logger), middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(middleware.Timeout(d.RequestLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Users, d.Admin))
	if d.AllowSignup {
		r.Post("/auth/register", authmw.RegisterHandler(d.Auth, d.Users, d.BcryptCost))
	}

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermPasswordChange)).
			Post("/auth/password", authmw.ChangePasswordHandler(d.Users, d.BcryptCost))
		pr.With(rbac.Require(rbac.PermUsersList)).
			Get("/admin/users", authmw.ListUsersHandler(d.Users))

		pr.Route("/questionnaire", func(qr chi.Router) {
			qr.With(rbac.Require(rbac.PermQuestionsView)).
				Get("/questions", GetQuestionsHandler(d.Store))
			qr.With(rbac.Require(rbac.PermCatalogEdit)).
				Put("/questions", PutQuestionsHandler(d.Store, d.Events, d.Metrics))
			qr.With(rbac.Require(rbac.PermAnswersViewOwn)).
				Get("/answers", GetAnswersHandler(d.Store))
			qr.With(rbac.Require(rbac.PermAnswersSubmit)).
				Post("/answers", SubmitAnswersHandler(d.Store, d.Events, d.Metrics))
		})

		pr.With(rbac.Require(rbac.PermMatchesView)).
			Get("/matches", ListMatchesHandler(d.Store, d.Metrics))

		if d.EventLog != nil {
			pr.With(rbac.Require(rbac.PermEventsView)).
				Get("/admin/events", ListEventsHandler(d.EventLog))
		}
	})

	r.Get("/healthz", HealthHandler())
	r.Get("/readyz", ReadyHandler(d.DB))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	return r
}
