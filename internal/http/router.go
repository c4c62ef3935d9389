package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/httpx"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"

	_ "github.com/aussiebroadwan/quizdesk/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is an optional dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router serves one or more of the auth, quiz and users surfaces. A surface
// is mounted when its services are set before ApplyRoutes.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Cache, when set, is reported by /readyz.
	Cache Pinger

	// Verifier authenticates callers of the quiz and users surfaces.
	Verifier verifier.Verifier

	IdentityService *service.IdentityService
	QuestionService *service.QuestionService
	GraderService   *service.GraderService
	LedgerService   *service.LedgerService
}

func NewRouter(st store.Store, buildVersion string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slogx.Discard()
	}
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		middlewares: []httpx.Middleware{
			slogx.HTTPMiddleware(logger),
		},
	}
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	if r.IdentityService != nil {
		r.registerAuth()
	}
	if r.QuestionService != nil && r.GraderService != nil {
		r.registerQuiz()
	}
	if r.LedgerService != nil {
		r.registerUsers()
	}

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Quizdesk API
//	@version		0.1.0
//	@description	Auth, quiz and users services sharing opaque bearer tokens.
//	@description
//	@description	Tokens may be passed as the "token" query parameter or as "Authorization: Bearer {token}".
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/quizdesk
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@BasePath		/
//	@schemes		http https
//
//	@securityDefinitions.apikey	TokenQuery
//	@in							query
//	@name						token
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /healthz", HealthzHandler())
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Cache))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Identity: r.IdentityService}

	r.Mux.HandleFunc("POST /api/auth/register", h.Register)
	r.Mux.HandleFunc("POST /api/auth/login", h.Login)
	r.Mux.HandleFunc("GET /api/auth/me", h.Me)
	r.Mux.HandleFunc("GET /api/auth/validate", h.Validate)
	r.Mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

func (r *Router) registerQuiz() {
	h := &QuizHandler{
		Questions: r.QuestionService,
		Grader:    r.GraderService,
		Verifier:  r.Verifier,
	}

	r.Mux.HandleFunc("GET /questions", h.ListQuestions)
	r.Mux.HandleFunc("POST /questions", h.CreateQuestion)
	r.Mux.HandleFunc("POST /submit", h.Submit)
	r.Mux.HandleFunc("GET /submissions/latest", h.LatestSubmission)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Ledger: r.LedgerService, Verifier: r.Verifier}

	r.Mux.HandleFunc("GET /users", h.List)
	r.Mux.HandleFunc("GET /users/{username}", h.Get)
	r.Mux.HandleFunc("POST /users/{username}/score", h.UpdateScore)
}
