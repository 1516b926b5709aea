package server

import (
	"net/http"

	"fundops/internal/config"
	"fundops/internal/metrics"
	"fundops/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Server wires the services behind a chi router
type Server struct {
	cfg       *config.Config
	db        *gorm.DB
	auth      *services.AuthService
	health    *services.HealthService
	companies *services.CompanyService
	investors *services.InvestorService
	lois      *services.LOIService
	signers   *services.SignerService
	reminders *services.ReminderService
	documents *services.DocumentService
}

// New creates a server with all services constructed against the given
// store handle
func New(db *gorm.DB, cfg *config.Config) *Server {
	return &Server{
		cfg:       cfg,
		db:        db,
		auth:      services.NewAuthService(db),
		health:    services.NewHealthService(db),
		companies: services.NewCompanyService(db),
		investors: services.NewInvestorService(db),
		lois:      services.NewLOIService(db),
		signers:   services.NewSignerService(db),
		reminders: services.NewReminderService(db),
		documents: services.NewDocumentService(db, cfg),
	}
}

// Router builds the HTTP routing table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.PrometheusMiddleware)
	r.Use(securityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: s.cfg.CORS.AllowedMethods,
		AllowedHeaders: s.cfg.CORS.AllowedHeaders,
		MaxAge:         s.cfg.CORS.MaxAge,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		// Everything else requires a valid session
		r.Group(func(r chi.Router) {
			r.Use(jwtAuth(s.db))

			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/view-mode", s.handleSetViewMode)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/auth/users", s.handleCreateUser)
				r.Get("/auth/users", s.handleListUsers)
				r.Patch("/auth/users/{id}/roles", s.handleSetUserRoles)
				r.Post("/companies", s.handleCreateCompany)
				r.Post("/companies/{id}/members", s.handleAddMember)
			})

			r.Get("/companies/{id}", s.handleGetCompany)
			r.Patch("/companies/{id}", s.handleUpdateCompany)
			r.Get("/companies/{id}/members", s.handleListMembers)

			r.Post("/companies/{id}/investors", s.handleCreateInvestor)
			r.Get("/companies/{id}/investors", s.handleListInvestors)
			r.Get("/investors/{id}", s.handleGetInvestor)
			r.Patch("/investors/{id}", s.handleUpdateInvestor)

			r.Post("/companies/{id}/lois", s.handleCreateLOI)
			r.Get("/companies/{id}/lois", s.handleListLOIs)
			r.Get("/lois/{id}", s.handleGetLOI)
			r.Put("/lois/{id}/expiry", s.handleSetMasterExpiry)
			r.Post("/lois/{id}/send", s.handleSendLOI)
			r.Post("/lois/{id}/cancel", s.handleCancelLOI)
			r.Post("/lois/{id}/distribute", s.handleDistribute)
			r.Post("/lois/{id}/sweep-expire", s.handleSweepExpire)
			r.Post("/lois/{id}/reminders", s.handleRecordReminder)
			r.Get("/lois/{id}/events", s.handleListLOIEvents)
			r.Get("/lois/{id}/signers", s.handleListSigners)

			r.Get("/signers/{id}", s.handleGetSigner)
			r.Post("/signers/{id}/accept", s.handleAcceptSigner)
			r.Post("/signers/{id}/sign", s.handleSignSigner)
			r.Post("/signers/{id}/revoke", s.handleRevokeSigner)
			r.Put("/signers/{id}/amount", s.handleSetAmount)
			r.Get("/signers/{id}/events", s.handleListSignerEvents)

			r.Post("/lois/{id}/documents", s.handleRegisterDocument)
			r.Get("/lois/{id}/documents", s.handleListDocuments)
			r.Get("/documents/{id}/signed-url", s.handleSignedURL)
			r.Delete("/documents/{id}", s.handleDeleteDocument)
		})
	})

	return r
}
