package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/config"
	"github.com/ticketdesk-io/ticketdesk/internal/email"
	"github.com/ticketdesk-io/ticketdesk/internal/middleware"
	"github.com/ticketdesk-io/ticketdesk/internal/repository"
	"github.com/ticketdesk-io/ticketdesk/internal/service"
)

type Router struct {
	engine         *gin.Engine
	cfg            *config.Config
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	authHandler    *AuthHandler
	ticketHandler  *TicketHandler
}

// NewRouter wires repositories, services, handlers and middleware around
// an explicitly provided database handle.
func NewRouter(db *sqlx.DB, cfg *config.Config) *Router {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessTokenTTL)
	hasher := auth.NewPasswordHasher()
	capabilities := auth.NewCapabilities()

	ticketRepo := repository.NewTicketRepository(db)
	userRepo := repository.NewUserRepository(db)

	notifier := email.NewService(email.Config{
		Enabled:      cfg.Email.Enabled,
		SMTPHost:     cfg.Email.SMTP.Host,
		SMTPPort:     cfg.Email.SMTP.Port,
		SMTPUsername: cfg.Email.SMTP.User,
		SMTPPassword: cfg.Email.SMTP.Password,
		From:         cfg.Email.From,
		AdminTo:      cfg.Email.AdminTo,
		UseTLS:       cfg.Email.SMTP.TLS,
	})

	authService := auth.NewService(userRepo, jwtManager, hasher, cfg.Auth.Password.MinLength)
	ticketService := service.NewTicketService(ticketRepo, userRepo, capabilities, notifier)

	return &Router{
		engine:         gin.Default(),
		cfg:            cfg,
		authMiddleware: middleware.NewAuthMiddleware(jwtManager, capabilities),
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimiting.RequestsPerWindow, cfg.RateLimiting.Window),
		authHandler:    NewAuthHandler(authService, cfg.App.IsDevelopment()),
		ticketHandler:  NewTicketHandler(ticketService, cfg.App.IsDevelopment()),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Metrics())
	if r.cfg.Server.CORS.Enabled {
		r.engine.Use(middleware.CORS(r.cfg.Server.CORS.Origins))
	}
	if r.cfg.RateLimiting.Enabled {
		r.engine.Use(r.rateLimiter.Handler())
	}

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.engine.GET("/api/health", r.healthCheck)

	authGroup := r.engine.Group("/api/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.GET("/profile", r.authMiddleware.RequireAuth(), r.authHandler.Profile)
	}

	ticketGroup := r.engine.Group("/api/tickets")
	ticketGroup.Use(r.authMiddleware.RequireAuth())
	{
		ticketGroup.GET("", r.ticketHandler.ListTickets)
		ticketGroup.POST("", r.ticketHandler.CreateTicket)

		// Lookup routes are registered before /:id so gin does not
		// treat "services" and "stats" as ticket ids.
		ticketGroup.GET("/services/list", r.ticketHandler.ListServices)
		ticketGroup.GET("/users/list",
			r.authMiddleware.RequireAction(auth.ActionUserList), r.ticketHandler.ListUsers)
		ticketGroup.GET("/stats/overview", r.ticketHandler.StatsOverview)

		ticketGroup.GET("/:id", r.ticketHandler.GetTicket)
		ticketGroup.PATCH("/:id/status",
			r.authMiddleware.RequireAction(auth.ActionTicketUpdateStatus), r.ticketHandler.UpdateStatus)
		ticketGroup.PATCH("/:id/assign",
			r.authMiddleware.RequireAction(auth.ActionTicketAssign), r.ticketHandler.AssignTicket)
		ticketGroup.PATCH("/:id/estimated-time",
			r.authMiddleware.RequireAction(auth.ActionTicketEstimate), r.ticketHandler.UpdateEstimate)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"message":     "Ticket server operational",
		"environment": r.cfg.App.Env,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
