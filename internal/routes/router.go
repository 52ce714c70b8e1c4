package routes

import (
	"net/http"
	"project-pilot/internal/config"
	"project-pilot/internal/delivery/http/handler"
	"project-pilot/internal/infrastructure/database/postgres"
	"project-pilot/internal/infrastructure/mail"
	"project-pilot/internal/logger"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/membership"
	"project-pilot/internal/usecase/note"
	"project-pilot/internal/usecase/project"
	"project-pilot/internal/usecase/task"
	"project-pilot/internal/usecase/user"
	"project-pilot/pkg/utils"

	"github.com/gin-gonic/gin"
)

// App is the wired HTTP surface plus the pieces main needs to run and stop it.
type App struct {
	Engine *gin.Engine
	Users  *user.Service

	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter sweepers.
func (a *App) Close() {
	for _, l := range a.limiters {
		l.Stop()
	}
}

func SetupRoutes(cfg *config.Config, db *postgres.DB) *App {
	production := cfg.Server.Environment == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	generalLimiter := middleware.NewRateLimiter("general", cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.NewRateLimiter("auth", cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(production))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(generalLimiter.Middleware())

	signer := utils.NewTokenSigner(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	var mailer mail.Sender = mail.NewLogSender()
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPSender(&cfg.SMTP)
	} else {
		logger.Warn("SMTP_HOST is not set, outgoing email will only be logged")
	}
	composer := mail.NewComposer(cfg.SMTP.ProductName, cfg.SMTP.ProductLink)

	userRepository := postgres.NewUserRepository(db)
	userService := user.NewService(userRepository, utils.NewTokenCodec(), signer, mailer, composer, cfg)
	authHandler := handler.NewAuthHandler(userService, production, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	registry := membership.NewRegistry(postgres.NewMembershipRepository(db), userRepository)
	gate := membership.NewGate(registry)

	projectService := project.NewService(postgres.NewProjectRepository(db), userRepository, registry)
	projectHandler := handler.NewProjectHandler(projectService, gate)

	taskService := task.NewService(postgres.NewTaskRepository(db), registry)
	taskHandler := handler.NewTaskHandler(taskService, gate)

	noteService := note.NewService(postgres.NewNoteRepository(db), userRepository)
	noteHandler := handler.NewNoteHandler(noteService, gate)

	requireAuth := middleware.AuthMiddleware(signer)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/healthcheck", func(c *gin.Context) {
			if err := db.Health(); err != nil {
				utils.ErrorResponse(c, http.StatusServiceUnavailable, "Database connection failed")
				return
			}
			utils.SuccessResponse(c, http.StatusOK, "Server is running", gin.H{"status": "healthy"})
		})

		authHandler.RegisterRoutes(v1, requireAuth, authLimiter.Middleware())

		protected := v1.Group("", requireAuth)
		{
			scoped := projectHandler.RegisterRoutes(protected)
			taskHandler.RegisterRoutes(scoped)
			noteHandler.RegisterRoutes(scoped)
		}
	}

	logger.Info("All routes initialized")
	return &App{
		Engine:   router,
		Users:    userService,
		limiters: []*middleware.RateLimiter{generalLimiter, authLimiter},
	}
}
