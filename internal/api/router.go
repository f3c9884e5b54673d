package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamskills/skills-matrix-api/internal/api/handler"
	"github.com/teamskills/skills-matrix-api/internal/api/middleware"
	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
	"github.com/teamskills/skills-matrix-api/internal/core/service"
	"github.com/teamskills/skills-matrix-api/internal/infrastructure/config"
	mongodb "github.com/teamskills/skills-matrix-api/internal/infrastructure/db/mongo"
	redisdb "github.com/teamskills/skills-matrix-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit recorder arrives pre-built because its writer lifecycle is owned
// by main.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *goredis.Client, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("skillsmatrix"))

	// --- Dependencies ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	employeeRepo := mongodb.NewEmployeeRepository(db)
	skillRepo := mongodb.NewSkillRepository(db)
	linkRepo := mongodb.NewEmployeeSkillRepository(db)
	levelRepo := mongodb.NewLevelRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)

	credentialService := service.NewCredentialService(principalRepo, log)
	sessionService := service.NewSessionService(sessionStore, cfg.Session.Secret, cfg.Session.ShortTTL, cfg.Session.RememberTTL, log)
	gate := service.NewAccessGate(sessionService, audit, log)
	matrixService := service.NewMatrixService(employeeRepo, skillRepo, linkRepo, levelRepo, projectRepo, principalRepo, credentialService, audit, log)

	authHandler := handler.NewAuthHandler(credentialService, sessionService, audit, cfg.Session)
	employeeHandler := handler.NewEmployeeHandler(matrixService)
	skillHandler := handler.NewSkillHandler(matrixService)
	catalogHandler := handler.NewCatalogHandler(matrixService)
	adminHandler := handler.NewAdminHandler(credentialService, audit)
	auditHandler := handler.NewAuditHandler(audit)

	authenticated := middleware.Session(gate, cfg.Session.CookieName)
	adminOnly := middleware.RequireRole(gate, cfg.Session.CookieName, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Matrix routes (any valid session) ---
	e.GET("/v1/matrix", employeeHandler.Matrix, authenticated)
	e.PUT("/v1/employees/:id/skills", employeeHandler.UpdateSkills, authenticated)

	// --- Admin routes ---
	admin := e.Group("/v1", adminOnly)
	admin.GET("/employees", employeeHandler.List)
	admin.POST("/employees", employeeHandler.Create)
	admin.PUT("/employees/:id", employeeHandler.Update)
	admin.DELETE("/employees/:id", employeeHandler.Delete)

	admin.GET("/skills", skillHandler.List)
	admin.POST("/skills", skillHandler.Create)
	admin.PUT("/skills/:id", skillHandler.Update)
	admin.DELETE("/skills/:id", skillHandler.Delete)

	admin.GET("/levels", catalogHandler.ListLevels)
	admin.POST("/levels", catalogHandler.CreateLevel)
	admin.DELETE("/levels/:id", catalogHandler.DeleteLevel)

	admin.GET("/projects", catalogHandler.ListProjects)
	admin.POST("/projects", catalogHandler.CreateProject)
	admin.DELETE("/projects/:id", catalogHandler.DeleteProject)

	admin.GET("/admins", adminHandler.List)
	admin.POST("/admins", adminHandler.Create)
	admin.PUT("/admins/:id/password", adminHandler.ResetPassword)
	admin.DELETE("/admins/:id", adminHandler.Demote)

	admin.GET("/audit", auditHandler.List)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
