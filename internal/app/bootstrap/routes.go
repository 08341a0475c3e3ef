// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	auditlogfeature "github.com/sprinthub/sprinthub/internal/app/features/auditlog"
	authfeature "github.com/sprinthub/sprinthub/internal/app/features/auth"
	companiesfeature "github.com/sprinthub/sprinthub/internal/app/features/companies"
	healthfeature "github.com/sprinthub/sprinthub/internal/app/features/health"
	projectsfeature "github.com/sprinthub/sprinthub/internal/app/features/projects"
	sprintsfeature "github.com/sprinthub/sprinthub/internal/app/features/sprints"
	tasksfeature "github.com/sprinthub/sprinthub/internal/app/features/tasks"
	teamsfeature "github.com/sprinthub/sprinthub/internal/app/features/teams"
	auditstore "github.com/sprinthub/sprinthub/internal/app/store/audit"
	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/app/system/auditlog"
	"github.com/sprinthub/sprinthub/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SprintHub mounts one feature router per
// API area; all of them speak JSON.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, appCfg.JWTSecret, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on every request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	audit := auditlog.New(auditstore.New(deps.MongoDatabase), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and registration
	authHandler := authfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Company name suggestions for the registration form
	companiesHandler := companiesfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/companies", companiesfeature.Routes(companiesHandler))

	// Project management
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, audit, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

	// Team management
	teamsHandler := teamsfeature.NewHandler(deps.MongoDatabase, audit, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler, sessionMgr))

	// Sprint lifecycle
	sprintsHandler := sprintsfeature.NewHandler(deps.MongoDatabase, audit, logger)
	r.Mount("/sprints", sprintsfeature.Routes(sprintsHandler, sessionMgr))

	// Task workflow
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, audit, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Audit trail
	auditHandler := auditlogfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
