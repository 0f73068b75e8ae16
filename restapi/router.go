// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/quantumx/qvr-backend/model"
	"github.com/quantumx/qvr-backend/restapi/modules/admin"
	"github.com/quantumx/qvr-backend/restapi/modules/auth"
	"github.com/quantumx/qvr-backend/restapi/modules/vulnerabilities"
	"github.com/quantumx/qvr-backend/store"
	"go.uber.org/zap"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint under /api/v1.
func SetupRoutes(app *fiber.App, repo *store.Repository, authSvc *auth.Service, schema graphql.Schema, logger *zap.Logger) {
	api := app.Group("/api/v1")

	api.Post("/graphql", authSvc.OptionalAuth(), GraphQLHandler(schema, logger))

	// Public Routes
	api.Get("/vulnerabilities", vulnerabilities.ListPublished(repo))
	api.Get("/vulnerabilities/:id/check", vulnerabilities.CheckPublished(repo))
	api.Post("/submit", vulnerabilities.Submit(repo))

	// Auth Routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", auth.Login(authSvc))
	authGroup.Post("/logout", auth.Logout(authSvc))
	authGroup.Get("/me", authSvc.RequireAuth(), auth.Me(authSvc))

	// Admin Routes
	adminGroup := api.Group("/admin", authSvc.RequireAuth(), auth.RequireRole(model.RoleAdmin))
	adminGroup.Get("/users", auth.ListUsers(authSvc))
	adminGroup.Get("/vulnerabilities", admin.ListAll(repo))
	adminGroup.Post("/vulnerabilities", admin.Create(repo, logger))
	adminGroup.Get("/vulnerabilities/:id/check", admin.Check(repo))
	adminGroup.Put("/vulnerabilities/:id", admin.Update(repo, logger))
	adminGroup.Delete("/vulnerabilities/:id", admin.Delete(repo, logger))
	adminGroup.Patch("/vulnerabilities/:id/status", admin.UpdateStatus(repo, logger))

	logger.Info("API routes initialized", zap.String("backend", repo.BackendName()))
}
