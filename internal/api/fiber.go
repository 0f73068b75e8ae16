// Package api builds the fiber application serving the registry.
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/graphql"
	"github.com/quantumx/qvr-backend/restapi"
	"github.com/quantumx/qvr-backend/restapi/modules/auth"
	"github.com/quantumx/qvr-backend/store"
	"go.uber.org/zap"
)

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(cfg *config.Config, repo *store.Repository, authSvc *auth.Service, log *zap.Logger) (*fiber.App, error) {
	schema, err := graphql.CreateSchema(repo)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      "qvr-backend API v1.0",
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		ErrorHandler: errorHandler(log),
	})

	// Middleware
	app.Use(fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("panic while serving request", zap.String("path", c.Path()), zap.Any("panic", e))
		},
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
	}))

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"backend": repo.BackendName(),
		})
	})

	restapi.SetupRoutes(app, repo, authSvc, schema, log)

	return app, nil
}

// errorHandler renders errors that escape handlers, including recovered panics, in the
// standard envelope.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}
}
