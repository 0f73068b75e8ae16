// Package restapi provides HTTP handlers for the REST API including GraphQL support.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// GraphQLHandler returns a Fiber handler for GraphQL requests
func GraphQLHandler(schema graphql.Schema, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var params struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}

		if err := c.BodyParser(&params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": []map[string]interface{}{{"message": "Invalid request body"}},
			})
		}

		opName := params.OperationName
		if opName == "" {
			opName = "-"
		}
		c.Locals("graphql_op", opName)

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  params.Query,
			VariableValues: params.Variables,
			OperationName:  params.OperationName,
			Context:        c.UserContext(),
		})

		if len(result.Errors) > 0 {
			logger.Warn("graphql errors",
				zap.String("operation", opName),
				zap.String("user", sessionUsername(c)),
				zap.Any("errors", result.Errors))
		}

		return c.JSON(result)
	}
}

// sessionUsername names the signed-in caller for logs, "-" for guests.
func sessionUsername(c *fiber.Ctx) string {
	if authenticated, _ := c.Locals("is_authenticated").(bool); !authenticated {
		return "-"
	}
	username, _ := c.Locals("username").(string)
	return username
}
