package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/quantumx/qvr-backend/model"
)

// CookieName is the session cookie set on login
const CookieName = "auth_token"

// Service bundles what the auth handlers and middleware need
type Service struct {
	Tokens        *Tokens
	Users         *Directory
	SecureCookies bool
}

// tokenFromRequest reads the session cookie, falling back to an Authorization: Bearer header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(CookieName); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// errInactiveUser marks a valid token whose user is no longer in the directory or is disabled.
var errInactiveUser = errors.New("user is not active")

// sessionUser validates the token and resolves its subject against the directory. The role
// comes from the directory so a demotion or removal takes effect before the token expires.
func (s *Service) sessionUser(token string) (*model.User, error) {
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, ok := s.Users.Lookup(claims.Username)
	if !ok || !user.IsActive {
		return nil, errInactiveUser
	}
	return user, nil
}

func setSession(c *fiber.Ctx, user *model.User) {
	c.Locals("is_authenticated", true)
	c.Locals("username", user.Username)
	c.Locals("role", user.Role)
}

// RequireAuth middleware validates the session token and blocks guests
func (s *Service) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authentication required",
			})
		}

		user, err := s.sessionUser(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired session",
			})
		}

		setSession(c, user)
		return c.Next()
	}
}

// OptionalAuth identifies the user if a token is present but does not block guests.
func (s *Service) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			c.Locals("is_authenticated", false)
			return c.Next()
		}

		user, err := s.sessionUser(token)
		if err != nil {
			// Treat invalid/expired tokens and inactive users as guest access
			c.Locals("is_authenticated", false)
			return c.Next()
		}

		setSession(c, user)
		return c.Next()
	}
}

// RequireRole middleware checks if user has one of the required roles
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authentication required",
			})
		}

		for _, role := range allowedRoles {
			if userRole == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Insufficient permissions",
		})
	}
}
