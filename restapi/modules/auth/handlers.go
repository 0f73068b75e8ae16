package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Login handles user login and sets auth cookie
func Login(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
		}

		if req.Username == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Username and password are required"})
		}

		user, err := s.Users.Authenticate(req.Username, req.Password)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
		}

		token, err := s.Tokens.Generate(user.Username, user.Role)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
		}

		s.SetAuthCookie(c, token)

		return c.JSON(LoginResponse{
			Message:   "Login successful",
			Token:     token,
			ExpiresIn: int64(TokenTTL.Seconds()),
			UserResponse: newUserResponse(user),
		})
	}
}

// Logout clears the auth cookie
func Logout(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Expires:  time.Now().Add(-1 * time.Hour),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   s.SecureCookies,
			SameSite: "Lax",
			Path:     "/",
		})
		return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
	}
}

// Me returns current authenticated user info
func Me(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, ok := c.Locals("username").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Not authenticated"})
		}

		user, found := s.Users.Lookup(username)
		if !found || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Account is no longer active"})
		}

		return c.JSON(newUserResponse(user))
	}
}

// ListUsers returns the admin directory without password hashes
func ListUsers(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": s.Users.List()})
	}
}

// SetAuthCookie stores the session token in an HttpOnly cookie
func (s *Service) SetAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenTTL),
		HTTPOnly: true,
		Secure:   s.SecureCookies,
		SameSite: "Lax",
		Path:     "/",
	})
}
