package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// TokenHeader carries the shared API token.
const TokenHeader = "X-API-Token"

// AuthMiddleware guards API routes with a shared token.
type AuthMiddleware struct {
	token string
}

// NewAuthMiddleware creates a new auth middleware instance. An empty token
// disables the check.
func NewAuthMiddleware(token string) *AuthMiddleware {
	return &AuthMiddleware{token: token}
}

// RequireToken rejects requests without the configured token.
func (m *AuthMiddleware) RequireToken(c fiber.Ctx) error {
	if m.token == "" {
		return c.Next()
	}

	got := c.Get(TokenHeader)
	if got == "" {
		got = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(m.token)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "missing or invalid API token",
		})
	}
	return c.Next()
}
