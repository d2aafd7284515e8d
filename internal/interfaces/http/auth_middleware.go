package http

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/jwt"
)

// Locals keys for the authenticated identity.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// RevalidateTokenHeader carries the shared secret accepted by the cache endpoints.
const RevalidateTokenHeader = "X-Revalidate-Token"

// AuthMiddleware validates the Bearer JWT and stores user id and role in c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if fail := authenticate(c, jwtSecret); fail != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fail)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, jwtSecret string) *dto.ErrorResponse {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"}
	}
	userID, role, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"}
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalRole, role)
	return nil
}

// RequireRole lets the request through only when the token role is one of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "token carries no role"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "insufficient permissions"})
	}
}

// AdminOrToken accepts either the shared revalidate token or an admin JWT.
// An empty sharedToken disables the header path.
func AdminOrToken(jwtSecret, sharedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got := c.Get(RevalidateTokenHeader); sharedToken != "" && got != "" {
			if subtle.ConstantTimeCompare([]byte(got), []byte(sharedToken)) == 1 {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid revalidate token"})
		}
		if fail := authenticate(c, jwtSecret); fail != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fail)
		}
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "insufficient permissions"})
		}
		return c.Next()
	}
}

// GetUserID returns the authenticated user id (after AuthMiddleware).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole returns the authenticated role (after AuthMiddleware).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// IsAdmin reports whether the caller holds the ADMIN role.
func IsAdmin(c *fiber.Ctx) bool {
	return GetRole(c) == entity.RoleAdmin
}
