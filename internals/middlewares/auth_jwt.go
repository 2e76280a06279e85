package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Locals keys hydrated by AuthJWT. Controllers read these instead of
// re-parsing the token.
const (
	LocUserID    = "user_id"
	LocRoleCode  = "role_code"
	LocStudentID = "student_id"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool
}

// AuthJWT verifies an HS256 bearer token and stores the identity claims in
// locals. Token issuance belongs to the auth service; this side only
// verifies.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" || secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		if id := strClaim(claims, "sub"); id != "" {
			c.Locals(LocUserID, id)
		} else if id := strClaim(claims, "user_id"); id != "" {
			c.Locals(LocUserID, id)
		}
		if role := strClaim(claims, "role_code"); role != "" {
			c.Locals(LocRoleCode, strings.ToUpper(role))
		}
		if sid := strClaim(claims, "student_id"); sid != "" {
			c.Locals(LocStudentID, sid)
		}

		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// UserID returns the authenticated user id, uuid.Nil when absent.
func UserID(c *fiber.Ctx) uuid.UUID {
	if s, ok := c.Locals(LocUserID).(string); ok {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.Nil
}

// StudentID returns the student profile id claim, uuid.Nil when absent.
func StudentID(c *fiber.Ctx) uuid.UUID {
	if s, ok := c.Locals(LocStudentID).(string); ok {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.Nil
}

// RoleCode returns the role claim, empty when absent.
func RoleCode(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRoleCode).(string); ok {
		return s
	}
	return ""
}
