package middleware

import (
	"parcel-logistics/models/role"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireRoles allows tokens whose role claim is one of roles.
func (a *Auth) RequireRoles(roles ...role.Role) fiber.Handler {
	return a.IsAuthenticated(roles)
}

// RequireAuthentication only requires a valid token.
func (a *Auth) RequireAuthentication() fiber.Handler {
	return a.IsAuthenticated(nil)
}

// ClaimsFrom returns the claims stored by IsAuthenticated.
func ClaimsFrom(c *fiber.Ctx) (jwt.MapClaims, bool) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	return claims, ok
}

// RoleFrom returns the caller's role, or "" for anonymous requests.
func RoleFrom(c *fiber.Ctx) role.Role {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return ""
	}
	return role.Role(claimString(claims, "role"))
}

// SubjectFrom returns the account id the token was issued to.
func SubjectFrom(c *fiber.Ctx) string {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return ""
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	return claimString(claims, "id")
}
