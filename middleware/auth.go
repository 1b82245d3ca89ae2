package middleware

import (
	"strings"

	"earlywage/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func extractToken(c *fiber.Ctx) (string, error) {
	auth := c.Get("Authorization")
	if auth == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "No token provided")
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token format")
	}

	return parts[1], nil
}

func parseClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	return claims, nil
}

// RequireAuth validates the bearer token and stashes the caller's
// wallet address and role in locals for handlers.
func RequireAuth(c *fiber.Ctx) error {
	claims, err := parseClaims(c)
	if err != nil {
		return err
	}

	address, _ := claims["address"].(string)
	if address == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Token has no address claim")
	}

	c.Locals("address", address)
	c.Locals("role", claims["role"])

	return c.Next()
}

// RequireOwner admits only tokens minted for the platform owner.
func RequireOwner(c *fiber.Ctx) error {
	claims, err := parseClaims(c)
	if err != nil {
		return err
	}

	if claims["role"] != "owner" {
		return fiber.NewError(fiber.StatusForbidden, "Owner access required")
	}

	address, _ := claims["address"].(string)
	c.Locals("address", address)
	c.Locals("role", claims["role"])

	return c.Next()
}
