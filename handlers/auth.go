package handlers

import (
	"time"

	"earlywage/config"
	"earlywage/types"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IssueToken mints a caller token for a wallet address. Proving control
// of the address happens in the wallet connectivity layer in front of
// this service; the ledger itself is permissionless and enforces roles
// per operation.
func IssueToken(c *fiber.Ctx) error {
	var req struct {
		Address string `json:"address" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil || req.Address == "" {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	token, err := signToken(req.Address, "caller")
	if err != nil {
		utils.Logger.Error("Failed to sign token", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"token": token,
		},
	})
}

// OwnerLogin authenticates the platform owner with the configured
// password and mints an owner token.
func OwnerLogin(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	err := bcrypt.CompareHashAndPassword(
		[]byte(config.AppConfig.OwnerPasswordHash), []byte(req.Password))
	if err != nil {
		return c.Status(401).JSON(types.APIResponse{
			Success: false,
			Error:   "Invalid owner credentials",
		})
	}

	token, err := signToken(config.AppConfig.OwnerAddress, "owner")
	if err != nil {
		utils.Logger.Error("Failed to sign owner token", zap.Error(err))
		return c.Status(500).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInternalError,
		})
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"token": token,
		},
	})
}

func signToken(address, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"address": address,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}
