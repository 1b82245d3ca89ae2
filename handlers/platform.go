package handlers

import (
	"earlywage/types"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetPlatform returns the platform view: owner, bound token, employer
// count and unswept fees.
func GetPlatform(c *fiber.Ctx) error {
	count, err := Engine.EmployerCount()
	if err != nil {
		return respondError(c, err)
	}
	fees, err := Engine.TotalPlatformFees()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"owner":          Engine.Owner(),
			"token":          Engine.Token(),
			"employer_count": count,
			"total_fees":     fees,
		},
	})
}

// WithdrawPlatformFees sweeps the accrued fees to the owner.
func WithdrawPlatformFees(c *fiber.Ctx) error {
	caller := callerAddress(c)

	swept, err := Engine.WithdrawPlatformFees(c.Context(), caller)
	if err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Platform fees swept",
		zap.String("owner", caller),
		zap.Uint64("amount", swept))

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Fees swept",
		Data: map[string]interface{}{
			"swept": swept,
		},
	})
}
