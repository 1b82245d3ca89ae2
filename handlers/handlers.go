package handlers

import (
	"errors"

	"earlywage/ledger"
	"earlywage/types"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	DB     *gorm.DB
	Engine *ledger.Engine
)

func InitHandlers(db *gorm.DB, engine *ledger.Engine) {
	DB = db
	Engine = engine
}

// respondError maps engine errors to HTTP statuses. Unknown errors are
// logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := 500
	switch {
	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidAmount):
		status = 400
	case errors.Is(err, types.ErrPermissionDenied):
		status = 403
	case errors.Is(err, types.ErrInvalidEmployer),
		errors.Is(err, types.ErrNotRegistered):
		status = 404
	case errors.Is(err, types.ErrAlreadyRegistered):
		status = 409
	case errors.Is(err, types.ErrInsufficientFunds),
		errors.Is(err, types.ErrInsufficientRemainingSalary),
		errors.Is(err, types.ErrEmployerUnderfunded),
		errors.Is(err, types.ErrNothingToWithdraw):
		status = 422
	case errors.Is(err, types.ErrTransferFailed):
		status = 502
	}

	message := err.Error()
	if status == 500 {
		utils.Logger.Error("ledger operation failed", zap.Error(err))
		message = types.ErrInternalError
	}

	return c.Status(status).JSON(types.APIResponse{
		Success: false,
		Error:   message,
	})
}

func callerAddress(c *fiber.Ctx) string {
	address, _ := c.Locals("address").(string)
	return address
}
