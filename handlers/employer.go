package handlers

import (
	"strconv"

	"earlywage/types"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AmountRequest struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// RegisterEmployer makes the authenticated caller an employer.
func RegisterEmployer(c *fiber.Ctx) error {
	caller := callerAddress(c)

	employer, err := Engine.RegisterEmployer(c.Context(), caller)
	if err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Employer registered",
		zap.Uint64("employer_id", employer.ID),
		zap.String("address", caller))

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "Employer registered",
		Data:    employer,
	})
}

// GetEmployer returns the employer record for the path id.
func GetEmployer(c *fiber.Ctx) error {
	id, err := parseEmployerID(c)
	if err != nil {
		return respondError(c, err)
	}

	employer, err := Engine.Employer(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    employer,
	})
}

// GetEmployerCount returns the number of registered employers.
func GetEmployerCount(c *fiber.Ctx) error {
	count, err := Engine.EmployerCount()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"employer_count": count,
		},
	})
}

// DepositFunds pulls tokens from the employer into ledger custody.
func DepositFunds(c *fiber.Ctx) error {
	id, err := parseEmployerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	caller := callerAddress(c)
	if err := Engine.DepositFunds(c.Context(), caller, id, req.Amount); err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Deposit completed",
		zap.Uint64("employer_id", id),
		zap.String("address", caller),
		zap.Uint64("amount", req.Amount))

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Deposit completed",
	})
}

// WithdrawFunds returns part of the employer's deposited balance.
func WithdrawFunds(c *fiber.Ctx) error {
	id, err := parseEmployerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	caller := callerAddress(c)
	if err := Engine.WithdrawFunds(c.Context(), caller, id, req.Amount); err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Withdrawal completed",
		zap.Uint64("employer_id", id),
		zap.String("address", caller),
		zap.Uint64("amount", req.Amount))

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Withdrawal completed",
	})
}

// WithdrawAllFunds drains the employer's deposited balance.
func WithdrawAllFunds(c *fiber.Ctx) error {
	id, err := parseEmployerID(c)
	if err != nil {
		return respondError(c, err)
	}

	caller := callerAddress(c)
	withdrawn, err := Engine.WithdrawAllFunds(c.Context(), caller, id)
	if err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Full withdrawal completed",
		zap.Uint64("employer_id", id),
		zap.String("address", caller),
		zap.Uint64("amount", withdrawn))

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Withdrawal completed",
		Data: map[string]interface{}{
			"withdrawn": withdrawn,
		},
	})
}

func parseEmployerID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, types.ErrInvalidEmployer
	}
	return id, nil
}
