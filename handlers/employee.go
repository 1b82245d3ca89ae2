package handlers

import (
	"earlywage/types"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RegisterEmployeeRequest struct {
	Address string `json:"address" validate:"required"`
	Salary  uint64 `json:"salary" validate:"required,gt=0"`
}

// RegisterEmployee binds a wallet address to the caller's employer
// record with a fixed nominal salary.
func RegisterEmployee(c *fiber.Ctx) error {
	id, err := parseEmployerID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req RegisterEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	caller := callerAddress(c)
	employee, err := Engine.RegisterEmployee(c.Context(), caller, id, req.Address, req.Salary)
	if err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Employee registered",
		zap.Uint64("employer_id", id),
		zap.String("address", employee.Address),
		zap.Uint64("salary", employee.Salary))

	return c.Status(201).JSON(types.APIResponse{
		Success: true,
		Message: "Employee registered",
		Data:    employee,
	})
}

// GetEmployee returns the employee record for the path address.
func GetEmployee(c *fiber.Ctx) error {
	employee, err := Engine.EmployeeByAddress(c.Params("address"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    employee,
	})
}

// GetEmployeeAdvances returns the claim history for the path address.
func GetEmployeeAdvances(c *fiber.Ctx) error {
	advances, err := Engine.AdvancesByEmployee(c.Params("address"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.APIResponse{
		Success: true,
		Data:    advances,
	})
}

// RequestAdvance pays the caller an early wage advance against
// remaining salary, minus the platform fee.
func RequestAdvance(c *fiber.Ctx) error {
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(types.APIResponse{
			Success: false,
			Error:   types.ErrInvalidInput,
		})
	}

	caller := callerAddress(c)
	advance, err := Engine.EarlyWageAccess(c.Context(), caller, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	utils.Logger.Info("Advance paid",
		zap.String("address", caller),
		zap.Uint64("gross", advance.GrossAmount),
		zap.Uint64("fee", advance.Fee),
		zap.Uint64("net", advance.NetAmount))

	return c.JSON(types.APIResponse{
		Success: true,
		Message: "Advance paid",
		Data:    advance,
	})
}
