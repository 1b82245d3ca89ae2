package types

import "errors"

// Domain errors returned by the ledger engine. Handlers map these to
// HTTP statuses with errors.Is.
var (
	ErrInvalidAddress              = errors.New("invalid address")
	ErrInvalidAmount               = errors.New("invalid amount")
	ErrInvalidEmployer             = errors.New("invalid employer")
	ErrAlreadyRegistered           = errors.New("already registered")
	ErrNotRegistered               = errors.New("not registered")
	ErrPermissionDenied            = errors.New("permission denied")
	ErrInsufficientFunds           = errors.New("insufficient funds")
	ErrInsufficientRemainingSalary = errors.New("insufficient remaining salary")
	ErrEmployerUnderfunded         = errors.New("employer underfunded")
	ErrNothingToWithdraw           = errors.New("nothing to withdraw")
	ErrTransferFailed              = errors.New("transfer failed")
)

const (
	ErrInvalidInput  = "Invalid input"
	ErrDatabaseError = "Database error"
	ErrUnauthorized  = "Unauthorized access"
	ErrInternalError = "internal server error"
)
