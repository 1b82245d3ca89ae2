package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"earlywage/models"
	"earlywage/services"
	"earlywage/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeePercent is the flat platform cut taken from every advance, in
// whole percent. Fees truncate: floor(amount * FeePercent / 100).
const FeePercent = 3

// Engine owns all ledger state. Every mutating operation takes the
// single mutex and runs inside one database transaction, with the
// external token call made before commit, so callers never observe a
// half-applied operation. Balances only move through the token service.
type Engine struct {
	mu    sync.Mutex
	db    *gorm.DB
	token services.TokenService
	owner string
}

// New binds the engine to a token service and a platform owner address
// and ensures the fee-accrual row exists.
func New(db *gorm.DB, token services.TokenService, owner string) (*Engine, error) {
	if token == nil {
		return nil, fmt.Errorf("%w: token service", types.ErrInvalidAddress)
	}
	if IsZeroAddress(owner) {
		return nil, fmt.Errorf("%w: owner", types.ErrInvalidAddress)
	}

	state := models.PlatformState{ID: 1}
	if err := db.FirstOrCreate(&state, models.PlatformState{ID: 1}).Error; err != nil {
		return nil, err
	}

	return &Engine{db: db, token: token, owner: owner}, nil
}

// IsZeroAddress reports whether addr is the null address: empty, "0x0",
// or 0x followed by only zeros.
func IsZeroAddress(addr string) bool {
	if addr == "" || addr == "0x0" {
		return true
	}
	if !strings.HasPrefix(addr, "0x") {
		return false
	}
	return strings.Trim(addr[2:], "0") == "" && len(addr) > 2
}

// RegisterEmployer makes the caller an employer. An address can hold at
// most one employer record, ever.
func (e *Engine) RegisterEmployer(ctx context.Context, caller string) (*models.Employer, error) {
	if IsZeroAddress(caller) {
		return nil, types.ErrInvalidAddress
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var employer models.Employer
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Employer
		err := tx.Where("address = ?", caller).First(&existing).Error
		if err == nil {
			return types.ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Ids are sequential and employers are never deleted, so the
		// row count is the next id.
		var count int64
		if err := tx.Model(&models.Employer{}).Count(&count).Error; err != nil {
			return err
		}

		employer = models.Employer{
			ID:      uint64(count),
			Address: caller,
		}
		return tx.Create(&employer).Error
	})
	if err != nil {
		return nil, err
	}
	return &employer, nil
}

// RegisterEmployee binds an address to the caller's employer record.
// Employee addresses are globally unique: once registered under any
// employer, an address can never be registered again.
func (e *Engine) RegisterEmployee(ctx context.Context, caller string, employerID uint64, address string, salary uint64) (*models.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var employee models.Employee
	err := e.db.Transaction(func(tx *gorm.DB) error {
		employer, err := loadEmployer(tx, employerID)
		if err != nil {
			return err
		}
		if employer.Address != caller {
			return fmt.Errorf("%w: only employer can register employees", types.ErrPermissionDenied)
		}
		if IsZeroAddress(address) {
			return types.ErrInvalidAddress
		}
		if salary == 0 {
			return fmt.Errorf("%w: salary must be greater than zero", types.ErrInvalidAmount)
		}

		var existing models.Employee
		err = tx.Where("address = ?", address).First(&existing).Error
		if err == nil {
			return types.ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		employee = models.Employee{
			Address:         address,
			EmployerID:      employerID,
			Salary:          salary,
			RemainingSalary: salary,
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}

		return tx.Model(&models.Employer{}).Where("id = ?", employerID).
			Update("employee_count", gorm.Expr("employee_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// DepositFunds pulls amount from the employer's token balance into
// custody and credits the employer's deposited funds.
func (e *Engine) DepositFunds(ctx context.Context, caller string, employerID uint64, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.db.Transaction(func(tx *gorm.DB) error {
		employer, err := loadEmployer(tx, employerID)
		if err != nil {
			return err
		}
		if employer.Address != caller {
			return fmt.Errorf("%w: only employer can deposit", types.ErrPermissionDenied)
		}
		if amount == 0 {
			return fmt.Errorf("%w: deposit must be greater than zero", types.ErrInvalidAmount)
		}

		// Pull first: if the token side refuses, nothing here changed.
		// A storage failure after the pull rolls the credit back and
		// leaves custody above the tracked sum, never below it.
		if err := e.token.TransferInto(ctx, caller, amount); err != nil {
			return fmt.Errorf("%w: %v", types.ErrTransferFailed, err)
		}

		if err := tx.Model(&models.Employer{}).Where("id = ?", employerID).
			Update("deposited_funds", gorm.Expr("deposited_funds + ?", amount)).Error; err != nil {
			return err
		}

		return journal(tx, "in", caller, amount, "deposit")
	})
}

// WithdrawFunds returns amount of the employer's deposited funds to its
// token balance.
func (e *Engine) WithdrawFunds(ctx context.Context, caller string, employerID uint64, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withdraw(ctx, caller, employerID, amount)
}

// WithdrawAllFunds drains the employer's entire deposited balance and
// returns the amount withdrawn.
func (e *Engine) WithdrawAllFunds(ctx context.Context, caller string, employerID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var withdrawn uint64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		employer, err := loadEmployer(tx, employerID)
		if err != nil {
			return err
		}
		if employer.Address != caller {
			return fmt.Errorf("%w: only employer can withdraw", types.ErrPermissionDenied)
		}
		if employer.DepositedFunds == 0 {
			return types.ErrNothingToWithdraw
		}
		withdrawn = employer.DepositedFunds
		return e.payOut(ctx, tx, employer, withdrawn)
	})
	if err != nil {
		return 0, err
	}
	return withdrawn, nil
}

func (e *Engine) withdraw(ctx context.Context, caller string, employerID uint64, amount uint64) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		employer, err := loadEmployer(tx, employerID)
		if err != nil {
			return err
		}
		if employer.Address != caller {
			return fmt.Errorf("%w: only employer can withdraw", types.ErrPermissionDenied)
		}
		if amount == 0 {
			return fmt.Errorf("%w: withdrawal must be greater than zero", types.ErrInvalidAmount)
		}
		if amount > employer.DepositedFunds {
			return types.ErrInsufficientFunds
		}
		return e.payOut(ctx, tx, employer, amount)
	})
}

// payOut debits the employer and pushes the funds out inside the
// caller's transaction. A failed push rolls the debit back, so the
// decrement is never observable without a confirmed transfer.
func (e *Engine) payOut(ctx context.Context, tx *gorm.DB, employer *models.Employer, amount uint64) error {
	if err := tx.Model(&models.Employer{}).Where("id = ?", employer.ID).
		Update("deposited_funds", gorm.Expr("deposited_funds - ?", amount)).Error; err != nil {
		return err
	}
	if err := journal(tx, "out", employer.Address, amount, "withdrawal"); err != nil {
		return err
	}
	if err := e.token.TransferOut(ctx, employer.Address, amount); err != nil {
		return fmt.Errorf("%w: %v", types.ErrTransferFailed, err)
	}
	return nil
}

// EarlyWageAccess pays the caller an advance against unclaimed salary.
// The gross amount comes off both the employee's remaining salary and
// the employer's deposited funds; the employee receives the gross minus
// the platform fee.
func (e *Engine) EarlyWageAccess(ctx context.Context, caller string, amount uint64) (*models.Advance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var advance models.Advance
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if amount == 0 {
			return fmt.Errorf("%w: advance must be greater than zero", types.ErrInvalidAmount)
		}

		var employee models.Employee
		err := tx.Where("address = ?", caller).First(&employee).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotRegistered
		}
		if err != nil {
			return err
		}
		if amount > employee.RemainingSalary {
			return types.ErrInsufficientRemainingSalary
		}

		employer, err := loadEmployer(tx, employee.EmployerID)
		if err != nil {
			return err
		}
		if amount > employer.DepositedFunds {
			return types.ErrEmployerUnderfunded
		}

		fee := amount * FeePercent / 100
		net := amount - fee
		now := time.Now()

		if err := tx.Model(&models.Employee{}).Where("address = ?", caller).
			Updates(map[string]interface{}{
				"remaining_salary":    gorm.Expr("remaining_salary - ?", amount),
				"last_advance_at":     now,
				"last_advance_amount": amount,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Employer{}).Where("id = ?", employer.ID).
			Update("deposited_funds", gorm.Expr("deposited_funds - ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PlatformState{}).Where("id = ?", 1).
			Update("total_fees", gorm.Expr("total_fees + ?", fee)).Error; err != nil {
			return err
		}

		advance = models.Advance{
			ID:              uuid.New().String(),
			EmployeeAddress: caller,
			EmployerID:      employer.ID,
			GrossAmount:     amount,
			Fee:             fee,
			NetAmount:       net,
			CreatedAt:       now,
		}
		if err := tx.Create(&advance).Error; err != nil {
			return err
		}
		if err := journal(tx, "out", caller, net, "advance"); err != nil {
			return err
		}

		if err := e.token.TransferOut(ctx, caller, net); err != nil {
			return fmt.Errorf("%w: %v", types.ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

// WithdrawPlatformFees sweeps the entire fee accrual to the platform
// owner. Only the owner may call it.
func (e *Engine) WithdrawPlatformFees(ctx context.Context, caller string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.owner {
		return 0, fmt.Errorf("%w: only owner can withdraw platform fees", types.ErrPermissionDenied)
	}

	var swept uint64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var state models.PlatformState
		if err := tx.First(&state, "id = ?", 1).Error; err != nil {
			return err
		}
		if state.TotalFees == 0 {
			return types.ErrNothingToWithdraw
		}
		swept = state.TotalFees

		if err := tx.Model(&models.PlatformState{}).Where("id = ?", 1).
			Update("total_fees", 0).Error; err != nil {
			return err
		}
		if err := journal(tx, "out", e.owner, swept, "fee_sweep"); err != nil {
			return err
		}
		if err := e.token.TransferOut(ctx, e.owner, swept); err != nil {
			return fmt.Errorf("%w: %v", types.ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return swept, nil
}

// Employer returns the employer record for id.
func (e *Engine) Employer(id uint64) (*models.Employer, error) {
	employer, err := loadEmployer(e.db, id)
	if err != nil {
		return nil, err
	}
	return employer, nil
}

// EmployeeByAddress returns the employee record for address.
func (e *Engine) EmployeeByAddress(address string) (*models.Employee, error) {
	var employee models.Employee
	err := e.db.Where("address = ?", address).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// AdvancesByEmployee returns the employee's claim history, newest
// first.
func (e *Engine) AdvancesByEmployee(address string) ([]models.Advance, error) {
	var advances []models.Advance
	err := e.db.Where("employee_address = ?", address).
		Order("created_at desc").Find(&advances).Error
	if err != nil {
		return nil, err
	}
	return advances, nil
}

// EmployerCount returns the number of registered employers.
func (e *Engine) EmployerCount() (uint64, error) {
	var count int64
	if err := e.db.Model(&models.Employer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// TotalPlatformFees returns fees collected but not yet swept.
func (e *Engine) TotalPlatformFees() (uint64, error) {
	var state models.PlatformState
	if err := e.db.First(&state, "id = ?", 1).Error; err != nil {
		return 0, err
	}
	return state.TotalFees, nil
}

// Owner returns the platform owner address.
func (e *Engine) Owner() string {
	return e.owner
}

// Token identifies the bound token instance.
func (e *Engine) Token() string {
	return e.token.CanisterID()
}

func loadEmployer(tx *gorm.DB, id uint64) (*models.Employer, error) {
	var employer models.Employer
	err := tx.Where("id = ?", id).First(&employer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrInvalidEmployer
	}
	if err != nil {
		return nil, err
	}
	return &employer, nil
}

func journal(tx *gorm.DB, direction, counterparty string, amount uint64, kind string) error {
	return tx.Create(&models.Transfer{
		ID:           uuid.New().String(),
		Direction:    direction,
		Counterparty: counterparty,
		Amount:       amount,
		Kind:         kind,
	}).Error
}
