package models

import (
	"time"
)

// Employer is an account that funds and registers employees. IDs are
// assigned sequentially at registration (0-based) and never reused, so
// autoincrement stays off and the engine picks the next id itself.
type Employer struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Address        string    `gorm:"uniqueIndex;not null" json:"address"`
	DepositedFunds uint64    `gorm:"not null;default:0" json:"deposited_funds"`
	EmployeeCount  uint64    `gorm:"not null;default:0" json:"employee_count"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// Employee is registered under exactly one employer. The wallet address
// is the primary key, which enforces global uniqueness across employers.
type Employee struct {
	Address           string     `gorm:"primaryKey" json:"address"`
	EmployerID        uint64     `gorm:"not null;index" json:"employer_id"`
	Salary            uint64     `gorm:"not null" json:"salary"`
	RemainingSalary   uint64     `gorm:"not null" json:"remaining_salary"`
	LastAdvanceAt     *time.Time `json:"last_advance_at,omitempty"`
	LastAdvanceAmount uint64     `gorm:"not null;default:0" json:"last_advance_amount"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

// Advance records one early wage access claim. Informational only:
// engine decisions never read this table.
type Advance struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	EmployeeAddress string    `gorm:"not null;index" json:"employee_address"`
	EmployerID      uint64    `gorm:"not null" json:"employer_id"`
	GrossAmount     uint64    `gorm:"not null" json:"gross_amount"`
	Fee             uint64    `gorm:"not null" json:"fee"`
	NetAmount       uint64    `gorm:"not null" json:"net_amount"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

// Transfer journals every custody movement through the token service.
type Transfer struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Direction    string    `gorm:"not null" json:"direction"` // in, out
	Counterparty string    `gorm:"not null" json:"counterparty"`
	Amount       uint64    `gorm:"not null" json:"amount"`
	Kind         string    `gorm:"not null" json:"kind"` // deposit, withdrawal, advance, fee_sweep
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// PlatformState is a single-row table holding the fee accrual.
type PlatformState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TotalFees uint64    `gorm:"not null;default:0" json:"total_fees"`
	UpdatedAt time.Time `json:"updated_at"`
}
