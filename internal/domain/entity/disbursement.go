package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisbursementStatus estado de un desembolso.
type DisbursementStatus string

const (
	DisbursementPending  DisbursementStatus = "pendiente"
	DisbursementApproved DisbursementStatus = "aprobado"
	DisbursementPaid     DisbursementStatus = "pagado"
)

// ExpenseCategory categoría de desembolso (CategoriaDesembolso).
type ExpenseCategory struct {
	ID          string
	Name        string
	Description string
	Color       string
	Active      bool
	CreatedAt   time.Time
}

// Disbursement gasto contra un proyecto o general (ProjectID vacío).
type Disbursement struct {
	ID            string
	ProjectID     string
	CategoryID    string
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	Vendor        string
	InvoiceNumber string
	Method        string
	Status        DisbursementStatus
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
