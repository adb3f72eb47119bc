package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Values only move forward: processing -> available -> downloaded.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusAvailable  Status = "available"
	StatusDownloaded Status = "downloaded"
)

func (s Status) IsValid() bool {
	return s.rank() > 0
}

func (s Status) rank() int {
	switch s {
	case StatusProcessing:
		return 1
	case StatusAvailable:
		return 2
	case StatusDownloaded:
		return 3
	}
	return 0
}

// Reached reports whether s is at or past target.
func (s Status) Reached(target Status) bool {
	return s.rank() >= target.rank()
}

// LineItem - one resolved component on a payslip
type LineItem struct {
	ComponentID     string           `json:"component_id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	CalculationType string           `json:"calculation_type"`
	Amount          decimal.Decimal  `json:"amount"`
	EmployerAmount  *decimal.Decimal `json:"employer_amount,omitempty"` // statutory lines only
}

// Snapshot - immutable record of one calculation. Only the status fields
// change after the row is written.
type Snapshot struct {
	ID              string
	UserID          string
	CountryID       string
	PayrollPeriodID string
	CalculationID   string
	CalculatedAt    time.Time
	CurrencyCode    string

	BasicSalary              decimal.Decimal
	TotalEarnings            decimal.Decimal
	OvertimePay              *decimal.Decimal
	NightShiftPay            *decimal.Decimal
	GrossPay                 decimal.Decimal
	TotalStatutoryDeductions decimal.Decimal
	TotalOtherDeductions     decimal.Decimal
	TotalDeductions          decimal.Decimal
	NetPay                   decimal.Decimal

	Components          []LineItem
	StatutoryDeductions []LineItem
	OtherDeductions     []LineItem

	Status            Status
	DocumentURL       *string
	GeneratedAt       *time.Time
	FirstDownloadedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Query selects snapshots for the read paths. Zero values mean "any";
// Limit 0 returns every match.
type Query struct {
	UserID    string
	PeriodID  string
	CountryID string
	Statuses  []Status
	From      *time.Time // calculated_at >= From
	To        *time.Time // calculated_at <= To
	Page      int
	Limit     int
}
