package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentTotal - one statutory component folded across snapshots
type ComponentTotal struct {
	Code        string
	Name        string
	Employee    decimal.Decimal
	Employer    decimal.Decimal
	Total       decimal.Decimal
	Occurrences int
}

// Summary - statutory contributions of one user in one country over a range.
// Components keep the order in which codes first appeared.
type Summary struct {
	UserID          string
	CountryID       string
	CurrencyCode    string
	StartDate       time.Time
	EndDate         time.Time
	Components      []ComponentTotal
	TotalEmployee   decimal.Decimal
	TotalEmployer   decimal.Decimal
	GrandTotal      decimal.Decimal
	SnapshotCount   int
	FirstCalculated time.Time
	LastCalculated  time.Time
}

// ComponentDelta - change of one component between two summaries. A code
// missing from one side counts as zero there.
type ComponentDelta struct {
	Code          string
	Period1Total  decimal.Decimal
	Period2Total  decimal.Decimal
	Difference    decimal.Decimal
	PercentChange decimal.Decimal
}

type Comparison struct {
	Period1       Summary
	Period2       Summary
	Difference    decimal.Decimal // period2 - period1 grand totals
	PercentChange decimal.Decimal // 0 when period1 is zero
	Components    []ComponentDelta
}
