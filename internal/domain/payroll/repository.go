package payroll

import "context"

type PeriodRepository interface {
	GetByID(ctx context.Context, id string) (Period, error)
}

type CompensationRepository interface {
	GetByUser(ctx context.Context, userID, countryID string) (Compensation, error)
}
