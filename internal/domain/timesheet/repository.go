package timesheet

import (
	"context"
	"time"
)

// Repository exposes hours already approved by the timesheet workflow.
type Repository interface {
	ListApproved(ctx context.Context, userID string, start, end time.Time) ([]Entry, error)
}
