package payslip

import (
	"context"
	"time"
)

type SnapshotRepository interface {
	// CreateIfAbsent inserts s unless a snapshot with the same CalculationID
	// exists. created is false when the insert was skipped.
	CreateIfAbsent(ctx context.Context, s Snapshot) (snap Snapshot, created bool, err error)
	GetByID(ctx context.Context, id string) (Snapshot, error)
	GetByCalculationID(ctx context.Context, calculationID string) (Snapshot, error)

	// MarkAvailable and MarkDownloaded are conditional updates. updated is
	// false when the row was not in the expected source status.
	MarkAvailable(ctx context.Context, id, documentURL string, at time.Time) (snap Snapshot, updated bool, err error)
	MarkDownloaded(ctx context.Context, id string, at time.Time) (snap Snapshot, updated bool, err error)

	// List returns matches newest first together with the unpaginated count.
	List(ctx context.Context, q Query) ([]Snapshot, int64, error)
}
