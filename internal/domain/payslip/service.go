package payslip

import "context"

type SnapshotService interface {
	// Save is idempotent on CalculationID: a retry returns the stored snapshot.
	Save(ctx context.Context, s Snapshot) (Snapshot, error)
	MarkAvailable(ctx context.Context, id, documentURL string) (Snapshot, error)
	MarkDownloaded(ctx context.Context, id string) (Snapshot, error)

	GetByID(ctx context.Context, id string) (Snapshot, error)
	FindByUser(ctx context.Context, userID string, filter Filter) (ListSnapshotResponse, error)
	FindByPeriod(ctx context.Context, periodID string, filter Filter) (ListSnapshotResponse, error)
}
