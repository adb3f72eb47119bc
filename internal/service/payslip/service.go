package payslip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type SnapshotServiceImpl struct {
	repo   payslip.SnapshotRepository
	clock  clock.Clock
	logger *slog.Logger
}

func NewSnapshotService(repo payslip.SnapshotRepository, clk clock.Clock, logger *slog.Logger) payslip.SnapshotService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotServiceImpl{repo: repo, clock: clk, logger: logger}
}

// Save writes a new snapshot in processing status. The unique calculation id
// makes concurrent retries collapse into one row; the loser gets that row back.
func (s *SnapshotServiceImpl) Save(ctx context.Context, snap payslip.Snapshot) (payslip.Snapshot, error) {
	if validator.IsEmpty(snap.CalculationID) {
		var errs validator.ValidationErrors
		errs.Add("calculation_id", "is required")
		return payslip.Snapshot{}, errs
	}

	snap.ID = uuid.Must(uuid.NewV7()).String()
	snap.Status = payslip.StatusProcessing
	snap.DocumentURL = nil
	snap.GeneratedAt = nil
	snap.FirstDownloadedAt = nil

	saved, created, err := s.repo.CreateIfAbsent(ctx, snap)
	if err != nil {
		return payslip.Snapshot{}, fmt.Errorf("failed to save payslip snapshot: %w", err)
	}
	if created {
		return saved, nil
	}

	existing, err := s.repo.GetByCalculationID(ctx, snap.CalculationID)
	if err != nil {
		return payslip.Snapshot{}, err
	}
	s.logger.WarnContext(ctx, "duplicate payslip save",
		"calculation_id", snap.CalculationID,
		"snapshot_id", existing.ID,
		"user_id", existing.UserID,
		"payroll_period_id", existing.PayrollPeriodID,
	)
	return existing, nil
}

func (s *SnapshotServiceImpl) MarkAvailable(ctx context.Context, id, documentURL string) (payslip.Snapshot, error) {
	req := payslip.MarkAvailableRequest{ID: id, DocumentURL: documentURL}
	if err := req.Validate(); err != nil {
		return payslip.Snapshot{}, err
	}

	snap, updated, err := s.repo.MarkAvailable(ctx, id, documentURL, s.clock.Now())
	if err != nil {
		return payslip.Snapshot{}, err
	}
	if updated {
		return snap, nil
	}

	// Already past processing: report the current state.
	return s.repo.GetByID(ctx, id)
}

func (s *SnapshotServiceImpl) MarkDownloaded(ctx context.Context, id string) (payslip.Snapshot, error) {
	snap, updated, err := s.repo.MarkDownloaded(ctx, id, s.clock.Now())
	if err != nil {
		return payslip.Snapshot{}, err
	}
	if updated {
		return snap, nil
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return payslip.Snapshot{}, err
	}
	if !current.Status.Reached(payslip.StatusAvailable) {
		return payslip.Snapshot{}, fmt.Errorf("%w: snapshot %s is %s", payslip.ErrSnapshotNotAvailable, id, current.Status)
	}
	return current, nil
}

func (s *SnapshotServiceImpl) GetByID(ctx context.Context, id string) (payslip.Snapshot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SnapshotServiceImpl) FindByUser(ctx context.Context, userID string, filter payslip.Filter) (payslip.ListSnapshotResponse, error) {
	if err := filter.Validate(); err != nil {
		return payslip.ListSnapshotResponse{}, err
	}
	q := filter.ToQuery()
	q.UserID = userID
	return s.list(ctx, q)
}

func (s *SnapshotServiceImpl) FindByPeriod(ctx context.Context, periodID string, filter payslip.Filter) (payslip.ListSnapshotResponse, error) {
	if err := filter.Validate(); err != nil {
		return payslip.ListSnapshotResponse{}, err
	}
	q := filter.ToQuery()
	q.PeriodID = periodID
	return s.list(ctx, q)
}

func (s *SnapshotServiceImpl) list(ctx context.Context, q payslip.Query) (payslip.ListSnapshotResponse, error) {
	snaps, total, err := s.repo.List(ctx, q)
	if err != nil {
		return payslip.ListSnapshotResponse{}, err
	}

	resp := payslip.ListSnapshotResponse{
		Snapshots:  make([]payslip.SnapshotResponse, 0, len(snaps)),
		TotalCount: total,
		Page:       q.Page,
		Limit:      q.Limit,
	}
	for _, snap := range snaps {
		resp.Snapshots = append(resp.Snapshots, payslip.ToSnapshotResponse(snap))
	}
	return resp, nil
}
