package payslip

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrSnapshotNotFound     = errs.NotFound("payslip snapshot not found")
	ErrSnapshotNotAvailable = errs.Policy("payslip is not available for download yet")
)
