package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by category
func HandleError(w http.ResponseWriter, err error) {
	// Field-level validation errors carry their details
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errs.IsNotFound(err):
		NotFound(w, err.Error())
	case errs.IsValidation(err):
		UnprocessableEntity(w, err.Error())
	case errs.IsPolicyViolation(err):
		Conflict(w, err.Error())
	case errs.IsIntegrity(err):
		slog.Error("integrity failure", "error", err)
		IntegrityFailure(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
