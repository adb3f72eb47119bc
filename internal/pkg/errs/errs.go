package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Category markers. Domain sentinels are marked with exactly one of these so
// transport code can classify failures without knowing every sentinel.
var (
	ErrNotFound        = cr.New("not found")
	ErrValidation      = cr.New("validation failure")
	ErrPolicyViolation = cr.New("policy violation")
	ErrIntegrity       = cr.New("integrity failure")
)

// NotFound returns a sentinel marked as ErrNotFound.
func NotFound(msg string) error {
	return cr.Mark(cr.New(msg), ErrNotFound)
}

// Validation returns a sentinel marked as ErrValidation.
func Validation(msg string) error {
	return cr.Mark(cr.New(msg), ErrValidation)
}

// Policy returns a sentinel marked as ErrPolicyViolation.
func Policy(msg string) error {
	return cr.Mark(cr.New(msg), ErrPolicyViolation)
}

// Integrity returns a sentinel marked as ErrIntegrity.
func Integrity(msg string) error {
	return cr.Mark(cr.New(msg), ErrIntegrity)
}

func IsNotFound(err error) bool        { return cr.Is(err, ErrNotFound) }
func IsValidation(err error) bool      { return cr.Is(err, ErrValidation) }
func IsPolicyViolation(err error) bool { return cr.Is(err, ErrPolicyViolation) }
func IsIntegrity(err error) bool       { return cr.Is(err, ErrIntegrity) }

// CategoryName returns a stable name for the category err belongs to, or
// "internal" when it carries no marker.
func CategoryName(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return "not_found"
	case IsValidation(err):
		return "validation"
	case IsPolicyViolation(err):
		return "policy_violation"
	case IsIntegrity(err):
		return "integrity"
	default:
		return "internal"
	}
}
