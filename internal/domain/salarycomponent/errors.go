package salarycomponent

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/errs"

var (
	ErrComponentNotFound   = errs.NotFound("salary component not found")
	ErrComponentCodeExists = errs.Policy("salary component code already exists in this country")
	ErrMandatoryComponent  = errs.Policy("mandatory salary component cannot be deleted")
	ErrComponentReferenced = errs.Policy("salary component is referenced by another component's formula")
	ErrPolicyViolation     = errs.Policy("salary component violates country policy")

	ErrIncompleteContext = errs.Integrity("resolution context is missing a required figure")
	ErrFormulaEvaluation = errs.Integrity("formula evaluation failed")
	ErrInvalidDefinition = errs.Integrity("stored salary component definition is invalid")
)
