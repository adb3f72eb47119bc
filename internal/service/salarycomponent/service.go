package salarycomponent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/country"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/regionconfig"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/formula"
	"github.com/google/uuid"
)

type SalaryComponentServiceImpl struct {
	tx            database.Transactor
	componentRepo salarycomponent.SalaryComponentRepository
	countryRepo   country.Repository
	regionConfig  regionconfig.Reader
	policies      salarycomponent.PolicyRegistry
	logger        *slog.Logger
}

func NewSalaryComponentService(
	tx database.Transactor,
	componentRepo salarycomponent.SalaryComponentRepository,
	countryRepo country.Repository,
	regionConfig regionconfig.Reader,
	policies salarycomponent.PolicyRegistry,
	logger *slog.Logger,
) salarycomponent.SalaryComponentService {
	if logger == nil {
		logger = slog.Default()
	}
	registry := make(salarycomponent.PolicyRegistry, len(policies))
	for code, p := range policies {
		registry[strings.ToUpper(code)] = p
	}
	return &SalaryComponentServiceImpl{
		tx:            tx,
		componentRepo: componentRepo,
		countryRepo:   countryRepo,
		regionConfig:  regionConfig,
		policies:      registry,
		logger:        logger,
	}
}

func (s *SalaryComponentServiceImpl) Create(ctx context.Context, req salarycomponent.CreateSalaryComponentRequest) (salarycomponent.SalaryComponent, error) {
	if err := req.Validate(); err != nil {
		return salarycomponent.SalaryComponent{}, err
	}

	var created salarycomponent.SalaryComponent
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctry, err := s.countryRepo.GetByID(ctx, req.CountryID)
		if err != nil {
			return err
		}

		existing, err := s.componentRepo.ListByCountry(ctx, req.CountryID, false)
		if err != nil {
			return err
		}

		def := req.ToEntity()
		for _, c := range existing {
			if c.Code == def.Code {
				return fmt.Errorf("%w: %s", salarycomponent.ErrComponentCodeExists, def.Code)
			}
		}

		if err := salarycomponent.ValidateDefinition(def, salarycomponent.FormulaScope(def, existing)); err != nil {
			return err
		}
		if err := s.applyPolicy(ctx, ctry, def); err != nil {
			return err
		}

		def.ID = uuid.Must(uuid.NewV7()).String()
		created, err = s.componentRepo.Create(ctx, def)
		return err
	})
	if err != nil {
		return salarycomponent.SalaryComponent{}, err
	}

	s.logger.Info("salary component created",
		"country_id", created.CountryID,
		"code", created.Code,
		"calculation_type", created.CalculationType,
	)
	return created, nil
}

func (s *SalaryComponentServiceImpl) Update(ctx context.Context, req salarycomponent.UpdateSalaryComponentRequest) (salarycomponent.SalaryComponent, error) {
	if err := req.Validate(); err != nil {
		return salarycomponent.SalaryComponent{}, err
	}

	var updated salarycomponent.SalaryComponent
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctry, err := s.countryRepo.GetByID(ctx, req.CountryID)
		if err != nil {
			return err
		}

		current, err := s.componentRepo.GetByID(ctx, req.CountryID, req.ID)
		if err != nil {
			return err
		}

		existing, err := s.componentRepo.ListByCountry(ctx, req.CountryID, false)
		if err != nil {
			return err
		}
		others := make([]salarycomponent.SalaryComponent, 0, len(existing))
		for _, c := range existing {
			if c.ID != current.ID {
				others = append(others, c)
			}
		}

		def := req.Apply(current)
		if err := salarycomponent.ValidateDefinition(def, salarycomponent.FormulaScope(def, others)); err != nil {
			return err
		}
		if err := s.applyPolicy(ctx, ctry, def); err != nil {
			return err
		}
		if err := checkDependents(current, def, others); err != nil {
			return err
		}

		updated, err = s.componentRepo.Update(ctx, def)
		return err
	})
	if err != nil {
		return salarycomponent.SalaryComponent{}, err
	}

	return updated, nil
}

func (s *SalaryComponentServiceImpl) Get(ctx context.Context, countryID, id string) (salarycomponent.SalaryComponent, error) {
	return s.componentRepo.GetByID(ctx, countryID, id)
}

func (s *SalaryComponentServiceImpl) ListByCountry(ctx context.Context, countryID string, activeOnly bool) ([]salarycomponent.SalaryComponent, error) {
	if _, err := s.countryRepo.GetByID(ctx, countryID); err != nil {
		return nil, err
	}
	return s.componentRepo.ListByCountry(ctx, countryID, activeOnly)
}

// Delete refuses mandatory components and components other formulas still
// reference, since either would break later calculations.
func (s *SalaryComponentServiceImpl) Delete(ctx context.Context, countryID, id string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.componentRepo.GetByID(ctx, countryID, id)
		if err != nil {
			return err
		}
		if current.IsMandatory {
			return fmt.Errorf("%w: %s", salarycomponent.ErrMandatoryComponent, current.Code)
		}

		others, err := s.componentRepo.ListByCountry(ctx, countryID, false)
		if err != nil {
			return err
		}
		for _, other := range others {
			if other.ID != current.ID && references(other, current.Code) {
				return fmt.Errorf("%w: %s is used by %s", salarycomponent.ErrComponentReferenced, current.Code, other.Code)
			}
		}

		if err := s.componentRepo.Delete(ctx, countryID, id); err != nil {
			return err
		}
		s.logger.Info("salary component deleted", "country_id", countryID, "code", current.Code)
		return nil
	})
}

// checkDependents refuses a change to category, display order or active flag
// that would leave an active formula referencing def.Code before it resolves,
// or after it stops resolving at all.
func checkDependents(current, def salarycomponent.SalaryComponent, others []salarycomponent.SalaryComponent) error {
	if current.IsActive == def.IsActive &&
		current.DisplayOrder == def.DisplayOrder &&
		current.Category == def.Category {
		return nil
	}

	next := append(slices.Clone(others), def)
	for _, other := range others {
		if !other.IsActive || !references(other, def.Code) {
			continue
		}
		if _, ok := salarycomponent.FormulaScope(other, next)[def.Code]; !ok {
			return fmt.Errorf("%w: %s is used by %s", salarycomponent.ErrComponentReferenced, def.Code, other.Code)
		}
	}
	return nil
}

// references reports whether c's formula uses code.
func references(c salarycomponent.SalaryComponent, code string) bool {
	if c.CalculationType != salarycomponent.CalculationFormula || c.Formula == nil {
		return false
	}
	expr, err := formula.Parse(*c.Formula)
	if err != nil {
		return false
	}
	return slices.Contains(expr.Identifiers(), code)
}

func (s *SalaryComponentServiceImpl) applyPolicy(ctx context.Context, ctry country.Country, def salarycomponent.SalaryComponent) error {
	policy, ok := s.policies[strings.ToUpper(ctry.Code)]
	if !ok {
		return nil
	}
	return policy.ValidateComponent(ctx, def, s.regionConfig)
}
