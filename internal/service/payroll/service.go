package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/country"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/currency"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/salarycomponent"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultCalculationNamespace seeds deterministic calculation ids when no
// namespace is configured.
var DefaultCalculationNamespace = uuid.MustParse("6f1c3a52-9a0e-4d7b-8a43-2d5e7c1b9f60")

const defaultBatchConcurrency = 8

type Options struct {
	CalculationNamespace uuid.UUID
	BatchConcurrency     int
}

type PayrollServiceImpl struct {
	countryRepo      country.Repository
	periodRepo       payroll.PeriodRepository
	compensationRepo payroll.CompensationRepository
	componentRepo    salarycomponent.SalaryComponentRepository
	timesheetRepo    timesheet.Repository
	resolver         salarycomponent.Resolver
	calculator       timesheet.PayCalculator
	currencyService  currency.CurrencyService
	snapshotService  payslip.SnapshotService
	clock            clock.Clock
	logger           *slog.Logger
	opts             Options
}

func NewPayrollService(
	countryRepo country.Repository,
	periodRepo payroll.PeriodRepository,
	compensationRepo payroll.CompensationRepository,
	componentRepo salarycomponent.SalaryComponentRepository,
	timesheetRepo timesheet.Repository,
	resolver salarycomponent.Resolver,
	calculator timesheet.PayCalculator,
	currencyService currency.CurrencyService,
	snapshotService payslip.SnapshotService,
	clk clock.Clock,
	logger *slog.Logger,
	opts Options,
) payroll.PayrollService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CalculationNamespace == uuid.Nil {
		opts.CalculationNamespace = DefaultCalculationNamespace
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = defaultBatchConcurrency
	}
	return &PayrollServiceImpl{
		countryRepo:      countryRepo,
		periodRepo:       periodRepo,
		compensationRepo: compensationRepo,
		componentRepo:    componentRepo,
		timesheetRepo:    timesheetRepo,
		resolver:         resolver,
		calculator:       calculator,
		currencyService:  currencyService,
		snapshotService:  snapshotService,
		clock:            clk,
		logger:           logger,
		opts:             opts,
	}
}

// CalculationID derives the idempotency key for one user, country and period.
func CalculationID(namespace uuid.UUID, userID, countryID, periodID string) string {
	return uuid.NewSHA1(namespace, []byte(userID+"|"+countryID+"|"+periodID)).String()
}

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResult{}, err
	}
	return s.calculate(ctx, req)
}

func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.CalculateRequest) (payslip.Snapshot, error) {
	if err := req.Validate(); err != nil {
		return payslip.Snapshot{}, err
	}

	result, err := s.calculate(ctx, req)
	if err != nil {
		return payslip.Snapshot{}, err
	}

	snap, err := s.snapshotService.Save(ctx, result.ToSnapshot())
	if err != nil {
		return payslip.Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "payroll generated",
		"calculation_id", snap.CalculationID,
		"snapshot_id", snap.ID,
		"user_id", snap.UserID,
		"payroll_period_id", snap.PayrollPeriodID,
	)
	return snap, nil
}

// GenerateBatch runs Generate for every user independently. One user's
// failure is recorded on its item and never stops the others.
func (s *PayrollServiceImpl) GenerateBatch(ctx context.Context, req payroll.BatchRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}

	// Fail fast on problems shared by every user.
	if _, err := s.activeCountry(ctx, req.CountryID); err != nil {
		return payroll.BatchResult{}, err
	}
	if _, err := s.periodFor(ctx, req.PeriodID, req.CountryID); err != nil {
		return payroll.BatchResult{}, err
	}

	userIDs := uniqueIDs(req.UserIDs)
	items := make([]payroll.BatchItem, len(userIDs))

	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)
	for i, userID := range userIDs {
		g.Go(func() error {
			item := payroll.BatchItem{UserID: userID}
			if err := ctx.Err(); err != nil {
				item.Err = err
				items[i] = item
				return nil
			}

			snap, err := s.Generate(ctx, payroll.CalculateRequest{
				UserID:    userID,
				CountryID: req.CountryID,
				PeriodID:  req.PeriodID,
			})
			if err != nil {
				s.logger.WarnContext(ctx, "batch payroll failed for user",
					"user_id", userID,
					"payroll_period_id", req.PeriodID,
					"error", err,
				)
				item.Err = err
			} else {
				item.CalculationID = snap.CalculationID
				item.SnapshotID = snap.ID
				item.NetPay = snap.NetPay
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	result := payroll.BatchResult{CountryID: req.CountryID, PeriodID: req.PeriodID, Items: items}
	for _, item := range items {
		if item.Err != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	s.logger.InfoContext(ctx, "payroll batch finished",
		"country_id", req.CountryID,
		"payroll_period_id", req.PeriodID,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

// ConvertResult expresses the headline totals in another currency. The
// stored result is not touched.
func (s *PayrollServiceImpl) ConvertResult(ctx context.Context, result payroll.CalculationResult, toCurrency string, asOf *time.Time) (payroll.ConvertedTotals, error) {
	toCurrency = currency.NormalizeCode(toCurrency)
	if asOf == nil {
		at := result.CalculatedAt
		if at.IsZero() {
			at = s.clock.Now()
		}
		asOf = &at
	}

	gross, err := s.currencyService.Convert(ctx, result.GrossPay, result.CurrencyCode, toCurrency, asOf)
	if err != nil {
		return payroll.ConvertedTotals{}, err
	}

	target, err := s.currencyService.GetCurrency(ctx, toCurrency)
	if err != nil {
		return payroll.ConvertedTotals{}, err
	}

	rate := gross.Rate
	convert := func(amount decimal.Decimal) decimal.Decimal {
		return money.Round(amount.Mul(rate), target.DecimalPlaces)
	}

	out := payroll.ConvertedTotals{
		CalculationID:   result.CalculationID,
		FromCurrency:    gross.FromCurrency,
		ToCurrency:      gross.ToCurrency,
		Rate:            rate,
		EffectiveDate:   gross.EffectiveDate,
		GrossPay:        convert(result.GrossPay),
		TotalDeductions: convert(result.TotalDeductions),
		NetPay:          convert(result.NetPay),
	}
	out.FormattedTotals = s.formatTotals(target, out.GrossPay, out.TotalDeductions, out.NetPay)
	return out, nil
}

// calculate resolves earnings first so percent-of-gross deductions see a
// settled gross. Timesheet premiums join gross before any deduction runs.
func (s *PayrollServiceImpl) calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.CalculationResult, error) {
	ctry, err := s.activeCountry(ctx, req.CountryID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	period, err := s.periodFor(ctx, req.PeriodID, ctry.ID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	comp, err := s.compensationRepo.GetByUser(ctx, req.UserID, ctry.ID)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	calculationID := CalculationID(s.opts.CalculationNamespace, req.UserID, ctry.ID, period.ID)
	if req.CalculationID != nil {
		calculationID = *req.CalculationID
	}

	cur, warnings := s.payrollCurrency(ctx, ctry)
	places := cur.DecimalPlaces

	components, err := s.componentRepo.ListByCountry(ctx, ctry.ID, true)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	result := payroll.CalculationResult{
		CalculationID:   calculationID,
		UserID:          req.UserID,
		CountryID:       ctry.ID,
		CountryCode:     ctry.Code,
		PayrollPeriodID: period.ID,
		CurrencyCode:    cur.Code,
		DecimalPlaces:   places,
		CalculatedAt:    s.clock.Now(),
		BasicSalary:     money.Round(comp.BasicSalary, places),
		Warnings:        warnings,
	}

	rc := salarycomponent.ResolutionContext{
		Basic:    comp.BasicSalary,
		Resolved: make(map[string]decimal.Decimal, len(components)),
	}

	// Earnings phase: gross is the running total, net is unknown.
	gross := decimal.Zero
	for _, c := range components {
		if c.Category.IsDeduction() {
			continue
		}
		running := gross
		rc.Gross = &running
		rc.Net = nil

		amount, err := s.resolver.Resolve(c, rc)
		if err != nil {
			return payroll.CalculationResult{}, fmt.Errorf("failed to resolve component %s: %w", c.Code, err)
		}
		line := lineItem(c, money.Round(amount, places))
		rc.Resolved[c.Code] = line.Amount
		gross = gross.Add(line.Amount)
		result.Components = append(result.Components, line)
	}
	result.TotalEarnings = gross

	breakdown, err := s.timesheetPay(ctx, ctry, comp, period)
	if err != nil {
		return payroll.CalculationResult{}, err
	}
	if breakdown != nil {
		overtimeExact, nightExact := breakdown.PremiumPay()
		overtime := money.Round(overtimeExact, places)
		night := money.Round(nightExact, places)
		result.OvertimePay = &overtime
		result.NightShiftPay = &night
		result.Timesheet = breakdown
		gross = gross.Add(overtime).Add(night)
		if breakdown.DefaultRulesUsed {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no pay rules configured for %s; default multipliers applied", ctry.Code))
		}
	}
	result.GrossPay = gross

	// Deductions phase: gross is settled, net is gross less deductions so far.
	statutory := decimal.Zero
	other := decimal.Zero
	for _, c := range components {
		if !c.Category.IsDeduction() {
			continue
		}
		settled := gross
		net := gross.Sub(statutory).Sub(other)
		rc.Gross = &settled
		rc.Net = &net

		amount, err := s.resolver.Resolve(c, rc)
		if err != nil {
			return payroll.CalculationResult{}, fmt.Errorf("failed to resolve component %s: %w", c.Code, err)
		}
		line := lineItem(c, money.Round(amount, places))
		rc.Resolved[c.Code] = line.Amount

		if !c.IsStatutory {
			other = other.Add(line.Amount)
			result.OtherDeductions = append(result.OtherDeductions, line)
			continue
		}

		employer, ok, err := s.resolver.ResolveEmployer(c, rc)
		if err != nil {
			return payroll.CalculationResult{}, fmt.Errorf("failed to resolve employer share of %s: %w", c.Code, err)
		}
		if ok {
			rounded := money.Round(employer, places)
			line.EmployerAmount = &rounded
		}
		statutory = statutory.Add(line.Amount)
		result.StatutoryDeductions = append(result.StatutoryDeductions, line)
	}

	result.TotalStatutoryDeductions = statutory
	result.TotalOtherDeductions = other
	result.TotalDeductions = statutory.Add(other)
	result.NetPay = gross.Sub(result.TotalDeductions)
	result.FormattedTotals = s.formatTotals(cur, result.GrossPay, result.TotalDeductions, result.NetPay)

	for _, w := range result.Warnings {
		s.logger.WarnContext(ctx, "payroll calculation warning",
			"calculation_id", calculationID,
			"user_id", req.UserID,
			"warning", w,
		)
	}
	return result, nil
}

func (s *PayrollServiceImpl) activeCountry(ctx context.Context, countryID string) (country.Country, error) {
	ctry, err := s.countryRepo.GetByID(ctx, countryID)
	if err != nil {
		return country.Country{}, err
	}
	if !ctry.IsActive {
		return country.Country{}, fmt.Errorf("%w: %s", payroll.ErrCountryInactive, ctry.Code)
	}
	return ctry, nil
}

func (s *PayrollServiceImpl) periodFor(ctx context.Context, periodID, countryID string) (payroll.Period, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return payroll.Period{}, err
	}
	if period.CountryID != countryID {
		return payroll.Period{}, payroll.ErrPeriodCountryMismatch
	}
	return period, nil
}

// payrollCurrency falls back to two decimal places when the country's
// currency is not configured; the result still carries the country's code.
func (s *PayrollServiceImpl) payrollCurrency(ctx context.Context, ctry country.Country) (currency.Currency, []string) {
	code := strings.ToUpper(ctry.CurrencyCode)
	cur, err := s.currencyService.GetCurrency(ctx, code)
	if err == nil {
		return cur, nil
	}
	if !errors.Is(err, currency.ErrCurrencyNotFound) {
		s.logger.ErrorContext(ctx, "failed to load payroll currency", "currency_code", code, "error", err)
	}
	fallback := currency.Currency{Code: code, Symbol: code + " ", DecimalPlaces: money.DefaultPrecision}
	return fallback, []string{fmt.Sprintf("currency %s is not configured; amounts rounded to %d decimal places", code, money.DefaultPrecision)}
}

// timesheetPay returns nil when the employee has no approved hours in the period.
func (s *PayrollServiceImpl) timesheetPay(ctx context.Context, ctry country.Country, comp payroll.Compensation, period payroll.Period) (*timesheet.PayBreakdown, error) {
	entries, err := s.timesheetRepo.ListApproved(ctx, comp.UserID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		check := s.calculator.ValidateHours(ctry.Code, e.Regular, e.Overtime, e.DoubleOvertime)
		if !check.Valid {
			s.logger.WarnContext(ctx, "approved timesheet exceeds advisory limits",
				"user_id", comp.UserID,
				"work_date", e.WorkDate.Format("2006-01-02"),
				"problems", check.Errors,
			)
		}
	}

	hours := s.calculator.Summarize(entries)
	if hours.IsZero() {
		return nil, nil
	}

	breakdown, err := s.calculator.Calculate(ctry.Code, comp.BasicSalary, hours)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *PayrollServiceImpl) formatTotals(cur currency.Currency, gross, deductions, net decimal.Decimal) map[string]string {
	return map[string]string{
		"gross_pay":        s.currencyService.Format(gross, cur),
		"total_deductions": s.currencyService.Format(deductions, cur),
		"net_pay":          s.currencyService.Format(net, cur),
	}
}

func lineItem(c salarycomponent.SalaryComponent, amount decimal.Decimal) payslip.LineItem {
	return payslip.LineItem{
		ComponentID:     c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Category:        string(c.Category),
		CalculationType: string(c.CalculationType),
		Amount:          amount,
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
