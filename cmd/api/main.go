package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	contributionService "github.com/cmlabs-hris/payroll-engine-go/internal/service/contribution"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/countryrule"
	currencyService "github.com/cmlabs-hris/payroll-engine-go/internal/service/currency"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
	payslipService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payslip"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/salarycomponent"
	timesheetService "github.com/cmlabs-hris/payroll-engine-go/internal/service/timesheet"
	"github.com/go-chi/httplog/v3"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "payroll-engine:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	clk := clock.NewRealClock()

	// Repositories
	currencyRepo := postgresql.NewCurrencyRepository(db)
	countryRepo := postgresql.NewCountryRepository(db)
	regionConfigRepo := postgresql.NewRegionConfigRepository(db)
	componentRepo := postgresql.NewSalaryComponentRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	compensationRepo := postgresql.NewCompensationRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)

	// Services
	currencySvc := currencyService.NewCurrencyService(currencyRepo, clk, logger)
	rules := countryrule.NewProvider(countryrule.DefaultTable())
	calculator := timesheetService.NewCalculator(rules, timesheetService.WithHoursPerMonth(cfg.Payroll.HoursPerMonth))
	componentSvc := salarycomponent.NewSalaryComponentService(
		postgresql.NewTransactor(db),
		componentRepo,
		countryRepo,
		regionConfigRepo,
		salarycomponent.DefaultPolicies(),
		logger,
	)
	snapshotSvc := payslipService.NewSnapshotService(snapshotRepo, clk, logger)
	payrollSvc := payrollService.NewPayrollService(
		countryRepo,
		periodRepo,
		compensationRepo,
		componentRepo,
		timesheetRepo,
		salarycomponent.NewResolver(),
		calculator,
		currencySvc,
		snapshotSvc,
		clk,
		logger,
		payrollService.Options{
			CalculationNamespace: cfg.Namespace(),
			BatchConcurrency:     cfg.Payroll.BatchConcurrency,
		},
	)
	contributionSvc := contributionService.NewContributionService(snapshotRepo, logger)

	// Background jobs
	scheduler := cron.NewScheduler(logger)
	cron.NewRateJobs(currencySvc, cfg.Payroll.RateAuditInterval, logger).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			LogLevel:       cfg.SlogLevel(),
		},
		logger,
		appHTTP.Handlers{
			Currency:        appHTTP.NewCurrencyHandler(currencySvc),
			SalaryComponent: appHTTP.NewSalaryComponentHandler(componentSvc),
			Timesheet:       appHTTP.NewTimesheetHandler(calculator),
			Payroll:         appHTTP.NewPayrollHandler(payrollSvc),
			Payslip:         appHTTP.NewPayslipHandler(snapshotSvc),
			Contribution:    appHTTP.NewContributionHandler(contributionSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
