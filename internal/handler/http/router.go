package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Currency        CurrencyHandler
	SalaryComponent SalaryComponentHandler
	Timesheet       TimesheetHandler
	Payroll         PayrollHandler
	Payslip         PayslipHandler
	Contribution    ContributionHandler
}

// NewRouter mounts every endpoint under /api/v1. The logger should be built
// with httplog.SchemaECS so access logs and application logs share fields.
func NewRouter(opts RouterOptions, logger *slog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", h.Currency.ListCurrencies)
			r.Post("/", h.Currency.CreateCurrency)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.Currency.GetCurrency)
				r.Put("/", h.Currency.UpdateCurrency)
				r.Delete("/", h.Currency.DeactivateCurrency)
			})
		})

		r.Route("/exchange-rates", func(r chi.Router) {
			r.Get("/", h.Currency.ListRates)
			r.Post("/", h.Currency.CreateRate)
			r.Post("/convert", h.Currency.Convert)
			r.Get("/audit", h.Currency.AuditRates)
			r.Delete("/{id}", h.Currency.DeactivateRate)
		})

		r.Route("/countries/{countryID}/salary-components", func(r chi.Router) {
			r.Get("/", h.SalaryComponent.List)
			r.Post("/", h.SalaryComponent.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.SalaryComponent.Get)
				r.Put("/", h.SalaryComponent.Update)
				r.Delete("/", h.SalaryComponent.Delete)
			})
		})

		r.Route("/timesheet", func(r chi.Router) {
			r.Post("/calculate", h.Timesheet.Calculate)
			r.Post("/validate", h.Timesheet.ValidateHours)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/preview", h.Payroll.Preview)
			r.Post("/generate", h.Payroll.Generate)
			r.Post("/batch", h.Payroll.GenerateBatch)
		})

		r.Route("/payslips/{id}", func(r chi.Router) {
			r.Get("/", h.Payslip.Get)
			r.Post("/available", h.Payslip.MarkAvailable)
			r.Post("/download", h.Payslip.MarkDownloaded)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/payslips", h.Payslip.ListByUser)
			r.Get("/contributions/ytd", h.Contribution.YTDSummary)
			r.Post("/contributions/compare", h.Contribution.Compare)
		})

		r.Get("/periods/{periodID}/payslips", h.Payslip.ListByPeriod)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
