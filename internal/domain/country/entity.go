package country

// Country - master data row; CurrencyCode is the native payroll currency
type Country struct {
	ID           string
	Code         string
	Name         string
	CurrencyCode string
	IsActive     bool
}
