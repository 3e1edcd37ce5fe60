// Package engine implements the household wealth projection core: loan
// amortization, compound investment growth, inflation adjustment, mortgage
// tax benefits, and the rent-vs-buy comparison. Every operation is a pure
// function of immutable inputs; callers resolve external data (tax tables,
// market context) into snapshot values before invoking the engine.
package engine

import "fmt"

// Strategy identifies a home-financing approach under comparison
type Strategy int

const (
	FinancedPurchase Strategy = iota // mortgage-financed purchase
	CashPurchase                     // full price paid upfront, no loan
	RentAndInvest                    // rent while investing the buyer's upfront cash
)

func (s Strategy) String() string {
	switch s {
	case FinancedPurchase:
		return "Financed Purchase"
	case CashPurchase:
		return "Cash Purchase"
	case RentAndInvest:
		return "Rent + Invest"
	default:
		return "Unknown"
	}
}

// Granularity selects the compounding period for investment projections
type Granularity int

const (
	Monthly Granularity = iota
	Yearly
)

func (g Granularity) String() string {
	switch g {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// PeriodsPerYear returns the number of compounding periods in one year
func (g Granularity) PeriodsPerYear() int {
	if g == Yearly {
		return 1
	}
	return 12
}

// PeriodRate converts an annual rate to this granularity's period rate
// (nominal convention: monthly rate = annual rate / 12)
func (g Granularity) PeriodRate(annualRate float64) float64 {
	if g == Yearly {
		return annualRate
	}
	return annualRate / 12
}

// EmploymentStability feeds the emergency-fund recommendation
type EmploymentStability int

const (
	StableEmployment   EmploymentStability = iota // salaried, tenured, dual income
	VariableEmployment                            // commission, contract, single income
)

func (e EmploymentStability) String() string {
	switch e {
	case StableEmployment:
		return "stable"
	case VariableEmployment:
		return "variable"
	default:
		return "unknown"
	}
}

// RecommendedFundMonths returns the months of expenses to keep liquid
func (e EmploymentStability) RecommendedFundMonths() int {
	if e == VariableEmployment {
		return 12
	}
	return 6
}

// DTIClass grades a debt-to-income ratio against lending thresholds
type DTIClass int

const (
	DTISafe DTIClass = iota
	DTICaution
	DTIDanger
)

func (c DTIClass) String() string {
	switch c {
	case DTISafe:
		return "safe"
	case DTICaution:
		return "caution"
	case DTIDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// DeductionPolicy selects how mortgage interest converts to tax savings
type DeductionPolicy int

const (
	// DeductFullInterest treats every interest dollar as deductible at the
	// combined marginal rate. No standard-deduction comparison is made.
	DeductFullInterest DeductionPolicy = iota
	// DeductNone models a household that takes the standard deduction
	DeductNone
)

func (p DeductionPolicy) String() string {
	switch p {
	case DeductFullInterest:
		return "full interest"
	case DeductNone:
		return "none"
	default:
		return "unknown"
	}
}

// MortgageScenario describes one purchase under analysis. Construct with
// NewMortgageScenario; treat as read-only afterwards. LoanAmount is always
// HomePrice - DownPayment.
type MortgageScenario struct {
	HomePrice        float64 // purchase price ($)
	DownPayment      float64 // cash at closing ($); equal to HomePrice for a cash purchase
	LoanAmount       float64 // derived: HomePrice - DownPayment
	InterestRate     float64 // annual mortgage rate (e.g., 0.061 = 6.1%)
	TermYears        int     // amortization term
	StockReturnRate  float64 // annual return on invested cash flow differences
	InflationRate    float64 // annual CPI assumption for real-dollar conversion
	AppreciationRate float64 // annual home value growth
	PropertyTaxRate  float64 // annual rate on current home value
	TaxBracket       float64 // combined marginal rate (state + federal), e.g. 0.32
}

// NewMortgageScenario validates the inputs and derives the loan amount.
// Invalid inputs are rejected here so every analysis on a constructed
// scenario is total.
func NewMortgageScenario(homePrice, downPayment, interestRate float64, termYears int,
	stockReturn, inflation, appreciation, propertyTax, taxBracket float64) (MortgageScenario, error) {

	if homePrice <= 0 {
		return MortgageScenario{}, fmt.Errorf("home price must be positive, got %.2f: %w", homePrice, ErrInvalidParameter)
	}
	if downPayment < 0 || downPayment > homePrice {
		return MortgageScenario{}, fmt.Errorf("down payment %.2f outside [0, home price %.2f]: %w", downPayment, homePrice, ErrInvalidParameter)
	}
	if termYears <= 0 {
		return MortgageScenario{}, fmt.Errorf("term must be positive, got %d years: %w", termYears, ErrInvalidParameter)
	}
	for _, r := range []struct {
		name string
		rate float64
	}{
		{"interest rate", interestRate},
		{"stock return rate", stockReturn},
		{"inflation rate", inflation},
		{"appreciation rate", appreciation},
		{"property tax rate", propertyTax},
		{"tax bracket", taxBracket},
	} {
		if r.rate < 0 {
			return MortgageScenario{}, fmt.Errorf("%s must not be negative, got %.4f: %w", r.name, r.rate, ErrInvalidParameter)
		}
	}

	return MortgageScenario{
		HomePrice:        homePrice,
		DownPayment:      downPayment,
		LoanAmount:       homePrice - downPayment,
		InterestRate:     interestRate,
		TermYears:        termYears,
		StockReturnRate:  stockReturn,
		InflationRate:    inflation,
		AppreciationRate: appreciation,
		PropertyTaxRate:  propertyTax,
		TaxBracket:       taxBracket,
	}, nil
}

// IsCashPurchase reports whether no financing is involved
func (s MortgageScenario) IsCashPurchase() bool {
	return s.LoanAmount == 0
}

// DownPaymentFraction returns DownPayment / HomePrice
func (s MortgageScenario) DownPaymentFraction() float64 {
	return s.DownPayment / s.HomePrice
}

// RentScenario describes the renting alternative. Construct with
// NewRentScenario; treat as read-only afterwards.
type RentScenario struct {
	MonthlyRent        float64 // starting rent ($/month)
	AnnualRentIncrease float64 // compounding annual escalation (e.g., 0.03 = 3%)
	RentersInsurance   float64 // renters insurance ($/month)
	HorizonYears       int     // comparison horizon
}

// NewRentScenario validates the renting side of a comparison
func NewRentScenario(monthlyRent, annualIncrease, rentersInsurance float64, horizonYears int) (RentScenario, error) {
	if monthlyRent <= 0 {
		return RentScenario{}, fmt.Errorf("monthly rent must be positive, got %.2f: %w", monthlyRent, ErrInvalidParameter)
	}
	if annualIncrease < 0 {
		return RentScenario{}, fmt.Errorf("rent increase must not be negative, got %.4f: %w", annualIncrease, ErrInvalidParameter)
	}
	if rentersInsurance < 0 {
		return RentScenario{}, fmt.Errorf("renters insurance must not be negative, got %.2f: %w", rentersInsurance, ErrInvalidParameter)
	}
	if horizonYears <= 0 {
		return RentScenario{}, fmt.Errorf("horizon must be positive, got %d years: %w", horizonYears, ErrInvalidParameter)
	}
	return RentScenario{
		MonthlyRent:        monthlyRent,
		AnnualRentIncrease: annualIncrease,
		RentersInsurance:   rentersInsurance,
		HorizonYears:       horizonYears,
	}, nil
}

// YearlyResult is one row of a scenario's wealth trajectory. Home value,
// equity and balances are end-of-year; Year is 1-based.
type YearlyResult struct {
	Year                int     `json:"year"`
	CumulativeInterest  float64 `json:"cumulative_interest"`
	CumulativePrincipal float64 `json:"cumulative_principal"`
	HomeValue           float64 `json:"home_value"`
	HomeEquity          float64 `json:"home_equity"`
	LoanBalance         float64 `json:"loan_balance"`
	TaxSavings          float64 `json:"tax_savings"` // this year's interest deduction value
	InvestedBalance     float64 `json:"invested_balance"`
	NetWorthNominal     float64 `json:"net_worth_nominal"`
	NetWorthReal        float64 `json:"net_worth_real"`
}

// MonthlyCosts decomposes one month of ownership outlay
type MonthlyCosts struct {
	PrincipalAndInterest float64 `json:"principal_and_interest"`
	PropertyTax          float64 `json:"property_tax"`
	Insurance            float64 `json:"insurance"`
	PMI                  float64 `json:"pmi"`
	Maintenance          float64 `json:"maintenance"`
	Total                float64 `json:"total"`
}

// FinancialProfile carries the household context for affordability signals.
// Construct with NewFinancialProfile.
type FinancialProfile struct {
	AnnualIncome  float64 // gross household income ($/year)
	MonthlyDebt   float64 // non-housing obligations: cars, loans, cards ($/month)
	CashSavings   float64 // liquid reserves ($)
	StockHoldings float64 // taxable investment balance ($)
	State         string  // two-letter state code for tax resolution
	FilingStatus  string  // "single" or "married"
	Stability     EmploymentStability
}

// NewFinancialProfile validates the household inputs
func NewFinancialProfile(annualIncome, monthlyDebt, cashSavings, stockHoldings float64,
	state, filingStatus string, stability EmploymentStability) (FinancialProfile, error) {

	if annualIncome <= 0 {
		return FinancialProfile{}, fmt.Errorf("annual income must be positive, got %.2f: %w", annualIncome, ErrInvalidParameter)
	}
	if monthlyDebt < 0 {
		return FinancialProfile{}, fmt.Errorf("monthly debt must not be negative, got %.2f: %w", monthlyDebt, ErrInvalidParameter)
	}
	if cashSavings < 0 || stockHoldings < 0 {
		return FinancialProfile{}, fmt.Errorf("savings balances must not be negative: %w", ErrInvalidParameter)
	}
	return FinancialProfile{
		AnnualIncome:  annualIncome,
		MonthlyDebt:   monthlyDebt,
		CashSavings:   cashSavings,
		StockHoldings: stockHoldings,
		State:         state,
		FilingStatus:  filingStatus,
		Stability:     stability,
	}, nil
}

// CostModel holds the ownership cost assumptions shared by the scenario
// engine, the rent-vs-buy analyzer and the affordability advisor. The zero
// value is usable: every accessor falls back to a standard default.
type CostModel struct {
	HomeInsuranceMonthly float64 // homeowner insurance ($/month, default 150)
	MaintenanceRate      float64 // annual upkeep as fraction of home value (default 0.01)
	PMIRate              float64 // annual PMI on outstanding balance (default 0.005, typical 0.005-0.01)
	ClosingCostRate      float64 // buyer closing costs as fraction of price (default 0.03)
	SellingCostRate      float64 // sale transaction costs as fraction of value (default 0.06)
	Deduction            DeductionPolicy
}

const (
	defaultHomeInsuranceMonthly = 150.0
	defaultMaintenanceRate      = 0.01
	defaultPMIRate              = 0.005
	defaultClosingCostRate      = 0.03
	defaultSellingCostRate      = 0.06

	// pmiEquityThreshold is the equity fraction at which PMI drops off,
	// re-evaluated against current home value every year
	pmiEquityThreshold = 0.20
)

// DefaultCostModel returns the standard assumptions
func DefaultCostModel() CostModel {
	return CostModel{
		HomeInsuranceMonthly: defaultHomeInsuranceMonthly,
		MaintenanceRate:      defaultMaintenanceRate,
		PMIRate:              defaultPMIRate,
		ClosingCostRate:      defaultClosingCostRate,
		SellingCostRate:      defaultSellingCostRate,
		Deduction:            DeductFullInterest,
	}
}

// GetHomeInsuranceMonthly returns the monthly insurance, using the default if unset
func (c CostModel) GetHomeInsuranceMonthly() float64 {
	if c.HomeInsuranceMonthly <= 0 {
		return defaultHomeInsuranceMonthly
	}
	return c.HomeInsuranceMonthly
}

// GetMaintenanceRate returns the annual maintenance rate, using the default if unset
func (c CostModel) GetMaintenanceRate() float64 {
	if c.MaintenanceRate <= 0 {
		return defaultMaintenanceRate
	}
	return c.MaintenanceRate
}

// GetPMIRate returns the annual PMI rate, using the default if unset
func (c CostModel) GetPMIRate() float64 {
	if c.PMIRate <= 0 {
		return defaultPMIRate
	}
	return c.PMIRate
}

// GetClosingCostRate returns the closing cost fraction, using the default if unset
func (c CostModel) GetClosingCostRate() float64 {
	if c.ClosingCostRate <= 0 {
		return defaultClosingCostRate
	}
	return c.ClosingCostRate
}

// GetSellingCostRate returns the selling cost fraction, using the default if unset
func (c CostModel) GetSellingCostRate() float64 {
	if c.SellingCostRate <= 0 {
		return defaultSellingCostRate
	}
	return c.SellingCostRate
}

// WarningCode identifies an affordability risk signal
type WarningCode string

const (
	WarnPMIRequired   WarningCode = "pmi_required"
	WarnDTIHousing    WarningCode = "dti_housing"
	WarnDTITotal      WarningCode = "dti_total"
	WarnEmergencyFund WarningCode = "emergency_fund"
)

// WarningSignal is an advisory finding, never a failure
type WarningSignal struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
