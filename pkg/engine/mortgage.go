package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmortizationRow is one month of a repayment schedule. Ledger columns are
// decimal so that balance arithmetic carries no float drift: the schedule's
// principal components sum to the loan amount exactly and the final balance
// is exactly zero.
type AmortizationRow struct {
	Period    int             `json:"period"` // 1-based month index
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"` // remaining after this payment
}

// AnnualDebtService aggregates twelve schedule rows for the simulation layer
type AnnualDebtService struct {
	Year          int     `json:"year"` // 1-based
	Interest      float64 `json:"interest"`
	Principal     float64 `json:"principal"`
	Payments      float64 `json:"payments"`
	EndingBalance float64 `json:"ending_balance"`
}

var (
	decimalOne    = decimal.NewFromInt(1)
	decimalTwelve = decimal.NewFromInt(12)
)

// MonthlyPayment computes the level principal-and-interest payment using the
// standard annuity formula M = P·r(1+r)^n / ((1+r)^n - 1). The result is
// returned at full precision; Schedule rounds to cents internally. A zero
// rate is an explicit branch, payment = loan / (term·12), not a limit of the
// general formula.
func MonthlyPayment(loanAmount, annualRate float64, termYears int) (decimal.Decimal, error) {
	if loanAmount <= 0 {
		return decimal.Zero, fmt.Errorf("loan amount must be positive, got %.2f: %w", loanAmount, ErrInvalidParameter)
	}
	if termYears <= 0 {
		return decimal.Zero, fmt.Errorf("term must be positive, got %d years: %w", termYears, ErrInvalidParameter)
	}
	if annualRate < 0 {
		return decimal.Zero, fmt.Errorf("rate must not be negative, got %.4f: %w", annualRate, ErrInvalidParameter)
	}

	loan := decimal.NewFromFloat(loanAmount)
	periods := decimal.NewFromInt(int64(termYears) * 12)

	if annualRate == 0 {
		return loan.Div(periods), nil
	}

	monthlyRate := decimal.NewFromFloat(annualRate).Div(decimalTwelve)
	factor := decimalOne.Add(monthlyRate).Pow(periods)
	return loan.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimalOne)), nil
}

// Schedule generates the full amortization schedule, one row per month for
// term·12 months. Each row charges interest on the running balance and
// retires the remainder of the cents-rounded payment as principal. The
// final row absorbs the rounding residue: its principal is whatever balance
// remains, so the balance lands on exactly zero.
func Schedule(loanAmount, annualRate float64, termYears int) ([]AmortizationRow, error) {
	payment, err := MonthlyPayment(loanAmount, annualRate, termYears)
	if err != nil {
		return nil, err
	}
	payment = payment.Round(2)

	periods := termYears * 12
	monthlyRate := decimal.NewFromFloat(annualRate).Div(decimalTwelve)
	balance := decimal.NewFromFloat(loanAmount)

	rows := make([]AmortizationRow, 0, periods)
	for p := 1; p <= periods; p++ {
		interest := balance.Mul(monthlyRate).Round(2)
		var principal decimal.Decimal
		if p == periods || payment.Sub(interest).GreaterThan(balance) {
			// the final row, or an up-rounded payment overtaking the
			// balance early: retire exactly what remains
			principal = balance
		} else {
			principal = payment.Sub(interest)
		}
		balance = balance.Sub(principal)
		rows = append(rows, AmortizationRow{
			Period:    p,
			Payment:   principal.Add(interest),
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return rows, nil
}

// AnnualTotals groups a schedule into per-year debt service figures
func AnnualTotals(rows []AmortizationRow) []AnnualDebtService {
	if len(rows) == 0 {
		return nil
	}
	years := (len(rows) + 11) / 12
	totals := make([]AnnualDebtService, 0, years)

	for y := 0; y < years; y++ {
		start := y * 12
		end := start + 12
		if end > len(rows) {
			end = len(rows)
		}
		interest := decimal.Zero
		principal := decimal.Zero
		payments := decimal.Zero
		for _, row := range rows[start:end] {
			interest = interest.Add(row.Interest)
			principal = principal.Add(row.Principal)
			payments = payments.Add(row.Payment)
		}
		totals = append(totals, AnnualDebtService{
			Year:          y + 1,
			Interest:      interest.InexactFloat64(),
			Principal:     principal.InexactFloat64(),
			Payments:      payments.InexactFloat64(),
			EndingBalance: rows[end-1].Balance.InexactFloat64(),
		})
	}
	return totals
}

// TotalInterest sums the interest column of a schedule
func TotalInterest(rows []AmortizationRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Interest)
	}
	return total
}
