package engine

import (
	"fmt"
	"math"
)

// PurchasePower is the loan and home price a monthly payment can carry
type PurchasePower struct {
	TermYears      int     `json:"term_years"`
	LoanAmount     float64 `json:"loan_amount"`
	HomePrice      float64 `json:"home_price"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// DefaultPurchaseTerms are quoted when the caller names no terms
var DefaultPurchaseTerms = []int{15, 30}

// RentToPurchasePower inverts the payment formula: treating the monthly
// rent as a level P&I payment, it computes the loan each term supports and
// the home price that loan implies at the given down payment fraction.
// Longer terms always support a larger loan at the same payment.
func RentToPurchasePower(monthlyRent, annualRate, downPaymentFraction float64, termYears ...int) ([]PurchasePower, error) {
	if monthlyRent <= 0 {
		return nil, fmt.Errorf("%w: monthly rent must be positive, got %.2f", ErrInvalidParameter, monthlyRent)
	}
	if annualRate < 0 {
		return nil, fmt.Errorf("%w: interest rate must be non-negative, got %.4f", ErrInvalidParameter, annualRate)
	}
	if downPaymentFraction < 0 || downPaymentFraction >= 1 {
		return nil, fmt.Errorf("%w: down payment fraction must be in [0, 1), got %.4f", ErrInvalidParameter, downPaymentFraction)
	}
	if len(termYears) == 0 {
		termYears = DefaultPurchaseTerms
	}

	powers := make([]PurchasePower, 0, len(termYears))
	for _, term := range termYears {
		if term <= 0 {
			return nil, fmt.Errorf("%w: term must be positive, got %d years", ErrInvalidParameter, term)
		}
		n := float64(term * 12)
		var loan float64
		if annualRate == 0 {
			loan = monthlyRent * n
		} else {
			r := annualRate / 12
			loan = monthlyRent * (1 - math.Pow(1+r, -n)) / r
		}
		powers = append(powers, PurchasePower{
			TermYears:      term,
			LoanAmount:     loan,
			HomePrice:      loan / (1 - downPaymentFraction),
			MonthlyPayment: monthlyRent,
		})
	}
	return powers, nil
}
