package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// Mathematical Invariants Test Suite
//
// This file contains property-based tests that verify invariants that must
// always hold regardless of input values.
//
// These tests validate the logical consistency of the financial
// calculations rather than specific numeric values.

// =============================================================================
// Amortization Invariants
// =============================================================================

func TestInvariant_SchedulePrincipalSumsToLoan(t *testing.T) {
	// Property: every schedule's principal components sum exactly to the
	// loan, whatever the rate, term, or awkwardness of the amount

	tests := []struct {
		loanAmount   float64
		interestRate float64
		termYears    int
	}{
		{400000, 0.061, 30},
		{333333.33, 0.0475, 30},
		{150000, 0.089, 15},
		{80000, 0.03, 5},
		{100000, 0, 10},
		{999999.99, 0.0701, 25},
	}

	for _, tc := range tests {
		rows, err := Schedule(tc.loanAmount, tc.interestRate, tc.termYears)
		if err != nil {
			t.Fatalf("loan %.2f: %v", tc.loanAmount, err)
		}

		sum := decimal.Zero
		for _, row := range rows {
			sum = sum.Add(row.Principal)
		}
		if !sum.Equal(decimal.NewFromFloat(tc.loanAmount)) {
			t.Errorf("loan %.2f @ %.2f%%/%dy: principal sum %s drifted",
				tc.loanAmount, tc.interestRate*100, tc.termYears, sum)
		}
		if !rows[len(rows)-1].Balance.IsZero() {
			t.Errorf("loan %.2f @ %.2f%%/%dy: final balance %s not zero",
				tc.loanAmount, tc.interestRate*100, tc.termYears, rows[len(rows)-1].Balance)
		}
	}
}

func TestInvariant_ZeroRatePaymentIsExactDivision(t *testing.T) {
	// Property: at 0% the payment is loan / months with no approximation

	loans := []float64{120000, 100000, 360000}
	for _, loan := range loans {
		payment, err := MonthlyPayment(loan, 0, 10)
		if err != nil {
			t.Fatalf("loan %.2f: %v", loan, err)
		}
		expected := decimal.NewFromFloat(loan).Div(decimal.NewFromInt(120))
		if !payment.Equal(expected) {
			t.Errorf("loan %.2f: payment %s != %s", loan, payment, expected)
		}
	}
}

func TestInvariant_PaymentCoversFirstInterest(t *testing.T) {
	// Property: a positive-rate payment always exceeds the first month's
	// interest, so principal reduces from period one

	rates := []float64{0.01, 0.03, 0.061, 0.09, 0.15}
	for _, rate := range rates {
		rows, err := Schedule(250000, rate, 30)
		if err != nil {
			t.Fatalf("rate %.2f: %v", rate, err)
		}
		if !rows[0].Principal.IsPositive() {
			t.Errorf("rate %.2f%%: first principal %s not positive", rate*100, rows[0].Principal)
		}
	}
}

// =============================================================================
// Projection Invariants
// =============================================================================

func TestInvariant_BalancesNeverNegative(t *testing.T) {
	// Property: the clamp keeps every projected balance at or above zero
	// through arbitrary withdrawal patterns

	contributions := []float64{-5000, -100, 0, 250, -10000}
	for _, c := range contributions {
		series := ProjectGrowth(2000, c, 0.07, 120, Monthly)
		for i, v := range series {
			if v < 0 {
				t.Fatalf("contribution %.0f, month %d: negative balance %.2f", c, i+1, v)
			}
		}
	}
}

func TestInvariant_ToRealZeroInflationIdentity(t *testing.T) {
	values := []float64{-100, 0, 0.01, 1234.56, 9_999_999}
	for _, v := range values {
		for years := 0; years <= 50; years += 10 {
			if got := ToReal(v, 0, years); got != v {
				t.Errorf("ToReal(%.2f, 0, %d) = %.2f, expected identity", v, years, got)
			}
		}
	}
}

func TestInvariant_RealNeverExceedsNominalUnderInflation(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	for _, r := range e.AnalyzeScenario(sc, 30) {
		if r.NetWorthReal > r.NetWorthNominal {
			t.Fatalf("year %d: real %.2f above nominal %.2f", r.Year, r.NetWorthReal, r.NetWorthNominal)
		}
	}
}

// =============================================================================
// Comparison Invariants
// =============================================================================

func TestInvariant_SurplusSplitIsSymmetric(t *testing.T) {
	// Property: the differential is one computation viewed from two sides;
	// swapping the arguments swaps the results, nothing ever goes negative,
	// and at most one side invests

	pairs := [][2]float64{{1000, 1500}, {1500, 1000}, {2000, 2000}, {0, 750}, {3407.33, 2665}}
	for _, p := range pairs {
		ownA, otherA := surplusSplit(p[0], p[1])
		ownB, otherB := surplusSplit(p[1], p[0])

		if ownA != otherB || otherA != ownB {
			t.Errorf("split(%.2f, %.2f): asymmetric results (%.2f, %.2f) vs (%.2f, %.2f)",
				p[0], p[1], ownA, otherA, ownB, otherB)
		}
		if ownA < 0 || otherA < 0 {
			t.Errorf("split(%.2f, %.2f): negative surplus", p[0], p[1])
		}
		if ownA > 0 && otherA > 0 {
			t.Errorf("split(%.2f, %.2f): both sides investing", p[0], p[1])
		}
		if math.Abs((ownA+otherA)-math.Abs(p[1]-p[0])) > 1e-9 {
			t.Errorf("split(%.2f, %.2f): surplus does not equal the outlay gap", p[0], p[1])
		}
	}
}

func TestInvariant_BreakEvenTailStaysNonNegative(t *testing.T) {
	// Property: from the reported break-even year onward, the difference
	// never dips below zero again

	e := newTestEngine()
	buy := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)
	rent := mustRent(t, 2650, 0.03, 15, 30)

	be := e.CompareRentVsBuy(buy, rent).BreakEven
	if !be.WithinHorizon {
		t.Fatal("expected a break-even for this configuration")
	}
	for i := be.Year - 1; i < len(be.Difference); i++ {
		if be.Difference[i] < 0 {
			t.Fatalf("year %d: difference %.2f after break-even year %d", i+1, be.Difference[i], be.Year)
		}
	}
}

func TestInvariant_CashPurchaseHasNoDebtArtifacts(t *testing.T) {
	// Property: down_payment == home_price means no schedule, no PMI, no
	// tax savings, anywhere in the pipeline

	e := newTestEngine()
	sc := mustScenario(t, 350000, 350000, 0.061, 30, 0.07, 0.02, 0.03, 0.012, 0.3)

	costs := e.OwnershipCosts(sc, sc.HomePrice, 0, 0)
	if costs.PrincipalAndInterest != 0 || costs.PMI != 0 {
		t.Errorf("cash costs carry debt artifacts: P&I %.2f, PMI %.2f",
			costs.PrincipalAndInterest, costs.PMI)
	}

	for _, r := range e.AnalyzeScenario(sc, 10) {
		if r.LoanBalance != 0 || r.TaxSavings != 0 {
			t.Fatalf("year %d: balance %.2f, tax savings %.2f on a cash purchase",
				r.Year, r.LoanBalance, r.TaxSavings)
		}
	}
}

func TestInvariant_PMIOnlyBelowEquityThreshold(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 50000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	tests := []struct {
		homeValue   float64
		loanBalance float64
		wantPMI     bool
		description string
	}{
		{500000, 450000, true, "10% equity"},
		{500000, 410000, true, "18% equity"},
		{500000, 400000, false, "exactly 20% equity"},
		{500000, 350000, false, "30% equity"},
		{600000, 450000, false, "appreciation built the equity"},
		{500000, 0, false, "paid off"},
	}

	for _, tc := range tests {
		costs := e.OwnershipCosts(sc, tc.homeValue, tc.loanBalance, 2700)
		gotPMI := costs.PMI > 0
		if gotPMI != tc.wantPMI {
			t.Errorf("%s: PMI %.2f, expected charged=%v", tc.description, costs.PMI, tc.wantPMI)
		}
	}
}
