package engine

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// Lever Registry Tests
// =============================================================================

func TestLeverRegistry_OrderAndLookup(t *testing.T) {
	r := NewLeverRegistry()

	all := r.GetAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 levers, got %d", len(all))
	}
	expectedOrder := []LeverID{LeverFinancing, LeverTerm, LeverDownPayment}
	for i, lever := range all {
		if lever.ID != expectedOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, expectedOrder[i], lever.ID)
		}
	}

	financing := r.Get(LeverFinancing)
	if financing == nil || len(financing.Values) != 3 {
		t.Fatalf("financing lever should carry 3 values")
	}
}

func TestLeverRegistry_RentOnlyWhenRequested(t *testing.T) {
	r := NewLeverRegistry()

	withRent := r.ApplicableLevers(true)[0]
	withoutRent := r.ApplicableLevers(false)[0]

	if len(withRent.Values) != 3 {
		t.Errorf("with rent: expected 3 financing values, got %d", len(withRent.Values))
	}
	if len(withoutRent.Values) != 2 {
		t.Errorf("without rent: expected 2 financing values, got %d", len(withoutRent.Values))
	}
	for _, v := range withoutRent.Values {
		if v.ID == "rent" {
			t.Error("rent value should be filtered out")
		}
	}
}

// =============================================================================
// Variant Generation Tests
// =============================================================================

func TestVariantGenerator_CountsAndConstraints(t *testing.T) {
	// 2 terms × 2 down payments for financed, one cash, one rent
	withRent := NewVariantGenerator(true).Generate()
	if len(withRent) != 6 {
		t.Fatalf("with rent: expected 6 variants, got %d", len(withRent))
	}

	withoutRent := NewVariantGenerator(false).Generate()
	if len(withoutRent) != 5 {
		t.Fatalf("without rent: expected 5 variants, got %d", len(withoutRent))
	}

	for _, v := range withRent {
		if v.Financing() == FinancedPurchase {
			continue
		}
		if val, ok := v.Values[LeverTerm]; ok && val.ID != "30y" {
			t.Errorf("%s: non-financed variant varies term", v.ShortLabel())
		}
		if val, ok := v.Values[LeverDownPayment]; ok && val.ID != "20pct" {
			t.Errorf("%s: non-financed variant varies down payment", v.ShortLabel())
		}
	}
}

func TestVariant_Labels(t *testing.T) {
	variants := NewVariantGenerator(true).Generate()

	sawFinanced, sawCash, sawRent := false, false, false
	for _, v := range variants {
		switch v.Financing() {
		case FinancedPurchase:
			sawFinanced = true
			if !strings.Contains(v.Label(), "Financed Purchase") || !strings.Contains(v.Label(), " / ") {
				t.Errorf("financed label %q missing its lever parts", v.Label())
			}
			if !strings.HasPrefix(v.ShortLabel(), "Fin-") {
				t.Errorf("financed short label %q", v.ShortLabel())
			}
		case CashPurchase:
			sawCash = true
			if v.Label() != "Cash Purchase" {
				t.Errorf("cash label %q should not mention term or down payment", v.Label())
			}
		case RentAndInvest:
			sawRent = true
			if v.Label() != "Rent and Invest" {
				t.Errorf("rent label %q should not mention term or down payment", v.Label())
			}
		}
	}
	if !sawFinanced || !sawCash || !sawRent {
		t.Errorf("missing strategies: financed=%v cash=%v rent=%v", sawFinanced, sawCash, sawRent)
	}
}

func TestVariant_CloneIsIndependent(t *testing.T) {
	original := StrategyVariant{Values: map[LeverID]LeverValue{
		LeverFinancing: {ID: "financed", Value: FinancedPurchase},
	}}
	clone := original.Clone()
	clone.Values[LeverTerm] = LeverValue{ID: "15y", Value: 15}

	if _, ok := original.Values[LeverTerm]; ok {
		t.Error("mutating the clone leaked into the original")
	}
}

// =============================================================================
// Strategy Comparison Tests
// =============================================================================

func TestCompareStrategies_RankedOutcomes(t *testing.T) {
	e := newTestEngine()
	base := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)
	rent := mustRent(t, 2650, 0.03, 15, 30)

	outcomes, err := e.CompareStrategies(base, &rent, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 6 {
		t.Fatalf("expected 6 outcomes, got %d", len(outcomes))
	}

	for i, o := range outcomes {
		if o.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, o.Rank)
		}
		if i > 0 && o.FinalNetWorthReal > outcomes[i-1].FinalNetWorthReal {
			t.Errorf("rank %d (%s) outranks a richer outcome", o.Rank, o.ShortLabel)
		}
		if o.Strategy != RentAndInvest && o.Scenario == nil {
			t.Errorf("%s: purchase outcome missing its scenario", o.ShortLabel)
		}
		if o.FirstMonthOutlay <= 0 {
			t.Errorf("%s: first month outlay %.2f", o.ShortLabel, o.FirstMonthOutlay)
		}
	}

	for _, o := range outcomes {
		t.Logf("#%d %-14s outlay $%.0f/mo, real net worth $%.0f",
			o.Rank, o.ShortLabel, o.FirstMonthOutlay, o.FinalNetWorthReal)
	}
}

func TestCompareStrategies_WithoutRent(t *testing.T) {
	e := newTestEngine()
	base := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	outcomes, err := e.CompareStrategies(base, nil, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Strategy == RentAndInvest {
			t.Error("rent outcome produced without a rent scenario")
		}
	}
}

func TestCompareStrategies_CashVariantCarriesNoDebt(t *testing.T) {
	e := newTestEngine()
	base := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	outcomes, err := e.CompareStrategies(base, nil, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, o := range outcomes {
		if o.Strategy != CashPurchase {
			continue
		}
		if o.Scenario.LoanAmount != 0 {
			t.Errorf("cash variant carries a loan of %.2f", o.Scenario.LoanAmount)
		}
		if o.Scenario.DownPayment != base.HomePrice {
			t.Errorf("cash variant down payment %.2f should equal the price", o.Scenario.DownPayment)
		}
		return
	}
	t.Fatal("no cash outcome generated")
}

func TestCompareStrategies_InvalidHorizon(t *testing.T) {
	e := newTestEngine()
	base := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	if _, err := e.CompareStrategies(base, nil, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
