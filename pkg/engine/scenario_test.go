package engine

import (
	"math"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultCostModel())
}

func mustScenario(t *testing.T, homePrice, downPayment, rate float64, term int,
	stock, inflation, appreciation, propertyTax, bracket float64) MortgageScenario {
	t.Helper()
	sc, err := NewMortgageScenario(homePrice, downPayment, rate, term, stock, inflation, appreciation, propertyTax, bracket)
	if err != nil {
		t.Fatalf("building scenario: %v", err)
	}
	return sc
}

// =============================================================================
// Financed Purchase Trajectory Tests
// =============================================================================

func TestScenario_FinancedTrajectoryShape(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	results := e.AnalyzeScenario(sc, 30)
	if len(results) != 30 {
		t.Fatalf("expected 30 yearly results, got %d", len(results))
	}

	for i, r := range results {
		if r.Year != i+1 {
			t.Fatalf("result %d: expected year %d, got %d", i, i+1, r.Year)
		}
		expectedValue := 500000 * math.Pow(1.04, float64(r.Year))
		if math.Abs(r.HomeValue-expectedValue)/expectedValue > 1e-9 {
			t.Fatalf("year %d: home value %.2f, expected %.2f", r.Year, r.HomeValue, expectedValue)
		}
		if r.NetWorthReal >= r.NetWorthNominal {
			t.Fatalf("year %d: real net worth %.2f not below nominal %.2f under 3%% inflation",
				r.Year, r.NetWorthReal, r.NetWorthNominal)
		}
		if r.TaxSavings <= 0 {
			t.Fatalf("year %d: expected positive tax savings while interest accrues", r.Year)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].CumulativeInterest <= results[i-1].CumulativeInterest {
			t.Fatalf("year %d: cumulative interest did not grow", results[i].Year)
		}
		if results[i].LoanBalance >= results[i-1].LoanBalance {
			t.Fatalf("year %d: loan balance did not shrink", results[i].Year)
		}
		if results[i].TaxSavings >= results[i-1].TaxSavings {
			t.Fatalf("year %d: tax savings should decline as interest declines", results[i].Year)
		}
	}

	final := results[len(results)-1]
	if final.LoanBalance != 0 {
		t.Errorf("final year: expected loan paid off, balance %.2f", final.LoanBalance)
	}
	assertMoneyEquals(t, 400000, final.CumulativePrincipal, "cumulative principal equals loan at term end")
	t.Logf("after 30 years: equity $%.0f, invested $%.0f, nominal $%.0f, real $%.0f",
		final.HomeEquity, final.InvestedBalance, final.NetWorthNominal, final.NetWorthReal)
}

// =============================================================================
// Cash Purchase Tests
// =============================================================================

func TestScenario_CashPurchaseEquityTracksHomeValue(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 500000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	if !sc.IsCashPurchase() {
		t.Fatal("full down payment should be a cash purchase")
	}

	results := e.AnalyzeScenario(sc, 30)
	for _, r := range results {
		if r.LoanBalance != 0 {
			t.Fatalf("year %d: cash purchase has loan balance %.2f", r.Year, r.LoanBalance)
		}
		if r.HomeEquity != r.HomeValue {
			t.Fatalf("year %d: equity %.2f diverged from home value %.2f", r.Year, r.HomeEquity, r.HomeValue)
		}
		if r.TaxSavings != 0 {
			t.Fatalf("year %d: cash purchase earned tax savings %.2f", r.Year, r.TaxSavings)
		}
		if r.InvestedBalance != 0 {
			t.Fatalf("year %d: invested %.2f without any reference outlay", r.Year, r.InvestedBalance)
		}
		if r.NetWorthNominal != r.HomeValue {
			t.Fatalf("year %d: nominal net worth %.2f should equal home value %.2f",
				r.Year, r.NetWorthNominal, r.HomeValue)
		}
	}
}

// =============================================================================
// Horizon Beyond Term Tests
// =============================================================================

func TestScenario_HorizonPastTerm(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 300000, 60000, 0.05, 15, 0.07, 0.02, 0.03, 0.01, 0.22)

	results := e.AnalyzeScenario(sc, 20)
	if len(results) != 20 {
		t.Fatalf("expected 20 yearly results, got %d", len(results))
	}

	for _, r := range results[15:] {
		if r.LoanBalance != 0 {
			t.Fatalf("year %d: balance %.2f after the loan term ended", r.Year, r.LoanBalance)
		}
		if r.TaxSavings != 0 {
			t.Fatalf("year %d: tax savings %.2f with no interest paid", r.Year, r.TaxSavings)
		}
	}
	if results[19].CumulativeInterest != results[14].CumulativeInterest {
		t.Errorf("cumulative interest moved after payoff: %.2f vs %.2f",
			results[19].CumulativeInterest, results[14].CumulativeInterest)
	}
}

func TestScenario_NonPositiveHorizon(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 300000, 60000, 0.05, 15, 0.07, 0.02, 0.03, 0.01, 0.22)

	if results := e.AnalyzeScenario(sc, 0); results != nil {
		t.Errorf("zero horizon: expected nil, got %d results", len(results))
	}
}

// =============================================================================
// Reference Outlay Tests
// =============================================================================

func TestScenario_ReferenceSurplusInvested(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 300000, 300000, 0.05, 30, 0.06, 0, 0, 0.01, 0)

	// Cash purchase monthly outlay: 150 insurance + 250 tax + 250 maintenance
	reference := make([]float64, 12)
	for i := range reference {
		reference[i] = 1650
	}

	results := e.AnalyzeScenarioAgainst(sc, 1, reference)
	// 1000/month surplus at 0.5%/month: 1000 × [(1.005)^12 - 1] / 0.005
	assertMoneyEquals(t, 12335.56, results[0].InvestedBalance, "one year of invested surplus")
	assertMoneyEquals(t, 300000+12335.56, results[0].NetWorthNominal, "flat home value plus portfolio")
}

func TestScenario_ReferenceBelowOwnOutlayAddsNothing(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 300000, 300000, 0.05, 30, 0.06, 0, 0, 0.01, 0)

	reference := make([]float64, 12)
	for i := range reference {
		reference[i] = 100 // well under the ~650 ownership outlay
	}

	results := e.AnalyzeScenarioAgainst(sc, 1, reference)
	if results[0].InvestedBalance != 0 {
		t.Errorf("cheaper reference: expected no investment, got %.2f", results[0].InvestedBalance)
	}
}

// =============================================================================
// Summary Tests
// =============================================================================

func TestScenario_SummaryHeadlines(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	summary := e.Summarize(sc, 30)
	if summary.Strategy != FinancedPurchase {
		t.Errorf("expected FinancedPurchase, got %s", summary.Strategy)
	}
	assertMoneyEquals(t, 2424.00, summary.MonthlyPayment, "monthly P&I")
	if math.Abs(summary.TotalInterest-472640) > 500 {
		t.Errorf("total interest: expected ~472640, got %.2f", summary.TotalInterest)
	}
	assertMoneyEquals(t, 3407.33, summary.FirstYearCosts.Total, "first-year monthly outlay")

	results := e.AnalyzeScenario(sc, 30)
	last := results[len(results)-1]
	if summary.FinalNetWorthNominal != last.NetWorthNominal || summary.FinalNetWorthReal != last.NetWorthReal {
		t.Errorf("summary final net worth diverges from trajectory")
	}
}

func TestScenario_SummaryCashPurchase(t *testing.T) {
	e := newTestEngine()
	sc := mustScenario(t, 500000, 500000, 0.061, 30, 0.07, 0.03, 0.04, 0.01, 0.25)

	summary := e.Summarize(sc, 30)
	if summary.Strategy != CashPurchase {
		t.Errorf("expected CashPurchase, got %s", summary.Strategy)
	}
	if summary.MonthlyPayment != 0 || summary.TotalInterest != 0 {
		t.Errorf("cash purchase: expected zero payment and interest, got %.2f / %.2f",
			summary.MonthlyPayment, summary.TotalInterest)
	}
}
