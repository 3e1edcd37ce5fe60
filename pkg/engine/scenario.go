package engine

// Engine runs scenario analyses over a shared set of ownership cost
// assumptions. The zero value of CostModel is usable; see DefaultCostModel.
type Engine struct {
	costs CostModel
}

// NewEngine creates an analysis engine with the given cost assumptions
func NewEngine(costs CostModel) *Engine {
	return &Engine{costs: costs}
}

// Costs returns the cost model in effect
func (e *Engine) Costs() CostModel {
	return e.costs
}

// OwnershipCosts decomposes one month of ownership outlay at a point in
// time: the level P&I payment, property tax and maintenance charged against
// current home value, fixed insurance, and PMI on the outstanding balance.
// PMI applies only while equity/value is below 20% and is re-evaluated from
// the balance and value passed in, never from a fixed schedule.
func (e *Engine) OwnershipCosts(sc MortgageScenario, homeValue, loanBalance, monthlyPI float64) MonthlyCosts {
	costs := MonthlyCosts{
		PrincipalAndInterest: monthlyPI,
		PropertyTax:          homeValue * sc.PropertyTaxRate / 12,
		Insurance:            e.costs.GetHomeInsuranceMonthly(),
		Maintenance:          homeValue * e.costs.GetMaintenanceRate() / 12,
	}
	if loanBalance > 0 && (homeValue-loanBalance)/homeValue < pmiEquityThreshold {
		costs.PMI = loanBalance * e.costs.GetPMIRate() / 12
	}
	costs.Total = costs.PrincipalAndInterest + costs.PropertyTax + costs.Insurance + costs.PMI + costs.Maintenance
	return costs
}

// AnalyzeScenario projects a purchase scenario year by year over the
// horizon. Rows are end-of-year: the home has appreciated, the year's debt
// service is paid, and the year's tax savings have been reinvested at the
// stock return rate.
func (e *Engine) AnalyzeScenario(sc MortgageScenario, horizonYears int) []YearlyResult {
	return e.AnalyzeScenarioAgainst(sc, horizonYears, nil)
}

// AnalyzeScenarioAgainst additionally accepts a reference outlay series,
// one value per month. In any month where the reference outlay exceeds this
// scenario's own outlay, the surplus is invested alongside the tax savings.
// A cash purchase therefore accumulates an invested balance only from the
// supplied reference; its equity tracks home value exactly from year 0.
func (e *Engine) AnalyzeScenarioAgainst(sc MortgageScenario, horizonYears int, referenceMonthlyOutlay []float64) []YearlyResult {
	if horizonYears <= 0 {
		return nil
	}

	var annual []AnnualDebtService
	var levelPayment float64
	if !sc.IsCashPurchase() {
		// cannot fail: scenario construction validated loan, rate and term
		rows, _ := Schedule(sc.LoanAmount, sc.InterestRate, sc.TermYears)
		annual = AnnualTotals(rows)
		levelPayment = rows[0].Payment.InexactFloat64()
	}

	results := make([]YearlyResult, 0, horizonYears)
	homeValue := sc.HomePrice
	loanBalance := sc.LoanAmount
	invested := 0.0
	cumInterest := 0.0
	cumPrincipal := 0.0
	monthlyStockRate := Monthly.PeriodRate(sc.StockReturnRate)

	for year := 1; year <= horizonYears; year++ {
		var debt AnnualDebtService
		monthlyPI := 0.0
		if year <= len(annual) {
			debt = annual[year-1]
			monthlyPI = levelPayment
		}

		taxSavings := e.costs.deductionValueFor(debt.Interest, sc.TaxBracket)
		own := e.OwnershipCosts(sc, homeValue, loanBalance, monthlyPI)

		for m := 0; m < 12; m++ {
			contribution := taxSavings / 12
			if idx := (year-1)*12 + m; idx < len(referenceMonthlyOutlay) {
				surplus, _ := surplusSplit(own.Total, referenceMonthlyOutlay[idx])
				contribution += surplus
			}
			invested = GrowStep(invested, monthlyStockRate, contribution)
		}

		cumInterest += debt.Interest
		cumPrincipal += debt.Principal
		loanBalance = debt.EndingBalance
		homeValue *= 1 + sc.AppreciationRate

		equity := homeValue - loanBalance
		nominal := equity + invested
		results = append(results, YearlyResult{
			Year:                year,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
			HomeValue:           homeValue,
			HomeEquity:          equity,
			LoanBalance:         loanBalance,
			TaxSavings:          taxSavings,
			InvestedBalance:     invested,
			NetWorthNominal:     nominal,
			NetWorthReal:        ToReal(nominal, sc.InflationRate, year),
		})
	}
	return results
}

// ScenarioSummary condenses a trajectory into headline figures
type ScenarioSummary struct {
	Strategy             Strategy     `json:"strategy"`
	MonthlyPayment       float64      `json:"monthly_payment"` // level P&I, 0 for cash
	TotalInterest        float64      `json:"total_interest"`  // over the full term
	FirstYearCosts       MonthlyCosts `json:"first_year_costs"`
	FinalNetWorthNominal float64      `json:"final_net_worth_nominal"`
	FinalNetWorthReal    float64      `json:"final_net_worth_real"`
	FinalHomeEquity      float64      `json:"final_home_equity"`
	FinalInvested        float64      `json:"final_invested"`
}

// Summarize analyzes a scenario and reduces it to headline figures
func (e *Engine) Summarize(sc MortgageScenario, horizonYears int) ScenarioSummary {
	strategy := FinancedPurchase
	var payment, totalInterest float64
	if sc.IsCashPurchase() {
		strategy = CashPurchase
	} else {
		rows, _ := Schedule(sc.LoanAmount, sc.InterestRate, sc.TermYears)
		payment = rows[0].Payment.InexactFloat64()
		totalInterest = TotalInterest(rows).InexactFloat64()
	}

	summary := ScenarioSummary{
		Strategy:       strategy,
		MonthlyPayment: payment,
		TotalInterest:  totalInterest,
		FirstYearCosts: e.OwnershipCosts(sc, sc.HomePrice, sc.LoanAmount, payment),
	}
	if results := e.AnalyzeScenario(sc, horizonYears); len(results) > 0 {
		last := results[len(results)-1]
		summary.FinalNetWorthNominal = last.NetWorthNominal
		summary.FinalNetWorthReal = last.NetWorthReal
		summary.FinalHomeEquity = last.HomeEquity
		summary.FinalInvested = last.InvestedBalance
	}
	return summary
}
