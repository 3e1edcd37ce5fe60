// Package report renders analysis results for people: box-drawing console
// summaries, CSV exports, standalone HTML pages and PDF documents. Console
// writers take an io.Writer so the CLI and the server's preview endpoints
// share one renderer.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
)

// Analysis bundles everything the document writers render. Scenario,
// Summary and Years are always present; nil optional sections are skipped.
type Analysis struct {
	Scenario      engine.MortgageScenario
	Costs         engine.CostModel
	Summary       engine.ScenarioSummary
	Years         []engine.YearlyResult
	RentVsBuy     *engine.RentVsBuyResult
	Affordability *engine.AffordabilityReport
	HorizonYears  int
	GeneratedAt   time.Time // zero means now
}

func (a Analysis) generatedAt() time.Time {
	if a.GeneratedAt.IsZero() {
		return time.Now()
	}
	return a.GeneratedAt
}

// FormatMoney formats a dollar amount compactly
func FormatMoney(amount float64) string {
	if amount < 0 {
		return "-" + FormatMoney(-amount)
	}
	if amount >= 1000000 {
		return fmt.Sprintf("$%.2fM", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("$%.0fk", amount/1000)
	}
	return fmt.Sprintf("$%.0f", amount)
}

// FormatMoneyFull formats a dollar amount without abbreviation
func FormatMoneyFull(amount float64) string {
	if amount < 0 {
		return "-" + FormatMoneyFull(-amount)
	}
	return fmt.Sprintf("$%.0f", amount)
}

// ScenarioLabel describes a purchase in one line, e.g.
// "$500k purchase, 20% down, 30-year fixed @ 6.10%"
func ScenarioLabel(sc engine.MortgageScenario) string {
	if sc.IsCashPurchase() {
		return fmt.Sprintf("%s cash purchase", FormatMoney(sc.HomePrice))
	}
	return fmt.Sprintf("%s purchase, %.0f%% down, %d-year fixed @ %.2f%%",
		FormatMoney(sc.HomePrice), sc.DownPaymentFraction()*100, sc.TermYears, sc.InterestRate*100)
}

func printBanner(w io.Writer, title string) {
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Fprintf(w, "║ %-76s ║\n", title)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════════════════════════╝")
}

// PrintConfiguration prints the assumption block shared by every analysis
func PrintConfiguration(w io.Writer, sc engine.MortgageScenario, costs engine.CostModel) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "──────────────")
	if sc.IsCashPurchase() {
		fmt.Fprintf(w, "  Home Price: %s paid in cash\n", FormatMoney(sc.HomePrice))
	} else {
		fmt.Fprintf(w, "  Home Price: %s | Down Payment: %s (%.0f%%) | Loan: %s\n",
			FormatMoney(sc.HomePrice), FormatMoney(sc.DownPayment),
			sc.DownPaymentFraction()*100, FormatMoney(sc.LoanAmount))
		fmt.Fprintf(w, "  Rate: %.2f%% over %d years\n", sc.InterestRate*100, sc.TermYears)
	}
	fmt.Fprintf(w, "  Stock Return: %.1f%% | Inflation: %.1f%% | Appreciation: %.1f%%\n",
		sc.StockReturnRate*100, sc.InflationRate*100, sc.AppreciationRate*100)
	fmt.Fprintf(w, "  Property Tax: %.2f%% | Tax Bracket: %.1f%% | Deduction: %s\n",
		sc.PropertyTaxRate*100, sc.TaxBracket*100, costs.Deduction)
	fmt.Fprintln(w)
}

// PrintScenarioSummary prints one strategy's trajectory and headline figures
func PrintScenarioSummary(w io.Writer, sum engine.ScenarioSummary, years []engine.YearlyResult, sc engine.MortgageScenario) {
	fmt.Fprintln(w)
	printBanner(w, fmt.Sprintf("Strategy: %s", ScenarioLabel(sc)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "First-Year Monthly Costs:")
	printMonthlyCosts(w, sum.FirstYearCosts)
	fmt.Fprintln(w)

	printYearlyTable(w, years, payoffYear(years))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	if sum.Strategy == engine.FinancedPurchase {
		fmt.Fprintf(w, "  Monthly P&I:        %s\n", FormatMoneyFull(sum.MonthlyPayment))
		fmt.Fprintf(w, "  Total Interest:     %s\n", FormatMoney(sum.TotalInterest))
	}
	fmt.Fprintf(w, "  Final Net Worth:    %s nominal, %s real\n",
		FormatMoney(sum.FinalNetWorthNominal), FormatMoney(sum.FinalNetWorthReal))
	fmt.Fprintf(w, "  Final Home Equity:  %s\n", FormatMoney(sum.FinalHomeEquity))
	fmt.Fprintf(w, "  Final Invested:     %s\n", FormatMoney(sum.FinalInvested))
}

func printMonthlyCosts(w io.Writer, c engine.MonthlyCosts) {
	if c.PrincipalAndInterest > 0 {
		fmt.Fprintf(w, "  P&I:          %10s\n", FormatMoneyFull(c.PrincipalAndInterest))
	}
	fmt.Fprintf(w, "  Property Tax: %10s\n", FormatMoneyFull(c.PropertyTax))
	fmt.Fprintf(w, "  Insurance:    %10s\n", FormatMoneyFull(c.Insurance))
	if c.PMI > 0 {
		fmt.Fprintf(w, "  PMI:          %10s\n", FormatMoneyFull(c.PMI))
	}
	fmt.Fprintf(w, "  Maintenance:  %10s\n", FormatMoneyFull(c.Maintenance))
	fmt.Fprintf(w, "  Total:        %10s\n", FormatMoneyFull(c.Total))
}

// payoffYear finds the year the loan balance first hits zero, or 0 when it
// never does. A balance that starts at zero was never financed.
func payoffYear(years []engine.YearlyResult) int {
	for i, yr := range years {
		if yr.LoanBalance != 0 {
			continue
		}
		if i == 0 {
			return 0
		}
		if years[i-1].LoanBalance > 0 {
			return yr.Year
		}
	}
	return 0
}

func printYearlyTable(w io.Writer, years []engine.YearlyResult, milestone int) {
	fmt.Fprintf(w, "%-6s │ %10s %10s │ %10s │ %10s %10s │ %12s %12s\n",
		"Year", "Home Value", "Equity", "Loan Bal", "Cum Int", "Invested", "Net Worth", "Real")
	fmt.Fprintln(w, strings.Repeat("─", 95))

	for i, yr := range years {
		isKeyYear := i == 0 || i == len(years)-1 || yr.Year%5 == 0 || yr.Year == milestone
		if !isKeyYear {
			continue
		}
		fmt.Fprintf(w, "%-6d │ %10s %10s │ %10s │ %10s %10s │ %12s %12s\n",
			yr.Year,
			FormatMoney(yr.HomeValue),
			FormatMoney(yr.HomeEquity),
			FormatMoney(yr.LoanBalance),
			FormatMoney(yr.CumulativeInterest),
			FormatMoney(yr.InvestedBalance),
			FormatMoney(yr.NetWorthNominal),
			FormatMoney(yr.NetWorthReal))
	}

	fmt.Fprintln(w, strings.Repeat("─", 95))
}

// PrintRentVsBuy prints both trajectories, the break-even and its insights
func PrintRentVsBuy(w io.Writer, res engine.RentVsBuyResult, horizonYears int) {
	fmt.Fprintln(w)
	printBanner(w, "RENT VS BUY")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  First-Year Buy Costs: %s/month | First Month Rent: %s\n",
		FormatMoneyFull(res.FirstYearBuyCosts.Total), FormatMoneyFull(res.FirstMonthRent))
	fmt.Fprintf(w, "  Renter Starts With:   %s invested (down payment + closing costs)\n",
		FormatMoney(res.UpfrontInvested))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-6s │ %12s │ %12s │ %12s\n", "Year", "Buy NW", "Rent NW", "Difference")
	fmt.Fprintln(w, strings.Repeat("─", 52))
	for i := range res.BuyNetWorth {
		year := i + 1
		isKeyYear := i == 0 || i == len(res.BuyNetWorth)-1 || year%5 == 0 ||
			year == res.BreakEven.Year || year == res.PMIDropYear
		if !isKeyYear {
			continue
		}
		note := ""
		if year == res.BreakEven.Year {
			note = "  ← break-even"
		} else if year == res.PMIDropYear {
			note = "  PMI drops off"
		}
		fmt.Fprintf(w, "%-6d │ %12s │ %12s │ %12s%s\n",
			year,
			FormatMoney(res.BuyNetWorth[i]),
			FormatMoney(res.RentNetWorth[i]),
			FormatMoney(res.BreakEven.Difference[i]),
			note)
	}
	fmt.Fprintln(w, strings.Repeat("─", 52))
	fmt.Fprintln(w)

	if res.BreakEven.WithinHorizon {
		fmt.Fprintf(w, "Break-even: year %d of %d\n", res.BreakEven.Year, horizonYears)
	} else {
		fmt.Fprintf(w, "Break-even: not reached within %d years, renting stays ahead\n", horizonYears)
	}
	fmt.Fprintf(w, "  Buy advantage at year 10:  %s\n", FormatMoney(res.BreakEven.AdvantageAtYear10))
	fmt.Fprintf(w, "  Buy advantage at year 30:  %s\n", FormatMoney(res.BreakEven.AdvantageAtYear30))
	fmt.Fprintf(w, "  Selling costs at horizon:  %s\n", FormatMoney(res.SellingCosts))

	if len(res.BreakEven.Insights) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Insights:")
		for _, insight := range res.BreakEven.Insights {
			fmt.Fprintf(w, "  - %s\n", insight)
		}
	}
}

// PrintComparison prints the ranked strategy grid and a recommendation
func PrintComparison(w io.Writer, outcomes []engine.StrategyOutcome) {
	if len(outcomes) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                                    STRATEGY COMPARISON                                             ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	// Header
	fmt.Fprintf(w, "%-25s", "Metric")
	for _, o := range outcomes {
		label := o.ShortLabel
		if o.Rank == 1 {
			label = "* " + label
		}
		fmt.Fprintf(w, " │ %-18s", label)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 25+len(outcomes)*21))

	fmt.Fprintf(w, "%-25s", "Strategy")
	for _, o := range outcomes {
		fmt.Fprintf(w, " │ %-18s", o.Strategy)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-25s", "First Month Outlay")
	for _, o := range outcomes {
		fmt.Fprintf(w, " │ %-18s", FormatMoneyFull(o.FirstMonthOutlay))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-25s", "Final Net Worth")
	for _, o := range outcomes {
		fmt.Fprintf(w, " │ %-18s", FormatMoney(o.FinalNetWorthNominal))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-25s", "Real Net Worth")
	for _, o := range outcomes {
		fmt.Fprintf(w, " │ %-18s", FormatMoney(o.FinalNetWorthReal))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("─", 25+len(outcomes)*21))
	fmt.Fprintln(w, "* = Best strategy (highest real net worth)")

	printRecommendation(w, outcomes)
}

func printRecommendation(w io.Writer, outcomes []engine.StrategyOutcome) {
	var best engine.StrategyOutcome
	found := false
	for _, o := range outcomes {
		if o.Rank == 1 {
			best = o
			found = true
			break
		}
	}
	if !found {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║                                     RECOMMENDATION                                                  ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  RECOMMENDED: %s\n", best.Label)
	fmt.Fprintf(w, "  Final Net Worth: %s nominal, %s real | First Month: %s\n",
		FormatMoney(best.FinalNetWorthNominal), FormatMoney(best.FinalNetWorthReal),
		FormatMoneyFull(best.FirstMonthOutlay))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Comparison vs Other Strategies:")
	for _, o := range outcomes {
		if o.Rank == 1 {
			continue
		}
		diff := best.FinalNetWorthReal - o.FinalNetWorthReal
		fmt.Fprintf(w, "    vs %s: %s more wealth", o.ShortLabel, FormatMoney(diff))
		outlayDiff := o.FirstMonthOutlay - best.FirstMonthOutlay
		if outlayDiff > 0 {
			fmt.Fprintf(w, ", %s less per month", FormatMoneyFull(outlayDiff))
		} else if outlayDiff < 0 {
			fmt.Fprintf(w, ", %s more per month", FormatMoneyFull(-outlayDiff))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Why this strategy wins:")
	for _, reason := range winReasons(best) {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	fmt.Fprintln(w)
}

func winReasons(best engine.StrategyOutcome) []string {
	switch best.Strategy {
	case engine.FinancedPurchase:
		reasons := []string{"Appreciation compounds on the full home value, not just the down payment"}
		if sc := best.Scenario; sc != nil && sc.StockReturnRate > sc.InterestRate {
			reasons = append(reasons, fmt.Sprintf("%.0f%% stock return > %.1f%% mortgage rate keeps surplus cash working",
				sc.StockReturnRate*100, sc.InterestRate*100))
		}
		return reasons
	case engine.CashPurchase:
		return []string{
			"No interest paid over the term",
			"The full monthly surplus is invested from month one",
		}
	case engine.RentAndInvest:
		return []string{
			"The down payment and closing costs compound untouched",
			"Rent stays below the full cost of owning at these assumptions",
		}
	default:
		return nil
	}
}

// PrintAffordability prints the risk signals for a purchase
func PrintAffordability(w io.Writer, rep engine.AffordabilityReport, profile engine.FinancialProfile) {
	fmt.Fprintln(w)
	printBanner(w, "AFFORDABILITY CHECK")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Gross Income:      %s/year (%s/month)\n",
		FormatMoney(profile.AnnualIncome), FormatMoneyFull(profile.AnnualIncome/12))
	fmt.Fprintf(w, "  Housing Ratio:     %.1f%% of gross income (%s)\n", rep.HousingRatio*100, rep.HousingClass)
	fmt.Fprintf(w, "  Total Debt Ratio:  %.1f%% of gross income (%s)\n", rep.TotalDebtRatio*100, rep.TotalClass)
	if rep.PMIRequired {
		fmt.Fprintf(w, "  PMI:               required, %s/year until 20%% equity\n", FormatMoneyFull(rep.PMIAnnualCost))
	} else {
		fmt.Fprintln(w, "  PMI:               not required")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Emergency Fund:")
	fmt.Fprintf(w, "    Recommended: %s (%d months of expenses, %s employment)\n",
		FormatMoney(rep.RecommendedFund), rep.RecommendedFundMonths, profile.Stability)
	fmt.Fprintf(w, "    On Hand:     %s\n", FormatMoney(profile.CashSavings))
	if rep.EmergencyFundGap > 0 {
		fmt.Fprintf(w, "    Gap:         %s short\n", FormatMoney(rep.EmergencyFundGap))
	} else {
		fmt.Fprintln(w, "    Gap:         none")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Price Guidance:")
	fmt.Fprintf(w, "    Conservative (25%% housing ratio): %s\n", FormatMoney(rep.ConservativePrice))
	fmt.Fprintf(w, "    Aggressive   (30%% housing ratio): %s\n", FormatMoney(rep.AggressivePrice))

	if len(rep.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range rep.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warn.Message)
		}
	}
}

// PrintSensitivity prints the break-even grid across rate assumptions
func PrintSensitivity(w io.Writer, grid *engine.SensitivityGrid) {
	fmt.Fprintln(w)
	printBanner(w, fmt.Sprintf("SENSITIVITY: BREAK-EVEN YEAR OVER %d YEARS", grid.HorizonYears))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rows: stock return. Columns: home appreciation. Cell: year buying overtakes")
	fmt.Fprintln(w, "renting, or \"rent\" when renting stays ahead through the horizon.")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%6s", "")
	for _, a := range grid.AppreciationRates {
		fmt.Fprintf(w, " %5.0f%%", a*100)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 6+len(grid.AppreciationRates)*7))

	for i, s := range grid.StockReturnRates {
		fmt.Fprintf(w, "%5.0f%%", s*100)
		for _, cell := range grid.Cells[i] {
			if cell.WithinHorizon {
				fmt.Fprintf(w, " %6d", cell.BreakEvenYear)
			} else {
				fmt.Fprintf(w, " %6s", "rent")
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Buying ends ahead in %.0f%% of combinations\n", grid.BuyWinShare()*100)
}

// PrintPurchasePower prints the home price a monthly rent could carry
func PrintPurchasePower(w io.Writer, powers []engine.PurchasePower, monthlyRent float64) {
	fmt.Fprintln(w)
	printBanner(w, fmt.Sprintf("PURCHASE POWER OF %s/MONTH", FormatMoneyFull(monthlyRent)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s │ %12s │ %12s │ %12s\n", "Term", "Loan", "Home Price", "Payment")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, p := range powers {
		fmt.Fprintf(w, "%-8s │ %12s │ %12s │ %12s\n",
			fmt.Sprintf("%d yr", p.TermYears),
			FormatMoney(p.LoanAmount),
			FormatMoney(p.HomePrice),
			FormatMoneyFull(p.MonthlyPayment))
	}
	fmt.Fprintln(w, strings.Repeat("─", 56))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Longer terms stretch the same payment over a larger loan.")
}
