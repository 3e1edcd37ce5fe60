package engine

import "fmt"

// BreakEvenResult locates the year buying permanently overtakes renting
type BreakEvenResult struct {
	Year              int       `json:"year"`           // 1-based, 0 when not reached
	WithinHorizon     bool      `json:"within_horizon"` // false means renting stays ahead
	Difference        []float64 `json:"difference"`     // buy net worth minus rent net worth, per year
	AdvantageAtYear10 float64   `json:"advantage_at_year_10"` // clamped to the horizon
	AdvantageAtYear30 float64   `json:"advantage_at_year_30"` // clamped to the horizon
	Insights          []string  `json:"insights"`
}

// RentVsBuyResult carries both trajectories plus the figures a renter
// weighing a purchase actually asks about
type RentVsBuyResult struct {
	BuyNetWorth       []float64       `json:"buy_net_worth"`  // nominal, end of each year
	RentNetWorth      []float64       `json:"rent_net_worth"` // nominal, end of each year
	BreakEven         BreakEvenResult `json:"break_even"`
	FirstYearBuyCosts MonthlyCosts    `json:"first_year_buy_costs"`
	FirstMonthRent    float64         `json:"first_month_rent"` // rent plus renters insurance
	UpfrontInvested   float64         `json:"upfront_invested"` // down payment + closing costs the renter keeps
	SellingCosts      float64         `json:"selling_costs"`    // deducted from the final buy-side year only
	PMIDropYear       int             `json:"pmi_drop_year"`    // 0 when PMI never applied
}

// surplusSplit is the single cash-flow differential behind every
// comparison: whichever side pays less in a month invests the difference,
// and only that side. Both CompareRentVsBuy and the reference-outlay path
// of AnalyzeScenarioAgainst route through here, so the two sides of any
// comparison always see the same split.
func surplusSplit(ownOutlay, otherOutlay float64) (own, other float64) {
	d := otherOutlay - ownOutlay
	if d >= 0 {
		return d, 0
	}
	return 0, -d
}

// FindBreakEven returns the first year (1-based) of the trailing run where
// the difference is non-negative and never dips below zero again. A single
// early positive year followed by a relapse does not count.
func FindBreakEven(difference []float64) (year int, withinHorizon bool) {
	tail := -1
	for i := len(difference) - 1; i >= 0; i-- {
		if difference[i] < 0 {
			break
		}
		tail = i
	}
	if tail < 0 {
		return 0, false
	}
	return tail + 1, true
}

// CompareRentVsBuy projects buying against renting-and-investing month by
// month over the rent scenario's horizon.
//
// The renter starts with the buyer's down payment and closing costs
// invested, then each month whichever side pays less invests the surplus.
// The buy side reinvests its annual tax savings. Both invested balances
// grow at the scenario's stock return rate. Selling costs come off the buy
// side in the final year only; every earlier year carries full equity.
func (e *Engine) CompareRentVsBuy(buy MortgageScenario, rent RentScenario) RentVsBuyResult {
	horizon := rent.HorizonYears

	var annual []AnnualDebtService
	var levelPayment float64
	if !buy.IsCashPurchase() {
		rows, _ := Schedule(buy.LoanAmount, buy.InterestRate, buy.TermYears)
		annual = AnnualTotals(rows)
		levelPayment = rows[0].Payment.InexactFloat64()
	}

	upfront := buy.DownPayment + buy.HomePrice*e.costs.GetClosingCostRate()

	result := RentVsBuyResult{
		BuyNetWorth:     make([]float64, 0, horizon),
		RentNetWorth:    make([]float64, 0, horizon),
		FirstMonthRent:  rent.MonthlyRent + rent.RentersInsurance,
		UpfrontInvested: upfront,
	}

	homeValue := buy.HomePrice
	loanBalance := buy.LoanAmount
	buyInvested := 0.0
	rentInvested := upfront
	monthlyRent := rent.MonthlyRent
	monthlyStockRate := Monthly.PeriodRate(buy.StockReturnRate)
	pmiApplied := false

	for year := 1; year <= horizon; year++ {
		var debt AnnualDebtService
		monthlyPI := 0.0
		if year <= len(annual) {
			debt = annual[year-1]
			monthlyPI = levelPayment
		}

		taxSavings := e.costs.deductionValueFor(debt.Interest, buy.TaxBracket)
		own := e.OwnershipCosts(buy, homeValue, loanBalance, monthlyPI)
		rentOutlay := monthlyRent + rent.RentersInsurance

		if year == 1 {
			result.FirstYearBuyCosts = own
		}
		if own.PMI > 0 {
			pmiApplied = true
		} else if pmiApplied && result.PMIDropYear == 0 {
			result.PMIDropYear = year
		}

		for m := 0; m < 12; m++ {
			buySurplus, rentSurplus := surplusSplit(own.Total, rentOutlay)
			buyInvested = GrowStep(buyInvested, monthlyStockRate, buySurplus+taxSavings/12)
			rentInvested = GrowStep(rentInvested, monthlyStockRate, rentSurplus)
		}

		loanBalance = debt.EndingBalance
		homeValue *= 1 + buy.AppreciationRate
		monthlyRent *= 1 + rent.AnnualRentIncrease

		buyNW := (homeValue - loanBalance) + buyInvested
		if year == horizon {
			result.SellingCosts = homeValue * e.costs.GetSellingCostRate()
			buyNW -= result.SellingCosts
		}
		result.BuyNetWorth = append(result.BuyNetWorth, buyNW)
		result.RentNetWorth = append(result.RentNetWorth, rentInvested)
	}

	result.BreakEven = e.breakEvenFor(result.BuyNetWorth, result.RentNetWorth, result.PMIDropYear)
	return result
}

func (e *Engine) breakEvenFor(buy, rent []float64, pmiDropYear int) BreakEvenResult {
	diff := make([]float64, len(buy))
	for i := range buy {
		diff[i] = buy[i] - rent[i]
	}

	be := BreakEvenResult{Difference: diff}
	be.Year, be.WithinHorizon = FindBreakEven(diff)
	be.AdvantageAtYear10 = advantageAt(diff, 10)
	be.AdvantageAtYear30 = advantageAt(diff, 30)
	be.Insights = breakEvenInsights(be, pmiDropYear)
	return be
}

// advantageAt reads the difference at a milestone year, clamped to the
// series length so short horizons still report their final state
func advantageAt(diff []float64, year int) float64 {
	if len(diff) == 0 {
		return 0
	}
	if year > len(diff) {
		year = len(diff)
	}
	return diff[year-1]
}

func breakEvenInsights(be BreakEvenResult, pmiDropYear int) []string {
	horizon := len(be.Difference)
	if horizon == 0 {
		return nil
	}

	var insights []string
	if be.WithinHorizon {
		insights = append(insights, fmt.Sprintf(
			"Buying pulls ahead of renting in year %d and stays ahead through year %d",
			be.Year, horizon))
	} else {
		insights = append(insights, fmt.Sprintf(
			"Renting stays ahead through the full %d-year horizon", horizon))
	}

	final := be.Difference[horizon-1]
	if final >= 0 {
		insights = append(insights, fmt.Sprintf(
			"After %d years the buyer is ahead by %s, net of selling costs", horizon, approxMoney(final)))
	} else {
		insights = append(insights, fmt.Sprintf(
			"After %d years the renter is ahead by %s", horizon, approxMoney(-final)))
	}

	if be.Difference[0] < 0 {
		insights = append(insights, fmt.Sprintf(
			"Upfront costs put buying behind by %s after year 1", approxMoney(-be.Difference[0])))
	}
	if pmiDropYear > 0 {
		insights = append(insights, fmt.Sprintf(
			"PMI drops off in year %d once equity clears 20%%", pmiDropYear))
	}
	return insights
}

// approxMoney renders a rounded dollar figure for insight text
func approxMoney(amount float64) string {
	if amount >= 1_000_000 {
		return fmt.Sprintf("$%.1fM", amount/1_000_000)
	}
	if amount >= 1_000 {
		return fmt.Sprintf("$%.0fk", amount/1_000)
	}
	return fmt.Sprintf("$%.0f", amount)
}
