package engine

import "fmt"

// DTI thresholds follow the 28/36 lending guideline, with 43% as the
// qualified-mortgage ceiling on the back-end ratio
const (
	housingRatioSafe    = 0.28
	housingRatioCaution = 0.36
	totalRatioSafe      = 0.36
	totalRatioCaution   = 0.43

	conservativeHousingTarget = 0.25
	aggressiveHousingTarget   = 0.30

	priceSolveIterations = 100
	priceSolveTolerance  = 0.01
)

// AffordabilityReport grades a purchase against the buyer's finances.
// Everything in it is advisory; no field blocks an analysis.
type AffordabilityReport struct {
	PMIRequired           bool            `json:"pmi_required"`
	PMIAnnualCost         float64         `json:"pmi_annual_cost"`
	HousingRatio          float64         `json:"housing_ratio"`
	TotalDebtRatio        float64         `json:"total_debt_ratio"`
	HousingClass          DTIClass        `json:"housing_class"`
	TotalClass            DTIClass        `json:"total_class"`
	RecommendedFundMonths int             `json:"recommended_fund_months"`
	RecommendedFund       float64         `json:"recommended_fund"`
	EmergencyFundGap      float64         `json:"emergency_fund_gap"` // 0 when savings cover the fund
	ConservativePrice     float64         `json:"conservative_price"` // solved at the 25% housing target
	AggressivePrice       float64         `json:"aggressive_price"`   // solved at the 30% housing target
	Warnings              []WarningSignal `json:"warnings"`
}

// ClassifyHousingRatio grades the front-end ratio
func ClassifyHousingRatio(ratio float64) DTIClass {
	switch {
	case ratio <= housingRatioSafe:
		return DTISafe
	case ratio <= housingRatioCaution:
		return DTICaution
	default:
		return DTIDanger
	}
}

// ClassifyTotalDebtRatio grades the back-end ratio
func ClassifyTotalDebtRatio(ratio float64) DTIClass {
	switch {
	case ratio <= totalRatioSafe:
		return DTISafe
	case ratio <= totalRatioCaution:
		return DTICaution
	default:
		return DTIDanger
	}
}

// AssessAffordability checks a purchase scenario against a financial
// profile: PMI exposure, front- and back-end DTI, emergency fund coverage,
// and the price band the profile's income supports at the scenario's down
// payment fraction and term.
//
// The recommended emergency fund covers known monthly obligations, housing
// plus existing debt service, for 6 or 12 months by employment stability.
func (e *Engine) AssessAffordability(sc MortgageScenario, profile FinancialProfile) AffordabilityReport {
	monthlyIncome := profile.AnnualIncome / 12

	payment := 0.0
	if !sc.IsCashPurchase() {
		p, _ := MonthlyPayment(sc.LoanAmount, sc.InterestRate, sc.TermYears)
		payment = p.Round(2).InexactFloat64()
	}
	own := e.OwnershipCosts(sc, sc.HomePrice, sc.LoanAmount, payment)

	report := AffordabilityReport{
		HousingRatio:          own.Total / monthlyIncome,
		TotalDebtRatio:        (own.Total + profile.MonthlyDebt) / monthlyIncome,
		RecommendedFundMonths: profile.Stability.RecommendedFundMonths(),
		ConservativePrice:     e.priceAtHousingRatio(conservativeHousingTarget, sc, monthlyIncome),
		AggressivePrice:       e.priceAtHousingRatio(aggressiveHousingTarget, sc, monthlyIncome),
	}
	report.HousingClass = ClassifyHousingRatio(report.HousingRatio)
	report.TotalClass = ClassifyTotalDebtRatio(report.TotalDebtRatio)

	monthlyObligations := own.Total + profile.MonthlyDebt
	report.RecommendedFund = monthlyObligations * float64(report.RecommendedFundMonths)
	if gap := report.RecommendedFund - profile.CashSavings; gap > 0 {
		report.EmergencyFundGap = gap
	}

	if sc.DownPaymentFraction() < pmiEquityThreshold {
		report.PMIRequired = true
		report.PMIAnnualCost = sc.LoanAmount * e.costs.GetPMIRate()
		report.Warnings = append(report.Warnings, WarningSignal{
			Code: WarnPMIRequired,
			Message: fmt.Sprintf("Down payment of %.0f%% is below 20%%; PMI of about $%.0f/year applies until equity reaches 20%%",
				sc.DownPaymentFraction()*100, report.PMIAnnualCost),
		})
	}
	if report.HousingClass != DTISafe {
		report.Warnings = append(report.Warnings, WarningSignal{
			Code: WarnDTIHousing,
			Message: fmt.Sprintf("Housing costs take %.0f%% of gross income; lenders look for 28%% or less",
				report.HousingRatio*100),
		})
	}
	if report.TotalClass != DTISafe {
		report.Warnings = append(report.Warnings, WarningSignal{
			Code: WarnDTITotal,
			Message: fmt.Sprintf("Total debt service takes %.0f%% of gross income; above 43%% most lenders decline",
				report.TotalDebtRatio*100),
		})
	}
	if report.EmergencyFundGap > 0 {
		report.Warnings = append(report.Warnings, WarningSignal{
			Code: WarnEmergencyFund,
			Message: fmt.Sprintf("Cash savings fall $%.0f short of the recommended %d-month fund",
				report.EmergencyFundGap, report.RecommendedFundMonths),
		})
	}
	return report
}

// priceAtHousingRatio solves backward for the home price whose first-month
// housing cost consumes the target share of gross income, holding the
// scenario's down payment fraction, rate and term. Housing cost rises
// strictly with price, so a binary search converges.
func (e *Engine) priceAtHousingRatio(target float64, sc MortgageScenario, monthlyIncome float64) float64 {
	budget := monthlyIncome * target
	low := 0.0
	high := budget * 600
	// a zero-tax cash purchase can out-price the initial bracket
	for e.housingCostAtPrice(high, sc) < budget {
		high *= 2
	}

	for i := 0; i < priceSolveIterations && high-low > priceSolveTolerance; i++ {
		price := (low + high) / 2
		if e.housingCostAtPrice(price, sc) > budget {
			high = price
		} else {
			low = price
		}
	}
	return (low + high) / 2
}

// housingCostAtPrice prices a hypothetical purchase at the scenario's down
// payment fraction and term
func (e *Engine) housingCostAtPrice(price float64, sc MortgageScenario) float64 {
	loan := price * (1 - sc.DownPaymentFraction())
	payment := 0.0
	if loan > 0 {
		p, _ := MonthlyPayment(loan, sc.InterestRate, sc.TermYears)
		payment = p.InexactFloat64()
	}
	return e.OwnershipCosts(sc, price, loan, payment).Total
}
