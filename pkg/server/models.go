package server

import (
	"github.com/lakeinlake/know-your-mortgage/pkg/config"
	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
	"github.com/lakeinlake/know-your-mortgage/pkg/marketdata"
	"github.com/lakeinlake/know-your-mortgage/pkg/taxdata"
)

// AnalysisRequest carries the config sections a request can override.
// A section left at its zero value inherits the server's loaded
// configuration wholesale, so a minimal request names just the purchase.
type AnalysisRequest struct {
	Scenario config.ScenarioConfig `json:"scenario"`
	Economic config.EconomicConfig `json:"economic"`
	Location config.LocationConfig `json:"location"`
	Costs    config.CostConfig     `json:"costs"`
	Rent     config.RentConfig     `json:"rent"`
	Profile  config.ProfileConfig  `json:"profile"`
}

// SensitivityRequest extends the analysis request with sweep ranges
type SensitivityRequest struct {
	AnalysisRequest
	Sensitivity config.SensitivityConfig `json:"sensitivity"`
}

// PurchasePowerRequest converts a monthly rent into borrowing power.
// Rent and rate fall back to the server configuration when zero; the
// down payment fraction does not, since zero down is a valid input.
type PurchasePowerRequest struct {
	MonthlyRent         float64 `json:"monthly_rent"`
	InterestRate        float64 `json:"interest_rate"`
	DownPaymentFraction float64 `json:"down_payment_fraction"`
	TermYears           []int   `json:"term_years,omitempty"`
}

// AnalyzeResponse is one scenario's trajectory with headline figures
type AnalyzeResponse struct {
	Label    string                 `json:"label"`
	Strategy string                 `json:"strategy"`
	Summary  engine.ScenarioSummary `json:"summary"`
	Years    []engine.YearlyResult  `json:"years"`
}

// CompareResponse ranks the financing strategies for one purchase
type CompareResponse struct {
	Outcomes    []engine.StrategyOutcome `json:"outcomes"`
	Recommended string                   `json:"recommended"`
}

// RentVsBuyResponse pairs the comparison with its scenario label
type RentVsBuyResponse struct {
	Label  string                 `json:"label"`
	Result engine.RentVsBuyResult `json:"result"`
}

// AffordabilityResponse adds readable grades to the report
type AffordabilityResponse struct {
	engine.AffordabilityReport
	HousingClassLabel string `json:"housing_class_label"`
	TotalClassLabel   string `json:"total_class_label"`
	Employment        string `json:"employment"`
}

// PurchasePowerResponse quotes the loan each term supports
type PurchasePowerResponse struct {
	MonthlyRent float64                `json:"monthly_rent"`
	Powers      []engine.PurchasePower `json:"powers"`
}

// SensitivityResponse is the full sweep plus its headline share
type SensitivityResponse struct {
	Grid        *engine.SensitivityGrid `json:"grid"`
	BuyWinShare float64                 `json:"buy_win_share"`
}

// TaxRatesResponse flattens the bundled tables for one state. The
// marginal rates are only present when the request names an income.
type TaxRatesResponse struct {
	State                string  `json:"state"`
	Name                 string  `json:"name"`
	IncomeTaxRate        float64 `json:"income_tax_rate"`
	PropertyTaxRate      float64 `json:"property_tax_rate"`
	FilingStatus         string  `json:"filing_status"`
	FederalMarginalRate  float64 `json:"federal_marginal_rate,omitempty"`
	CombinedMarginalRate float64 `json:"combined_marginal_rate,omitempty"`
}

func taxRatesModel(snap taxdata.RateSnapshot, income float64) TaxRatesResponse {
	resp := TaxRatesResponse{
		State:           snap.State.Code,
		Name:            snap.State.Name,
		IncomeTaxRate:   snap.State.IncomeTaxRate,
		PropertyTaxRate: snap.State.PropertyTaxRate,
		FilingStatus:    string(snap.FilingStatus),
	}
	if income > 0 {
		resp.FederalMarginalRate = snap.FederalMarginalRate(income)
		resp.CombinedMarginalRate = snap.CombinedMarginalRate(income)
	}
	return resp
}

// DemographicsResponse is the market context series with its source
// label, either live Census data or the bundled samples.
type DemographicsResponse struct {
	Source string                    `json:"source"`
	Series []marketdata.Demographics `json:"series"`
}

// IndexModel is one market index from the bundled catalog
type IndexModel struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	ShortName     string             `json:"short_name"`
	AssetClass    string             `json:"asset_class"`
	DefaultReturn float64            `json:"default_return"`
	Volatility    string             `json:"volatility"`
	Description   string             `json:"description"`
	Returns       []IndexReturnModel `json:"returns"`
}

// IndexReturnModel is an annualized return over one lookback period
type IndexReturnModel struct {
	Years  int     `json:"years"`
	Label  string  `json:"label"`
	Return float64 `json:"return"`
}

func indexModel(idx marketdata.MarketIndex) IndexModel {
	returns := make([]IndexReturnModel, 0, len(idx.Returns))
	for _, p := range idx.Returns {
		returns = append(returns, IndexReturnModel{Years: p.Years, Label: p.Label, Return: p.Return})
	}
	return IndexModel{
		ID:            idx.ID,
		Name:          idx.Name,
		ShortName:     idx.ShortName,
		AssetClass:    idx.AssetClass,
		DefaultReturn: idx.DefaultReturn,
		Volatility:    idx.Volatility,
		Description:   idx.Description,
		Returns:       returns,
	}
}
