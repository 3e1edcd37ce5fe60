// Package marketdata bundles the market context an analysis can draw on:
// a preset catalog of index returns to source the stock growth assumption
// from, and a Census demographics client with caching and a bundled
// fallback so reports stay useful offline.
package marketdata

// ReturnPeriod represents historical returns for a specific time period
type ReturnPeriod struct {
	Years  int     // Number of years in this period
	Label  string  // Human-readable label (e.g., "10 Year", "Since 1957")
	Return float64 // Annualized return as decimal (0.10 = 10%)
}

// MarketIndex represents an investable index with historical return data
type MarketIndex struct {
	ID            string         // Unique identifier (e.g., "sp500")
	Name          string         // Full name (e.g., "S&P 500")
	ShortName     string         // Short display name
	AssetClass    string         // "equity", "bond" or "blend"
	Returns       []ReturnPeriod // Returns over different time periods
	DefaultReturn float64        // Default/long-term return to use
	Volatility    string         // "low", "medium", "high"
	Description   string         // Brief description
	InceptionYear int            // Year the index was created
}

// DefaultIndexID is the index the stock return assumption defaults to.
const DefaultIndexID = "sp500"

// MarketIndices contains all available indices.
// Data as of end 2024
// Sources: S&P Dow Jones Indices, Nasdaq, CRSP, Bloomberg
// Note: Returns are nominal (not inflation-adjusted). Real returns typically 2-3% lower.
// Past performance does not guarantee future results.
var MarketIndices = []MarketIndex{
	{
		ID:         "sp500",
		Name:       "S&P 500",
		ShortName:  "S&P 500",
		AssetClass: "equity",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.089},
			{Years: 5, Label: "5 Year", Return: 0.145},
			{Years: 10, Label: "10 Year", Return: 0.128},
			{Years: 25, Label: "25 Year", Return: 0.078},
			{Years: 67, Label: "Since 1957", Return: 0.104},
		},
		DefaultReturn: 0.104,
		Volatility:    "medium",
		Description:   "US large cap - 500 largest companies",
		InceptionYear: 1957,
	},
	{
		ID:         "nasdaq",
		Name:       "NASDAQ Composite",
		ShortName:  "NASDAQ",
		AssetClass: "equity",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.092},
			{Years: 5, Label: "5 Year", Return: 0.188},
			{Years: 10, Label: "10 Year", Return: 0.165},
			{Years: 25, Label: "25 Year", Return: 0.095},
			{Years: 53, Label: "Since 1971", Return: 0.105},
		},
		DefaultReturn: 0.105,
		Volatility:    "high",
		Description:   "US tech-heavy - higher growth, more volatile",
		InceptionYear: 1971,
	},
	{
		ID:         "dowJones",
		Name:       "Dow Jones Industrial Average",
		ShortName:  "Dow Jones",
		AssetClass: "equity",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.072},
			{Years: 5, Label: "5 Year", Return: 0.105},
			{Years: 10, Label: "10 Year", Return: 0.108},
			{Years: 25, Label: "25 Year", Return: 0.072},
			{Years: 128, Label: "Since 1896", Return: 0.075},
		},
		DefaultReturn: 0.075,
		Volatility:    "medium",
		Description:   "US blue chip - 30 large industrial companies",
		InceptionYear: 1896,
	},
	{
		ID:         "totalMarket",
		Name:       "CRSP US Total Market",
		ShortName:  "Total Market",
		AssetClass: "equity",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.082},
			{Years: 5, Label: "5 Year", Return: 0.138},
			{Years: 10, Label: "10 Year", Return: 0.121},
			{Years: 25, Label: "25 Year", Return: 0.079},
			{Years: 53, Label: "Since 1971", Return: 0.102},
		},
		DefaultReturn: 0.102,
		Volatility:    "medium",
		Description:   "Broad US market - large, mid and small cap",
		InceptionYear: 1971,
	},
	{
		ID:         "usBonds",
		Name:       "Bloomberg US Aggregate Bond",
		ShortName:  "US Bonds",
		AssetClass: "bond",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: -0.024},
			{Years: 5, Label: "5 Year", Return: -0.003},
			{Years: 10, Label: "10 Year", Return: 0.013},
			{Years: 25, Label: "25 Year", Return: 0.038},
			{Years: 48, Label: "Since 1976", Return: 0.065},
		},
		DefaultReturn: 0.045,
		Volatility:    "low",
		Description:   "US investment-grade bonds - rate-sensitive",
		InceptionYear: 1976,
	},
	{
		ID:         "balanced6040",
		Name:       "60/40 Stock-Bond Blend",
		ShortName:  "60/40 Blend",
		AssetClass: "blend",
		Returns: []ReturnPeriod{
			{Years: 3, Label: "3 Year", Return: 0.045},
			{Years: 5, Label: "5 Year", Return: 0.085},
			{Years: 10, Label: "10 Year", Return: 0.082},
			{Years: 25, Label: "25 Year", Return: 0.065},
			{Years: 48, Label: "Since 1976", Return: 0.088},
		},
		DefaultReturn: 0.079,
		Volatility:    "low",
		Description:   "Classic balanced portfolio - smoother ride than equities",
		InceptionYear: 1976,
	},
}

// GetIndexByID returns an index by its ID, or nil if not found
func GetIndexByID(id string) *MarketIndex {
	for i := range MarketIndices {
		if MarketIndices[i].ID == id {
			return &MarketIndices[i]
		}
	}
	return nil
}

// GetReturnForPeriod returns the return for a specific period, or the default return if not found
func GetReturnForPeriod(index *MarketIndex, years int) float64 {
	for _, r := range index.Returns {
		if r.Years == years {
			return r.Return
		}
	}
	return index.DefaultReturn
}

// GetIndicesByAssetClass groups indices by asset class
func GetIndicesByAssetClass() map[string][]MarketIndex {
	result := make(map[string][]MarketIndex)
	for _, idx := range MarketIndices {
		result[idx.AssetClass] = append(result[idx.AssetClass], idx)
	}
	return result
}
