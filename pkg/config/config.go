// Package config loads, saves and resolves analysis configuration. A
// config file describes one household's question: the purchase under
// consideration, the economic assumptions behind it, where the buyer
// lives, the renting alternative and the buyer's finances. The
// conversion methods assemble engine inputs from these sections; rates
// left at zero fall back to the bundled tables and standard defaults.
package config

import (
	_ "embed"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
	"github.com/lakeinlake/know-your-mortgage/pkg/marketdata"
	"github.com/lakeinlake/know-your-mortgage/pkg/taxdata"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// StockReturnSourceCustom selects the manually entered stock return
// rate instead of a bundled market index.
const StockReturnSourceCustom = "custom"

const (
	defaultTermYears        = 30
	defaultHorizonYears     = 30
	defaultStockReturnRate  = 0.07
	defaultInflationRate    = 0.03
	defaultAppreciationRate = 0.04
	defaultSweepStep        = 0.01
	defaultServerAddr       = ":8080"
	defaultShutdownSeconds  = 10
	defaultStoragePath      = "knowyourmortgage.db"
)

// ScenarioConfig describes the purchase under analysis
type ScenarioConfig struct {
	HomePrice    float64 `yaml:"home_price" json:"home_price"`       // purchase price ($)
	DownPayment  float64 `yaml:"down_payment" json:"down_payment"`   // cash at closing ($); equal to home_price for a cash purchase
	InterestRate float64 `yaml:"interest_rate" json:"interest_rate"` // annual mortgage rate (e.g., 0.061 = 6.1%)
	TermYears    int     `yaml:"term_years" json:"term_years"`       // amortization term (default 30)
	HorizonYears int     `yaml:"horizon_years" json:"horizon_years"` // projection horizon (default 30)
}

// GetTermYears returns the amortization term, using the default if not set
func (sc *ScenarioConfig) GetTermYears() int {
	if sc.TermYears <= 0 {
		return defaultTermYears
	}
	return sc.TermYears
}

// GetHorizonYears returns the projection horizon, using the default if not set
func (sc *ScenarioConfig) GetHorizonYears() int {
	if sc.HorizonYears <= 0 {
		return defaultHorizonYears
	}
	return sc.HorizonYears
}

// EconomicConfig holds market and inflation assumptions
type EconomicConfig struct {
	// Stock Return Source: "custom" for manual entry, or a market index ID (e.g., "sp500", "nasdaq")
	StockReturnSource      string `yaml:"stock_return_source,omitempty" json:"stock_return_source,omitempty"`
	StockReturnPeriodYears int    `yaml:"stock_return_period_years,omitempty" json:"stock_return_period_years,omitempty"` // index lookback period (3, 5, 10, 25, etc.)

	StockReturnRate  float64 `yaml:"stock_return_rate" json:"stock_return_rate"` // used when source is "custom" (default 0.07)
	InflationRate    float64 `yaml:"inflation_rate" json:"inflation_rate"`       // annual CPI assumption (default 0.03)
	AppreciationRate float64 `yaml:"appreciation_rate" json:"appreciation_rate"` // annual home value growth (default 0.04)
}

// GetStockReturnRate returns the manual stock return, using the default if not set
func (ec *EconomicConfig) GetStockReturnRate() float64 {
	if ec.StockReturnRate <= 0 {
		return defaultStockReturnRate
	}
	return ec.StockReturnRate
}

// GetInflationRate returns the inflation assumption, using the default if not set
func (ec *EconomicConfig) GetInflationRate() float64 {
	if ec.InflationRate <= 0 {
		return defaultInflationRate
	}
	return ec.InflationRate
}

// GetAppreciationRate returns the home appreciation assumption, using the default if not set
func (ec *EconomicConfig) GetAppreciationRate() float64 {
	if ec.AppreciationRate <= 0 {
		return defaultAppreciationRate
	}
	return ec.AppreciationRate
}

// ResolveStockReturn returns the stock return assumption in effect. A
// source other than "custom" selects a bundled market index, read at the
// configured lookback period when the index quotes one. An unknown
// source falls back to the manual rate rather than failing the analysis.
func (ec *EconomicConfig) ResolveStockReturn() float64 {
	source := strings.TrimSpace(ec.StockReturnSource)
	if source == "" || strings.EqualFold(source, StockReturnSourceCustom) {
		return ec.GetStockReturnRate()
	}
	index := marketdata.GetIndexByID(source)
	if index == nil {
		return ec.GetStockReturnRate()
	}
	if ec.StockReturnPeriodYears > 0 {
		return marketdata.GetReturnForPeriod(index, ec.StockReturnPeriodYears)
	}
	return index.DefaultReturn
}

// LocationConfig names where the buyer lives. Tax rates resolve from the
// bundled state tables unless overridden.
type LocationConfig struct {
	State           string  `yaml:"state" json:"state"`                         // two-letter code or full name (e.g., "IN", "California")
	FilingStatus    string  `yaml:"filing_status" json:"filing_status"`         // "single" or "married-joint"
	PropertyTaxRate float64 `yaml:"property_tax_rate" json:"property_tax_rate"` // override; 0 = state table average
}

// CostConfig holds ownership cost assumptions. Zero values fall back to
// the engine's standard defaults.
type CostConfig struct {
	HomeInsuranceMonthly float64 `yaml:"home_insurance_monthly" json:"home_insurance_monthly"` // homeowner insurance ($/month, default 150)
	MaintenanceRate      float64 `yaml:"maintenance_rate" json:"maintenance_rate"`             // annual upkeep as fraction of value (default 0.01)
	PMIRate              float64 `yaml:"pmi_rate" json:"pmi_rate"`                             // annual PMI on outstanding balance (default 0.005)
	ClosingCostRate      float64 `yaml:"closing_cost_rate" json:"closing_cost_rate"`           // buyer closing costs as fraction of price (default 0.03)
	SellingCostRate      float64 `yaml:"selling_cost_rate" json:"selling_cost_rate"`           // sale transaction costs as fraction of value (default 0.06)

	// DeductMortgageInterest treats mortgage interest as deductible at the
	// combined marginal rate. Households taking the standard deduction
	// should set this to false. Default: true
	DeductMortgageInterest *bool `yaml:"deduct_mortgage_interest" json:"deduct_mortgage_interest"`
}

// ShouldDeductInterest returns whether interest converts to tax savings (default: true)
func (cc *CostConfig) ShouldDeductInterest() bool {
	if cc.DeductMortgageInterest == nil {
		return true
	}
	return *cc.DeductMortgageInterest
}

// RentConfig describes the renting alternative
type RentConfig struct {
	MonthlyRent      float64 `yaml:"monthly_rent" json:"monthly_rent"`           // starting rent ($/month)
	AnnualIncrease   float64 `yaml:"annual_increase" json:"annual_increase"`     // compounding annual escalation (e.g., 0.03 = 3%)
	RentersInsurance float64 `yaml:"renters_insurance" json:"renters_insurance"` // renters insurance ($/month)
}

// ProfileConfig carries the buyer's financial situation
type ProfileConfig struct {
	AnnualIncome  float64 `yaml:"annual_income" json:"annual_income"`   // gross household income ($/year)
	MonthlyDebt   float64 `yaml:"monthly_debt" json:"monthly_debt"`     // non-housing obligations ($/month)
	CashSavings   float64 `yaml:"cash_savings" json:"cash_savings"`     // liquid reserves ($)
	StockHoldings float64 `yaml:"stock_holdings" json:"stock_holdings"` // taxable investment balance ($)
	Employment    string  `yaml:"employment" json:"employment"`         // "stable" or "variable" (default stable)
}

// Stability parses the employment field
func (pc *ProfileConfig) Stability() engine.EmploymentStability {
	if strings.EqualFold(strings.TrimSpace(pc.Employment), "variable") {
		return engine.VariableEmployment
	}
	return engine.StableEmployment
}

// SensitivityConfig holds sensitivity sweep parameters
type SensitivityConfig struct {
	StockReturnMin  float64 `yaml:"stock_return_min" json:"stock_return_min"` // min stock return (e.g., 0.04 = 4%)
	StockReturnMax  float64 `yaml:"stock_return_max" json:"stock_return_max"` // max stock return (e.g., 0.12 = 12%)
	AppreciationMin float64 `yaml:"appreciation_min" json:"appreciation_min"` // min home appreciation
	AppreciationMax float64 `yaml:"appreciation_max" json:"appreciation_max"` // max home appreciation
	StepSize        float64 `yaml:"step_size" json:"step_size"`               // sweep step (default 0.01 = 1%)
}

// GetStepSize returns the sweep step, using the default if not set
func (sc *SensitivityConfig) GetStepSize() float64 {
	if sc.StepSize <= 0 {
		return defaultSweepStep
	}
	return sc.StepSize
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr                   string `yaml:"addr" json:"addr"`                                         // listen address (default ":8080")
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds"` // graceful shutdown grace (default 10)
}

// GetAddr returns the listen address, using the default if not set
func (s *ServerConfig) GetAddr() string {
	if s.Addr == "" {
		return defaultServerAddr
	}
	return s.Addr
}

// GetShutdownTimeout returns the graceful shutdown grace period
func (s *ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeoutSeconds <= 0 {
		return defaultShutdownSeconds * time.Second
	}
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// StorageConfig holds analysis history settings
type StorageConfig struct {
	Path string `yaml:"path" json:"path"` // SQLite database file (default "knowyourmortgage.db")
}

// GetPath returns the database file path, using the default if not set
func (s *StorageConfig) GetPath() string {
	if s.Path == "" {
		return defaultStoragePath
	}
	return s.Path
}

// CensusConfig holds demographic enrichment settings. With no API key
// configured, reports use the bundled sample profiles.
type CensusConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key"`       // data.census.gov key; empty = bundled samples
	RedisAddr string `yaml:"redis_addr" json:"redis_addr"` // optional cache backend; empty = in-memory
}

// ResolveAPIKey returns the configured key, falling back to the
// CENSUS_API_KEY environment variable
func (cc *CensusConfig) ResolveAPIKey() string {
	if cc.APIKey != "" {
		return cc.APIKey
	}
	return os.Getenv("CENSUS_API_KEY")
}

// Config holds the complete configuration
type Config struct {
	Scenario    ScenarioConfig    `yaml:"scenario" json:"scenario"`
	Economic    EconomicConfig    `yaml:"economic" json:"economic"`
	Location    LocationConfig    `yaml:"location" json:"location"`
	Costs       CostConfig        `yaml:"costs" json:"costs"`
	Rent        RentConfig        `yaml:"rent" json:"rent"`
	Profile     ProfileConfig     `yaml:"profile" json:"profile"`
	Sensitivity SensitivityConfig `yaml:"sensitivity" json:"sensitivity"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Storage     StorageConfig     `yaml:"storage" json:"storage"`
	Census      CensusConfig      `yaml:"census" json:"census"`
}

// LoadConfig loads configuration from a YAML file. Rates are decimals
// (0.061 = 6.1%); the percentage shorthand is only applied to the
// embedded defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	// Add a header comment with instructions
	header := []byte(`# Know Your Mortgage Configuration
# Generated from an analysis run - feel free to edit manually
#
# ═══════════════════════════════════════════════════════════════════════════════
# SECTIONS
# ═══════════════════════════════════════════════════════════════════════════════
#
#   scenario     The purchase under analysis (price, down payment, rate, term)
#   economic     Market assumptions (stock return source, inflation, appreciation)
#   location     State and filing status; resolves rates from bundled tax tables
#   costs        Ownership costs (insurance, maintenance, PMI, closing, selling)
#   rent         The renting alternative for rent-vs-buy comparisons
#   profile      Household finances for affordability checks
#   sensitivity  Sweep ranges for the sensitivity grid
#   server       HTTP API settings (serve command)
#   storage      Analysis history database
#   census       Optional demographic enrichment (data.census.gov)
#
# ═══════════════════════════════════════════════════════════════════════════════
# VALUE FORMATS
# ═══════════════════════════════════════════════════════════════════════════════
#   Percentages: 0.061 = 6.1% (enter as decimal)
#   Money: values are in USD (e.g., 500000 = $500k)
#   Rates left at 0 fall back to bundled tables and standard defaults.
#
# ═══════════════════════════════════════════════════════════════════════════════
# RUN COMMANDS
# ═══════════════════════════════════════════════════════════════════════════════
#   knowyourmortgage analyze                  Single-scenario wealth projection
#   knowyourmortgage compare                  Ranked strategy comparison
#   knowyourmortgage rentvsbuy                Rent-vs-buy break-even analysis
#   knowyourmortgage afford                   Affordability and risk signals
#   knowyourmortgage power                    Rent-to-purchase-power conversion
#   knowyourmortgage sensitivity              Assumption sweep grid
#   knowyourmortgage export pdf|html|csv      Report files
#   knowyourmortgage history                  Recorded analysis runs
#   knowyourmortgage serve                    HTTP API
#   knowyourmortgage --help                   Show all commands
#
# See default-config.yaml for all available options with detailed comments.

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the default configuration from embedded default-config.yaml
// It handles percentage format (e.g., "6.1%" -> 0.061)
func LoadDefaultConfig() (*Config, error) {
	// Use embedded default config (compiled into binary)
	content := preprocessPercentages(defaultConfigYAML)

	var config Config
	err := yaml.Unmarshal([]byte(content), &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// preprocessPercentages converts percentage values like "6.1%" to decimal "0.061"
func preprocessPercentages(content string) string {
	// Match patterns like: key: 5% or key: 6.1%
	// But not inside strings (already quoted)
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		// Extract the number before %
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			numStr := parts[2]
			num, err := strconv.ParseFloat(numStr, 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}

// TaxRates resolves the location into the bundled state and federal tables
func (c *Config) TaxRates() taxdata.RateSnapshot {
	return taxdata.Resolve(c.Location.State, c.Location.FilingStatus)
}

// PropertyTaxRate returns the explicit override, or the state table
// average when none is set
func (c *Config) PropertyTaxRate() float64 {
	if c.Location.PropertyTaxRate > 0 {
		return c.Location.PropertyTaxRate
	}
	return c.TaxRates().State.PropertyTaxRate
}

// TaxBracket returns the combined marginal rate (federal + state) at the
// profile's income
func (c *Config) TaxBracket() float64 {
	return c.TaxRates().CombinedMarginalRate(c.Profile.AnnualIncome)
}

// MortgageScenario assembles the engine scenario from the configured
// purchase, the economic assumptions and the resolved tax rates
func (c *Config) MortgageScenario() (engine.MortgageScenario, error) {
	return engine.NewMortgageScenario(
		c.Scenario.HomePrice, c.Scenario.DownPayment, c.Scenario.InterestRate, c.Scenario.GetTermYears(),
		c.Economic.ResolveStockReturn(), c.Economic.GetInflationRate(), c.Economic.GetAppreciationRate(),
		c.PropertyTaxRate(), c.TaxBracket())
}

// RentScenario assembles the renting alternative over the scenario horizon
func (c *Config) RentScenario() (engine.RentScenario, error) {
	return engine.NewRentScenario(c.Rent.MonthlyRent, c.Rent.AnnualIncrease,
		c.Rent.RentersInsurance, c.Scenario.GetHorizonYears())
}

// FinancialProfile assembles the buyer's profile for affordability checks
func (c *Config) FinancialProfile() (engine.FinancialProfile, error) {
	return engine.NewFinancialProfile(c.Profile.AnnualIncome, c.Profile.MonthlyDebt,
		c.Profile.CashSavings, c.Profile.StockHoldings,
		c.Location.State, c.Location.FilingStatus, c.Profile.Stability())
}

// CostModel converts the cost section into engine assumptions
func (c *Config) CostModel() engine.CostModel {
	deduction := engine.DeductFullInterest
	if !c.Costs.ShouldDeductInterest() {
		deduction = engine.DeductNone
	}
	return engine.CostModel{
		HomeInsuranceMonthly: c.Costs.HomeInsuranceMonthly,
		MaintenanceRate:      c.Costs.MaintenanceRate,
		PMIRate:              c.Costs.PMIRate,
		ClosingCostRate:      c.Costs.ClosingCostRate,
		SellingCostRate:      c.Costs.SellingCostRate,
		Deduction:            deduction,
	}
}

// StockReturnRange converts the sweep's stock return axis, falling back
// to the engine default range when unset
func (c *Config) StockReturnRange() engine.SensitivityRange {
	if c.Sensitivity.StockReturnMax <= 0 {
		return engine.DefaultStockReturnRange()
	}
	return engine.SensitivityRange{
		Min:  c.Sensitivity.StockReturnMin,
		Max:  c.Sensitivity.StockReturnMax,
		Step: c.Sensitivity.GetStepSize(),
	}
}

// AppreciationRange converts the sweep's appreciation axis, falling back
// to the engine default range when unset
func (c *Config) AppreciationRange() engine.SensitivityRange {
	if c.Sensitivity.AppreciationMax <= 0 {
		return engine.DefaultAppreciationRange()
	}
	return engine.SensitivityRange{
		Min:  c.Sensitivity.AppreciationMin,
		Max:  c.Sensitivity.AppreciationMax,
		Step: c.Sensitivity.GetStepSize(),
	}
}

// CensusClientConfig assembles the demographic client settings. A
// configured Redis address selects the shared cache; otherwise lookups
// cache in process memory.
func (c *Config) CensusClientConfig() marketdata.CensusConfig {
	var cache marketdata.Cache
	if c.Census.RedisAddr != "" {
		cache = marketdata.NewRedisCache(c.Census.RedisAddr)
	}
	return marketdata.CensusConfig{
		APIKey: c.Census.ResolveAPIKey(),
		Cache:  cache,
	}
}
