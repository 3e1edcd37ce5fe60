package engine

import (
	"fmt"
	"sort"
	"strings"
)

// LeverID identifies one axis of strategy variation
type LeverID string

const (
	LeverFinancing   LeverID = "financing"
	LeverTerm        LeverID = "term"
	LeverDownPayment LeverID = "down_payment"
)

// LeverValue is one selectable setting on a lever
type LeverValue struct {
	ID        string
	Name      string
	ShortName string
	Value     interface{}
}

// Lever is one axis of variation with its candidate values
type Lever struct {
	ID             LeverID
	Name           string
	Description    string
	Values         []LeverValue
	DefaultValueID string
}

// LeverRegistry holds all comparison levers and generates strategy variants
type LeverRegistry struct {
	levers map[LeverID]*Lever
	order  []LeverID // Determines generation order
}

// NewLeverRegistry creates a registry with the standard levers
func NewLeverRegistry() *LeverRegistry {
	r := &LeverRegistry{
		levers: make(map[LeverID]*Lever),
		order:  make([]LeverID, 0),
	}

	r.Register(&Lever{
		ID:          LeverFinancing,
		Name:        "Financing",
		Description: "How the home is paid for, or whether to keep renting",
		Values: []LeverValue{
			{ID: "financed", Name: "Financed Purchase", ShortName: "Fin", Value: FinancedPurchase},
			{ID: "cash", Name: "Cash Purchase", ShortName: "Cash", Value: CashPurchase},
			{ID: "rent", Name: "Rent and Invest", ShortName: "Rent", Value: RentAndInvest},
		},
		DefaultValueID: "financed",
	})

	r.Register(&Lever{
		ID:          LeverTerm,
		Name:        "Term",
		Description: "Amortization term for a financed purchase",
		Values: []LeverValue{
			{ID: "15y", Name: "15-Year Fixed", ShortName: "15y", Value: 15},
			{ID: "30y", Name: "30-Year Fixed", ShortName: "30y", Value: 30},
		},
		DefaultValueID: "30y",
	})

	r.Register(&Lever{
		ID:          LeverDownPayment,
		Name:        "Down Payment",
		Description: "Share of the price paid upfront on a financed purchase",
		Values: []LeverValue{
			{ID: "10pct", Name: "10% Down", ShortName: "10%", Value: 0.10},
			{ID: "20pct", Name: "20% Down", ShortName: "20%", Value: 0.20},
		},
		DefaultValueID: "20pct",
	})

	return r
}

// Register adds a lever to the registry
func (r *LeverRegistry) Register(l *Lever) {
	r.levers[l.ID] = l
	r.order = append(r.order, l.ID)
}

// Get returns a lever by ID
func (r *LeverRegistry) Get(id LeverID) *Lever {
	return r.levers[id]
}

// GetAll returns all levers in registration order
func (r *LeverRegistry) GetAll() []*Lever {
	result := make([]*Lever, len(r.order))
	for i, id := range r.order {
		result[i] = r.levers[id]
	}
	return result
}

// ApplicableLevers returns the levers usable for a comparison. The rent
// value only appears when a rent scenario was supplied.
func (r *LeverRegistry) ApplicableLevers(includeRent bool) []*Lever {
	result := make([]*Lever, 0, len(r.order))
	for _, id := range r.order {
		l := r.levers[id]
		if l.ID == LeverFinancing && !includeRent {
			filtered := make([]LeverValue, 0, len(l.Values))
			for _, v := range l.Values {
				if v.ID != "rent" {
					filtered = append(filtered, v)
				}
			}
			l = &Lever{
				ID:             l.ID,
				Name:           l.Name,
				Description:    l.Description,
				DefaultValueID: l.DefaultValueID,
				Values:         filtered,
			}
		}
		result = append(result, l)
	}
	return result
}

// StrategyVariant is one concrete combination of lever values
type StrategyVariant struct {
	Values map[LeverID]LeverValue
}

// Clone returns an independent copy of the variant
func (v StrategyVariant) Clone() StrategyVariant {
	clone := StrategyVariant{Values: make(map[LeverID]LeverValue, len(v.Values))}
	for id, val := range v.Values {
		clone.Values[id] = val
	}
	return clone
}

// Financing returns the variant's strategy, defaulting to a financed purchase
func (v StrategyVariant) Financing() Strategy {
	if val, ok := v.Values[LeverFinancing]; ok {
		if s, ok := val.Value.(Strategy); ok {
			return s
		}
	}
	return FinancedPurchase
}

// TermYears returns the variant's term, or fallback when the lever is unset
func (v StrategyVariant) TermYears(fallback int) int {
	if val, ok := v.Values[LeverTerm]; ok {
		if t, ok := val.Value.(int); ok {
			return t
		}
	}
	return fallback
}

// DownPaymentFraction returns the variant's down payment share, or fallback
func (v StrategyVariant) DownPaymentFraction(fallback float64) float64 {
	if val, ok := v.Values[LeverDownPayment]; ok {
		if f, ok := val.Value.(float64); ok {
			return f
		}
	}
	return fallback
}

// Label names the variant for reports, e.g. "Financed Purchase / 30-Year Fixed / 20% Down"
func (v StrategyVariant) Label() string {
	parts := []string{v.Values[LeverFinancing].Name}
	if v.Financing() == FinancedPurchase {
		if val, ok := v.Values[LeverTerm]; ok {
			parts = append(parts, val.Name)
		}
		if val, ok := v.Values[LeverDownPayment]; ok {
			parts = append(parts, val.Name)
		}
	}
	return strings.Join(parts, " / ")
}

// ShortLabel is a compact variant tag for tables, e.g. "Fin-30y-20%"
func (v StrategyVariant) ShortLabel() string {
	parts := []string{v.Values[LeverFinancing].ShortName}
	if v.Financing() == FinancedPurchase {
		if val, ok := v.Values[LeverTerm]; ok {
			parts = append(parts, val.ShortName)
		}
		if val, ok := v.Values[LeverDownPayment]; ok {
			parts = append(parts, val.ShortName)
		}
	}
	return strings.Join(parts, "-")
}

// VariantConstraint invalidates combinations that make no sense together
type VariantConstraint struct {
	ID          string
	Description string
	Validate    func(v StrategyVariant) bool // Returns false if invalid
}

// DefaultVariantConstraints returns the standard pruning rules
func DefaultVariantConstraints() []VariantConstraint {
	return []VariantConstraint{
		{
			ID:          "term_varies_only_when_financed",
			Description: "Term only matters on a financed purchase; pin it elsewhere",
			Validate: func(v StrategyVariant) bool {
				if v.Financing() == FinancedPurchase {
					return true
				}
				val, ok := v.Values[LeverTerm]
				return !ok || val.ID == "30y"
			},
		},
		{
			ID:          "down_payment_varies_only_when_financed",
			Description: "Down payment only matters on a financed purchase; pin it elsewhere",
			Validate: func(v StrategyVariant) bool {
				if v.Financing() == FinancedPurchase {
					return true
				}
				val, ok := v.Values[LeverDownPayment]
				return !ok || val.ID == "20pct"
			},
		},
	}
}

// VariantGenerator produces valid strategy variants for a comparison
type VariantGenerator struct {
	registry    *LeverRegistry
	constraints []VariantConstraint
	includeRent bool
}

// NewVariantGenerator creates a generator; includeRent adds the
// rent-and-invest strategy to the financing lever
func NewVariantGenerator(includeRent bool) *VariantGenerator {
	return &VariantGenerator{
		registry:    NewLeverRegistry(),
		constraints: DefaultVariantConstraints(),
		includeRent: includeRent,
	}
}

// Generate returns all valid variants in a stable order
func (g *VariantGenerator) Generate() []StrategyVariant {
	levers := g.registry.ApplicableLevers(g.includeRent)
	all := g.cartesianProduct(levers)

	valid := make([]StrategyVariant, 0, len(all))
	for _, variant := range all {
		if g.isValid(variant) {
			valid = append(valid, variant)
		}
	}
	return valid
}

// cartesianProduct generates all combinations of lever values
func (g *VariantGenerator) cartesianProduct(levers []*Lever) []StrategyVariant {
	if len(levers) == 0 {
		return []StrategyVariant{{Values: make(map[LeverID]LeverValue)}}
	}

	result := make([]StrategyVariant, 0)
	for _, val := range levers[0].Values {
		variant := StrategyVariant{Values: make(map[LeverID]LeverValue)}
		variant.Values[levers[0].ID] = val
		result = append(result, variant)
	}

	for i := 1; i < len(levers); i++ {
		next := make([]StrategyVariant, 0)
		for _, existing := range result {
			for _, val := range levers[i].Values {
				variant := existing.Clone()
				variant.Values[levers[i].ID] = val
				next = append(next, variant)
			}
		}
		result = next
	}
	return result
}

func (g *VariantGenerator) isValid(v StrategyVariant) bool {
	for _, c := range g.constraints {
		if !c.Validate(v) {
			return false
		}
	}
	return true
}

// StrategyOutcome is one ranked row of a strategy comparison
type StrategyOutcome struct {
	Label                string            `json:"label"`
	ShortLabel           string            `json:"short_label"`
	Strategy             Strategy          `json:"strategy"`
	Scenario             *MortgageScenario `json:"scenario,omitempty"` // nil for the rent strategy
	FirstMonthOutlay     float64           `json:"first_month_outlay"`
	FinalNetWorthNominal float64           `json:"final_net_worth_nominal"`
	FinalNetWorthReal    float64           `json:"final_net_worth_real"`
	Rank                 int               `json:"rank"` // 1 is best by final real net worth
}

// CompareStrategies runs every generated variant of the base scenario over
// the horizon and ranks the outcomes by final real net worth.
//
// All variants are measured against a shared reference outlay, the
// month-by-month maximum across every variant, so each strategy invests
// exactly what it spends below the most expensive path. The rent strategy,
// included when rent is non-nil, starts with the base scenario's down
// payment and closing costs invested.
func (e *Engine) CompareStrategies(base MortgageScenario, rent *RentScenario, horizonYears int) ([]StrategyOutcome, error) {
	if horizonYears <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d years", ErrInvalidParameter, horizonYears)
	}

	variants := NewVariantGenerator(rent != nil).Generate()

	type candidate struct {
		variant  StrategyVariant
		scenario MortgageScenario
		outlay   []float64
	}
	candidates := make([]candidate, 0, len(variants))
	var rentVariant *StrategyVariant

	for _, v := range variants {
		if v.Financing() == RentAndInvest {
			clone := v.Clone()
			rentVariant = &clone
			continue
		}
		dpFrac := v.DownPaymentFraction(base.DownPaymentFraction())
		term := v.TermYears(base.TermYears)
		if v.Financing() == CashPurchase {
			dpFrac = 1.0
			term = base.TermYears
		}
		sc, err := NewMortgageScenario(base.HomePrice, base.HomePrice*dpFrac, base.InterestRate, term,
			base.StockReturnRate, base.InflationRate, base.AppreciationRate, base.PropertyTaxRate, base.TaxBracket)
		if err != nil {
			return nil, fmt.Errorf("building %s variant: %w", v.ShortLabel(), err)
		}
		candidates = append(candidates, candidate{variant: v, scenario: sc, outlay: e.monthlyOutlaySeries(sc, horizonYears)})
	}

	var rentOutlay []float64
	if rentVariant != nil {
		rentOutlay = rentOutlaySeries(*rent, horizonYears)
	}

	reference := make([]float64, horizonYears*12)
	for i := range reference {
		for _, c := range candidates {
			if c.outlay[i] > reference[i] {
				reference[i] = c.outlay[i]
			}
		}
		if rentOutlay != nil && rentOutlay[i] > reference[i] {
			reference[i] = rentOutlay[i]
		}
	}

	outcomes := make([]StrategyOutcome, 0, len(candidates)+1)
	for _, c := range candidates {
		results := e.AnalyzeScenarioAgainst(c.scenario, horizonYears, reference)
		last := results[len(results)-1]
		sc := c.scenario
		outcomes = append(outcomes, StrategyOutcome{
			Label:                c.variant.Label(),
			ShortLabel:           c.variant.ShortLabel(),
			Strategy:             c.variant.Financing(),
			Scenario:             &sc,
			FirstMonthOutlay:     c.outlay[0],
			FinalNetWorthNominal: last.NetWorthNominal,
			FinalNetWorthReal:    last.NetWorthReal,
		})
	}

	if rentVariant != nil {
		nominal := e.rentPathNetWorth(base, *rent, rentOutlay, reference)
		outcomes = append(outcomes, StrategyOutcome{
			Label:                rentVariant.Label(),
			ShortLabel:           rentVariant.ShortLabel(),
			Strategy:             RentAndInvest,
			FirstMonthOutlay:     rentOutlay[0],
			FinalNetWorthNominal: nominal,
			FinalNetWorthReal:    ToReal(nominal, base.InflationRate, horizonYears),
		})
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].FinalNetWorthReal > outcomes[j].FinalNetWorthReal
	})
	for i := range outcomes {
		outcomes[i].Rank = i + 1
	}
	return outcomes, nil
}

// monthlyOutlaySeries expands a scenario into one outlay value per month,
// holding costs at each year's opening state
func (e *Engine) monthlyOutlaySeries(sc MortgageScenario, horizonYears int) []float64 {
	var annual []AnnualDebtService
	var levelPayment float64
	if !sc.IsCashPurchase() {
		rows, _ := Schedule(sc.LoanAmount, sc.InterestRate, sc.TermYears)
		annual = AnnualTotals(rows)
		levelPayment = rows[0].Payment.InexactFloat64()
	}

	series := make([]float64, 0, horizonYears*12)
	homeValue := sc.HomePrice
	loanBalance := sc.LoanAmount
	for year := 1; year <= horizonYears; year++ {
		var debt AnnualDebtService
		monthlyPI := 0.0
		if year <= len(annual) {
			debt = annual[year-1]
			monthlyPI = levelPayment
		}
		own := e.OwnershipCosts(sc, homeValue, loanBalance, monthlyPI)
		for m := 0; m < 12; m++ {
			series = append(series, own.Total)
		}
		loanBalance = debt.EndingBalance
		homeValue *= 1 + sc.AppreciationRate
	}
	return series
}

// rentOutlaySeries expands a rent scenario into one outlay value per month
func rentOutlaySeries(rent RentScenario, horizonYears int) []float64 {
	series := make([]float64, 0, horizonYears*12)
	monthlyRent := rent.MonthlyRent
	for year := 1; year <= horizonYears; year++ {
		for m := 0; m < 12; m++ {
			series = append(series, monthlyRent+rent.RentersInsurance)
		}
		monthlyRent *= 1 + rent.AnnualRentIncrease
	}
	return series
}

// rentPathNetWorth grows the renter's portfolio: the base scenario's
// upfront costs from month 0 plus every month's surplus under the
// reference outlay
func (e *Engine) rentPathNetWorth(base MortgageScenario, rent RentScenario, rentOutlay, reference []float64) float64 {
	invested := base.DownPayment + base.HomePrice*e.costs.GetClosingCostRate()
	monthlyStockRate := Monthly.PeriodRate(base.StockReturnRate)
	for i := range rentOutlay {
		surplus, _ := surplusSplit(rentOutlay[i], reference[i])
		invested = GrowStep(invested, monthlyStockRate, surplus)
	}
	return invested
}
