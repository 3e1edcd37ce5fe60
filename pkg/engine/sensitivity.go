package engine

import "fmt"

// SensitivityRange spans one axis of a sensitivity sweep
type SensitivityRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Rates expands the range into concrete values
func (r SensitivityRange) Rates() []float64 {
	var rates []float64
	for v := r.Min; v <= r.Max+0.0001; v += r.Step { // small epsilon for float comparison
		rates = append(rates, v)
	}
	return rates
}

// DefaultStockReturnRange covers cautious to optimistic market assumptions
func DefaultStockReturnRange() SensitivityRange {
	return SensitivityRange{Min: 0.04, Max: 0.12, Step: 0.01}
}

// DefaultAppreciationRange covers flat to hot housing markets
func DefaultAppreciationRange() SensitivityRange {
	return SensitivityRange{Min: 0.01, Max: 0.06, Step: 0.01}
}

// SensitivityCell is the rent-vs-buy outcome at one rate combination
type SensitivityCell struct {
	StockReturnRate  float64 `json:"stock_return_rate"`
	AppreciationRate float64 `json:"appreciation_rate"`
	BreakEvenYear    int     `json:"break_even_year"` // 0 when renting holds through the horizon
	WithinHorizon    bool    `json:"within_horizon"`
	FinalAdvantage   float64 `json:"final_advantage"` // buy minus rent at the horizon
	BuyingWins       bool    `json:"buying_wins"`
}

// SensitivityGrid is the full sweep, indexed [stockIdx][appreciationIdx]
type SensitivityGrid struct {
	Cells             [][]SensitivityCell `json:"cells"`
	StockReturnRates  []float64           `json:"stock_return_rates"`
	AppreciationRates []float64           `json:"appreciation_rates"`
	HorizonYears      int                 `json:"horizon_years"`
}

// BuyWinShare is the fraction of cells where buying ends ahead
func (g *SensitivityGrid) BuyWinShare() float64 {
	total, wins := 0, 0
	for _, row := range g.Cells {
		for _, cell := range row {
			total++
			if cell.BuyingWins {
				wins++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

// RunSensitivity sweeps the rent-vs-buy comparison across stock return and
// home appreciation assumptions, re-running the full monthly simulation at
// each combination. Higher stock returns push the break-even later; higher
// appreciation pulls it earlier.
func (e *Engine) RunSensitivity(buy MortgageScenario, rent RentScenario, stock, appreciation SensitivityRange) (*SensitivityGrid, error) {
	if stock.Step <= 0 || appreciation.Step <= 0 {
		return nil, fmt.Errorf("%w: sweep step must be positive", ErrInvalidParameter)
	}
	if stock.Min < 0 || appreciation.Min < 0 {
		return nil, fmt.Errorf("%w: sweep rates must be non-negative", ErrInvalidParameter)
	}

	stockRates := stock.Rates()
	apprRates := appreciation.Rates()
	if len(stockRates) == 0 || len(apprRates) == 0 {
		return nil, fmt.Errorf("%w: sweep range is empty", ErrInvalidParameter)
	}

	grid := &SensitivityGrid{
		Cells:             make([][]SensitivityCell, len(stockRates)),
		StockReturnRates:  stockRates,
		AppreciationRates: apprRates,
		HorizonYears:      rent.HorizonYears,
	}

	for si, stockRate := range stockRates {
		grid.Cells[si] = make([]SensitivityCell, len(apprRates))
		for ai, apprRate := range apprRates {
			test := buy
			test.StockReturnRate = stockRate
			test.AppreciationRate = apprRate

			be := e.CompareRentVsBuy(test, rent).BreakEven
			final := be.Difference[len(be.Difference)-1]
			grid.Cells[si][ai] = SensitivityCell{
				StockReturnRate:  stockRate,
				AppreciationRate: apprRate,
				BreakEvenYear:    be.Year,
				WithinHorizon:    be.WithinHorizon,
				FinalAdvantage:   final,
				BuyingWins:       final >= 0,
			}
		}
	}
	return grid, nil
}
