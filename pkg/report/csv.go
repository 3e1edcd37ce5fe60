package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// WriteScheduleCSV writes a full amortization schedule, one row per month.
// Ledger columns come from the decimal schedule so they are exact to the cent.
func WriteScheduleCSV(w io.Writer, rows []engine.AmortizationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "payment", "principal", "interest", "balance"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Period),
			row.Payment.StringFixed(2),
			row.Principal.StringFixed(2),
			row.Interest.StringFixed(2),
			row.Balance.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYearlyCSV writes a wealth trajectory, one row per year
func WriteYearlyCSV(w io.Writer, years []engine.YearlyResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "home_value", "home_equity", "loan_balance",
		"cumulative_interest", "cumulative_principal", "tax_savings",
		"invested_balance", "net_worth_nominal", "net_worth_real",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, yr := range years {
		record := []string{
			strconv.Itoa(yr.Year),
			money(yr.HomeValue),
			money(yr.HomeEquity),
			money(yr.LoanBalance),
			money(yr.CumulativeInterest),
			money(yr.CumulativePrincipal),
			money(yr.TaxSavings),
			money(yr.InvestedBalance),
			money(yr.NetWorthNominal),
			money(yr.NetWorthReal),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparisonCSV writes ranked strategy outcomes
func WriteComparisonCSV(w io.Writer, outcomes []engine.StrategyOutcome) error {
	cw := csv.NewWriter(w)
	header := []string{
		"rank", "label", "strategy", "first_month_outlay",
		"final_net_worth_nominal", "final_net_worth_real",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range outcomes {
		record := []string{
			strconv.Itoa(o.Rank),
			o.Label,
			o.Strategy.String(),
			money(o.FirstMonthOutlay),
			money(o.FinalNetWorthNominal),
			money(o.FinalNetWorthReal),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRentVsBuyCSV writes both net-worth trajectories and their difference
func WriteRentVsBuyCSV(w io.Writer, res engine.RentVsBuyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "buy_net_worth", "rent_net_worth", "difference"}); err != nil {
		return err
	}
	for i := range res.BuyNetWorth {
		record := []string{
			strconv.Itoa(i + 1),
			money(res.BuyNetWorth[i]),
			money(res.RentNetWorth[i]),
			money(res.BreakEven.Difference[i]),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSensitivityCSV writes the sweep flat, one row per rate combination
func WriteSensitivityCSV(w io.Writer, grid *engine.SensitivityGrid) error {
	cw := csv.NewWriter(w)
	header := []string{
		"stock_return_rate", "appreciation_rate", "break_even_year",
		"within_horizon", "final_advantage", "buying_wins",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range grid.Cells {
		for _, cell := range row {
			record := []string{
				rate(cell.StockReturnRate),
				rate(cell.AppreciationRate),
				strconv.Itoa(cell.BreakEvenYear),
				strconv.FormatBool(cell.WithinHorizon),
				money(cell.FinalAdvantage),
				strconv.FormatBool(cell.BuyingWins),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
