package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
)

// GenerateAnalysisHTML renders a standalone HTML page for one analysis.
// The page is self-contained: inline styles, no external assets.
func GenerateAnalysisHTML(w io.Writer, a Analysis) error {
	f := bufio.NewWriter(w)

	label := ScenarioLabel(a.Scenario)
	fmt.Fprintf(f, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mortgage Analysis: %s</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f8fafc;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        h1 {
            font-size: 1.75rem;
            margin-bottom: 0.5rem;
            color: var(--primary);
        }
        h2 {
            font-size: 1.25rem;
            margin: 1.5rem 0 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 2px solid var(--primary);
        }
        h3 { font-size: 1rem; margin-bottom: 0.5rem; }
        .subtitle {
            color: var(--text-muted);
            margin-bottom: 1.5rem;
        }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }
        .grid { display: grid; gap: 1rem; }
        .grid-2 { grid-template-columns: repeat(2, 1fr); }
        .grid-4 { grid-template-columns: repeat(4, 1fr); }
        @media (max-width: 768px) {
            .grid-2, .grid-4 { grid-template-columns: 1fr; }
        }
        .metric {
            text-align: center;
            padding: 1rem;
            border-radius: 8px;
            background: var(--bg);
        }
        .metric-value {
            font-size: 1.5rem;
            font-weight: 700;
            color: var(--primary);
        }
        .metric-label {
            font-size: 0.875rem;
            color: var(--text-muted);
        }
        .metric.success .metric-value { color: var(--success); }
        .metric.warning .metric-value { color: var(--warning); }
        .metric.danger .metric-value { color: var(--danger); }
        table {
            width: 100%%;
            border-collapse: collapse;
            font-size: 0.875rem;
        }
        th, td {
            padding: 0.75rem 0.5rem;
            text-align: right;
            border-bottom: 1px solid var(--border);
        }
        th {
            background: var(--bg);
            font-weight: 600;
            position: sticky;
            top: 0;
        }
        th:first-child, td:first-child { text-align: left; }
        tr:hover { background: #f1f5f9; }
        .highlight { background: #fef3c7 !important; }
        .negative { color: var(--danger); }
        .positive { color: var(--success); }
        .footer {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.75rem;
            margin-top: 2rem;
            padding-top: 1rem;
            border-top: 1px solid var(--border);
        }
        .badge {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 9999px;
            font-size: 0.75rem;
            font-weight: 600;
        }
        .badge-success { background: #dcfce7; color: var(--success); }
        .badge-warning { background: #ffedd5; color: var(--warning); }
        .badge-danger { background: #fee2e2; color: var(--danger); }
    </style>
</head>
<body>
    <div class="container">
        <h1>Mortgage Analysis</h1>
        <p class="subtitle">%s</p>
`, label, label)

	writeSummaryCard(f, a)
	writeAssumptionsCard(f, a)
	writeTrajectoryCard(f, a)
	if a.RentVsBuy != nil {
		writeRentVsBuyCard(f, a)
	}
	if a.Affordability != nil {
		writeAffordabilityCard(f, a.Affordability)
	}

	fmt.Fprintf(f, `
        <div class="footer">
            Generated on %s | Know Your Mortgage
        </div>
    </div>
</body>
</html>
`, a.generatedAt().Format("2006-01-02 15:04:05"))

	return f.Flush()
}

func writeSummaryCard(f io.Writer, a Analysis) {
	interestMetric := fmt.Sprintf(`
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Total Interest</div>
                </div>`, FormatMoney(a.Summary.TotalInterest))
	if a.Summary.Strategy != engine.FinancedPurchase {
		interestMetric = fmt.Sprintf(`
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Final Invested</div>
                </div>`, FormatMoney(a.Summary.FinalInvested))
	}

	fmt.Fprintf(f, `
        <div class="card">
            <h2>Summary</h2>
            <div class="grid grid-4">
                <div class="metric success">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Final Net Worth</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Real Net Worth</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Final Home Equity</div>
                </div>%s
            </div>
        </div>
`, FormatMoney(a.Summary.FinalNetWorthNominal), FormatMoney(a.Summary.FinalNetWorthReal),
		FormatMoney(a.Summary.FinalHomeEquity), interestMetric)
}

func writeAssumptionsCard(f io.Writer, a Analysis) {
	sc := a.Scenario
	costs := a.Summary.FirstYearCosts

	fmt.Fprintf(f, `
        <div class="card">
            <h2>Configuration</h2>
            <div class="grid grid-2">
                <div>
                    <h3>Purchase</h3>
                    <table>
                        <tr><td>Home Price</td><td>%s</td></tr>
                        <tr><td>Down Payment</td><td>%s (%.0f%%)</td></tr>
                        <tr><td>Loan Amount</td><td>%s</td></tr>
                        <tr><td>Rate / Term</td><td>%.2f%% / %d years</td></tr>
                        <tr><td>Horizon</td><td>%d years</td></tr>
                    </table>
                </div>
                <div>
                    <h3>Rates</h3>
                    <table>
                        <tr><td>Stock Return</td><td>%.1f%%</td></tr>
                        <tr><td>Inflation</td><td>%.1f%%</td></tr>
                        <tr><td>Appreciation</td><td>%.1f%%</td></tr>
                        <tr><td>Property Tax</td><td>%.2f%%</td></tr>
                        <tr><td>Tax Bracket</td><td>%.1f%%</td></tr>
                    </table>
                </div>
            </div>
`, FormatMoney(sc.HomePrice), FormatMoney(sc.DownPayment), sc.DownPaymentFraction()*100,
		FormatMoney(sc.LoanAmount), sc.InterestRate*100, sc.TermYears, a.HorizonYears,
		sc.StockReturnRate*100, sc.InflationRate*100, sc.AppreciationRate*100,
		sc.PropertyTaxRate*100, sc.TaxBracket*100)

	fmt.Fprintf(f, `            <h3 style="margin-top: 1rem;">First-Year Monthly Costs</h3>
            <table>
                <tr><th>P&amp;I</th><th>Property Tax</th><th>Insurance</th><th>PMI</th><th>Maintenance</th><th>Total</th></tr>
                <tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><strong>%s</strong></td></tr>
            </table>
        </div>
`, FormatMoneyFull(costs.PrincipalAndInterest), FormatMoneyFull(costs.PropertyTax),
		FormatMoneyFull(costs.Insurance), FormatMoneyFull(costs.PMI),
		FormatMoneyFull(costs.Maintenance), FormatMoneyFull(costs.Total))
}

func writeTrajectoryCard(f io.Writer, a Analysis) {
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Year-by-Year Projection</h2>
            <div style="overflow-x: auto;">
                <table>
                    <tr>
                        <th>Year</th>
                        <th>Home Value</th>
                        <th>Equity</th>
                        <th>Loan Balance</th>
                        <th>Cum Interest</th>
                        <th>Tax Savings</th>
                        <th>Invested</th>
                        <th>Net Worth</th>
                        <th>Real</th>
                    </tr>
`)

	milestone := payoffYear(a.Years)
	for _, yr := range a.Years {
		highlightClass := ""
		if yr.Year == milestone {
			highlightClass = ` class="highlight"`
		}
		fmt.Fprintf(f, "                    <tr%s><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td><strong>%s</strong></td><td>%s</td></tr>\n",
			highlightClass, yr.Year,
			FormatMoney(yr.HomeValue), FormatMoney(yr.HomeEquity), FormatMoney(yr.LoanBalance),
			FormatMoney(yr.CumulativeInterest), FormatMoney(yr.TaxSavings), FormatMoney(yr.InvestedBalance),
			FormatMoney(yr.NetWorthNominal), FormatMoney(yr.NetWorthReal))
	}

	fmt.Fprintf(f, `                </table>
            </div>
`)
	if milestone > 0 {
		fmt.Fprintf(f, `            <p style="margin-top: 0.5rem; color: var(--text-muted);">Highlighted row: loan paid off in year %d.</p>
`, milestone)
	}
	fmt.Fprintf(f, `        </div>
`)
}

func writeRentVsBuyCard(f io.Writer, a Analysis) {
	res := a.RentVsBuy

	beClass := "success"
	beText := fmt.Sprintf("Year %d", res.BreakEven.Year)
	if !res.BreakEven.WithinHorizon {
		beClass = "danger"
		beText = "Not reached"
	}
	advClass := func(v float64) string {
		if v < 0 {
			return "danger"
		}
		return "success"
	}

	fmt.Fprintf(f, `
        <div class="card">
            <h2>Rent vs Buy</h2>
            <div class="grid grid-4">
                <div class="metric %s">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Break-Even</div>
                </div>
                <div class="metric %s">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Buy Advantage, Year 10</div>
                </div>
                <div class="metric %s">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Buy Advantage, Year 30</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Renter Starts With</div>
                </div>
            </div>
`, beClass, beText,
		advClass(res.BreakEven.AdvantageAtYear10), FormatMoney(res.BreakEven.AdvantageAtYear10),
		advClass(res.BreakEven.AdvantageAtYear30), FormatMoney(res.BreakEven.AdvantageAtYear30),
		FormatMoney(res.UpfrontInvested))

	if len(res.BreakEven.Insights) > 0 {
		fmt.Fprintf(f, `            <h3 style="margin-top: 1rem;">Insights</h3>
            <ul style="margin-left: 1.5rem;">
`)
		for _, insight := range res.BreakEven.Insights {
			fmt.Fprintf(f, "                <li>%s</li>\n", insight)
		}
		fmt.Fprintf(f, `            </ul>
`)
	}

	fmt.Fprintf(f, `            <h3 style="margin-top: 1rem;">Trajectories</h3>
            <div style="overflow-x: auto;">
                <table>
                    <tr><th>Year</th><th>Buy Net Worth</th><th>Rent Net Worth</th><th>Difference</th></tr>
`)
	for i := range res.BuyNetWorth {
		year := i + 1
		highlightClass := ""
		if year == res.BreakEven.Year {
			highlightClass = ` class="highlight"`
		}
		diff := res.BreakEven.Difference[i]
		diffClass := "positive"
		if diff < 0 {
			diffClass = "negative"
		}
		fmt.Fprintf(f, "                    <tr%s><td>%d</td><td>%s</td><td>%s</td><td class=\"%s\">%s</td></tr>\n",
			highlightClass, year, FormatMoney(res.BuyNetWorth[i]), FormatMoney(res.RentNetWorth[i]),
			diffClass, FormatMoney(diff))
	}
	fmt.Fprintf(f, `                </table>
            </div>
        </div>
`)
}

func writeAffordabilityCard(f io.Writer, rep *engine.AffordabilityReport) {
	badge := func(c engine.DTIClass) string {
		switch c {
		case engine.DTISafe:
			return "badge-success"
		case engine.DTICaution:
			return "badge-warning"
		default:
			return "badge-danger"
		}
	}

	pmiText := "Not required"
	if rep.PMIRequired {
		pmiText = fmt.Sprintf("%s/year until 20%% equity", FormatMoneyFull(rep.PMIAnnualCost))
	}
	gapText := "Covered"
	if rep.EmergencyFundGap > 0 {
		gapText = fmt.Sprintf("%s short", FormatMoney(rep.EmergencyFundGap))
	}

	fmt.Fprintf(f, `
        <div class="card">
            <h2>Affordability</h2>
            <table>
                <tr><td>Housing Ratio</td><td>%.1f%% <span class="badge %s">%s</span></td></tr>
                <tr><td>Total Debt Ratio</td><td>%.1f%% <span class="badge %s">%s</span></td></tr>
                <tr><td>PMI</td><td>%s</td></tr>
                <tr><td>Emergency Fund (%d months)</td><td>%s, %s</td></tr>
                <tr><td>Conservative Price</td><td>%s</td></tr>
                <tr><td>Aggressive Price</td><td>%s</td></tr>
            </table>
`, rep.HousingRatio*100, badge(rep.HousingClass), rep.HousingClass,
		rep.TotalDebtRatio*100, badge(rep.TotalClass), rep.TotalClass,
		pmiText,
		rep.RecommendedFundMonths, FormatMoney(rep.RecommendedFund), gapText,
		FormatMoney(rep.ConservativePrice), FormatMoney(rep.AggressivePrice))

	if len(rep.Warnings) > 0 {
		fmt.Fprintf(f, `            <h3 style="margin-top: 1rem; color: var(--warning);">Warnings</h3>
            <ul style="margin-left: 1.5rem;">
`)
		for _, warn := range rep.Warnings {
			fmt.Fprintf(f, "                <li>%s</li>\n", warn.Message)
		}
		fmt.Fprintf(f, `            </ul>
`)
	}
	fmt.Fprintf(f, `        </div>
`)
}
