package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// pdfReport builds the analysis document page by page
type pdfReport struct {
	pdf *fpdf.Fpdf
	a   Analysis
}

// GenerateAnalysisPDF renders the full analysis document: title page,
// scenario overview, year-by-year projection and, when present, the rent
// comparison and affordability sections.
func GenerateAnalysisPDF(a Analysis) ([]byte, error) {
	r := &pdfReport{
		pdf: fpdf.New("P", "mm", "A4", ""),
		a:   a,
	}

	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)

	r.addTitlePage()
	r.addOverview()
	r.addTrajectory()
	if a.RentVsBuy != nil {
		r.addRentVsBuy()
	}
	if a.Affordability != nil {
		r.addAffordability()
	}
	r.addFooter()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) addTitlePage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(50)
	r.pdf.CellFormat(contentWidth, 15, "Mortgage Analysis Report", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(10)
	r.pdf.CellFormat(contentWidth, 10, ScenarioLabel(r.a.Scenario), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(15)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", r.a.generatedAt().Format("2 January 2006")), "", 1, "C", false, 0, "")

	// Assumptions box
	r.pdf.Ln(20)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Purchase Assumptions", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)

	sc := r.a.Scenario
	firstLine := fmt.Sprintf("Home Price %s paid in cash", FormatMoney(sc.HomePrice))
	if !sc.IsCashPurchase() {
		firstLine = fmt.Sprintf("Home Price %s  |  Down Payment %s (%.0f%%)  |  %.2f%% over %d years",
			FormatMoney(sc.HomePrice), FormatMoney(sc.DownPayment),
			sc.DownPaymentFraction()*100, sc.InterestRate*100, sc.TermYears)
	}
	lines := []string{
		firstLine,
		fmt.Sprintf("Stock Return %.1f%%  |  Inflation %.1f%%  |  Appreciation %.1f%%",
			sc.StockReturnRate*100, sc.InflationRate*100, sc.AppreciationRate*100),
		fmt.Sprintf("Property Tax %.2f%%  |  Tax Bracket %.1f%%", sc.PropertyTaxRate*100, sc.TaxBracket*100),
	}
	for i, line := range lines {
		border := "LR"
		if i == len(lines)-1 {
			border = "LRB"
		}
		r.pdf.CellFormat(contentWidth, 7, line, border, 1, "C", true, 0, "")
	}

	// Projection box
	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Projection", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(contentWidth, 7, fmt.Sprintf("Horizon: %d years", r.a.HorizonYears), "LR", 1, "C", true, 0, "")
	r.pdf.CellFormat(contentWidth, 7, fmt.Sprintf("Final Net Worth: %s nominal, %s real",
		FormatMoney(r.a.Summary.FinalNetWorthNominal), FormatMoney(r.a.Summary.FinalNetWorthReal)),
		"LRB", 1, "C", true, 0, "")

	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is for informational purposes only and does not constitute financial advice. "+
			"Please consult a qualified financial advisor before making any financial decisions. "+
			"Tax rules and market returns are subject to change.", "", "C", false)
}

func (r *pdfReport) addOverview() {
	r.pdf.AddPage()
	r.drawSectionHeader("Scenario Overview")

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Monthly Costs (First Year)", "", 1, "L", false, 0, "")

	widths := []float64{100, 80}
	r.drawTableHeader([]string{"Component", "Amount"}, widths)

	costs := r.a.Summary.FirstYearCosts
	if costs.PrincipalAndInterest > 0 {
		r.drawTableRow([]string{"Principal & Interest", FormatMoneyFull(costs.PrincipalAndInterest)}, widths, false)
	}
	r.drawTableRow([]string{"Property Tax", FormatMoneyFull(costs.PropertyTax)}, widths, false)
	r.drawTableRow([]string{"Insurance", FormatMoneyFull(costs.Insurance)}, widths, false)
	if costs.PMI > 0 {
		r.drawTableRow([]string{"PMI", FormatMoneyFull(costs.PMI)}, widths, false)
	}
	r.drawTableRow([]string{"Maintenance", FormatMoneyFull(costs.Maintenance)}, widths, false)
	r.drawTableRow([]string{"TOTAL", FormatMoneyFull(costs.Total)}, widths, true)

	r.pdf.Ln(8)

	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, "Projected Results", "", 1, "L", false, 0, "")

	results := [][]string{}
	if r.a.Summary.Strategy == engine.FinancedPurchase {
		results = append(results,
			[]string{"Monthly P&I:", FormatMoneyFull(r.a.Summary.MonthlyPayment)},
			[]string{"Total Interest:", FormatMoney(r.a.Summary.TotalInterest)})
	}
	results = append(results,
		[]string{"Final Home Equity:", FormatMoney(r.a.Summary.FinalHomeEquity)},
		[]string{"Final Invested:", FormatMoney(r.a.Summary.FinalInvested)},
		[]string{"Final Net Worth (nominal):", FormatMoney(r.a.Summary.FinalNetWorthNominal)},
		[]string{"Final Net Worth (real):", FormatMoney(r.a.Summary.FinalNetWorthReal)})

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for _, row := range results {
		r.pdf.CellFormat(60, 5, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(60, 5, row[1], "", 1, "L", false, 0, "")
	}
}

func (r *pdfReport) addTrajectory() {
	r.pdf.AddPage()
	r.drawSectionHeader("Year-by-Year Projection")

	widths := []float64{15, 28, 28, 27, 27, 28, 27}
	headers := []string{"Year", "Home Value", "Equity", "Loan", "Invested", "Net Worth", "Real"}

	r.drawTableHeader(headers, widths)

	milestone := payoffYear(r.a.Years)
	for _, yr := range r.a.Years {
		if r.pdf.GetY() > 265 {
			r.pdf.AddPage()
			r.drawTableHeader(headers, widths)
		}

		bold := yr.Year == milestone
		r.drawTableRow([]string{
			fmt.Sprintf("%d", yr.Year),
			FormatMoney(yr.HomeValue),
			FormatMoney(yr.HomeEquity),
			FormatMoney(yr.LoanBalance),
			FormatMoney(yr.InvestedBalance),
			FormatMoney(yr.NetWorthNominal),
			FormatMoney(yr.NetWorthReal),
		}, widths, bold)
	}

	if milestone > 0 {
		r.pdf.Ln(3)
		r.pdf.SetFont("Arial", "I", 8)
		r.pdf.SetTextColor(100, 100, 100)
		r.pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Bold row: loan paid off in year %d", milestone), "", 1, "L", false, 0, "")
	}
}

func (r *pdfReport) addRentVsBuy() {
	res := r.a.RentVsBuy

	r.pdf.AddPage()
	r.drawSectionHeader("Rent vs Buy")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)

	beText := fmt.Sprintf("Not reached within %d years; renting stays ahead", r.a.HorizonYears)
	if res.BreakEven.WithinHorizon {
		beText = fmt.Sprintf("Year %d of %d", res.BreakEven.Year, r.a.HorizonYears)
	}
	rows := [][]string{
		{"Break-even:", beText},
		{"Buy advantage at year 10:", FormatMoney(res.BreakEven.AdvantageAtYear10)},
		{"Buy advantage at year 30:", FormatMoney(res.BreakEven.AdvantageAtYear30)},
		{"First-year buy costs:", fmt.Sprintf("%s/month", FormatMoneyFull(res.FirstYearBuyCosts.Total))},
		{"First month rent:", FormatMoneyFull(res.FirstMonthRent)},
		{"Renter starts with:", fmt.Sprintf("%s invested", FormatMoney(res.UpfrontInvested))},
		{"Selling costs at horizon:", FormatMoney(res.SellingCosts)},
	}
	for _, row := range rows {
		r.pdf.CellFormat(60, 5, row[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(100, 5, row[1], "", 1, "L", false, 0, "")
	}

	if len(res.BreakEven.Insights) > 0 {
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(0, 51, 102)
		r.pdf.CellFormat(contentWidth, 6, "Insights", "", 1, "L", false, 0, "")

		r.pdf.SetFont("Arial", "", 9)
		r.pdf.SetTextColor(50, 50, 50)
		for _, insight := range res.BreakEven.Insights {
			r.pdf.CellFormat(contentWidth, 5, fmt.Sprintf("- %s", insight), "", 1, "L", false, 0, "")
		}
	}

	r.pdf.Ln(4)
	widths := []float64{20, 55, 55, 50}
	headers := []string{"Year", "Buy Net Worth", "Rent Net Worth", "Difference"}
	r.drawTableHeader(headers, widths)

	for i := range res.BuyNetWorth {
		if r.pdf.GetY() > 265 {
			r.pdf.AddPage()
			r.drawTableHeader(headers, widths)
		}
		year := i + 1
		r.drawTableRow([]string{
			fmt.Sprintf("%d", year),
			FormatMoney(res.BuyNetWorth[i]),
			FormatMoney(res.RentNetWorth[i]),
			FormatMoney(res.BreakEven.Difference[i]),
		}, widths, year == res.BreakEven.Year)
	}
}

func (r *pdfReport) addAffordability() {
	rep := r.a.Affordability

	r.pdf.AddPage()
	r.drawSectionHeader("Affordability")

	widths := []float64{100, 80}
	r.drawTableHeader([]string{"Signal", "Value"}, widths)
	r.drawTableRow([]string{"Housing Ratio", fmt.Sprintf("%.1f%% (%s)", rep.HousingRatio*100, rep.HousingClass)}, widths, false)
	r.drawTableRow([]string{"Total Debt Ratio", fmt.Sprintf("%.1f%% (%s)", rep.TotalDebtRatio*100, rep.TotalClass)}, widths, false)
	pmiText := "Not required"
	if rep.PMIRequired {
		pmiText = fmt.Sprintf("%s/year until 20%% equity", FormatMoneyFull(rep.PMIAnnualCost))
	}
	r.drawTableRow([]string{"PMI", pmiText}, widths, false)
	r.drawTableRow([]string{fmt.Sprintf("Emergency Fund (%d months)", rep.RecommendedFundMonths), FormatMoney(rep.RecommendedFund)}, widths, false)
	gapText := "Covered"
	if rep.EmergencyFundGap > 0 {
		gapText = fmt.Sprintf("%s short", FormatMoney(rep.EmergencyFundGap))
	}
	r.drawTableRow([]string{"Emergency Fund Gap", gapText}, widths, false)
	r.drawTableRow([]string{"Conservative Price (25%)", FormatMoney(rep.ConservativePrice)}, widths, false)
	r.drawTableRow([]string{"Aggressive Price (30%)", FormatMoney(rep.AggressivePrice)}, widths, true)

	if len(rep.Warnings) > 0 {
		r.pdf.Ln(6)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetTextColor(180, 0, 0)
		r.pdf.CellFormat(contentWidth, 6, "Warnings", "", 1, "L", false, 0, "")

		r.pdf.SetFont("Arial", "", 9)
		r.pdf.SetTextColor(200, 100, 0)
		for _, warn := range rep.Warnings {
			r.pdf.CellFormat(contentWidth, 5, fmt.Sprintf("- %s", warn.Message), "", 1, "L", false, 0, "")
		}
		r.pdf.SetTextColor(50, 50, 50)
	}
}

func (r *pdfReport) addFooter() {
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.MultiCell(contentWidth, 4,
		"This report was generated by Know Your Mortgage. "+
			"Projections are based on the assumptions provided and actual results may vary. "+
			"This is not financial advice.", "", "C", false)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
