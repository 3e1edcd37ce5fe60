package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lakeinlake/know-your-mortgage/pkg/config"
	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
	"github.com/lakeinlake/know-your-mortgage/pkg/marketdata"
	"github.com/lakeinlake/know-your-mortgage/pkg/report"
	"github.com/lakeinlake/know-your-mortgage/pkg/store"
	"github.com/lakeinlake/know-your-mortgage/pkg/taxdata"
)

// Handler serves the analysis API. Request sections override the loaded
// defaults; every run is recorded to history when a store is attached.
type Handler struct {
	defaults *config.Config
	history  *store.History
	census   *marketdata.CensusClient
}

// NewHandler wires the handler's dependencies. A nil census client gets
// a keyless default that always answers from the bundled samples.
func NewHandler(defaults *config.Config, history *store.History, census *marketdata.CensusClient) *Handler {
	if census == nil {
		census = marketdata.NewCensusClient(marketdata.CensusConfig{})
	}
	return &Handler{
		defaults: defaults,
		history:  history,
		census:   census,
	}
}

// buildConfig merges the request over the server defaults. A section at
// its zero value inherits the configured one wholesale; a populated
// section replaces it.
func (h *Handler) buildConfig(req *AnalysisRequest) *config.Config {
	var cfg config.Config
	if h.defaults != nil {
		cfg = *h.defaults
	}
	if req.Scenario.HomePrice > 0 {
		cfg.Scenario = req.Scenario
	}
	if req.Economic != (config.EconomicConfig{}) {
		cfg.Economic = req.Economic
	}
	if req.Location.State != "" || req.Location.PropertyTaxRate > 0 {
		cfg.Location = req.Location
	}
	if req.Costs != (config.CostConfig{}) {
		cfg.Costs = req.Costs
	}
	if req.Rent.MonthlyRent > 0 {
		cfg.Rent = req.Rent
	}
	if req.Profile.AnnualIncome > 0 {
		cfg.Profile = req.Profile
	}
	return &cfg
}

// record logs the run to history. A storage failure never fails the
// analysis that produced it.
func (h *Handler) record(ctx context.Context, kind, label string, req, summary any) {
	if h.history == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	reqJSON, err := json.Marshal(req)
	if err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("failed to marshal run request")
		return
	}
	sumJSON, err := json.Marshal(summary)
	if err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("failed to marshal run summary")
		return
	}
	if _, err := h.history.Save(ctx, store.Run{
		Kind:    kind,
		Label:   label,
		Request: reqJSON,
		Summary: sumJSON,
	}); err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("failed to record run")
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, v any) {
	logger := zerolog.Ctx(r.Context())
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps validation failures to 400 and the rest to 500
func statusFor(err error) int {
	if errors.Is(err, engine.ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := h.buildConfig(&req)
	sc, err := cfg.MortgageScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	eng := engine.NewEngine(cfg.CostModel())
	horizon := cfg.Scenario.GetHorizonYears()
	sum := eng.Summarize(sc, horizon)

	resp := AnalyzeResponse{
		Label:    report.ScenarioLabel(sc),
		Strategy: sum.Strategy.String(),
		Summary:  sum,
		Years:    eng.AnalyzeScenario(sc, horizon),
	}
	h.record(r.Context(), "analyze", resp.Label, req, sum)
	respondJSON(w, r, resp)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := h.buildConfig(&req)
	sc, err := cfg.MortgageScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var rent *engine.RentScenario
	if cfg.Rent.MonthlyRent > 0 {
		rsc, err := cfg.RentScenario()
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		rent = &rsc
	}

	eng := engine.NewEngine(cfg.CostModel())
	outcomes, err := eng.CompareStrategies(sc, rent, cfg.Scenario.GetHorizonYears())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	resp := CompareResponse{
		Outcomes:    outcomes,
		Recommended: outcomes[0].Label,
	}
	h.record(r.Context(), "compare", report.ScenarioLabel(sc), req, outcomes)
	respondJSON(w, r, resp)
}

func (h *Handler) RentVsBuy(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := h.buildConfig(&req)
	if cfg.Rent.MonthlyRent <= 0 {
		http.Error(w, "rent section is required", http.StatusBadRequest)
		return
	}
	sc, err := cfg.MortgageScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	rsc, err := cfg.RentScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	eng := engine.NewEngine(cfg.CostModel())
	result := eng.CompareRentVsBuy(sc, rsc)

	resp := RentVsBuyResponse{
		Label:  report.ScenarioLabel(sc),
		Result: result,
	}
	h.record(r.Context(), "rentvsbuy", resp.Label, req, result.BreakEven)
	respondJSON(w, r, resp)
}

func (h *Handler) Affordability(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := h.buildConfig(&req)
	if cfg.Profile.AnnualIncome <= 0 {
		http.Error(w, "profile section is required", http.StatusBadRequest)
		return
	}
	sc, err := cfg.MortgageScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	profile, err := cfg.FinancialProfile()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	eng := engine.NewEngine(cfg.CostModel())
	rep := eng.AssessAffordability(sc, profile)

	resp := AffordabilityResponse{
		AffordabilityReport: rep,
		HousingClassLabel:   rep.HousingClass.String(),
		TotalClassLabel:     rep.TotalClass.String(),
		Employment:          profile.Stability.String(),
	}
	h.record(r.Context(), "affordability", report.ScenarioLabel(sc), req, rep)
	respondJSON(w, r, resp)
}

func (h *Handler) PurchasePower(w http.ResponseWriter, r *http.Request) {
	var req PurchasePowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	monthlyRent := req.MonthlyRent
	rate := req.InterestRate
	if h.defaults != nil {
		if monthlyRent == 0 {
			monthlyRent = h.defaults.Rent.MonthlyRent
		}
		if rate == 0 {
			rate = h.defaults.Scenario.InterestRate
		}
	}

	powers, err := engine.RentToPurchasePower(monthlyRent, rate, req.DownPaymentFraction, req.TermYears...)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	resp := PurchasePowerResponse{
		MonthlyRent: monthlyRent,
		Powers:      powers,
	}
	label := fmt.Sprintf("%s/month at %.2f%%", report.FormatMoneyFull(monthlyRent), rate*100)
	h.record(r.Context(), "purchase-power", label, req, powers)
	respondJSON(w, r, resp)
}

type sensitivitySummary struct {
	HorizonYears      int       `json:"horizon_years"`
	BuyWinShare       float64   `json:"buy_win_share"`
	StockReturnRates  []float64 `json:"stock_return_rates"`
	AppreciationRates []float64 `json:"appreciation_rates"`
}

func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := h.buildConfig(&req.AnalysisRequest)
	if req.Sensitivity != (config.SensitivityConfig{}) {
		cfg.Sensitivity = req.Sensitivity
	}
	if cfg.Rent.MonthlyRent <= 0 {
		http.Error(w, "rent section is required", http.StatusBadRequest)
		return
	}
	sc, err := cfg.MortgageScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	rsc, err := cfg.RentScenario()
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	eng := engine.NewEngine(cfg.CostModel())
	grid, err := eng.RunSensitivity(sc, rsc, cfg.StockReturnRange(), cfg.AppreciationRange())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	resp := SensitivityResponse{
		Grid:        grid,
		BuyWinShare: grid.BuyWinShare(),
	}
	h.record(r.Context(), "sensitivity", report.ScenarioLabel(sc), req, sensitivitySummary{
		HorizonYears:      grid.HorizonYears,
		BuyWinShare:       resp.BuyWinShare,
		StockReturnRates:  grid.StockReturnRates,
		AppreciationRates: grid.AppreciationRates,
	})
	respondJSON(w, r, resp)
}

// buildAnalysis assembles the full report bundle for the export
// endpoints. Rent and affordability sections render only when their
// inputs are configured.
func (h *Handler) buildAnalysis(cfg *config.Config) (report.Analysis, error) {
	sc, err := cfg.MortgageScenario()
	if err != nil {
		return report.Analysis{}, err
	}

	eng := engine.NewEngine(cfg.CostModel())
	horizon := cfg.Scenario.GetHorizonYears()
	a := report.Analysis{
		Scenario:     sc,
		Costs:        eng.Costs(),
		Summary:      eng.Summarize(sc, horizon),
		Years:        eng.AnalyzeScenario(sc, horizon),
		HorizonYears: horizon,
	}

	if cfg.Rent.MonthlyRent > 0 {
		rsc, err := cfg.RentScenario()
		if err != nil {
			return report.Analysis{}, err
		}
		res := eng.CompareRentVsBuy(sc, rsc)
		a.RentVsBuy = &res
	}
	if cfg.Profile.AnnualIncome > 0 {
		profile, err := cfg.FinancialProfile()
		if err != nil {
			return report.Analysis{}, err
		}
		rep := eng.AssessAffordability(sc, profile)
		a.Affordability = &rep
	}
	return a, nil
}

func (h *Handler) decodeAnalysis(w http.ResponseWriter, r *http.Request) (report.Analysis, bool) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return report.Analysis{}, false
	}
	a, err := h.buildAnalysis(h.buildConfig(&req))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return report.Analysis{}, false
	}
	return a, true
}

func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	a, ok := h.decodeAnalysis(w, r)
	if !ok {
		return
	}

	data, err := report.GenerateAnalysisPDF(a)
	if err != nil {
		http.Error(w, "failed to generate PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("mortgage-analysis-%s.pdf", time.Now().Format("2006-01-02-150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *Handler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	a, ok := h.decodeAnalysis(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.GenerateAnalysisHTML(w, a); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write HTML report")
	}
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	a, ok := h.decodeAnalysis(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("mortgage-trajectory-%s.csv", time.Now().Format("2006-01-02-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.WriteYearlyCSV(w, a.Years); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write CSV export")
	}
}

func (h *Handler) TaxRates(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")
	filing := r.URL.Query().Get("filing")

	var income float64
	if s := r.URL.Query().Get("income"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			http.Error(w, "invalid 'income' query parameter", http.StatusBadRequest)
			return
		}
		income = v
	}

	respondJSON(w, r, taxRatesModel(taxdata.Resolve(state, filing), income))
}

func (h *Handler) Demographics(w http.ResponseWriter, r *http.Request) {
	var years []int
	if s := r.URL.Query().Get("years"); s != "" {
		for _, part := range strings.Split(s, ",") {
			y, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				http.Error(w, "invalid 'years' query parameter", http.StatusBadRequest)
				return
			}
			years = append(years, y)
		}
	}

	series, source := h.census.DemographicContext(r.Context(), nil, years)
	respondJSON(w, r, DemographicsResponse{Source: source, Series: series})
}

func (h *Handler) Indices(w http.ResponseWriter, r *http.Request) {
	indices := make([]IndexModel, 0, len(marketdata.MarketIndices))
	for _, idx := range marketdata.MarketIndices {
		indices = append(indices, indexModel(idx))
	}
	respondJSON(w, r, indices)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "history is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			http.Error(w, "invalid 'limit' query parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	runs, err := h.history.List(r.Context(), limit)
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	respondJSON(w, r, runs)
}

func (h *Handler) HistoryRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "history is not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := h.history.Get(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	respondJSON(w, r, run)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]string{"status": "ok"})
}
