package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakeinlake/know-your-mortgage/pkg/config"
	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
	"github.com/lakeinlake/know-your-mortgage/pkg/marketdata"
	"github.com/lakeinlake/know-your-mortgage/pkg/report"
	"github.com/lakeinlake/know-your-mortgage/pkg/server"
	"github.com/lakeinlake/know-your-mortgage/pkg/store"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "knowyourmortgage",
		Short: "Compare home-financing strategies by long-horizon net worth",
		Long: `Projects household wealth over decades under alternative home-financing
strategies: a financed purchase, a cash purchase, and renting while
investing the difference.

Configuration resolves from the first available source: the --config
flag, the KNOWYOURMORTGAGE_CONFIG environment variable, a
knowyourmortgage.yaml in the working directory, then the embedded
defaults. Every analysis records to the history database named by
storage.path; inspect past runs with "knowyourmortgage history".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"path to a YAML configuration file")

	rootCmd.AddCommand(
		analyzeCmd(),
		compareCmd(),
		rentVsBuyCmd(),
		affordCmd(),
		powerCmd(),
		sensitivityCmd(),
		exportCmd(),
		historyCmd(),
		serveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func resolveConfig() (*config.Config, error) {
	cfg, _, err := config.Resolve(cfgPath)
	return cfg, err
}

// configSnapshot copies the configuration for the run log with the
// census key stripped.
func configSnapshot(cfg *config.Config) config.Config {
	snap := *cfg
	snap.Census.APIKey = ""
	return snap
}

// recordRun logs the analysis to the history database. A storage
// problem warns and moves on; the console output already happened.
func recordRun(ctx context.Context, cfg *config.Config, kind, label string, request, summary any) {
	h, err := store.OpenHistory(cfg.Storage.GetPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
		return
	}
	defer h.Close()

	reqJSON, err := json.Marshal(request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
		return
	}
	sumJSON, err := json.Marshal(summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
		return
	}
	if _, err := h.Save(ctx, store.Run{Kind: kind, Label: label, Request: reqJSON, Summary: sumJSON}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Project yearly net worth for the configured purchase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			sc, err := cfg.MortgageScenario()
			if err != nil {
				return err
			}

			eng := engine.NewEngine(cfg.CostModel())
			horizon := cfg.Scenario.GetHorizonYears()
			sum := eng.Summarize(sc, horizon)
			years := eng.AnalyzeScenario(sc, horizon)

			report.PrintConfiguration(os.Stdout, sc, eng.Costs())
			report.PrintScenarioSummary(os.Stdout, sum, years, sc)

			recordRun(cmd.Context(), cfg, "analyze", report.ScenarioLabel(sc), configSnapshot(cfg), sum)
			return nil
		},
	}
}

func compareCmd() *cobra.Command {
	var noRent bool
	var csvPath string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank financing strategies for the configured purchase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			sc, err := cfg.MortgageScenario()
			if err != nil {
				return err
			}

			var rent *engine.RentScenario
			if !noRent && cfg.Rent.MonthlyRent > 0 {
				rsc, err := cfg.RentScenario()
				if err != nil {
					return err
				}
				rent = &rsc
			}

			eng := engine.NewEngine(cfg.CostModel())
			outcomes, err := eng.CompareStrategies(sc, rent, cfg.Scenario.GetHorizonYears())
			if err != nil {
				return err
			}

			report.PrintComparison(os.Stdout, outcomes)
			if csvPath != "" {
				if err := writeReportFile(csvPath, func(w io.Writer) error {
					return report.WriteComparisonCSV(w, outcomes)
				}); err != nil {
					return err
				}
			}

			recordRun(cmd.Context(), cfg, "compare", report.ScenarioLabel(sc), configSnapshot(cfg), outcomes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noRent, "no-rent", false, "exclude the rent-and-invest strategy")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the comparison table to a CSV file")
	return cmd
}

func rentVsBuyCmd() *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "rentvsbuy",
		Short: "Find the break-even year of buying against renting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if cfg.Rent.MonthlyRent <= 0 {
				return fmt.Errorf("rent is not configured; set rent.monthly_rent")
			}
			sc, err := cfg.MortgageScenario()
			if err != nil {
				return err
			}
			rsc, err := cfg.RentScenario()
			if err != nil {
				return err
			}

			eng := engine.NewEngine(cfg.CostModel())
			res := eng.CompareRentVsBuy(sc, rsc)

			report.PrintRentVsBuy(os.Stdout, res, cfg.Scenario.GetHorizonYears())
			if csvPath != "" {
				if err := writeReportFile(csvPath, func(w io.Writer) error {
					return report.WriteRentVsBuyCSV(w, res)
				}); err != nil {
					return err
				}
			}

			recordRun(cmd.Context(), cfg, "rentvsbuy", report.ScenarioLabel(sc), configSnapshot(cfg), res.BreakEven)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the year-by-year difference to a CSV file")
	return cmd
}

func affordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "afford",
		Short: "Check the purchase against income, debt and reserves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if cfg.Profile.AnnualIncome <= 0 {
				return fmt.Errorf("profile is not configured; set profile.annual_income")
			}
			sc, err := cfg.MortgageScenario()
			if err != nil {
				return err
			}
			profile, err := cfg.FinancialProfile()
			if err != nil {
				return err
			}

			eng := engine.NewEngine(cfg.CostModel())
			rep := eng.AssessAffordability(sc, profile)

			report.PrintAffordability(os.Stdout, rep, profile)

			recordRun(cmd.Context(), cfg, "affordability", report.ScenarioLabel(sc), configSnapshot(cfg), rep)
			return nil
		},
	}
}

func powerCmd() *cobra.Command {
	var monthlyRent, rate, down float64
	var terms []int
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Convert a monthly rent into equivalent purchase power",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if monthlyRent == 0 {
				monthlyRent = cfg.Rent.MonthlyRent
			}
			if rate == 0 {
				rate = cfg.Scenario.InterestRate
			}

			powers, err := engine.RentToPurchasePower(monthlyRent, rate, down, terms...)
			if err != nil {
				return err
			}

			report.PrintPurchasePower(os.Stdout, powers, monthlyRent)

			request := struct {
				MonthlyRent         float64 `json:"monthly_rent"`
				InterestRate        float64 `json:"interest_rate"`
				DownPaymentFraction float64 `json:"down_payment_fraction"`
				TermYears           []int   `json:"term_years,omitempty"`
			}{monthlyRent, rate, down, terms}
			label := fmt.Sprintf("%s/month at %.2f%%", report.FormatMoneyFull(monthlyRent), rate*100)
			recordRun(cmd.Context(), cfg, "purchase-power", label, request, powers)
			return nil
		},
	}
	cmd.Flags().Float64Var(&monthlyRent, "rent", 0, "monthly rent to convert (default: rent.monthly_rent)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual interest rate as a decimal (default: scenario.interest_rate)")
	cmd.Flags().Float64Var(&down, "down", 0.20, "down payment fraction of the price")
	cmd.Flags().IntSliceVar(&terms, "terms", nil, "loan terms in years (default 15,30)")
	return cmd
}

func sensitivityCmd() *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep rent-vs-buy across market assumptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if cfg.Rent.MonthlyRent <= 0 {
				return fmt.Errorf("rent is not configured; set rent.monthly_rent")
			}
			sc, err := cfg.MortgageScenario()
			if err != nil {
				return err
			}
			rsc, err := cfg.RentScenario()
			if err != nil {
				return err
			}

			fmt.Printf("Running sensitivity analysis (stock %.0f%%-%.0f%%, appreciation %.0f%%-%.0f%%, step %.1f%%)...\n\n",
				cfg.Sensitivity.StockReturnMin*100, cfg.Sensitivity.StockReturnMax*100,
				cfg.Sensitivity.AppreciationMin*100, cfg.Sensitivity.AppreciationMax*100,
				cfg.Sensitivity.GetStepSize()*100)

			eng := engine.NewEngine(cfg.CostModel())
			grid, err := eng.RunSensitivity(sc, rsc, cfg.StockReturnRange(), cfg.AppreciationRange())
			if err != nil {
				return err
			}

			report.PrintSensitivity(os.Stdout, grid)
			if csvPath != "" {
				if err := writeReportFile(csvPath, func(w io.Writer) error {
					return report.WriteSensitivityCSV(w, grid)
				}); err != nil {
					return err
				}
			}

			summary := struct {
				HorizonYears      int       `json:"horizon_years"`
				BuyWinShare       float64   `json:"buy_win_share"`
				StockReturnRates  []float64 `json:"stock_return_rates"`
				AppreciationRates []float64 `json:"appreciation_rates"`
			}{grid.HorizonYears, grid.BuyWinShare(), grid.StockReturnRates, grid.AppreciationRates}
			recordRun(cmd.Context(), cfg, "sensitivity", report.ScenarioLabel(sc), configSnapshot(cfg), summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the sweep grid to a CSV file")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export pdf|html|csv|schedule",
		Short: "Write the full analysis to a report file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			a, err := buildAnalysis(cfg)
			if err != nil {
				return err
			}

			stamp := time.Now().Format("2006-01-02-150405")
			switch strings.ToLower(args[0]) {
			case "pdf":
				if out == "" {
					out = fmt.Sprintf("mortgage-analysis-%s.pdf", stamp)
				}
				data, err := report.GenerateAnalysisPDF(a)
				if err != nil {
					return fmt.Errorf("generating PDF: %w", err)
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
			case "html":
				if out == "" {
					out = fmt.Sprintf("mortgage-analysis-%s.html", stamp)
				}
				if err := writeReportFile(out, func(w io.Writer) error {
					return report.GenerateAnalysisHTML(w, a)
				}); err != nil {
					return err
				}
				return nil
			case "csv":
				if out == "" {
					out = fmt.Sprintf("mortgage-trajectory-%s.csv", stamp)
				}
				if err := writeReportFile(out, func(w io.Writer) error {
					return report.WriteYearlyCSV(w, a.Years)
				}); err != nil {
					return err
				}
				return nil
			case "schedule":
				if a.Scenario.IsCashPurchase() {
					return fmt.Errorf("a cash purchase has no amortization schedule")
				}
				rows, err := engine.Schedule(a.Scenario.LoanAmount, a.Scenario.InterestRate, a.Scenario.TermYears)
				if err != nil {
					return err
				}
				if out == "" {
					out = fmt.Sprintf("mortgage-schedule-%s.csv", stamp)
				}
				if err := writeReportFile(out, func(w io.Writer) error {
					return report.WriteScheduleCSV(w, rows)
				}); err != nil {
					return err
				}
				return nil
			default:
				return fmt.Errorf("unknown export format %q (want pdf, html, csv or schedule)", args[0])
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: timestamped name in the working directory)")
	return cmd
}

// buildAnalysis assembles the full report bundle. The rent and
// affordability sections render only when their inputs are configured.
func buildAnalysis(cfg *config.Config) (report.Analysis, error) {
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

func writeReportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func historyCmd() *cobra.Command {
	var limit int
	var clear bool
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List or inspect recorded analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			h, err := store.OpenHistory(cfg.Storage.GetPath())
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer h.Close()
			ctx := cmd.Context()

			if clear {
				n, err := h.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Cleared %d recorded runs\n", n)
				return nil
			}

			if len(args) == 1 {
				run, err := h.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return printRun(run)
			}

			runs, err := h.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs yet. Analyses record here automatically.")
				return nil
			}
			fmt.Printf("%-36s  %-16s  %-14s  %s\n", "ID", "CREATED", "KIND", "LABEL")
			for _, r := range runs {
				fmt.Printf("%-36s  %-16s  %-14s  %s\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.Label)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to list (default 20)")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete all recorded runs")
	return cmd
}

func printRun(run store.Run) error {
	fmt.Printf("ID:      %s\n", run.ID)
	fmt.Printf("Kind:    %s\n", run.Kind)
	fmt.Printf("Label:   %s\n", run.Label)
	fmt.Printf("Created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println()
	fmt.Println("Request:")
	if err := printJSON(run.Request); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Summary:")
	return printJSON(run.Summary)
}

func printJSON(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	fmt.Println(buf.String())
	return nil
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil {
				fmt.Printf("Error loading .env file: %v\n", err)
			}

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

			cfg, source, err := config.Resolve(cfgPath)
			if err != nil {
				return err
			}
			logger.Info().Str("source", source).Msg("configuration loaded")

			history, err := store.OpenHistory(cfg.Storage.GetPath())
			if err != nil {
				return fmt.Errorf("opening history store: %w", err)
			}
			defer history.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			api := server.NewWebAPI(logger, server.Config{
				Addr:            cfg.Server.GetAddr(),
				ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
				Dependencies: server.Dependencies{
					Defaults: cfg,
					History:  history,
					Census:   marketdata.NewCensusClient(cfg.CensusClientConfig()),
				},
			})
			return api.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
