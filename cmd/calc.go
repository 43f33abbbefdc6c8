package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/calc"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/config"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/progress"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/revenue"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

var (
	calcContract string
	calcOutput   string
)

var calcCmd = &cobra.Command{
	Use:   "calc [report file]",
	Short: "Run a contract's rules over a revenue report",
	Long: `Reads revenue records from a CSV or XLSX report file (or the bundled
sample records when no file is given), applies the contract's current
rules, and writes the per-record distribution with totals.

Output format follows the --output extension: .csv, .xlsx, or .json.
Without --output, JSON is written to stdout.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		exitOnError(err)

		rules, err := rulestore.New(filepath.Join(cfg.DataDir, "rules"))
		exitOnError(err)

		doc, err := rules.Current(calcContract)
		exitOnError(err)
		if doc == nil {
			exitOnError(fmt.Errorf("contract %q has not been analyzed yet", calcContract))
		}

		records := revenue.SampleRecords()
		if len(args) == 1 {
			records, err = readReport(args[0])
			exitOnError(err)
		}

		reporter := progress.NewReporter()
		reporter.Start(len(records))
		results := revenue.Run(doc.Rules, records, func(done int) {
			reporter.Update(done, fmt.Sprintf("record %d/%d", done, len(records)))
		})
		reporter.Finish()

		exitOnError(writeResults(results))

		s := calc.Summarize(results)
		fmt.Fprintf(os.Stderr, "%d records, gross %.2f, Yahoo %.2f, OneFootball %.2f\n",
			s.Records, s.GrossRevenue, s.YahooTotal, s.OneFootballTotal)
	},
}

func readReport(path string) ([]calc.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return revenue.ParseCSV(f)
	case ".xlsx":
		return revenue.ParseXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported report format %q, want .csv or .xlsx", filepath.Ext(path))
	}
}

func writeResults(results []calc.Result) error {
	if calcOutput == "" {
		return revenue.ExportJSON(os.Stdout, results)
	}

	f, err := os.Create(calcOutput)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(calcOutput)) {
	case ".csv":
		err = revenue.ExportCSV(f, results)
	case ".xlsx":
		err = revenue.ExportXLSX(f, results)
	case ".json":
		err = revenue.ExportJSON(f, results)
	default:
		return fmt.Errorf("unsupported output format %q, want .csv, .xlsx, or .json", filepath.Ext(calcOutput))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Results written to %s\n", calcOutput)
	return nil
}

func init() {
	calcCmd.Flags().StringVar(&calcContract, "contract", "", "contract ID whose rules to apply (required)")
	calcCmd.Flags().StringVarP(&calcOutput, "output", "o", "", "output file (.csv, .xlsx, or .json; default JSON to stdout)")
	calcCmd.MarkFlagRequired("contract")
	rootCmd.AddCommand(calcCmd)
}
