package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/config"
	"github.com/rezonia/fiscal-validator/internal/processor"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configPath   string
	tolerance    string
	workers      int
	apiKey       string
	llmBaseURL   string
	llmModel     string

	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "fiscal-validator",
	Short: "Validate and classify Brazilian fiscal documents",
	Long: `Fiscal Validator checks parsed Brazilian fiscal documents (NF-e, NFC-e,
CT-e, MDF-e) for internal consistency and classifies them.

Input is JSON: one document per file, an array of documents, or JSON lines.

Checks performed:
  - Issuer and recipient CNPJ/CPF
  - Line items (quantity, unit price, line totals, NCM, CFOP)
  - Document total against the sum of line totals
  - CFOP, ICMS, IPI, PIS, COFINS and ICMS-ST situation codes
  - Number, series and issue date

Examples:
  # Validate a document
  fiscal-validator validate nota.json

  # Classify every record of a JSON lines export
  fiscal-validator classify notas.jsonl -f table

  # Batch process a directory to CSV
  fiscal-validator process exports/ -f csv -o resultado.csv

  # Look up a CFOP
  fiscal-validator lookup cfop 5102`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env: FISCAL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&tolerance, "tolerance", "", "Absolute tolerance for totals (env: FISCAL_TOLERANCE)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Batch concurrency (env: FISCAL_WORKERS)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for LLM provider (env: LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model for code review (env: LLM_MODEL)")
}

// initConfig loads the config file and environment, then applies flags
func initConfig(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if configPath == "" {
		configPath = os.Getenv("FISCAL_CONFIG")
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	// Flags win over file and environment
	if tolerance != "" {
		cfg.Validation.Tolerance = tolerance
	}
	if workers > 0 {
		cfg.Validation.Workers = workers
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if llmBaseURL != "" {
		cfg.LLM.BaseURL = llmBaseURL
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	printVerbose("Config: tolerance=%s workers=%d legacy_overrides=%t\n",
		cfg.Validation.Tolerance, cfg.Validation.Workers, cfg.Validation.LegacyCNPJOverrides)
	return nil
}

func newValidator() *validator.Validator {
	opts := cfg.Validation.ValidatorOptions()
	opts = append(opts, validator.WithSink(validator.NewSlogSink(logger)))
	return validator.New(opts...)
}

func newPipeline(classify bool) *processor.Pipeline {
	return processor.NewPipeline(
		processor.WithValidator(newValidator()),
		processor.WithWorkers(cfg.Validation.Workers),
		processor.WithClassification(classify),
	)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
