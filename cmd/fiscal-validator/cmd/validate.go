package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/processor"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

var failOnWarning bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate fiscal document files",
	Long: `Validate every document of one or more JSON files.

Each record gets a status: success, warning or error. The command fails
when any record is in error (or in warning, with --strict).

Examples:
  fiscal-validator validate nota.json
  fiscal-validator validate exports/*.json -f table
  fiscal-validator validate nota.json --tolerance 0.05 --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&failOnWarning, "strict", false, "Fail on warnings too")
}

// FileValidation holds the validation of one record of a file
type FileValidation struct {
	File   string                 `json:"file"`
	Index  int                    `json:"index"`
	Result model.ValidationResult `json:"result"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := newPipeline(false)
	var results []FileValidation
	for _, file := range files {
		results = append(results, validateFile(cmd.Context(), pipeline, file)...)
	}

	if outputFormat == "json" {
		if err := outputJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printValidations(results)
	}

	failed := 0
	for _, r := range results {
		switch r.Result.Status {
		case model.StatusError:
			failed++
		case model.StatusWarning:
			if failOnWarning {
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d records", failed, len(results))
	}
	return nil
}

func validateFile(ctx context.Context, pipeline *processor.Pipeline, filePath string) []FileValidation {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return []FileValidation{{
			File:   filePath,
			Result: validator.StructuralResult(fmt.Sprintf("failed to read file: %v", err)),
		}}
	}

	records, err := pipeline.Process(ctx, data)
	if err != nil {
		printVerbose("%s: %v\n", filePath, err)
		return []FileValidation{{
			File:   filePath,
			Result: validator.StructuralResult(validator.MsgInvalidFormat),
		}}
	}

	out := make([]FileValidation, 0, len(records))
	for _, r := range records {
		if r.Error != nil {
			printVerbose("%s[%d]: %v\n", filePath, r.Index, r.Error)
		}
		out = append(out, FileValidation{File: filePath, Index: r.Index, Result: r.Validation})
	}
	return out
}

func printValidations(results []FileValidation) {
	for _, r := range results {
		label := r.File
		if r.Index > 0 {
			label = fmt.Sprintf("%s[%d]", r.File, r.Index)
		}
		switch r.Result.Status {
		case model.StatusSuccess:
			fmt.Printf("✓ %s: VALID\n", label)
		case model.StatusWarning:
			fmt.Printf("⚠ %s: VALID WITH WARNINGS\n", label)
		default:
			fmt.Printf("✗ %s: INVALID\n", label)
		}
		for _, e := range r.Result.Issues {
			fmt.Printf("  - %s\n", e)
		}
		for _, w := range r.Result.Warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	}
}
