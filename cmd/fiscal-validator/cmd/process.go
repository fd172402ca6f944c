package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/processor"
)

var (
	outputFile string
	timeout    time.Duration
	noClassify bool
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Validate and classify every record of the given files",
	Long: `Run the full pipeline over one or more files: detect the record layout,
decode each record, validate it and classify it. Records are processed
concurrently and reported in input order.

Supported layouts:
  - a single JSON object
  - a JSON array of objects
  - JSON lines (.jsonl, .ndjson)

Examples:
  fiscal-validator process nota.json
  fiscal-validator process exports/*.jsonl -f table
  fiscal-validator process exports/ -f csv -o resultado.csv
  fiscal-validator process notas.json --workers 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	processCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Processing timeout for the whole batch")
	processCmd.Flags().BoolVar(&noClassify, "no-classify", false, "Skip classification")
}

func runProcess(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to process")
	}

	printVerbose("Found %d files to process\n", len(files))

	inputs, err := readInputs(files)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	pipeline := newPipeline(!noClassify)
	start := time.Now()
	results, err := pipeline.ProcessBatch(ctx, inputs)
	if err != nil {
		return err
	}

	summary := processor.Summarize(results)
	printVerbose("Processed %d records in %s: %d success, %d warning, %d error\n",
		summary.Total, time.Since(start).Round(time.Millisecond),
		summary.SuccessCount, summary.WarningCount, summary.ErrorCount)

	return outputResults(results)
}

func outputResults(results []*processor.Result) error {
	w, closeFn, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeFn()

	switch outputFormat {
	case "json":
		return outputJSON(w, results)
	case "table":
		return outputTable(w, results)
	case "csv":
		return outputCSV(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputTable(w io.Writer, results []*processor.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tINDEX\tSTATUS\tTIPO\tSETOR\tISSUES\tWARNINGS")
	fmt.Fprintln(tw, "----\t-----\t------\t----\t-----\t------\t--------")

	for _, r := range results {
		tipo, setor := "-", "-"
		if r.Classification != nil {
			tipo = string(r.Classification.Tipo)
			setor = string(r.Classification.Setor)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%d\n",
			r.Source,
			r.Index,
			r.Status(),
			tipo,
			setor,
			len(r.Validation.Issues),
			len(r.Validation.Warnings),
		)
	}

	return tw.Flush()
}

func outputCSV(w io.Writer, results []*processor.Result) error {
	fmt.Fprintln(w, "file,index,id,status,tipo,setor,perfil_emitente,calculated_sum,issues,warnings,error")

	for _, r := range results {
		tipo, setor, perfil := "", "", ""
		if r.Classification != nil {
			tipo = string(r.Classification.Tipo)
			setor = string(r.Classification.Setor)
			perfil = string(r.Classification.PerfilEmitente)
		}
		fmt.Fprintf(w, "%s,%d,%s,%s,%s,%s,%s,%.2f,%s,%s,%s\n",
			escapeCSV(r.Source),
			r.Index,
			r.ID,
			r.Status(),
			tipo,
			setor,
			perfil,
			r.Validation.CalculatedSum,
			escapeCSV(strings.Join(r.Validation.Issues, "; ")),
			escapeCSV(strings.Join(r.Validation.Warnings, "; ")),
			escapeCSV(r.ErrorMessage),
		)
	}

	return nil
}
