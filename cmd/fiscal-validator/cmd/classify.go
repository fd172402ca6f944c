package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/classifier"
	"github.com/rezonia/fiscal-validator/internal/model"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Classify fiscal document files",
	Long: `Determine the operation type (tipo), sector (setor) and issuer profile
(perfil_emitente) of every document. Every classification carries the
full validation result.

Examples:
  fiscal-validator classify nota.json
  fiscal-validator classify notas.jsonl -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// FileClassification holds the classification of one record of a file
type FileClassification struct {
	File   string                     `json:"file"`
	Index  int                        `json:"index"`
	Result model.ClassificationResult `json:"result"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to classify")
	}

	pipeline := newPipeline(true)
	var results []FileClassification
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		records, err := pipeline.Process(cmd.Context(), data)
		if err != nil {
			printVerbose("%s: %v\n", file, err)
			results = append(results, FileClassification{File: file, Result: classifier.Unclassified()})
			continue
		}
		for _, r := range records {
			result := classifier.Unclassified()
			if r.Classification != nil {
				result = *r.Classification
			}
			results = append(results, FileClassification{File: file, Index: r.Index, Result: result})
		}
	}

	if outputFormat == "json" {
		return outputJSON(os.Stdout, results)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tINDEX\tTIPO\tSETOR\tPERFIL\tSTATUS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			r.File, r.Index, r.Result.Tipo, r.Result.Setor, r.Result.PerfilEmitente, r.Result.Validacao.Status)
	}
	return tw.Flush()
}
