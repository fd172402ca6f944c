package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/processor"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

var infoLimit int

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about fiscal document files",
	Long: `Display information about document files without validating them.

Shows:
  - File size and modification time
  - Record layout (object, array, JSON lines) and record count
  - Detected document type and where it was inferred from
  - Issuer identifier and name

Examples:
  fiscal-validator info nota.json
  fiscal-validator info notas.jsonl --limit 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVar(&infoLimit, "limit", 5, "Maximum records described per file")
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	for _, file := range files {
		printFileInfo(file)
		fmt.Println()
	}

	return nil
}

func printFileInfo(filePath string) {
	fmt.Printf("File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	records, format, err := processor.SplitRecords(data)
	fmt.Printf("  Format: %s\n", format)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}
	fmt.Printf("  Records: %d\n", len(records))

	for i, raw := range records {
		if i >= infoLimit {
			fmt.Printf("  ... %d more\n", len(records)-infoLimit)
			break
		}
		doc, err := model.DecodeDocument(raw)
		if err != nil {
			fmt.Printf("  [%d] not a document: %v\n", i, err)
			continue
		}
		describeDocument(i, doc)
	}
}

func describeDocument(index int, doc *model.FiscalDocument) {
	kind, origin := validator.InferDocumentKind(doc)
	fmt.Printf("  [%d] Type: %s (from %s)\n", index, kind, origin)

	if n := doc.Numero.String(); n != "" {
		fmt.Printf("      Number: %s  Series: %s\n", n, doc.Serie.String())
	}
	if id := doc.Emitente.Identifier(); id != "" {
		fmt.Printf("      Issuer: %s %s\n", cnpj.Format(id), doc.Emitente.Name())
	}
	if code, fromItem := doc.PrimaryCFOP(); code != "" {
		source := "document"
		if fromItem {
			source = "first item"
		}
		fmt.Printf("      CFOP: %s (%s)\n", code, source)
	}
	fmt.Printf("      Items: %d\n", len(doc.Itens))
}
