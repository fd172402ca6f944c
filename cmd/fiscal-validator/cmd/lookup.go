package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up CNPJ, CFOP and NCM codes",
	Long: `Check identifiers and codes against the built-in reference tables.

Examples:
  fiscal-validator lookup cnpj 11.222.333/0001-81
  fiscal-validator lookup cfop 5102
  fiscal-validator lookup ncm 2203.00.00`,
}

var lookupCNPJCmd = &cobra.Command{
	Use:   "cnpj <cnpj>",
	Short: "Validate a CNPJ or CPF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verdict := newValidator().CNPJ().Validate(args[0])
		kind := cnpj.Kind(verdict.Digits)

		if outputFormat == "json" {
			return outputJSON(os.Stdout, struct {
				cnpj.Verdict
				Kind string `json:"kind,omitempty"`
			}{verdict, kind})
		}

		status := "INVALID"
		if verdict.Valid {
			status = "VALID"
		}
		label := verdict.Formatted
		if label == "" {
			label = args[0]
		}
		fmt.Printf("%s: %s", label, status)
		if verdict.Overridden {
			fmt.Print(" (override table)")
		}
		if verdict.Reason != "" {
			fmt.Printf(" - %s", verdict.Reason)
		}
		fmt.Println()
		return nil
	},
}

var lookupCFOPCmd = &cobra.Command{
	Use:   "cfop <code>",
	Short: "Describe a CFOP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, ok := reference.LookupCFOP(args[0])
		if !ok {
			return model.NewValidationError("cfop", args[0], "known_code", "CFOP não reconhecido")
		}
		if outputFormat == "json" {
			return outputJSON(os.Stdout, row)
		}
		fmt.Printf("%s [%s] %s\n", row.Code, row.Category, row.Description)
		return nil
	},
}

var lookupNCMCmd = &cobra.Command{
	Use:   "ncm <code>",
	Short: "Describe an NCM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !reference.ValidNCMFormat(args[0]) {
			return model.NewValidationError("ncm", args[0], "format", "NCM deve ter 8 dígitos")
		}
		ncm, ok := reference.LookupNCM(args[0])
		if !ok {
			return model.NewValidationError("ncm", args[0], "chapter", "NCM não reconhecido")
		}
		if outputFormat == "json" {
			return outputJSON(os.Stdout, ncm)
		}
		fmt.Printf("%s chapter %s - %s\n", ncm.Code, ncm.Chapter, ncm.Section)
		if ncm.Description != "" {
			fmt.Printf("  %s\n", ncm.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.AddCommand(lookupCNPJCmd, lookupCFOPCmd, lookupNCMCmd)
}
