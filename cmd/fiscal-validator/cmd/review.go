package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/fiscal-validator/internal/llm"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/processor"
)

var (
	reviewCFOP      string
	reviewCSTICMS   string
	reviewCSTPIS    string
	reviewCSTCOFINS string
	reviewNCM       string
	reviewNoCache   bool
	reviewTimeout   time.Duration
)

var reviewCmd = &cobra.Command{
	Use:   "review [files...]",
	Short: "Review fiscal codes with an LLM",
	Long: `Ask an LLM whether a document's CFOP, CST and NCM codes are valid.

Codes are taken from each document in the given files, or from flags when
no files are given. Requires an API key (--api-key or LLM_API_KEY).
Responses are cached on disk unless --no-cache is set.

Examples:
  fiscal-validator review nota.json --api-key <key>
  fiscal-validator review --cfop 5102 --cst-icms 00 --ncm 22030000`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVar(&reviewCFOP, "cfop", "", "CFOP to review")
	reviewCmd.Flags().StringVar(&reviewCSTICMS, "cst-icms", "", "ICMS CST or CSOSN to review")
	reviewCmd.Flags().StringVar(&reviewCSTPIS, "cst-pis", "", "PIS CST to review")
	reviewCmd.Flags().StringVar(&reviewCSTCOFINS, "cst-cofins", "", "COFINS CST to review")
	reviewCmd.Flags().StringVar(&reviewNCM, "ncm", "", "NCM to review")
	reviewCmd.Flags().BoolVar(&reviewNoCache, "no-cache", false, "Disable the response cache")
	reviewCmd.Flags().DurationVar(&reviewTimeout, "timeout", 90*time.Second, "Timeout per review")
}

// ReviewOutput is one reviewed record
type ReviewOutput struct {
	File    string                `json:"file,omitempty"`
	Index   int                   `json:"index"`
	Request llm.CodeReviewRequest `json:"request"`
	Review  llm.CodeReview        `json:"review,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func runReview(cmd *cobra.Command, args []string) error {
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key required for code review (--api-key or LLM_API_KEY)")
	}

	requests, err := reviewInputs(args)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("nothing to review: pass files or code flags")
	}

	reviewer, err := newCodeReviewer()
	if err != nil {
		return err
	}

	for _, out := range requests {
		if out.Error != "" {
			continue
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), reviewTimeout)
		review, err := reviewer.Review(ctx, out.Request)
		cancel()
		if err != nil {
			out.Error = err.Error()
			continue
		}
		out.Review = review
	}

	if outputFormat == "json" {
		return outputJSON(os.Stdout, requests)
	}
	printReviews(requests)
	return nil
}

func reviewInputs(args []string) ([]*ReviewOutput, error) {
	if len(args) == 0 {
		req := llm.CodeReviewRequest{
			CFOP:      reviewCFOP,
			CSTICMS:   reviewCSTICMS,
			CSTPIS:    reviewCSTPIS,
			CSTCOFINS: reviewCSTCOFINS,
			NCM:       reviewNCM,
		}
		if req.IsEmpty() {
			return nil, nil
		}
		return []*ReviewOutput{{Request: req}}, nil
	}

	files, err := collectFiles(args)
	if err != nil {
		return nil, err
	}

	var outputs []*ReviewOutput
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			outputs = append(outputs, &ReviewOutput{File: file, Error: err.Error()})
			continue
		}
		records, _, err := processor.SplitRecords(data)
		if err != nil {
			outputs = append(outputs, &ReviewOutput{File: file, Error: err.Error()})
			continue
		}
		for i, raw := range records {
			out := &ReviewOutput{File: file, Index: i}
			doc, err := model.DecodeDocument(raw)
			if err != nil {
				out.Error = err.Error()
			} else {
				out.Request = llm.RequestFromDocument(doc)
				if out.Request.IsEmpty() {
					out.Error = llm.ErrEmptyRequest.Error()
				}
			}
			outputs = append(outputs, out)
		}
	}
	return outputs, nil
}

func newCodeReviewer() (*llm.Reviewer, error) {
	client := llm.NewClient(cfg.LLM.APIKey,
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithDefaultModel(cfg.LLM.Model),
	)

	var opts []llm.ReviewerOption
	if cfg.LLM.CacheEnabled && !reviewNoCache {
		cache, err := llm.NewCache(cfg.LLM.CacheDir, cfg.LLM.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open review cache: %w", err)
		}
		if removed, err := cache.ClearExpired(); err != nil {
			logger.Warn("clearing expired review cache", "error", err)
		} else if removed > 0 {
			printVerbose("Removed %d expired cache entries\n", removed)
		}
		opts = append(opts, llm.WithCache(cache), llm.WithCacheObserver(func(hit bool) {
			if hit {
				printVerbose("Cache hit\n")
			}
		}))
	}
	return llm.NewReviewer(client, opts...), nil
}

func printReviews(outputs []*ReviewOutput) {
	for _, out := range outputs {
		if out.File != "" {
			fmt.Printf("%s [%d]\n", out.File, out.Index)
		}
		if out.Error != "" {
			fmt.Printf("  ✗ %s\n", out.Error)
			continue
		}
		for _, field := range llm.CodeFields {
			verdict, ok := out.Review[field]
			if !ok {
				continue
			}
			mark := "✓"
			if !verdict.IsValid {
				mark = "✗"
			}
			fmt.Printf("  %s %-10s %s", mark, field, verdict.NormalizedCode)
			if verdict.Description != "" {
				fmt.Printf("  %s", verdict.Description)
			}
			fmt.Println()
		}
	}
}
