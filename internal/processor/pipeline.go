// Package processor runs fiscal document records through decoding,
// validation and classification, one at a time or in concurrent batches.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/fiscal-validator/internal/classifier"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// DefaultWorkers is the default batch concurrency
const DefaultWorkers = 4

// Observer is notified once per processed record
type Observer interface {
	Observe(status model.Status, tipo model.Tipo, elapsed time.Duration)
}

// Input is one named input holding one or more records
type Input struct {
	Name string
	Data []byte
}

// Result contains the outcome for one record
type Result struct {
	ID             string                      `json:"id"`
	Source         string                      `json:"source,omitempty"`
	Index          int                         `json:"index"`
	Format         string                      `json:"format"`
	Document       *model.FiscalDocument       `json:"-"`
	Validation     model.ValidationResult      `json:"validation"`
	Classification *model.ClassificationResult `json:"classification,omitempty"`
	Warnings       []string                    `json:"warnings,omitempty"`
	Error          error                       `json:"-"`
	ErrorMessage   string                      `json:"error,omitempty"`
	Duration       time.Duration               `json:"duration_ns"`
}

// Status returns the validation status of the record
func (r *Result) Status() model.Status {
	return r.Validation.Status
}

// Summary counts results per status
type Summary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	WarningCount int `json:"warning_count"`
	ErrorCount   int `json:"error_count"`
}

// Summarize counts results per status
func Summarize(results []*Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status() {
		case model.StatusSuccess:
			s.SuccessCount++
		case model.StatusWarning:
			s.WarningCount++
		default:
			s.ErrorCount++
		}
	}
	return s
}

// Pipeline orchestrates decoding, validation and classification
type Pipeline struct {
	validator  *validator.Validator
	classifier *classifier.Classifier
	classify   bool
	workers    int
	observer   Observer
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithValidator sets the validator
func WithValidator(v *validator.Validator) PipelineOption {
	return func(p *Pipeline) {
		if v != nil {
			p.validator = v
		}
	}
}

// WithClassification enables classification of every record
func WithClassification(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.classify = enabled
	}
}

// WithWorkers sets the batch concurrency
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithObserver sets a per-record observer such as a metrics collector
func WithObserver(o Observer) PipelineOption {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// NewPipeline creates a new processing pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.validator == nil {
		p.validator = validator.New()
	}
	p.classifier = classifier.New(p.validator)
	return p
}

// Validator returns the pipeline validator
func (p *Pipeline) Validator() *validator.Validator {
	return p.validator
}

// Classifier returns the pipeline classifier
func (p *Pipeline) Classifier() *classifier.Classifier {
	return p.classifier
}

// ProcessRecord decodes and validates one raw record. Structural failures
// are reported in the result, never returned.
func (p *Pipeline) ProcessRecord(ctx context.Context, index int, raw []byte) *Result {
	start := time.Now()
	result := &Result{
		ID:     uuid.NewString(),
		Index:  index,
		Format: FormatObject.String(),
	}
	defer func() {
		result.Duration = time.Since(start)
		if p.observer != nil {
			tipo := model.TipoUnknown
			if result.Classification != nil {
				tipo = result.Classification.Tipo
			}
			p.observer.Observe(result.Status(), tipo, result.Duration)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		result.ErrorMessage = err.Error()
		result.Validation = validator.StructuralResult(validator.MsgInvalidFormat)
		return result
	}

	doc, err := model.DecodeDocument(raw)
	if err != nil {
		result.Error = err
		result.ErrorMessage = err.Error()
		result.Validation = validator.StructuralResult(validator.MsgInvalidFormat)
		if p.classify {
			unclassified := classifier.Unclassified()
			result.Classification = &unclassified
		}
		return result
	}
	result.Document = doc

	if p.classify {
		classification := p.classifier.Classify(doc)
		result.Classification = &classification
		result.Validation = classification.Validacao
	} else {
		result.Validation = p.validator.Validate(doc)
	}
	return result
}

// Process splits data into records and processes them concurrently.
// Results keep the input order.
func (p *Pipeline) Process(ctx context.Context, data []byte) ([]*Result, error) {
	return p.ProcessBatch(ctx, []Input{{Data: data}})
}

// ProcessBatch processes every record of every input with bounded
// concurrency. An input in an unknown format fails the whole batch
// before any record runs; cancellation stops outstanding records.
func (p *Pipeline) ProcessBatch(ctx context.Context, inputs []Input) ([]*Result, error) {
	type job struct {
		source string
		format Format
		index  int
		raw    json.RawMessage
	}

	var jobs []job
	for _, in := range inputs {
		records, format, err := SplitRecords(in.Data)
		if err != nil {
			if in.Name != "" {
				return nil, fmt.Errorf("%s: %w", in.Name, err)
			}
			return nil, err
		}
		for i, raw := range records {
			jobs = append(jobs, job{source: in.Name, format: format, index: i, raw: raw})
		}
	}

	results := make([]*Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := p.ProcessRecord(gctx, j.index, j.raw)
			r.Source = j.source
			r.Format = j.format.String()
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return compact(results), fmt.Errorf("batch interrupted: %w", err)
	}
	return results, nil
}

func compact(results []*Result) []*Result {
	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
