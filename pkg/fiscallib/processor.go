package fiscallib

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rezonia/fiscal-validator/internal/classifier"
	"github.com/rezonia/fiscal-validator/internal/cnpj"
	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/processor"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// Validator validates fiscal documents
type Validator interface {
	// Validate runs every validation phase over a parsed document
	Validate(doc *FiscalDocument) ValidationResult

	// ValidateJSON decodes and validates one JSON record
	ValidateJSON(data []byte) ValidationResult
}

// Classifier classifies fiscal documents
type Classifier interface {
	// Classify derives tipo, setor and perfil and validates the document
	Classify(doc *FiscalDocument) ClassificationResult

	// ClassifyJSON decodes and classifies one JSON record
	ClassifyJSON(data []byte) ClassificationResult
}

// Result is the outcome for one record of a batch
type Result = processor.Result

// Summary counts batch results per status
type Summary = processor.Summary

// Options configures validation behavior
type Options struct {
	// Absolute tolerance for totals and line checks, as decimal text (default: "0.01")
	Tolerance string

	// Apply the fixed CNPJ verdict table (default: true)
	LegacyCNPJOverrides bool

	// Batch concurrency (default: 4)
	Workers int

	// Classify every batch record
	Classify bool

	// Receives diagnostic events such as numeric conversion failures
	Logger *slog.Logger
}

// DefaultOptions returns default options
func DefaultOptions() Options {
	return Options{
		Tolerance:           fdec.DefaultTolerance.String(),
		LegacyCNPJOverrides: true,
		Workers:             processor.DefaultWorkers,
	}
}

func (o Options) validatorOptions() ([]validator.Option, error) {
	var opts []validator.Option
	if o.Tolerance != "" {
		tol, err := fdec.FromString(o.Tolerance)
		if err != nil {
			return nil, fmt.Errorf("invalid tolerance %q: %w", o.Tolerance, err)
		}
		opts = append(opts, validator.WithTolerance(tol))
	}
	if o.LegacyCNPJOverrides {
		opts = append(opts, validator.WithCNPJValidator(cnpj.NewValidator(cnpj.WithLegacyOverrides())))
	} else {
		opts = append(opts, validator.WithCNPJValidator(cnpj.NewValidator()))
	}
	if o.Logger != nil {
		opts = append(opts, validator.WithSink(validator.NewSlogSink(o.Logger)))
	}
	return opts, nil
}

// Processor validates and classifies documents. It is safe for
// concurrent use.
type Processor struct {
	pipeline *processor.Pipeline
}

var (
	_ Validator  = (*validator.Validator)(nil)
	_ Classifier = (*classifier.Classifier)(nil)
)

// NewProcessor creates a processor with the given options
func NewProcessor(opts Options) (*Processor, error) {
	vopts, err := opts.validatorOptions()
	if err != nil {
		return nil, err
	}
	return &Processor{
		pipeline: processor.NewPipeline(
			processor.WithValidator(validator.New(vopts...)),
			processor.WithWorkers(opts.Workers),
			processor.WithClassification(opts.Classify),
		),
	}, nil
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	p, _ := NewProcessor(DefaultOptions())
	return p
}

// Validator returns the document validator
func (p *Processor) Validator() Validator {
	return p.pipeline.Validator()
}

// Classifier returns the document classifier
func (p *Processor) Classifier() Classifier {
	return p.pipeline.Classifier()
}

// Process reads one input holding a JSON object, array or JSON lines and
// processes every record
func (p *Processor) Process(ctx context.Context, r io.Reader) ([]*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return p.pipeline.Process(ctx, data)
}

// ProcessBatch processes several inputs concurrently. Results keep the
// input order.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []io.Reader) ([]*Result, error) {
	batch := make([]processor.Input, len(inputs))
	for i, r := range inputs {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("input %d: failed to read: %w", i, err)
		}
		batch[i] = processor.Input{Name: fmt.Sprintf("input-%d", i), Data: data}
	}
	return p.pipeline.ProcessBatch(ctx, batch)
}

// Summarize counts results per status
func Summarize(results []*Result) Summary {
	return processor.Summarize(results)
}

var defaultProcessor = NewDefaultProcessor()

// ValidateDocument validates a parsed document with default options
func ValidateDocument(doc *FiscalDocument) ValidationResult {
	return defaultProcessor.Validator().Validate(doc)
}

// ValidateJSON decodes and validates one JSON record with default options
func ValidateJSON(data []byte) ValidationResult {
	return defaultProcessor.Validator().ValidateJSON(data)
}

// ClassifyDocument classifies a parsed document with default options
func ClassifyDocument(doc *FiscalDocument) ClassificationResult {
	return defaultProcessor.Classifier().Classify(doc)
}

// ClassifyJSON decodes and classifies one JSON record with default options
func ClassifyJSON(data []byte) ClassificationResult {
	return defaultProcessor.Classifier().ClassifyJSON(data)
}
