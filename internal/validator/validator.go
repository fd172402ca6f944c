// Package validator checks parsed fiscal documents for internal
// consistency: issuer and recipient identifiers, items, totals, CFOP,
// taxes and identification fields.
package validator

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/model"
)

// Messages for structurally invalid input
const (
	MsgInvalidFormat = "Documento inválido: formato incorreto"
	MsgInvalid       = "Documento inválido"
)

// Phase names, also used as validations keys
const (
	PhaseDocumentType   = "tipo_documento"
	PhaseIssuer         = "emitente"
	PhaseRecipient      = "destinatario"
	PhaseItems          = "itens"
	PhaseTotals         = "totals"
	PhaseCFOP           = "cfop"
	PhaseTaxes          = "impostos"
	PhaseIdentification = "identificacao"
)

// Validator runs the validation phases over one document at a time.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	sink      Sink
	tolerance decimal.Decimal
	cnpj      *cnpj.Validator
}

// Option configures a Validator
type Option func(*Validator)

// WithSink sets the diagnostic event observer
func WithSink(s Sink) Option {
	return func(v *Validator) {
		if s != nil {
			v.sink = s
		}
	}
}

// WithTolerance sets the absolute tolerance for totals and line checks
func WithTolerance(tol decimal.Decimal) Option {
	return func(v *Validator) {
		v.tolerance = tol.Abs()
	}
}

// WithCNPJValidator replaces the identifier validator
func WithCNPJValidator(c *cnpj.Validator) Option {
	return func(v *Validator) {
		if c != nil {
			v.cnpj = c
		}
	}
}

// New creates a validator. Defaults: no-op sink, 0.01 tolerance, and a
// CNPJ validator carrying cnpj.LegacyOverrides.
func New(opts ...Option) *Validator {
	v := &Validator{
		sink:      NopSink{},
		tolerance: fdec.DefaultTolerance,
		cnpj:      cnpj.NewValidator(cnpj.WithLegacyOverrides()),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Tolerance returns the configured tolerance
func (v *Validator) Tolerance() decimal.Decimal {
	return v.tolerance
}

// CNPJ returns the identifier validator in use
func (v *Validator) CNPJ() *cnpj.Validator {
	return v.cnpj
}

// Sink returns the configured event observer
func (v *Validator) Sink() Sink {
	return v.sink
}

// StructuralResult is the minimal result for input that is not a document
func StructuralResult(issue string) model.ValidationResult {
	return model.ValidationResult{
		Status:        model.StatusError,
		Issues:        []string{issue},
		Warnings:      []string{},
		CalculatedSum: 0,
	}
}

// ValidateJSON decodes and validates one document record
func (v *Validator) ValidateJSON(data []byte) model.ValidationResult {
	doc, err := model.DecodeDocument(data)
	if err != nil {
		v.sink.Event(Event{
			Level:   LevelWarn,
			Kind:    KindConversion,
			Phase:   "decode",
			Message: err.Error(),
		})
		return StructuralResult(MsgInvalidFormat)
	}
	return v.Validate(doc)
}

// Validate runs every phase over doc and aggregates the outcome. It never
// panics: a failing phase becomes an issue and the next phase still runs.
func (v *Validator) Validate(doc *model.FiscalDocument) model.ValidationResult {
	if doc == nil {
		return StructuralResult(MsgInvalidFormat)
	}

	r := &run{v: v, doc: doc, kind: model.KindUnknown}
	r.phase(PhaseDocumentType, r.checkDocumentType)
	r.phase(PhaseIssuer, r.checkIssuer)
	r.phase(PhaseRecipient, r.checkRecipient)
	r.phase(PhaseItems, r.checkItems)
	r.phase(PhaseTotals, r.checkTotals)
	r.phase(PhaseCFOP, r.checkCFOP)
	r.phase(PhaseTaxes, r.checkTaxes)
	r.phase(PhaseIdentification, r.checkIdentification)

	result := model.ValidationResult{
		Status:        r.diag.Status(),
		Issues:        r.diag.Issues(),
		Warnings:      r.diag.Warnings(),
		CalculatedSum: fdec.Float(r.calculated),
		Validations:   r.validations,
	}

	v.sink.Event(Event{
		Level:   LevelDebug,
		Kind:    KindSummary,
		Phase:   "resultado",
		Value:   strconv.Itoa(len(result.Issues)) + "/" + strconv.Itoa(len(result.Warnings)),
		Message: string(result.Status),
	})
	return result
}

// run is the per-call state threaded through the phases
type run struct {
	v           *Validator
	doc         *model.FiscalDocument
	kind        model.DocumentKind
	diag        Diagnostics
	validations model.Validations
	lineTotals  []decimal.Decimal
	calculated  decimal.Decimal
	current     string
}

func (r *run) phase(name string, fn func()) {
	r.current = name
	defer func() {
		if rec := recover(); rec != nil {
			r.diag.Error("Falha interna na validação de %s", name)
			r.v.sink.Event(Event{
				Level:   LevelError,
				Kind:    KindPanic,
				Phase:   name,
				Message: fmt.Sprint(rec),
			})
		}
	}()
	fn()
}

// amount normalizes a numeric field. A conversion failure is surfaced as
// a warning and an event, and yields zero with ok false.
func (r *run) amount(a model.Amount, field string) (decimal.Decimal, bool) {
	return convert(a, field, r.current, &r.diag, r.v.sink)
}

func convert(a model.Amount, field, phase string, diag *Diagnostics, sink Sink) (decimal.Decimal, bool) {
	d, err := a.Decimal()
	if err != nil {
		diag.Warn("Valor numérico inválido em %s: %s", field, a.Raw())
		sink.Event(Event{
			Level:   LevelWarn,
			Kind:    KindConversion,
			Phase:   phase,
			Field:   field,
			Value:   a.Raw(),
			Message: err.Error(),
		})
		return fdec.Zero, false
	}
	return d, true
}
