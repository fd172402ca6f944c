// Package classifier determines the operation type, economic sector and
// issuer role of a fiscal document, and embeds its validation.
package classifier

import (
	"github.com/shopspring/decimal"

	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

// Sector thresholds on the normalized document total
var industryThreshold = decimal.NewFromInt(10000)

// Classifier wraps a validator and adds categorical fields
type Classifier struct {
	validator *validator.Validator
}

// New creates a classifier over v; nil uses validator.New()
func New(v *validator.Validator) *Classifier {
	if v == nil {
		v = validator.New()
	}
	return &Classifier{validator: v}
}

// Validator returns the wrapped validator
func (c *Classifier) Validator() *validator.Validator {
	return c.validator
}

// Unclassified is the result for input that is not a document
func Unclassified() model.ClassificationResult {
	return model.ClassificationResult{
		Tipo:           model.TipoUnknown,
		Setor:          model.SetorUnknown,
		PerfilEmitente: model.PerfilUnknown,
		Validacao:      validator.StructuralResult(validator.MsgInvalid),
	}
}

// ClassifyJSON decodes and classifies one document record
func (c *Classifier) ClassifyJSON(data []byte) model.ClassificationResult {
	doc, err := model.DecodeDocument(data)
	if err != nil {
		return Unclassified()
	}
	return c.Classify(doc)
}

// Classify determines tipo, setor and perfil_emitente and always runs
// the validator
func (c *Classifier) Classify(doc *model.FiscalDocument) model.ClassificationResult {
	if doc == nil {
		return Unclassified()
	}
	return model.ClassificationResult{
		Tipo:           Tipo(doc),
		Setor:          Setor(doc),
		PerfilEmitente: Perfil(doc),
		Validacao:      c.validator.Validate(doc),
	}
}

// Tipo derives the operation type. Explicit transport markers win over
// the CFOP of the document or its first item.
func Tipo(doc *model.FiscalDocument) model.Tipo {
	if kind, ok := model.ParseDocumentKind(doc.TypeMarker()); ok {
		switch kind {
		case model.KindMDFe:
			return model.TipoMDFe
		case model.KindCTe:
			return model.TipoCTe
		}
	}

	code, _ := doc.PrimaryCFOP()
	switch reference.ClassifyCFOP(code) {
	case reference.CategorySale:
		return model.TipoVenda
	case reference.CategoryPurchase:
		return model.TipoCompra
	case reference.CategoryReturn:
		return model.TipoDevolucao
	case reference.CategoryOther:
		return model.TipoOther
	}
	return model.TipoUnknown
}

// Setor derives the sector from the document total. An unreadable total
// counts as zero.
func Setor(doc *model.FiscalDocument) model.Setor {
	total, err := doc.Total.Decimal()
	if err != nil {
		total = fdec.Zero
	}
	switch {
	case total.GreaterThan(industryThreshold):
		return model.SetorIndustria
	case fdec.IsPositive(total):
		return model.SetorComercio
	}
	return model.SetorServicos
}

// Perfil reports fornecedor when the issuer carries any identifier
func Perfil(doc *model.FiscalDocument) model.Perfil {
	if doc.Emitente.Identifier() != "" {
		return model.PerfilFornecedor
	}
	return model.PerfilCliente
}
