// Package fiscallib provides a public API for validating and classifying
// Brazilian fiscal documents (NF-e, NFC-e, CT-e, MDF-e) that were already
// parsed into JSON records.
//
// Example usage:
//
//	result := fiscallib.ValidateJSON(data)
//	if result.Status == fiscallib.StatusError {
//	    fmt.Println(result.Issues)
//	}
//
//	classification := fiscallib.ClassifyDocument(doc)
//	fmt.Println(classification.Tipo, classification.Setor)
package fiscallib

import "github.com/rezonia/fiscal-validator/internal/model"

// Re-export core types for public API
type (
	FiscalDocument       = model.FiscalDocument
	Party                = model.Party
	Item                 = model.Item
	TaxBlock             = model.TaxBlock
	TaxEntry             = model.TaxEntry
	StructuredTax        = model.StructuredTax
	FlatTax              = model.FlatTax
	MalformedTax         = model.MalformedTax
	Text                 = model.Text
	Amount               = model.Amount
	DocumentKind         = model.DocumentKind
	ValidationResult     = model.ValidationResult
	ClassificationResult = model.ClassificationResult
	Status               = model.Status
	Tipo                 = model.Tipo
	Setor                = model.Setor
	Perfil               = model.Perfil
)

// Re-export document kinds
const (
	KindNFe     = model.KindNFe
	KindNFCe    = model.KindNFCe
	KindCTe     = model.KindCTe
	KindMDFe    = model.KindMDFe
	KindNFSe    = model.KindNFSe
	KindUnknown = model.KindUnknown
)

// Re-export statuses
const (
	StatusSuccess = model.StatusSuccess
	StatusWarning = model.StatusWarning
	StatusError   = model.StatusError
)

// Re-export operation types
const (
	TipoVenda     = model.TipoVenda
	TipoCompra    = model.TipoCompra
	TipoDevolucao = model.TipoDevolucao
	TipoOther     = model.TipoOther
	TipoUnknown   = model.TipoUnknown
	TipoMDFe      = model.TipoMDFe
	TipoCTe       = model.TipoCTe
)

// Re-export sectors and issuer profiles
const (
	SetorIndustria   = model.SetorIndustria
	SetorComercio    = model.SetorComercio
	SetorServicos    = model.SetorServicos
	SetorUnknown     = model.SetorUnknown
	PerfilFornecedor = model.PerfilFornecedor
	PerfilCliente    = model.PerfilCliente
	PerfilUnknown    = model.PerfilUnknown
)

// Re-export error types
type (
	DecodeError     = model.DecodeError
	ValidationError = model.ValidationError
)

// ErrNotAMapping is wrapped by DecodeError for input that is not a JSON object
var ErrNotAMapping = model.ErrNotAMapping

// DecodeDocument decodes one JSON document record
func DecodeDocument(data []byte) (*FiscalDocument, error) {
	return model.DecodeDocument(data)
}
