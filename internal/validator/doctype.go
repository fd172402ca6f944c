package validator

import (
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/reference"
)

// Origins of the document type decision
const (
	OriginDocumentType  = "document_type"
	OriginTipoDocumento = "tipo_documento"
	OriginModelo        = "modelo"
	OriginChave         = "chave"
	OriginItens         = "itens"
	OriginUnknown       = "desconhecido"
)

// AccessKeyLength is the digit count of an electronic document access key
const AccessKeyLength = 44

// InferDocumentKind resolves the document type from, in order: an explicit
// document_type or tipo_documento marker, the modelo field, the model
// digits of a 44-digit access key, and finally the presence of items.
func InferDocumentKind(doc *model.FiscalDocument) (model.DocumentKind, string) {
	if kind, ok := model.ParseDocumentKind(doc.DocumentType.String()); ok {
		return kind, OriginDocumentType
	}
	if kind, ok := model.ParseDocumentKind(doc.TipoDocumento.String()); ok {
		return kind, OriginTipoDocumento
	}
	if kind, ok := model.KindFromModel(reference.OnlyDigits(doc.Modelo.String())); ok {
		return kind, OriginModelo
	}
	if key := reference.OnlyDigits(doc.Chave.String()); len(key) == AccessKeyLength {
		if kind, ok := model.KindFromModel(key[20:22]); ok {
			return kind, OriginChave
		}
	}
	if len(doc.Itens) > 0 {
		return model.KindNFe, OriginItens
	}
	return model.KindUnknown, OriginUnknown
}

func (r *run) checkDocumentType() {
	kind, origin := InferDocumentKind(r.doc)
	r.kind = kind

	marker := r.doc.TypeMarker()
	r.validations.TipoDocumento = &model.DocumentTypeCheck{
		Tipo:      kind,
		Origem:    origin,
		Informado: marker,
	}

	switch {
	case marker != "" && origin != OriginDocumentType && origin != OriginTipoDocumento:
		r.diag.Warn("Tipo de documento não reconhecido: %s", marker)
	case origin == OriginItens || origin == OriginUnknown:
		r.diag.Warn("Tipo de documento não especificado")
	}
}
