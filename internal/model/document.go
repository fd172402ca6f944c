package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DocumentKind identifies the fiscal document model
type DocumentKind string

const (
	KindNFe     DocumentKind = "NFe"
	KindNFCe    DocumentKind = "NFCe"
	KindCTe     DocumentKind = "CTe"
	KindMDFe    DocumentKind = "MDFe"
	KindNFSe    DocumentKind = "NFSe"
	KindUnknown DocumentKind = "unknown"
)

// kindAliases maps normalized type markers to kinds
var kindAliases = map[string]DocumentKind{
	"NFE":   KindNFe,
	"NF":    KindNFe,
	"DANFE": KindNFe,
	"NFCE":  KindNFCe,
	"CTE":   KindCTe,
	"CTEOS": KindCTe,
	"DACTE": KindCTe,
	"MDFE":  KindMDFe,
	"MDF":   KindMDFe,
	"NFSE":  KindNFSe,
}

// modelCodes maps the SEFAZ document model code to kinds
var modelCodes = map[string]DocumentKind{
	"55": KindNFe,
	"65": KindNFCe,
	"57": KindCTe,
	"67": KindCTe,
	"58": KindMDFe,
}

// ParseDocumentKind resolves an explicit type marker such as "NF-e" or "MDF-e"
func ParseDocumentKind(s string) (DocumentKind, bool) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '.', '/':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(s)))
	kind, ok := kindAliases[key]
	return kind, ok
}

// KindFromModel resolves a two-digit document model code
func KindFromModel(code string) (DocumentKind, bool) {
	kind, ok := modelCodes[strings.TrimSpace(code)]
	return kind, ok
}

// HasLineItems reports whether the kind carries an item list
func (k DocumentKind) HasLineItems() bool {
	return k != KindCTe && k != KindMDFe
}

// IsTransport reports whether the kind is a transport document
func (k DocumentKind) IsTransport() bool {
	return k == KindCTe || k == KindMDFe
}

// Party is the issuer (emitente) or recipient (destinatario) of a document
type Party struct {
	CNPJ              Text `json:"cnpj,omitempty"`
	CPF               Text `json:"cpf,omitempty"`
	CNPJCPF           Text `json:"cnpj_cpf,omitempty"`
	RazaoSocial       Text `json:"razao_social,omitempty"`
	Nome              Text `json:"nome,omitempty"`
	InscricaoEstadual Text `json:"inscricao_estadual,omitempty"`

	// Malformed is set when the party was present but not a mapping
	Malformed bool `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-mapping value decodes
// to an empty party flagged Malformed.
func (p *Party) UnmarshalJSON(data []byte) error {
	type plain Party
	var v plain
	if !isObject(data) {
		*p = Party{Malformed: true}
		return nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Party(v)
	return nil
}

// Identifier returns the first taxpayer identifier present
func (p *Party) Identifier() string {
	if p == nil {
		return ""
	}
	for _, id := range []Text{p.CNPJ, p.CNPJCPF, p.CPF} {
		if !id.IsEmpty() {
			return id.String()
		}
	}
	return ""
}

// Name returns the legal or display name
func (p *Party) Name() string {
	if p == nil {
		return ""
	}
	if !p.RazaoSocial.IsEmpty() {
		return p.RazaoSocial.String()
	}
	return p.Nome.String()
}

// Item is one line of a goods document
type Item struct {
	Codigo        Text   `json:"codigo,omitempty"`
	Descricao     Text   `json:"descricao,omitempty"`
	NCM           Text   `json:"ncm,omitempty"`
	CFOP          Text   `json:"cfop,omitempty"`
	Unidade       Text   `json:"unidade,omitempty"`
	Quantidade    Amount `json:"quantidade"`
	ValorUnitario Amount `json:"valor_unitario"`
	ValorTotal    Amount `json:"valor_total"`

	Malformed bool `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-mapping element decodes
// to an empty item flagged Malformed.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var v plain
	if !isObject(data) {
		*it = Item{Malformed: true}
		return nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*it = Item(v)
	return nil
}

// FiscalDocument is a parsed fiscal document record
type FiscalDocument struct {
	DocumentType  Text      `json:"document_type,omitempty"`
	TipoDocumento Text      `json:"tipo_documento,omitempty"`
	Modelo        Text      `json:"modelo,omitempty"`
	Chave         Text      `json:"chave,omitempty"`
	Numero        Text      `json:"numero,omitempty"`
	Serie         Text      `json:"serie,omitempty"`
	DataEmissao   Text      `json:"data_emissao,omitempty"`
	CFOP          Text      `json:"cfop,omitempty"`
	Total         Amount    `json:"total"`
	Emitente      *Party    `json:"emitente,omitempty"`
	Destinatario  *Party    `json:"destinatario,omitempty"`
	Itens         []Item    `json:"itens,omitempty"`
	Impostos      *TaxBlock `json:"impostos,omitempty"`

	// ItensMalformed is set when itens was present but not a list
	ItensMalformed bool `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler. A non-list itens value
// leaves Itens empty and sets ItensMalformed.
func (d *FiscalDocument) UnmarshalJSON(data []byte) error {
	type plain FiscalDocument
	aux := struct {
		*plain
		Itens json.RawMessage `json:"itens,omitempty"`
	}{plain: (*plain)(d)}

	*d = FiscalDocument{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Itens)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, jsonNull):
	case raw[0] == '[':
		return json.Unmarshal(raw, &d.Itens)
	default:
		d.ItensMalformed = true
	}
	return nil
}

func isObject(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// TypeMarker returns the explicit document type field, if any
func (d *FiscalDocument) TypeMarker() string {
	if !d.DocumentType.IsEmpty() {
		return d.DocumentType.String()
	}
	return d.TipoDocumento.String()
}

// PrimaryCFOP returns the document CFOP, falling back to the first item
func (d *FiscalDocument) PrimaryCFOP() (code string, fromItem bool) {
	if !d.CFOP.IsEmpty() {
		return d.CFOP.String(), false
	}
	if len(d.Itens) > 0 && !d.Itens[0].CFOP.IsEmpty() {
		return d.Itens[0].CFOP.String(), true
	}
	return "", false
}
