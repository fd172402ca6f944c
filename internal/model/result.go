package model

// Status is the aggregate outcome of a validation
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ValidationResult is returned by the validation orchestrator
type ValidationResult struct {
	Status        Status      `json:"status"`
	Issues        []string    `json:"issues"`
	Warnings      []string    `json:"warnings"`
	CalculatedSum float64     `json:"calculated_sum"`
	Validations   Validations `json:"validations"`
}

// Validations holds the structured detail of every check, keyed by check name
type Validations struct {
	Emitente      *IssuerCheck         `json:"emitente,omitempty"`
	Destinatario  *RecipientCheck      `json:"destinatario,omitempty"`
	Itens         *ItemsCheck          `json:"itens,omitempty"`
	Totals        *TotalsCheck         `json:"totals,omitempty"`
	CFOP          *CFOPCheck           `json:"cfop,omitempty"`
	Impostos      *TaxCheck            `json:"impostos,omitempty"`
	TipoDocumento *DocumentTypeCheck   `json:"tipo_documento,omitempty"`
	Identificacao *IdentificationCheck `json:"identificacao,omitempty"`
	DataEmissao   *IssueDateCheck      `json:"data_emissao,omitempty"`
}

// IssuerCheck is the emitente detail
type IssuerCheck struct {
	CNPJ        bool   `json:"cnpj"`
	Tipo        string `json:"tipo"`
	Documento   string `json:"documento,omitempty"`
	RazaoSocial bool   `json:"razao_social"`
	Override    bool   `json:"override,omitempty"`
}

// RecipientCheck is the destinatario detail
type RecipientCheck struct {
	Presente  bool   `json:"presente"`
	Valido    bool   `json:"valido"`
	Tipo      string `json:"tipo,omitempty"`
	Documento string `json:"documento,omitempty"`
}

// ItemsCheck is the itens detail
type ItemsCheck struct {
	HasItems bool         `json:"has_items"`
	Count    int          `json:"count"`
	AllValid bool         `json:"all_valid"`
	Skipped  bool         `json:"skipped,omitempty"`
	Detalhes []ItemDetail `json:"detalhes,omitempty"`
}

// ItemDetail is the normalized view of one item
type ItemDetail struct {
	Indice        int     `json:"indice"`
	Descricao     string  `json:"descricao,omitempty"`
	NCM           string  `json:"ncm,omitempty"`
	CFOP          string  `json:"cfop,omitempty"`
	Quantidade    float64 `json:"quantidade"`
	ValorUnitario float64 `json:"valor_unitario"`
	ValorTotal    float64 `json:"valor_total"`
	Calculado     float64 `json:"valor_calculado"`
	Consistente   bool    `json:"consistente"`
	Valido        bool    `json:"valido"`
}

// TotalsCheck is the totals detail
type TotalsCheck struct {
	Valid           bool    `json:"valid"`
	DocumentTotal   float64 `json:"document_total"`
	CalculatedTotal float64 `json:"calculated_total"`
	Difference      float64 `json:"difference"`
	Skipped         bool    `json:"skipped,omitempty"`
}

// CFOPCheck is the document-level cfop detail
type CFOPCheck struct {
	Exists      bool   `json:"exists"`
	Code        string `json:"code,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Known       bool   `json:"known"`
	FromItem    bool   `json:"from_item,omitempty"`
}

// TaxCheck is the impostos detail
type TaxCheck struct {
	Presente bool       `json:"presente"`
	Regime   string     `json:"regime,omitempty"`
	ICMS     *TaxDetail `json:"icms,omitempty"`
	IPI      *TaxDetail `json:"ipi,omitempty"`
	PIS      *TaxDetail `json:"pis,omitempty"`
	COFINS   *TaxDetail `json:"cofins,omitempty"`
	ICMSST   *TaxDetail `json:"icms_st,omitempty"`
}

// Tax entry shapes reported in TaxDetail.Formato
const (
	TaxShapeStructured = "estruturado"
	TaxShapeFlat       = "valor"
	TaxShapeMalformed  = "invalido"
)

// TaxDetail is the detail of a single tax entry
type TaxDetail struct {
	Formato     string  `json:"formato"`
	CST         string  `json:"cst,omitempty"`
	CSOSN       string  `json:"csosn,omitempty"`
	CSTPadrao   bool    `json:"cst_padrao,omitempty"`
	Aliquota    float64 `json:"aliquota"`
	Valor       float64 `json:"valor"`
	BaseCalculo float64 `json:"base_calculo,omitempty"`
	MVA         float64 `json:"mva,omitempty"`
	Valido      bool    `json:"valido"`
}

// DocumentTypeCheck is the tipo_documento detail
type DocumentTypeCheck struct {
	Tipo      DocumentKind `json:"tipo"`
	Origem    string       `json:"origem"`
	Informado string       `json:"informado,omitempty"`
}

// IdentificationCheck is the identificacao detail
type IdentificationCheck struct {
	Numero bool   `json:"numero"`
	Serie  bool   `json:"serie"`
	Valor  string `json:"valor,omitempty"`
}

// IssueDateCheck is the data_emissao detail
type IssueDateCheck struct {
	Presente      bool   `json:"presente"`
	Valor         string `json:"valor,omitempty"`
	FormatoValido bool   `json:"formato_valido"`
	Normalizada   string `json:"normalizada,omitempty"`
}

// Tipo is the operation type of a classified document
type Tipo string

const (
	TipoVenda     Tipo = "venda"
	TipoCompra    Tipo = "compra"
	TipoDevolucao Tipo = "devolucao"
	TipoOther     Tipo = "other"
	TipoUnknown   Tipo = "unknown"
	TipoMDFe      Tipo = "mdfe"
	TipoCTe       Tipo = "cte"
)

// Setor is the economic sector of a classified document
type Setor string

const (
	SetorIndustria Setor = "industria"
	SetorComercio  Setor = "comercio"
	SetorServicos  Setor = "servicos"
	SetorUnknown   Setor = "unknown"
)

// Perfil is the issuer role of a classified document
type Perfil string

const (
	PerfilFornecedor Perfil = "fornecedor"
	PerfilCliente    Perfil = "cliente"
	PerfilUnknown    Perfil = "unknown"
)

// ClassificationResult is returned by the classifier
type ClassificationResult struct {
	Tipo           Tipo             `json:"tipo"`
	Setor          Setor            `json:"setor"`
	PerfilEmitente Perfil           `json:"perfil_emitente"`
	Validacao      ValidationResult `json:"validacao"`
}
