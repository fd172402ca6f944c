package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/classifier"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

func decode(t *testing.T, raw string) *model.FiscalDocument {
	t.Helper()
	doc, err := model.DecodeDocument([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestTipo(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected model.Tipo
	}{
		{"sale", `{"cfop": "5102"}`, model.TipoVenda},
		{"purchase", `{"cfop": "1102"}`, model.TipoCompra},
		{"return", `{"cfop": "3202"}`, model.TipoDevolucao},
		{"other", `{"cfop": "4202"}`, model.TipoOther},
		{"first item", `{"itens": [{"cfop": "6102"}]}`, model.TipoVenda},
		{"none", `{"itens": [{}]}`, model.TipoUnknown},
		{"mdfe marker", `{"document_type": "MDF-e", "cfop": "5102"}`, model.TipoMDFe},
		{"mdf marker", `{"tipo_documento": "MDF"}`, model.TipoMDFe},
		{"cte marker", `{"document_type": "CTE", "cfop": "5353"}`, model.TipoCTe},
		{"nfe marker uses cfop", `{"document_type": "NFe", "cfop": "1202"}`, model.TipoDevolucao},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Tipo(decode(t, tt.raw)))
		})
	}
}

func TestSetor(t *testing.T) {
	tests := []struct {
		raw      string
		expected model.Setor
	}{
		{`{"total": "15.000,00"}`, model.SetorIndustria},
		{`{"total": 10000}`, model.SetorComercio},
		{`{"total": "R$ 35,57"}`, model.SetorComercio},
		{`{"total": 0}`, model.SetorServicos},
		{`{}`, model.SetorServicos},
		{`{"total": "sem valor"}`, model.SetorServicos},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Setor(decode(t, tt.raw)))
		})
	}
}

func TestPerfil(t *testing.T) {
	assert.Equal(t, model.PerfilFornecedor, classifier.Perfil(decode(t, `{"emitente": {"cnpj": "11222333000181"}}`)))
	assert.Equal(t, model.PerfilFornecedor, classifier.Perfil(decode(t, `{"emitente": {"cpf": "12345678909"}}`)))
	assert.Equal(t, model.PerfilCliente, classifier.Perfil(decode(t, `{"emitente": {"razao_social": "X"}}`)))
	assert.Equal(t, model.PerfilCliente, classifier.Perfil(decode(t, `{}`)))
}

func TestClassify_EmbedsValidation(t *testing.T) {
	c := classifier.New(nil)
	doc := decode(t, `{
		"document_type": "NFe",
		"numero": "1", "serie": "1", "data_emissao": "2024-01-10",
		"cfop": "5102",
		"total": "20.000,00",
		"emitente": {"cnpj": "11222333000181", "razao_social": "Industria SA"},
		"itens": [{"descricao": "Máquina", "ncm": "84714900", "cfop": "5102",
			"quantidade": 1, "valor_unitario": "20.000,00", "valor_total": "20.000,00"}],
		"impostos": {
			"icms": {"cst": "00", "aliquota": 18, "valor": 3600},
			"ipi": {"cst": "53"},
			"pis": {"cst": "01", "aliquota": 1.65, "valor": 330},
			"cofins": {"cst": "01", "aliquota": 7.6, "valor": 1520}
		}
	}`)

	result := c.Classify(doc)

	assert.Equal(t, model.TipoVenda, result.Tipo)
	assert.Equal(t, model.SetorIndustria, result.Setor)
	assert.Equal(t, model.PerfilFornecedor, result.PerfilEmitente)
	assert.Equal(t, model.StatusSuccess, result.Validacao.Status, "%v %v", result.Validacao.Issues, result.Validacao.Warnings)
	assert.InDelta(t, 20000.0, result.Validacao.CalculatedSum, 0.001)
}

func TestClassify_ErrorValidationStillClassifies(t *testing.T) {
	result := classifier.New(nil).Classify(decode(t, `{"cfop": "1102", "total": 50}`))

	assert.Equal(t, model.TipoCompra, result.Tipo)
	assert.Equal(t, model.SetorComercio, result.Setor)
	assert.Equal(t, model.PerfilCliente, result.PerfilEmitente)
	assert.Equal(t, model.StatusError, result.Validacao.Status)
}

func TestClassify_Structural(t *testing.T) {
	c := classifier.New(validator.New())

	for _, input := range []string{`[]`, `"nfe"`, `null`, ``} {
		result := c.ClassifyJSON([]byte(input))
		assert.Equal(t, model.TipoUnknown, result.Tipo, input)
		assert.Equal(t, model.SetorUnknown, result.Setor, input)
		assert.Equal(t, model.PerfilUnknown, result.PerfilEmitente, input)
		assert.Equal(t, model.StatusError, result.Validacao.Status, input)
		assert.Equal(t, []string{"Documento inválido"}, result.Validacao.Issues, input)
	}

	result := c.Classify(nil)
	assert.Equal(t, model.TipoUnknown, result.Tipo)
}

func BenchmarkClassify(b *testing.B) {
	c := classifier.New(nil)
	doc, _ := model.DecodeDocument([]byte(`{"cfop": "5102", "total": "1.000,00", "emitente": {"cnpj": "11222333000181"}}`))
	for i := 0; i < b.N; i++ {
		c.Classify(doc)
	}
}
