package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/model"
)

func TestText_UnmarshalJSON(t *testing.T) {
	var doc struct {
		A model.Text `json:"a"`
		B model.Text `json:"b"`
		C model.Text `json:"c"`
		D model.Text `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": " 5102 ", "b": 5102, "c": null, "d": true}`), &doc))

	assert.Equal(t, model.Text("5102"), doc.A)
	assert.Equal(t, model.Text("5102"), doc.B)
	assert.True(t, doc.C.IsEmpty())
	assert.Equal(t, "true", doc.D.String())
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		set      bool
		invalid  bool
	}{
		{"number", `1234.56`, "1234.56", true, false},
		{"brazilian text", `"1.234,56"`, "1234.56", true, false},
		{"currency text", `"R$ 35,57"`, "35.57", true, false},
		{"null", `null`, "0", false, false},
		{"blank", `"  "`, "0", false, false},
		{"garbage", `"abc"`, "0", true, true},
		{"boolean", `false`, "0", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a model.Amount
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &a))
			assert.Equal(t, tt.set, a.IsSet())

			d, err := a.Decimal()
			if tt.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Equal(decimal.RequireFromString(tt.expected)), d.String())
		})
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A model.Amount `json:"a"`
		B model.Amount `json:"b"`
		C model.Amount `json:"c"`
	}{
		A: model.AmountOf("1.234,56"),
		B: model.AmountFromDecimal(decimal.RequireFromString("10.5")),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": "1.234,56", "b": 10.5, "c": null}`, string(data))
}

func TestDecodeTaxEntry(t *testing.T) {
	assert.Nil(t, model.DecodeTaxEntry(nil))
	assert.Nil(t, model.DecodeTaxEntry(json.RawMessage(`null`)))

	entry := model.DecodeTaxEntry(json.RawMessage(`{"cst": "00", "aliquota": "18,00", "valor": 10}`))
	structured, ok := entry.(model.StructuredTax)
	require.True(t, ok)
	assert.True(t, structured.HasCST)
	assert.False(t, structured.HasCSOSN)
	assert.Equal(t, model.Text("00"), structured.CST)
	assert.True(t, structured.Aliquota.IsSet())

	entry = model.DecodeTaxEntry(json.RawMessage(`{"csosn": 102}`))
	structured, ok = entry.(model.StructuredTax)
	require.True(t, ok)
	assert.True(t, structured.HasCSOSN)
	assert.Equal(t, model.Text("102"), structured.CSOSN)

	entry = model.DecodeTaxEntry(json.RawMessage(`12.5`))
	flat, ok := entry.(model.FlatTax)
	require.True(t, ok)
	assert.Equal(t, "12.5", flat.Value.Raw())

	_, ok = model.DecodeTaxEntry(json.RawMessage(`"35,57"`)).(model.FlatTax)
	assert.True(t, ok)

	for _, raw := range []string{`""`, `true`, `[1, 2]`} {
		_, ok = model.DecodeTaxEntry(json.RawMessage(raw)).(model.MalformedTax)
		assert.True(t, ok, raw)
	}
}

func TestTaxBlock(t *testing.T) {
	var block model.TaxBlock
	require.NoError(t, json.Unmarshal([]byte(`{"icms": 10, "pis": {"cst": "01"}, "outro": 1}`), &block))

	assert.IsType(t, model.FlatTax{}, block.ICMS)
	assert.IsType(t, model.StructuredTax{}, block.PIS)
	assert.Nil(t, block.IPI)
	assert.False(t, block.IsEmpty())

	var empty model.TaxBlock
	require.NoError(t, json.Unmarshal([]byte(`"nenhum"`), &empty))
	assert.True(t, empty.IsEmpty())

	var missing *model.TaxBlock
	assert.True(t, missing.IsEmpty())

	data, err := json.Marshal(block)
	require.NoError(t, err)
	assert.JSONEq(t, `{"icms": 10, "pis": {"cst": "01"}}`, string(data))
}

func TestDecodeDocument(t *testing.T) {
	doc, err := model.DecodeDocument([]byte(`{
		"document_type": "NFe",
		"numero": 123,
		"total": "1.234,56",
		"emitente": {"cnpj": "11.222.333/0001-81", "razao_social": "Empresa"},
		"itens": [{"descricao": "Item", "quantidade": "2", "valor_unitario": 10, "valor_total": 20}],
		"impostos": {"icms": {"cst": "00"}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "NFe", doc.TypeMarker())
	assert.Equal(t, model.Text("123"), doc.Numero)
	assert.Equal(t, "11.222.333/0001-81", doc.Emitente.Identifier())
	assert.Equal(t, "Empresa", doc.Emitente.Name())
	require.Len(t, doc.Itens, 1)
	assert.NotNil(t, doc.Impostos)
	assert.Nil(t, doc.Destinatario)
}

func TestDecodeDocument_Errors(t *testing.T) {
	for _, input := range []string{``, `[]`, `"doc"`, `42`} {
		_, err := model.DecodeDocument([]byte(input))
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, model.ErrNotAMapping), input)

		var decodeErr *model.DecodeError
		assert.True(t, errors.As(err, &decodeErr))
	}

	_, err := model.DecodeDocument([]byte(`{"numero": `))
	require.Error(t, err)
	var decodeErr *model.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.False(t, errors.Is(err, model.ErrNotAMapping))
}

func TestDecodeDocument_MalformedParts(t *testing.T) {
	doc, err := model.DecodeDocument([]byte(`{
		"numero": "1",
		"emitente": "Loja",
		"destinatario": "",
		"itens": [{"descricao": "Item", "valor_total": 10}, "garbage", 7, null]
	}`))
	require.NoError(t, err)

	require.NotNil(t, doc.Emitente)
	assert.True(t, doc.Emitente.Malformed)
	assert.Empty(t, doc.Emitente.Identifier())
	require.NotNil(t, doc.Destinatario)
	assert.True(t, doc.Destinatario.Malformed)

	require.Len(t, doc.Itens, 4)
	assert.False(t, doc.Itens[0].Malformed)
	assert.Equal(t, model.Text("Item"), doc.Itens[0].Descricao)
	assert.True(t, doc.Itens[1].Malformed)
	assert.True(t, doc.Itens[2].Malformed)
	assert.True(t, doc.Itens[3].Malformed)
	assert.False(t, doc.ItensMalformed)
	assert.Equal(t, model.Text("1"), doc.Numero)

	doc, err = model.DecodeDocument([]byte(`{"numero": "2", "itens": "nenhum", "destinatario": null}`))
	require.NoError(t, err)
	assert.True(t, doc.ItensMalformed)
	assert.Empty(t, doc.Itens)
	assert.Nil(t, doc.Destinatario)
	assert.Equal(t, model.Text("2"), doc.Numero)
}

func TestDecodeDocument_BOM(t *testing.T) {
	doc, err := model.DecodeDocument([]byte("\xef\xbb\xbf{\"numero\": \"1\"}"))
	require.NoError(t, err)
	assert.Equal(t, model.Text("1"), doc.Numero)
}

func TestParseDocumentKind(t *testing.T) {
	tests := []struct {
		input string
		kind  model.DocumentKind
		ok    bool
	}{
		{"NFe", model.KindNFe, true},
		{"nf-e", model.KindNFe, true},
		{"NFC-e", model.KindNFCe, true},
		{"CT-e", model.KindCTe, true},
		{"cte_os", model.KindCTe, true},
		{"MDF", model.KindMDFe, true},
		{"MDF-e", model.KindMDFe, true},
		{"NFS-e", model.KindNFSe, true},
		{"boleto", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, ok := model.ParseDocumentKind(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestDocumentKind(t *testing.T) {
	assert.True(t, model.KindNFe.HasLineItems())
	assert.True(t, model.KindUnknown.HasLineItems())
	assert.False(t, model.KindCTe.HasLineItems())
	assert.False(t, model.KindMDFe.HasLineItems())
	assert.True(t, model.KindMDFe.IsTransport())

	kind, ok := model.KindFromModel("57")
	assert.True(t, ok)
	assert.Equal(t, model.KindCTe, kind)
	_, ok = model.KindFromModel("99")
	assert.False(t, ok)
}

func TestParty(t *testing.T) {
	var nilParty *model.Party
	assert.Empty(t, nilParty.Identifier())
	assert.Empty(t, nilParty.Name())

	p := &model.Party{CPF: "123.456.789-09", CNPJCPF: "11222333000181", Nome: "Fulano"}
	assert.Equal(t, "11222333000181", p.Identifier())
	assert.Equal(t, "Fulano", p.Name())

	p = &model.Party{CPF: "123.456.789-09"}
	assert.Equal(t, "123.456.789-09", p.Identifier())
}

func TestPrimaryCFOP(t *testing.T) {
	doc := &model.FiscalDocument{CFOP: "5102", Itens: []model.Item{{CFOP: "6102"}}}
	code, fromItem := doc.PrimaryCFOP()
	assert.Equal(t, "5102", code)
	assert.False(t, fromItem)

	doc.CFOP = ""
	code, fromItem = doc.PrimaryCFOP()
	assert.Equal(t, "6102", code)
	assert.True(t, fromItem)

	doc.Itens = nil
	code, _ = doc.PrimaryCFOP()
	assert.Empty(t, code)
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("cfop", "9999", "lookup", "unknown code")
	assert.Contains(t, err.Error(), "cfop")
}
