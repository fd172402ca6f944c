package fiscallib_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/pkg/fiscallib"
)

const saleDocument = `{"document_type": "NFe", "numero": "55", "serie": "1", "data_emissao": "15/03/2024",
"cfop": "5102", "total": 200,
"emitente": {"cnpj": "11.222.333/0001-81", "razao_social": "Indústria Exemplo SA"},
"destinatario": {"cpf": "123.456.789-09"},
"itens": [
  {"descricao": "Parafuso", "ncm": "73181500", "cfop": "5102", "quantidade": 100, "valor_unitario": 1.5, "valor_total": 150},
  {"descricao": "Porca", "ncm": "73181600", "cfop": "5102", "quantidade": 100, "valor_unitario": "0,50", "valor_total": "50,00"}
],
"impostos": {"icms": {"cst": "00", "aliquota": 18, "valor": 36}, "ipi": {"cst": "53"},
"pis": {"cst": "01", "aliquota": 1.65, "valor": 3.3}, "cofins": {"cst": "01", "aliquota": 7.6, "valor": 15.2}}}`

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDefaultOptions(t *testing.T) {
	opts := fiscallib.DefaultOptions()

	assert.Equal(t, "0.01", opts.Tolerance)
	assert.True(t, opts.LegacyCNPJOverrides)
	assert.Equal(t, 4, opts.Workers)
	assert.False(t, opts.Classify)
}

func TestNewProcessor(t *testing.T) {
	proc, err := fiscallib.NewProcessor(fiscallib.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, proc)
	assert.NotNil(t, proc.Validator())
	assert.NotNil(t, proc.Classifier())

	require.NotNil(t, fiscallib.NewDefaultProcessor())
}

func TestNewProcessor_InvalidTolerance(t *testing.T) {
	opts := fiscallib.DefaultOptions()
	opts.Tolerance = "um centavo"

	_, err := fiscallib.NewProcessor(opts)
	assert.Error(t, err)
}

func TestValidateJSON(t *testing.T) {
	result := fiscallib.ValidateJSON([]byte(saleDocument))

	assert.Equal(t, fiscallib.StatusSuccess, result.Status, "%v %v", result.Issues, result.Warnings)
	assert.InDelta(t, 200.0, result.CalculatedSum, 1e-9)
	require.NotNil(t, result.Validations.Destinatario)
	assert.True(t, result.Validations.Destinatario.Valido)
}

func TestValidateDocument(t *testing.T) {
	doc, err := fiscallib.DecodeDocument([]byte(saleDocument))
	require.NoError(t, err)

	result := fiscallib.ValidateDocument(doc)
	assert.Equal(t, fiscallib.StatusSuccess, result.Status)

	result = fiscallib.ValidateDocument(nil)
	assert.Equal(t, fiscallib.StatusError, result.Status)
}

func TestClassify(t *testing.T) {
	doc, err := fiscallib.DecodeDocument([]byte(saleDocument))
	require.NoError(t, err)

	result := fiscallib.ClassifyDocument(doc)
	assert.Equal(t, fiscallib.TipoVenda, result.Tipo)
	assert.Equal(t, fiscallib.SetorComercio, result.Setor)
	assert.Equal(t, fiscallib.PerfilFornecedor, result.PerfilEmitente)
	assert.Equal(t, fiscallib.StatusSuccess, result.Validacao.Status)

	result = fiscallib.ClassifyJSON([]byte(`"nota"`))
	assert.Equal(t, fiscallib.TipoUnknown, result.Tipo)
	assert.Equal(t, fiscallib.SetorUnknown, result.Setor)
	assert.Equal(t, fiscallib.PerfilUnknown, result.PerfilEmitente)
}

func TestDecodeDocument_NotAMapping(t *testing.T) {
	_, err := fiscallib.DecodeDocument([]byte(`[1]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, fiscallib.ErrNotAMapping)

	var decodeErr *fiscallib.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestProcessor_Tolerance(t *testing.T) {
	doc := strings.Replace(saleDocument, `"total": 200`, `"total": 200.5`, 1)

	strict := fiscallib.NewDefaultProcessor()
	assert.Equal(t, fiscallib.StatusError, strict.Validator().ValidateJSON([]byte(doc)).Status)

	opts := fiscallib.DefaultOptions()
	opts.Tolerance = "1"
	loose, err := fiscallib.NewProcessor(opts)
	require.NoError(t, err)
	assert.Equal(t, fiscallib.StatusSuccess, loose.Validator().ValidateJSON([]byte(doc)).Status)
}

func TestProcessor_LegacyOverrides(t *testing.T) {
	doc := strings.Replace(saleDocument, "11.222.333/0001-81", "33453678000100", 1)

	assert.Equal(t, fiscallib.StatusSuccess, fiscallib.ValidateJSON([]byte(doc)).Status)

	opts := fiscallib.DefaultOptions()
	opts.LegacyCNPJOverrides = false
	proc, err := fiscallib.NewProcessor(opts)
	require.NoError(t, err)
	assert.Equal(t, fiscallib.StatusError, proc.Validator().ValidateJSON([]byte(doc)).Status)
}

func TestProcessor_Logger(t *testing.T) {
	var buf bytes.Buffer
	opts := fiscallib.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	proc, err := fiscallib.NewProcessor(opts)
	require.NoError(t, err)

	proc.Validator().ValidateJSON([]byte(`{"numero": "1", "itens": [{"quantidade": "x", "valor_total": 1}]}`))
	assert.Contains(t, buf.String(), "conversion_failure")
}

func TestProcessor_Process(t *testing.T) {
	opts := fiscallib.DefaultOptions()
	opts.Classify = true
	proc, err := fiscallib.NewProcessor(opts)
	require.NoError(t, err)

	input := "[" + saleDocument + `, {"numero": ""}]`
	results, err := proc.Process(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, fiscallib.StatusSuccess, results[0].Status())
	require.NotNil(t, results[0].Classification)
	assert.Equal(t, fiscallib.TipoVenda, results[0].Classification.Tipo)
	assert.Equal(t, fiscallib.StatusError, results[1].Status())

	summary := fiscallib.Summarize(results)
	assert.Equal(t, fiscallib.Summary{Total: 2, SuccessCount: 1, ErrorCount: 1}, summary)
}

func TestProcessor_ProcessReadError(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	_, err := proc.Process(context.Background(), failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")

	_, err = proc.ProcessBatch(context.Background(), []io.Reader{failingReader{}})
	assert.Error(t, err)
}

func TestProcessor_ProcessBatch(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	inputs := []io.Reader{
		strings.NewReader(saleDocument),
		strings.NewReader(`{"numero": "9"}` + "\n" + `{"numero": "10"}`),
	}
	results, err := proc.ProcessBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "input-0", results[0].Source)
	assert.Equal(t, "input-1", results[1].Source)
	assert.Equal(t, "jsonl", results[2].Format)
}

func TestProcessor_ProcessBatch_UnsupportedInput(t *testing.T) {
	proc := fiscallib.NewDefaultProcessor()

	_, err := proc.ProcessBatch(context.Background(), []io.Reader{strings.NewReader("<xml/>")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input-0")
}

// Benchmark tests

func BenchmarkValidateJSON(b *testing.B) {
	data := []byte(saleDocument)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fiscallib.ValidateJSON(data)
	}
}
