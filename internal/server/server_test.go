package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/server"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

const validDocument = `{"document_type": "NFe", "numero": "10", "serie": "1", "data_emissao": "2024-02-01",
"cfop": "5102", "total": "150,00",
"emitente": {"cnpj": "11222333000181", "razao_social": "Loja Exemplo LTDA"},
"itens": [{"descricao": "Camiseta", "ncm": "61091000", "cfop": "5102", "quantidade": 3, "valor_unitario": "50,00", "valor_total": "150,00"}],
"impostos": {"icms": {"cst": "00", "aliquota": 18, "valor": 27}, "ipi": {"cst": "53"},
"pis": {"cst": "01", "aliquota": 1.65, "valor": 2.48}, "cofins": {"cst": "01", "aliquota": 7.6, "valor": 11.4}}}`

func newTestServer(mutate ...func(*server.Config)) *server.Server {
	config := &server.Config{
		Address: ":8080",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range mutate {
		fn(config)
	}
	return server.NewServer(config)
}

func do(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	response := decode[map[string]interface{}](t, w)
	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
	assert.Equal(t, false, response["review"])
}

func TestRequestID(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get(server.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(server.RequestIDHeader))
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/validate", validDocument)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decode[model.ValidationResult](t, w)
	assert.Equal(t, model.StatusSuccess, result.Status, "%v %v", result.Issues, result.Warnings)
	assert.Empty(t, result.Issues)
}

func TestValidateEndpoint_Structural(t *testing.T) {
	srv := newTestServer()

	for _, body := range []string{`[1, 2]`, `"texto"`, `{"numero": `} {
		t.Run(body, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/validate", body)
			assert.Equal(t, http.StatusOK, w.Code)

			result := decode[model.ValidationResult](t, w)
			assert.Equal(t, model.StatusError, result.Status)
			assert.Equal(t, []string{validator.MsgInvalidFormat}, result.Issues)
		})
	}
}

func TestEmptyBody(t *testing.T) {
	srv := newTestServer()

	for _, path := range []string{"/api/v1/validate", "/api/v1/classify", "/api/v1/process"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, path, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "empty request body", decode[server.ErrorResponse](t, w).Error)
		})
	}
}

func TestClassifyEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/classify", validDocument)
	assert.Equal(t, http.StatusOK, w.Code)

	result := decode[model.ClassificationResult](t, w)
	assert.Equal(t, model.TipoVenda, result.Tipo)
	assert.Equal(t, model.SetorComercio, result.Setor)
	assert.Equal(t, model.PerfilFornecedor, result.PerfilEmitente)
	assert.Equal(t, model.StatusSuccess, result.Validacao.Status)

	w = do(t, srv, http.MethodPost, "/api/v1/classify", `42`)
	assert.Equal(t, http.StatusOK, w.Code)
	result = decode[model.ClassificationResult](t, w)
	assert.Equal(t, model.TipoUnknown, result.Tipo)
	assert.Equal(t, []string{validator.MsgInvalid}, result.Validacao.Issues)
}

func TestProcessEndpoint(t *testing.T) {
	srv := newTestServer()
	line := strings.ReplaceAll(validDocument, "\n", " ")
	body := line + "\n" + `{"numero": "2"}` + "\n" + line + "\n"

	w := do(t, srv, http.MethodPost, "/api/v1/process", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode[map[string]json.RawMessage](t, w)
	var total, success, errCount int
	require.NoError(t, json.Unmarshal(response["total"], &total))
	require.NoError(t, json.Unmarshal(response["success_count"], &success))
	require.NoError(t, json.Unmarshal(response["error_count"], &errCount))
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, success)
	assert.Equal(t, 1, errCount)
	assert.JSONEq(t, `"jsonl"`, string(response["format"]))

	var results []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(response["results"], &results))
	require.Len(t, results, 3)
	assert.Contains(t, results[0], "classification")
}

func TestProcessEndpoint_UnknownFormat(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/process", "numero=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[server.ErrorResponse](t, w).Details, "unsupported input format")
}

func TestCNPJEndpoint(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name       string
		input      string
		valid      bool
		overridden bool
		kind       string
	}{
		{"valid", "11222333000181", true, false, "cnpj"},
		{"bad check digit", "11222333000182", false, false, "cnpj"},
		{"legacy override", "33453678000100", true, true, "cnpj"},
		{"short", "123", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/api/v1/cnpj/"+tt.input, "")
			assert.Equal(t, http.StatusOK, w.Code)

			response := decode[server.CNPJResponse](t, w)
			assert.Equal(t, tt.valid, response.Valid)
			assert.Equal(t, tt.overridden, response.Overridden)
			assert.Equal(t, tt.kind, response.Kind)
		})
	}
}

func TestCNPJEndpoint_WithoutOverrides(t *testing.T) {
	srv := newTestServer(func(c *server.Config) {
		c.ValidatorOptions = []validator.Option{validator.WithCNPJValidator(cnpj.NewValidator())}
	})

	w := do(t, srv, http.MethodGet, "/api/v1/cnpj/33453678000100", "")
	response := decode[server.CNPJResponse](t, w)
	assert.False(t, response.Valid)
	assert.False(t, response.Overridden)
}

func TestCFOPEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodGet, "/api/v1/cfop/5102", "")
	require.Equal(t, http.StatusOK, w.Code)
	response := decode[server.CFOPResponse](t, w)
	assert.Equal(t, "5102", response.Code)
	assert.Equal(t, "sale", response.Category)
	assert.Equal(t, "venda", response.Tipo)
	assert.NotEmpty(t, response.Description)

	w = do(t, srv, http.MethodGet, "/api/v1/cfop/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[server.ErrorResponse](t, w).Details, "cfop")
}

func TestNCMEndpoint(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		code   string
		status int
	}{
		{"22030000", http.StatusOK},
		{"2203.00.00", http.StatusOK},
		{"2203", http.StatusBadRequest},
		{"77000000", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/api/v1/ncm/"+tt.code, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(t, srv, http.MethodGet, "/api/v1/ncm/22030000", "")
	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, "22", body["chapter"])
	assert.Equal(t, true, body["known"])
}

func TestReviewEndpoint_NoAPIKey(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv, http.MethodPost, "/api/v1/review", `{"cfop": "5102"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReviewEndpoint_EmptyRequest(t *testing.T) {
	srv := newTestServer(func(c *server.Config) {
		c.APIKey = "test-key"
		c.LLMBaseURL = "http://127.0.0.1:1"
	})

	w := do(t, srv, http.MethodPost, "/api/v1/review", `{"numero": "1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/api/v1/review", `[1]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()

	do(t, srv, http.MethodPost, "/api/v1/validate", validDocument)
	do(t, srv, http.MethodPost, "/api/v1/process", validDocument)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := w.Body.String()
	assert.Contains(t, out, `fiscal_http_requests_total{code="200",method="POST",route="/api/v1/validate"} 1`)
	assert.Contains(t, out, `fiscal_validations_total{status="success"} 2`)
	assert.Contains(t, out, `fiscal_classifications_total{tipo="venda"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer()
	w := do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Benchmark tests

func BenchmarkValidate(b *testing.B) {
	srv := newTestServer()
	body := []byte(validDocument)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
