package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/metrics"
	"github.com/rezonia/fiscal-validator/internal/model"
	"github.com/rezonia/fiscal-validator/internal/validator"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserve(t *testing.T) {
	m := metrics.New()

	m.Observe(model.StatusSuccess, model.TipoVenda, 2*time.Millisecond)
	m.Observe(model.StatusError, model.TipoUnknown, time.Millisecond)
	m.ObserveValidation(model.StatusSuccess)
	m.ObserveClassification(model.TipoCompra)

	out := scrape(t, m)
	assert.Contains(t, out, `fiscal_validations_total{status="success"} 2`)
	assert.Contains(t, out, `fiscal_validations_total{status="error"} 1`)
	assert.Contains(t, out, `fiscal_classifications_total{tipo="venda"} 1`)
	assert.Contains(t, out, `fiscal_classifications_total{tipo="compra"} 1`)
	assert.Contains(t, out, "fiscal_record_duration_seconds_count 2")
}

func TestObserveRequest(t *testing.T) {
	m := metrics.New()

	m.ObserveRequest(http.MethodPost, "/api/v1/validate", 200, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `fiscal_http_requests_total{code="200",method="POST",route="/api/v1/validate"} 1`)
	assert.Contains(t, out, `route="unmatched"`)
}

func TestObserveCache(t *testing.T) {
	m := metrics.New()
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	out := scrape(t, m)
	assert.Contains(t, out, `fiscal_review_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, out, `fiscal_review_cache_lookups_total{result="miss"} 2`)
}

func TestSink_CountsConversionFailures(t *testing.T) {
	m := metrics.New()
	v := validator.New(validator.WithSink(m.Sink()))

	v.ValidateJSON([]byte(`{"numero": "1", "total": "abc", "itens": [{"quantidade": "x", "valor_total": 1}]}`))

	out := scrape(t, m)
	assert.Contains(t, out, `fiscal_validation_events_total{kind="conversion_failure",phase="itens"} 1`)
	assert.Contains(t, out, `fiscal_validation_events_total{kind="conversion_failure",phase="totals"} 1`)
	assert.Contains(t, out, `fiscal_validation_events_total{kind="summary",phase="resultado"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Observe(model.StatusSuccess, model.TipoVenda, time.Millisecond)
		m.ObserveValidation(model.StatusSuccess)
		m.ObserveClassification(model.TipoVenda)
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.ObserveCache(true)
		m.Sink().Event(validator.Event{Kind: "x"})
	})
}

func TestRuntimeCollectors(t *testing.T) {
	out := scrape(t, metrics.New())
	assert.Contains(t, out, "go_goroutines")
}
