package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveItem(t *testing.T) {
	m := New()
	m.ObserveItem("borrow", "ok", 2)
	m.ObserveItem("borrow", "ok", 3)
	m.ObserveItem("borrow", "NOT_FOUND", 1)
	m.ObserveItem("return", "ok", 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("borrow", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.items.WithLabelValues("borrow", "NOT_FOUND")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.quantity.WithLabelValues("borrow")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quantity.WithLabelValues("return")))
}

func TestHandlerServesExposition(t *testing.T) {
	m := New()
	m.ObserveItem("return", "ok", 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `labcv_transaction_units_total{action="return"} 4`)
}
