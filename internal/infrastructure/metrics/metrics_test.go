package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_LabelsByPattern(t *testing.T) {
	m := New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/azkar/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Instrument(mux)

	for _, id := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/azkar/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/azkar/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestObserveAssistantCall(t *testing.T) {
	m := New()

	m.ObserveAssistantCall("ask", true, 120*time.Millisecond)
	m.ObserveAssistantCall("ask", false, time.Second)
	m.ObserveAssistantCall("ask", false, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.assistantCalls.WithLabelValues("ask", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.assistantCalls.WithLabelValues("ask", "false")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAssistantCall("explain", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "azkar_assistant_calls_total"))
	assert.Contains(t, body, `operation="explain"`)
}
