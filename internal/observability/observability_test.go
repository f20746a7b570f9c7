package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestHTTPMetricsMiddlewareLabelsAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware())
	r.GET("/probe", func(c *gin.Context) {
		c.Set(ActionKey, "contacts")
		c.Status(http.StatusNoContent)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/probe", "contacts", "204")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestDomainCounters(t *testing.T) {
	sent := testutil.ToFloat64(messagesSentTotal)
	created := testutil.ToFloat64(chatsCreatedTotal)

	IncMessagesSent()
	IncChatsCreated()

	assert.Equal(t, sent+1, testutil.ToFloat64(messagesSentTotal))
	assert.Equal(t, created+1, testutil.ToFloat64(chatsCreatedTotal))
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "messenger-service", "")

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: trace.TraceID{0xab}, SpanID: trace.SpanID{1}})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	assert.Equal(t, sc.TraceID().String(), TraceIDFromContext(ctx))
}

func TestRequestHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	assert.Equal(t, "10.0.0.1", IPFromRequest(req))

	ctx := ContextWithRequestID(context.Background(), "req-9")
	assert.Equal(t, "req-9", RequestIDFromContext(ctx))
	assert.Equal(t, map[string]string{"x-request-id": "req-9"}, BuildHeaders("req-9", ""))
}
