package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})
	return tp, sr
}

func onlySpan(t *testing.T, sr *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	spans := sr.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	tp, sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing("test-service", tp))
	router.GET("/api/sales/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sales/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET /api/sales/:id", onlySpan(t, sr).Name())
}

func TestSpanAttributes(t *testing.T) {
	tp, sr := setupTestTracer(t)
	userID := uuid.NewString()

	router := gin.New()
	router.Use(RequestID(), Tracing("test-service", tp))
	router.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	router.Use(SpanAttributes())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	router.ServeHTTP(httptest.NewRecorder(), req)

	span := onlySpan(t, sr)
	requestID, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-123", requestID.AsString())
	user, ok := spanAttr(span, "user_id")
	require.True(t, ok)
	assert.Equal(t, userID, user.AsString())
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status      int
		code        codes.Code
		description string
	}{
		{http.StatusOK, codes.Unset, ""},
		{http.StatusBadRequest, codes.Error, "Client Error"},
		{http.StatusUnauthorized, codes.Error, "Unauthorized"},
		{http.StatusForbidden, codes.Error, "Forbidden"},
		{http.StatusNotFound, codes.Error, "Not Found"},
		{http.StatusTooManyRequests, codes.Error, "Too Many Requests"},
		{http.StatusInternalServerError, codes.Error, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			tp, sr := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing("test-service", tp), SpanErrorMarker())
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

			span := onlySpan(t, sr)
			assert.Equal(t, tt.code, span.Status().Code)
			if tt.description != "" {
				assert.Equal(t, tt.description, span.Status().Description)
			}
		})
	}
}

func TestSpanMiddleware_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanAttributes(), SpanErrorMarker())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	start := time.Now()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Less(t, time.Since(start), time.Second)
}
