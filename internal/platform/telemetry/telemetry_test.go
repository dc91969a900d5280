package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingProvider(t *testing.T) (*Provider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	p := newProviderWith(Config{Enabled: true, SampleRatio: 1}, tp)
	t.Cleanup(func() { p.Shutdown(context.Background()) })
	return p, sr
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{SampleRatio: 3}
	cfg.applyDefaults()
	if cfg.ServiceName != "healthintel-server" {
		t.Errorf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1 {
		t.Errorf("expected sample ratio clamped to 1, got %v", cfg.SampleRatio)
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	e := echo.New()
	e.Use(p.TracingMiddleware())
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTracingMiddleware_CreatesSpan(t *testing.T) {
	p, sr := newRecordingProvider(t)

	e := echo.New()
	e.Use(p.TracingMiddleware())
	e.GET("/api/v1/health-summary/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health-summary/42", nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "HTTP GET /api/v1/health-summary/:id" {
		t.Fatalf("unexpected span name %q", span.Name())
	}
	if v, ok := attr(span, "http.route"); !ok || v.AsString() != "/api/v1/health-summary/:id" {
		t.Errorf("expected http.route attribute, got %v", v)
	}
	if v, ok := attr(span, "http.response.status_code"); !ok || v.AsInt64() != 200 {
		t.Errorf("expected status 200 attribute, got %v", v)
	}
	if span.Status().Code == codes.Error {
		t.Error("expected non-error span status")
	}
}

func TestTracingMiddleware_HTTPErrorStatus(t *testing.T) {
	p, sr := newRecordingProvider(t)

	e := echo.New()
	e.Use(p.TracingMiddleware())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if v, _ := attr(spans[0], "http.response.status_code"); v.AsInt64() != 503 {
		t.Errorf("expected 503, got %v", v.AsInt64())
	}
	if spans[0].Status().Code != codes.Error {
		t.Error("expected error span status")
	}
}

func TestTracingMiddleware_ContextCarriesSpan(t *testing.T) {
	p, sr := newRecordingProvider(t)
	tracer := p.Tracer("test")

	e := echo.New()
	e.Use(p.TracingMiddleware())
	e.GET("/nested", func(c echo.Context) error {
		_, child := tracer.Start(c.Request().Context(), "child")
		child.End()
		return c.NoContent(http.StatusNoContent)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nested", nil))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	child, server := spans[0], spans[1]
	if child.Parent().SpanID() != server.SpanContext().SpanID() {
		t.Error("expected child span to be parented by the server span")
	}
}
