package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/powerwise-backend/internal/config"
)

func keepGlobals(t *testing.T) {
	t.Helper()
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func enabled(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestInit_Disabled(t *testing.T) {
	keepGlobals(t)
	prev := otel.GetTracerProvider()

	shutdown, err := Init(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
	if otel.GetTracerProvider() != prev {
		t.Fatal("disabled tracing must not replace the provider")
	}
}

func TestInit_InstallsProviderAndPropagator(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		keepGlobals(t)
		cfg := enabled("powerwise-test")
		cfg.Insecure = insecure

		shutdown, err := Init(context.Background(), cfg, "v1.2.3")
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: expected sdk tracer provider", insecure)
		}

		ctx, span := otel.Tracer("test").Start(context.Background(), "root")
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		span.End()
		if !strings.HasPrefix(carrier.Get("traceparent"), "00-") {
			t.Fatalf("traceparent not injected: %v", carrier)
		}

		sctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		_ = shutdown(sctx)
		cancel()
	}
}

func TestInit_CanceledContext(t *testing.T) {
	keepGlobals(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	shutdown, err := Init(ctx, enabled("svc-canceled"), "v0")
	if err != nil {
		t.Fatalf("exporter connects lazily; got %v", err)
	}
	_ = shutdown(context.Background())
}

func TestInit_FailuresLeaveGlobals(t *testing.T) {
	t.Run("exporter", func(t *testing.T) {
		keepGlobals(t)
		orig := newTraceExporter
		t.Cleanup(func() { newTraceExporter = orig })
		newTraceExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
			return nil, errors.New("boom")
		}
		assertInitFails(t, "otlp exporter")
	})
	t.Run("resource", func(t *testing.T) {
		keepGlobals(t)
		orig := newResource
		t.Cleanup(func() { newResource = orig })
		newResource = func(context.Context, string, string) (*resource.Resource, error) {
			return nil, errors.New("boom")
		}
		assertInitFails(t, "otel resource")
	})
}

func assertInitFails(t *testing.T, prefix string) {
	t.Helper()
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	_, err := Init(context.Background(), enabled("svc"), "v0")
	if err == nil || !strings.HasPrefix(err.Error(), prefix) {
		t.Fatalf("err = %v; want prefix %q", err, prefix)
	}
	if otel.GetTracerProvider() != prevTP || otel.GetTextMapPropagator() != prevProp {
		t.Fatal("globals changed on failure")
	}
}

func TestSampler(t *testing.T) {
	cases := map[float64]string{
		1:    "root:AlwaysOnSampler",
		2:    "root:AlwaysOnSampler",
		0:    "root:AlwaysOffSampler",
		-1:   "root:AlwaysOffSampler",
		0.25: "root:TraceIDRatioBased{0.25}",
	}
	for ratio, want := range cases {
		if got := sampler(ratio).Description(); !strings.Contains(got, want) {
			t.Errorf("sampler(%v) = %q; want it to mention %q", ratio, got, want)
		}
	}
}
