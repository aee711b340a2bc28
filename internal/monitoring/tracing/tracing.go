package tracing

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerPrefix = "yushan"

var (
	initOnce       sync.Once
	tracerProvider *sdktrace.TracerProvider
)

// Init configures OpenTelemetry when OTEL_EXPORTER_OTLP_ENDPOINT is set.
// The returned shutdown func flushes pending spans; it is a no-op when tracing is off.
func Init(ctx context.Context, service string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	var initErr error
	initOnce.Do(func() {
		endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
		if endpoint == "" {
			return
		}

		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		insecureFlag := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"))
		if insecureFlag == "" || strings.EqualFold(insecureFlag, "true") || insecureFlag == "1" {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		exporter, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			initErr = err
			return
		}
		res, err := resource.New(ctx,
			resource.WithAttributes(
				attribute.String("service.name", service),
				attribute.String("service.version", version.Version),
			),
			resource.WithProcess(),
			resource.WithFromEnv(),
		)
		if err != nil {
			initErr = err
			return
		}

		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	})

	if initErr != nil || tracerProvider == nil {
		return noop, initErr
	}
	return tracerProvider.Shutdown, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(component string) trace.Tracer {
	name := tracerPrefix
	if strings.TrimSpace(component) != "" {
		name = name + "/" + component
	}
	return otel.Tracer(name)
}

// StartSpan is a convenience wrapper around Tracer(component).Start.
func StartSpan(ctx context.Context, component, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(component).Start(ctx, spanName, opts...)
}

// Fail marks span as failed with err.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Inject copies the active trace context into outbound headers.
func Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}
