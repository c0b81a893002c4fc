package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/viant/alloctrack/tracking"
)

// Init configures OpenTelemetry with the stdout exporter backed by either
// os.Stdout or the specified file. If outputFile is an empty string spans
// are written to os.Stdout. The function is safe to call multiple times –
// the first invocation wins, and later calls touch no file.
func Init(serviceName, serviceVersion, outputFile string) error {
	return installProvider(serviceName, serviceVersion, func() (sdktrace.SpanExporter, error) {
		var w io.Writer = os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return nil, err
			}
			w = f
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	})
}

// InitWithExporter configures OpenTelemetry using the supplied SpanExporter,
// allowing integration with any exporter supported by the OpenTelemetry SDK
// (e.g. OTLP, Jaeger, Zipkin). The first invocation wins.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	return installProvider(serviceName, serviceVersion, func() (sdktrace.SpanExporter, error) {
		return exporter, nil
	})
}

var (
	providerOnce sync.Once
	providerErr  error
)

// installProvider builds an exporter and registers it as the global trace
// provider. The whole operation, exporter construction included, executes
// only once; subsequent invocations acquire no resources and return the
// error (if any) from the first attempt.
func installProvider(serviceName, serviceVersion string, newExporter func() (sdktrace.SpanExporter, error)) error {
	providerOnce.Do(func() {
		exporter, err := newExporter()
		if err != nil {
			providerErr = err
			return
		}

		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", serviceVersion),
			),
		)
		if err != nil {
			providerErr = err
			return
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
	})

	return providerErr
}

// Span wraps go.opentelemetry.io/otel/trace.Span together with the
// allocation-group scope entered when the span started.
type Span struct {
	span  trace.Span
	guard *tracking.ScopeGuard
}

// WithAttributes attaches all provided attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}
	s.span.SetAttributes(otelAttrs...)
	return s
}

// SetStatus records an error status on the span. If err is nil an OK status
// is recorded instead.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
}

// StartSpan starts a new child span and, when a group token is supplied,
// enters the token's allocation group on the calling goroutine for the
// lifetime of the span. The group id and the token's tags are recorded as
// span attributes so traces and memory telemetry can be correlated.
func StartSpan(ctx context.Context, name string, token *tracking.Token) (context.Context, *Span) {
	tracer := otel.Tracer("github.com/viant/alloctrack")
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))

	ret := &Span{span: span}
	if token != nil {
		ret.guard = token.Enter()
		attrs := []attribute.KeyValue{
			attribute.Int("allocation.group_id", int(token.ID())),
		}
		for _, tag := range token.Tags() {
			attrs = append(attrs, attribute.String(tag.Key, tag.Value))
		}
		span.SetAttributes(attrs...)
	}
	return ctx, ret
}

// EndSpan exits the span's allocation-group scope, records status depending
// on the provided error and finalises the span. Safe on every exit path,
// typically deferred right after StartSpan.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.guard.Exit()
	sp.SetStatus(err)
	sp.span.End()
}
