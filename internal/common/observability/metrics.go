package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	extractionCounter  otelmetric.Int64Counter
	extractionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	extractionCounter, _ := meter.Int64Counter(
		"extractions.processed",
		otelmetric.WithDescription("Number of extraction requests processed"),
	)

	extractionDuration, _ := meter.Float64Histogram(
		"extractions.duration",
		otelmetric.WithDescription("Extraction processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		extractionCounter:  extractionCounter,
		extractionDuration: extractionDuration,
	}
}

func (o *Observability) RecordExtraction(ctx context.Context, source string) {
	if o.extractionCounter != nil {
		o.extractionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
		))
	}
}

func (o *Observability) RecordExtractionDuration(ctx context.Context, duration time.Duration, source string) {
	if o.extractionDuration != nil {
		o.extractionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("source", source),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
