package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/scorelect/drillboard/internal/dispatcher"

type metrics struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter
	latency   metric.Float64Histogram
	reg       metric.Registration
}

func newMetrics(queues func() map[string]int) (*metrics, error) {
	m := otel.Meter(instrumentationName)
	out := &metrics{}
	var err error

	if out.processed, err = m.Int64Counter("dispatcher.events.processed",
		metric.WithDescription("Editor events handled")); err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}
	if out.failed, err = m.Int64Counter("dispatcher.events.failed",
		metric.WithDescription("Editor events whose handler returned an error")); err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	if out.dropped, err = m.Int64Counter("dispatcher.events.dropped",
		metric.WithDescription("Editor events rejected by a full queue")); err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	if out.latency, err = m.Float64Histogram("dispatcher.event.duration",
		metric.WithDescription("Time spent in event handlers"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	size, err := m.Int64ObservableGauge("dispatcher.queue.size",
		metric.WithDescription("Editor events waiting in buffered queues"))
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}
	out.reg, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for cmd, n := range queues() {
			o.ObserveInt64(size, int64(n), metric.WithAttributes(attribute.String("command", cmd)))
		}
		return nil
	}, size)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}
	return out, nil
}

func (m *metrics) record(command string, took time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("command", command))
	m.processed.Add(ctx, 1, attrs)
	m.latency.Record(ctx, float64(took.Microseconds())/1000, attrs)
	if err != nil {
		m.failed.Add(ctx, 1, attrs)
	}
}

func (m *metrics) drop(command string) {
	m.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", command)))
}

func (m *metrics) unregister() {
	if m.reg != nil {
		_ = m.reg.Unregister()
	}
}
