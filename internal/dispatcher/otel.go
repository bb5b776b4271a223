package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/skiprunback/extension/internal/dispatcher"

// metrics are no-ops until a global meter provider is installed.
type metrics struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter
}

func newMetrics(queueLengths func(observe func(command string, n int))) (*metrics, error) {
	m := otel.Meter(instrumentationName)

	out := &metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.processed, "dispatcher.events.processed", "Events whose handler succeeded"},
		{&out.failed, "dispatcher.events.failed", "Events whose handler returned an error"},
		{&out.dropped, "dispatcher.events.dropped", "Events dropped because the queue was full"},
	}

	for _, c := range counters {
		counter, err := m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	_, err := m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Events waiting in a buffered handler's queue"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			queueLengths(func(command string, n int) {
				o.Observe(int64(n), metric.WithAttributes(attribute.String("command", command)))
			})
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher.queue.size: %w", err)
	}
	return out, nil
}

func (m *metrics) count(command string, h HandlerFunc) HandlerFunc {
	attrs := metric.WithAttributes(attribute.String("command", command))
	return func(e Event) (any, error) {
		result, err := h(e)
		if err != nil {
			m.failed.Add(context.Background(), 1, attrs)
		} else {
			m.processed.Add(context.Background(), 1, attrs)
		}
		return result, err
	}
}

func (m *metrics) drop(command string) {
	m.dropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("command", command)))
}
