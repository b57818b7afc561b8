package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterPrefix = "xtree/bench"

var once sync.Once

func meterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(meterPrefix)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

type appStats struct {
	ctx              context.Context
	shutdownCallback ShutdownFunc
	goroutines       metric.Int64ObservableUpDownCounter
	processes        metric.Int64ObservableUpDownCounter
}

func (stats *appStats) waitForShutdown() {
	if stats == nil || stats.shutdownCallback == nil {
		return
	}
	go func() {
		<-stats.ctx.Done()
		_ = stats.shutdownCallback(context.Background())
	}()
}

// InitAppStats observes the goroutines and GOMAXPROCS of the process and
// starts the runtime instrumentation. The shutdown callback runs once ctx is
// done.
func InitAppStats(ctx context.Context, name string, shutdown ShutdownFunc) {
	once.Do(func() {
		meter := otel.Meter(meterName(name), metric.WithInstrumentationVersion(otelruntime.Version()))
		stats := &appStats{
			ctx:              ctx,
			shutdownCallback: shutdown,
			goroutines: lo.Must(meter.Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			processes: lo.Must(meter.Int64ObservableUpDownCounter(
				"app.core.processes",
				metric.WithDescription(`The application processes' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
		}
		_ = otelruntime.Start()
		stats.waitForShutdown()
	})
}

// BenchStats records the averaged trial latencies of the benchmark.
type BenchStats struct {
	latency  metric.Float64Histogram
	elements metric.Int64Counter
	rss      metric.Int64Histogram
}

// NewBenchStats uses the global meter provider if mp is nil.
func NewBenchStats(mp metric.MeterProvider) (*BenchStats, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName("ops"))
	latency, err := meter.Float64Histogram(
		"xtree.bench.op.latency",
		metric.WithDescription("Average time of one trial over all the elements."),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, err
	}
	elements, err := meter.Int64Counter(
		"xtree.bench.op.elements",
		metric.WithDescription("Elements processed by the timed trials."),
	)
	if err != nil {
		return nil, err
	}
	rss, err := meter.Int64Histogram(
		"xtree.bench.process.rss",
		metric.WithDescription("Resident set size sampled after a set of elements."),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}
	return &BenchStats{
		latency:  latency,
		elements: elements,
		rss:      rss,
	}, nil
}

func (s *BenchStats) Record(ctx context.Context, kind, op string, elements, trials int, avgMicros float64, rss uint64) {
	if s == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("op", op),
		attribute.Int("elements", elements),
	)
	s.latency.Record(ctx, avgMicros, attrs)
	s.elements.Add(ctx, int64(elements*trials), attrs)
	if rss > 0 {
		s.rss.Record(ctx, int64(rss), metric.WithAttributes(attribute.String("kind", kind)))
	}
}
