package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000,
	}

	DecisionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcloak_decisions_total",
			Help: "Redirect decisions by final classification and verdict source",
		},
		[]string{"classification", "source"},
	)

	DecisionLatency = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trustcloak_decision_latency_ms",
			Help:    "Time from request arrival to redirect in milliseconds",
			Buckets: latencyBuckets,
		},
	)

	CacheLookupsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcloak_cache_lookups_total",
			Help: "Bot cache lookups by result",
		},
		[]string{"result"}, // hit or miss
	)

	RemoteClassifyLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustcloak_remote_classify_latency_ms",
			Help:    "Remote classification latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"outcome"},
	)

	EmailCapturesTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "trustcloak_email_captures_total",
			Help: "Emails handed to the capture sinks",
		},
	)

	DispatchDroppedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcloak_dispatch_dropped_total",
			Help: "Background jobs dropped because the queue was full",
		},
		[]string{"kind"},
	)

	DispatchFailedTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustcloak_dispatch_failed_total",
			Help: "Background jobs whose sink returned an error",
		},
		[]string{"sink"},
	)
)

type MetricsConfig struct {
	EnableLatency bool
	EnableProcess bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
		EnableProcess: true,
	}
}

var (
	Config        = DefaultMetricsConfig()
	initOnce      sync.Once
	cacheSizeOnce sync.Once
)

func Initialize(cfg MetricsConfig) {
	initOnce.Do(func() {
		Config = cfg
		if cfg.EnableProcess {
			registry.MustRegister(
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				collectors.NewGoCollector(),
			)
		}
	})
}

// RegisterCacheSize exposes the live number of cached bot IPs. Only the
// first registration takes effect.
func RegisterCacheSize(size func() float64) {
	cacheSizeOnce.Do(func() {
		promauto.With(registerer).NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "trustcloak_cache_entries",
				Help: "Number of IPs currently cached as bots",
			},
			size,
		)
	})
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
