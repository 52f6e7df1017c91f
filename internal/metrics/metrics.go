package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	IngestedListingsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_listings_ingested_total",
			Help: "Total number of new listings stored and delivered.",
		},
	)
	NotificationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notifications_sent_total",
			Help: "Total number of messages delivered to chats.",
		},
		[]string{"kind"},
	)
	RetriesExhaustedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_target_retries_exhausted_total",
			Help: "Total number of per-target checks that failed after all retries.",
		},
	)
	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_poll_tick_duration_seconds",
			Help:    "Duration of each ingestion tick in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120},
		},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(IngestedListingsCounter)
	prometheus.MustRegister(NotificationsCounter)
	prometheus.MustRegister(RetriesExhaustedCounter)
	prometheus.MustRegister(PollDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
