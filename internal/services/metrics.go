package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// generationsTotal counts finished generations by outcome ("success" or a
	// failure Kind).
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powerwise_generations_total",
			Help: "Recommendation generations by outcome.",
		},
		[]string{"outcome"},
	)

	// gatewayDuration records the wall time of one completion call.
	gatewayDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "powerwise_gateway_duration_seconds",
			Help:    "Duration of AI gateway completion calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90, 120},
		},
	)

	// webhooksTotal counts payment webhooks by result.
	webhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powerwise_payment_webhooks_total",
			Help: "Payment webhooks by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, gatewayDuration, webhooksTotal)
}
