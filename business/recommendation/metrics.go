package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendationsServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_recommendations_served_total",
			Help: "Count of ranked recommendation lists served, by learning policy.",
		},
		[]string{"policy"},
	)

	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_feedback_events_total",
			Help: "Count of A/B feedback events by selected variant and learning policy.",
		},
		[]string{"variant", "policy"},
	)

	FeedbackReasonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_feedback_reasons_total",
			Help: "Count of known reason codes given with A/B feedback.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsServedTotal, FeedbackEventsTotal, FeedbackReasonsTotal)
}
