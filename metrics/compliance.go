package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ComplianceScansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compliance_scans_total",
			Help: "Total number of completed price compliance scans.",
		},
	)
	ViolationsOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_violations_opened_total",
			Help: "Total number of price violations opened by scans.",
		},
	)
	ViolationsResolvedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "price_violations_resolved_total",
			Help: "Total number of price violations resolved by administrators.",
		},
	)
	FulfillmentConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "order_fulfillment_conflicts_total",
			Help: "Fulfillment attempts rejected because stock ran out between accept and fulfill.",
		},
	)
	MarketplaceHealthScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_health_score",
			Help: "Last computed marketplace health score (0-100).",
		},
	)
)

func init() {
	prometheus.MustRegister(ComplianceScansTotal)
	prometheus.MustRegister(ViolationsOpenedTotal)
	prometheus.MustRegister(ViolationsResolvedTotal)
	prometheus.MustRegister(FulfillmentConflictsTotal)
	prometheus.MustRegister(MarketplaceHealthScore)
}
