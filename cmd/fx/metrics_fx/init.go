package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"tripnotes/pkg/metrics"
)

var Module = fx.Provide(providePlanMetrics)

func providePlanMetrics() *metrics.PlanMetrics {
	return metrics.New(prometheus.DefaultRegisterer)
}
