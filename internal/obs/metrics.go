// Package obs exposes the service's Prometheus instrumentation, including
// the normalization fallback counter that makes silent 0.0 substitutions
// visible to operators.
package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ads_ingest_rows_total",
		Help: "Normalized records produced, by ingest source.",
	}, []string{"source"})

	CellFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ads_ingest_cell_fallbacks_total",
		Help: "Numeric cells that could not be parsed and became 0.",
	})

	ScaleCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ads_ingest_scale_corrections_total",
		Help: "Tables the thousands-VND unit-scale correction was applied to.",
	})
)

// Handler serves the default registry on /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
