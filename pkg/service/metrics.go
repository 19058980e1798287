package service

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stockroom-app/variantd/pkg/model"
)

// Metrics holds the Prometheus metrics exported by the HTTP service.
type Metrics struct {
	FeatureChecks *prometheus.CounterVec
	VariantInfo   *prometheus.GaugeVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FeatureChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "variantd_feature_checks_total",
			Help: "Feature enablement queries answered, by feature and result",
		}, []string{"feature", "enabled"}),
		VariantInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "variantd_repository_variant_info",
			Help: "Repository variant served by this process; always 1",
		}, []string{"variant", "source"}),
	}
}

func (m *Metrics) observeCheck(key string, enabled bool) {
	m.FeatureChecks.WithLabelValues(key, strconv.FormatBool(enabled)).Inc()
}

func (m *Metrics) setVariant(v model.Variant, source model.Source) {
	m.VariantInfo.Reset()
	m.VariantInfo.WithLabelValues(string(v), string(source)).Set(1)
}
