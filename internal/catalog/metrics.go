package catalog

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Loads    *prometheus.CounterVec
	Products prometheus.Gauge
	Skipped  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_loads_total",
				Help: "Full catalog loads by result",
			},
			[]string{"result"},
		),
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products in the cached catalog snapshot",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_skipped_descriptors_total",
			Help: "Descriptors skipped during a load because they were missing or malformed",
		}),
	}

	reg.MustRegister(m.Loads, m.Products, m.Skipped)
	return m
}

func (m *Metrics) loaded(n, skipped int) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues("ok").Inc()
	m.Products.Set(float64(n))
	m.Skipped.Add(float64(skipped))
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues("error").Inc()
}
