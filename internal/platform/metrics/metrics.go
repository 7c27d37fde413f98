// Package metrics exposes prometheus collectors for borrow/return activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labcv"

type Metrics struct {
	registry *prometheus.Registry
	items    *prometheus.CounterVec
	quantity *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_items_total",
			Help:      "Borrow/return line items processed, by action and outcome.",
		}, []string{"action", "outcome"}),
		quantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_units_total",
			Help:      "Units of equipment successfully borrowed or returned.",
		}, []string{"action"}),
	}
	reg.MustRegister(
		m.items,
		m.quantity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveItem: outcome は "ok" あるいはエラーコード
func (m *Metrics) ObserveItem(action, outcome string, quantity int) {
	m.items.WithLabelValues(action, outcome).Inc()
	if outcome == "ok" && quantity > 0 {
		m.quantity.WithLabelValues(action).Add(float64(quantity))
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
