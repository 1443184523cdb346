// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ldstaking/ldstake/log"
)

const namespace = "ldstake"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the process to a prometheus backed implementation.
// Calling it again keeps the existing registry.
func InitializePrometheusMetrics() {
	if _, ok := current().(*prometheusMetrics); ok {
		return
	}
	var m Metrics = newPrometheusMetrics()
	active.Store(&m)
}

type prometheusMetrics struct {
	registry *prometheus.Registry
	meters   sync.Map // kind/name => meter
	mu       sync.Mutex
}

func newPrometheusMetrics() *prometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return &prometheusMetrics{registry: registry}
}

func (o *prometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// getOrCreate returns the meter registered under kind and name, creating it on first use.
func getOrCreate[T any](o *prometheusMetrics, kind, name string, create func() (prometheus.Collector, T)) T {
	key := kind + "/" + name
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if m, ok := o.meters.Load(key); ok {
		return m.(T)
	}
	collector, meter := create()
	if err := o.registry.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	o.meters.Store(key, meter)
	return meter
}

func (o *prometheusMetrics) Counter(name string) CountMeter {
	return getOrCreate(o, "counter", name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCounter{c}
	})
}

func (o *prometheusMetrics) CounterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(o, "counter_vec", name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCounterVec{c}
	})
}

func (o *prometheusMetrics) Gauge(name string) GaugeMeter {
	return getOrCreate(o, "gauge", name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGauge{g}
	})
}

func (o *prometheusMetrics) GaugeVec(name string, labels []string) GaugeVecMeter {
	return getOrCreate(o, "gauge_vec", name, func() (prometheus.Collector, GaugeVecMeter) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return g, &promGaugeVec{g}
	})
}

func (o *prometheusMetrics) Histogram(name string, buckets []int64) HistogramMeter {
	return getOrCreate(o, "histogram", name, func() (prometheus.Collector, HistogramMeter) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		return h, &promHistogram{h}
	})
}

func (o *prometheusMetrics) HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(o, "histogram_vec", name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return h, &promHistogramVec{h}
	})
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

type promCounter struct{ c prometheus.Counter }

func (m *promCounter) Add(i int64) { m.c.Add(float64(i)) }

type promCounterVec struct{ c *prometheus.CounterVec }

func (m *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	m.c.With(labels).Add(float64(i))
}

type promGauge struct{ g prometheus.Gauge }

func (m *promGauge) Add(i int64) { m.g.Add(float64(i)) }
func (m *promGauge) Set(i int64) { m.g.Set(float64(i)) }

type promGaugeVec struct{ g *prometheus.GaugeVec }

func (m *promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Add(float64(i))
}

func (m *promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	m.g.With(labels).Set(float64(i))
}

type promHistogram struct{ h prometheus.Histogram }

func (m *promHistogram) Observe(i int64) { m.h.Observe(float64(i)) }

type promHistogramVec struct{ h *prometheus.HistogramVec }

func (m *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	m.h.With(labels).Observe(float64(i))
}
