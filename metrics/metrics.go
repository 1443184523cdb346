// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics holds the process wide meters. It is a no-op until
// InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
)

var active atomic.Pointer[Metrics]

func init() {
	var m Metrics = noopMetrics{}
	active.Store(&m)
}

func current() Metrics {
	return *active.Load()
}

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	Histogram(name string, buckets []int64) HistogramMeter
	HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	Handler() http.Handler
}

// NoOp reports whether meters are discarded.
func NoOp() bool {
	_, ok := current().(noopMetrics)
	return ok
}

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler {
	return current().Handler()
}

var (
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}
	BucketCommit   = []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000}
)

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

func Counter(name string) CountMeter { return current().Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return current().CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return current().Gauge(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return current().GaugeVec(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return current().Histogram(name, buckets)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return current().HistogramVec(name, labels, buckets)
}

// LazyLoad defers creating a meter to its first use, so package level meters
// bind to whichever implementation is active by then.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
