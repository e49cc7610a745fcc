// Package metrics provides Prometheus instrumentation for cudsviz conversions.
//
// # Overview
//
// A Collector owns the conversion metrics and registers them on a
// caller-supplied prometheus.Registerer, so tests and embedding programs can
// keep their own registries:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector("cudsviz", reg)
//
//	timer := metrics.NewTimer("convert")
//	ds, err := conv.Convert(container)
//	collector.ObserveConversion("mesh", timer.Stop(), err)
//
// # Metric Types
//
//   - conversions_total{kind,outcome}: conversions attempted, by result
//   - items_converted_total{kind,entity}: points and cells emitted
//   - conversion_duration_seconds{kind}: conversion latency
//   - bytes_written_total{format}: persisted output volume
//   - batch_jobs_in_flight: batch jobs currently converting
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector records conversion metrics. Safe for concurrent use.
type Collector struct {
	conversions    *prometheus.CounterVec   // Conversions by kind and outcome
	itemsConverted *prometheus.CounterVec   // Points/cells emitted
	duration       *prometheus.HistogramVec // Conversion latency distribution
	bytesWritten   *prometheus.CounterVec   // Persisted bytes by format
	jobsInFlight   prometheus.Gauge         // Batch jobs currently running
	startTime      time.Time                // Collector creation time
}

// NewCollector creates a collector whose metrics are prefixed with namespace
// and registered on reg. A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of container conversions",
			},
			[]string{"kind", "outcome"},
		),
		itemsConverted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_converted_total",
				Help:      "Total number of points and cells emitted by conversions",
			},
			[]string{"kind", "entity"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Conversion latency in seconds",
				Buckets: []float64{
					1e-5, // 10μs - Tiny containers
					1e-4, // 100μs
					1e-3, // 1ms
					1e-2, // 10ms
					1e-1, // 100ms
					1,    // 1s - Large meshes
					10,   // 10s
				},
			},
			[]string{"kind"},
		),
		bytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_written_total",
				Help:      "Total bytes written to persisted outputs",
			},
			[]string{"format"},
		),
		jobsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_jobs_in_flight",
				Help:      "Number of batch jobs currently converting",
			},
		),
		startTime: time.Now(),
	}
}

// ObserveConversion records one conversion of the given kind.
func (c *Collector) ObserveConversion(kind string, d time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.conversions.WithLabelValues(kind, outcome).Inc()
	c.duration.WithLabelValues(kind).Observe(d.Seconds())
}

// AddItems records points and cells emitted by a conversion.
func (c *Collector) AddItems(kind string, points, cells int) {
	c.itemsConverted.WithLabelValues(kind, "points").Add(float64(points))
	c.itemsConverted.WithLabelValues(kind, "cells").Add(float64(cells))
}

// AddBytes records n bytes written in format.
func (c *Collector) AddBytes(format string, n int64) {
	c.bytesWritten.WithLabelValues(format).Add(float64(n))
}

// JobStarted marks a batch job as running. Call the returned func when it
// finishes.
func (c *Collector) JobStarted() func() {
	c.jobsInFlight.Inc()
	return c.jobsInFlight.Dec
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer's label.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
