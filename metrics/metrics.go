// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus instrumentation for the identity cache
package metrics

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/identitycache/fault"
	"github.com/bitmark-inc/identitycache/manager"
	"github.com/bitmark-inc/identitycache/resolver"
)

const namespace = "identitycache"

// resolution results
const (
	ResultFound   = "found"
	ResultUnknown = "unknown"
	ResultError   = "error"
)

// Metrics - all collectors, registered on their own registry
type Metrics struct {
	registry *prometheus.Registry

	Removals    prometheus.Counter
	Resolutions *prometheus.CounterVec

	Cached      prometheus.Gauge
	Online      prometheus.Gauge
	IDEntries   prometheus.Gauge
	NameBuckets prometheus.Gauge
}

// New - create and register the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removals_total",
			Help:      "Identities that left the cache",
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Last known name lookups by result",
		}, []string{"result"}),
		Cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached",
			Help:      "Identities currently cached",
		}),
		Online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online",
			Help:      "Players currently online",
		}),
		IDEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "id_entries",
			Help:      "Entries in the id index",
		}),
		NameBuckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "name_buckets",
			Help:      "Buckets in the name index",
		}),
	}

	m.registry.MustRegister(
		m.Removals,
		m.Resolutions,
		m.Cached,
		m.Online,
		m.IDEntries,
		m.NameBuckets,
	)
	return m
}

// Registry - for gathering in tests and custom handlers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler - HTTP handler serving this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// OnRemoved - a manager.RemovalListener
func (m *Metrics) OnRemoved(uuid.UUID) {
	m.Removals.Inc()
}

// Update - set the gauges from manager statistics
func (m *Metrics) Update(s manager.Stats) {
	m.Cached.Set(float64(s.Cached))
	m.Online.Set(float64(s.Online))
	m.IDEntries.Set(float64(s.IDEntries))
	m.NameBuckets.Set(float64(s.NameBuckets))
}

// InstrumentResolver - count the results of every lookup on r
func (m *Metrics) InstrumentResolver(r resolver.Resolver) resolver.Resolver {
	return resolver.Func(func(id uuid.UUID) (string, error) {
		name, err := r.LastKnownName(id)
		switch {
		case nil == err:
			m.Resolutions.WithLabelValues(ResultFound).Inc()
		case fault.IsErrNotFound(err):
			m.Resolutions.WithLabelValues(ResultUnknown).Inc()
		default:
			m.Resolutions.WithLabelValues(ResultError).Inc()
		}
		return name, err
	})
}
