// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document outcome labels
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Metrics counts anonymization runs. All methods are safe on a nil receiver
// so callers that do not collect metrics can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	// Processed documents by outcome
	Documents *prometheus.CounterVec

	// Issued replacements by entity kind
	Entities *prometheus.CounterVec

	PersonsMerged prometheus.Counter
	PersonsPruned prometheus.Counter

	DocumentDuration prometheus.Histogram
}

// New creates a Metrics instance on its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skryi_documents_total",
			Help: "Documents processed by outcome",
		}, []string{"status"}),

		Entities: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skryi_entities_total",
			Help: "Replacements written by entity kind",
		}, []string{"kind"}),

		PersonsMerged: factory.NewCounter(prometheus.CounterOpts{
			Name: "skryi_persons_merged_total",
			Help: "Person identities merged into another during finalization",
		}),

		PersonsPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "skryi_persons_pruned_total",
			Help: "Person identities dropped for lack of evidence in the source text",
		}),

		DocumentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "skryi_document_duration_seconds",
			Help:    "Duration of one document run including reading and writing",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Registry exposes the underlying registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveDocument records one document outcome and its duration
func (m *Metrics) ObserveDocument(status string, d time.Duration) {
	if m != nil {
		m.Documents.WithLabelValues(status).Inc()
		m.DocumentDuration.Observe(d.Seconds())
	}
}

// AddEntities adds per-kind replacement counts
func (m *Metrics) AddEntities(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		if n > 0 {
			m.Entities.WithLabelValues(kind).Add(float64(n))
		}
	}
}

// AddFinalize records the merge and prune counts of one finalization
func (m *Metrics) AddFinalize(merged, pruned int) {
	if m != nil {
		m.PersonsMerged.Add(float64(merged))
		m.PersonsPruned.Add(float64(pruned))
	}
}

// WriteTextfile writes the current values in the text exposition format,
// for pickup by a node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
