// Package metrics exposes Prometheus instrumentation for a collection.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for minting, reveals and withdrawals.
type Metrics struct {
	// Successful mint calls by channel
	Mints *prometheus.CounterVec

	// Identifiers minted by channel
	MintedTokens *prometheus.CounterVec

	// Rejected calls by error kind
	Rejections *prometheus.CounterVec

	// Last revealed batch
	BatchesRevealed prometheus.Gauge

	// Base units paid out to the operator
	FundsWithdrawn prometheus.Counter
}

// New creates a Metrics instance registered on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Mints: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libmint_mints_total",
			Help: "Total successful mint calls by channel",
		}, []string{"channel"}), // channel: "reserve", "allowlist", "public"

		MintedTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libmint_minted_tokens_total",
			Help: "Total identifiers minted by channel",
		}, []string{"channel"}),

		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "libmint_rejections_total",
			Help: "Total rejected calls by reason",
		}, []string{"reason"}),

		BatchesRevealed: f.NewGauge(prometheus.GaugeOpts{
			Name: "libmint_batches_revealed",
			Help: "Number of reveal batches fixed so far",
		}),

		FundsWithdrawn: f.NewCounter(prometheus.CounterOpts{
			Name: "libmint_funds_withdrawn_total",
			Help: "Total base units withdrawn to the operator",
		}),
	}
}

// RecordMint records a successful mint of quantity identifiers.
func (m *Metrics) RecordMint(channel string, quantity uint64) {
	if m != nil {
		m.Mints.WithLabelValues(channel).Inc()
		m.MintedTokens.WithLabelValues(channel).Add(float64(quantity))
	}
}

// IncrementRejection records a rejected call.
func (m *Metrics) IncrementRejection(reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(reason).Inc()
	}
}

// SetBatchesRevealed records the current revealed batch.
func (m *Metrics) SetBatchesRevealed(batch uint64) {
	if m != nil {
		m.BatchesRevealed.Set(float64(batch))
	}
}

// AddWithdrawn records a payout.
func (m *Metrics) AddWithdrawn(amount uint64) {
	if m != nil {
		m.FundsWithdrawn.Add(float64(amount))
	}
}
