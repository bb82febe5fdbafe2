package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Notification delivery outcomes.
const (
	NotificationDelivered = "delivered"
	NotificationFailed    = "failed"
	NotificationDropped   = "dropped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	Transfers        *prometheus.CounterVec
	TransferDuration prometheus.Histogram
	TransferAmount   prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter

	// Notification metrics
	Notifications *prometheus.CounterVec

	// Lock registry metrics
	LockRegistrySize prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// A nil reg falls back to prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memledger_transfers_total",
				Help: "Total number of transfer requests by outcome",
			},
			[]string{"outcome"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "memledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "memledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "memledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "memledger_notifications_total",
				Help: "Total notification deliveries by outcome",
			},
			[]string{"outcome"},
		),

		LockRegistrySize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "memledger_lock_registry_size",
			Help: "Number of per-account locks held in the registry",
		}),
	}
}

// RecordTransfer counts a transfer request. Amount and duration are only
// observed for transfers that committed.
func (m *Metrics) RecordTransfer(outcome string, duration time.Duration, amount decimal.Decimal) {
	m.Transfers.WithLabelValues(outcome).Inc()

	if outcome != "transferred" {
		return
	}

	m.TransferDuration.Observe(duration.Seconds())
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// RecordAccountCreated counts a created account.
func (m *Metrics) RecordAccountCreated() {
	m.AccountsCreated.Inc()
}

// RecordNotification counts a notification by delivery outcome.
func (m *Metrics) RecordNotification(outcome string) {
	m.Notifications.WithLabelValues(outcome).Inc()
}

// SetLockRegistrySize reports how many account locks exist.
func (m *Metrics) SetLockRegistrySize(n int) {
	m.LockRegistrySize.Set(float64(n))
}
