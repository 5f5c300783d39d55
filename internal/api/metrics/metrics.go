// Package metrics defines the storefront's custom Prometheus metrics. It is the
// single source of truth for metric names, labels, and help strings.
//
// Metrics are registered on the registry passed to New, so every router owns
// its own set and tests can build as many routers as they like.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	// AuthAttemptsTotal counts signup and login attempts.
	// Labels:
	//   - operation: "signup" or "login"
	//   - result: "success" or "failure"
	AuthAttemptsTotal *prometheus.CounterVec

	// WishlistOperationsTotal counts wishlist mutations.
	// Labels:
	//   - operation: "add", "remove" or "move_to_cart"
	//   - result: "success" or "failure"
	WishlistOperationsTotal *prometheus.CounterVec

	// SubscriptionChangesTotal counts newsletter state changes.
	// Label:
	//   - action: "subscribe" or "unsubscribe"
	SubscriptionChangesTotal *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AuthAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of signup and login attempts, by result.",
			},
			[]string{"operation", "result"},
		),
		WishlistOperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wishlist_operations_total",
				Help:      "Total number of wishlist mutations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		SubscriptionChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscription_changes_total",
				Help:      "Total number of newsletter subscribe and unsubscribe calls that succeeded.",
			},
			[]string{"action"},
		),
	}
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
