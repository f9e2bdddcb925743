package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart store mutations by action kind.
	CartMutationsTotal *prometheus.CounterVec
	// CartValidationTotal counts validation runs by outcome.
	CartValidationTotal *prometheus.CounterVec
	// CartLinesRemovedTotal counts lines dropped by validation.
	CartLinesRemovedTotal prometheus.Counter
	// OrderSubmitTotal counts order submissions by outcome.
	OrderSubmitTotal *prometheus.CounterVec
	// APIRequestsTotal counts backend requests by operation and result class.
	APIRequestsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers storefront Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart store mutations by action.",
		}, []string{"action"})
		CartValidationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_validation_total",
			Help:      "Count of cart validation runs by outcome.",
		}, []string{"result"})
		CartLinesRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_lines_removed_total",
			Help:      "Count of cart lines removed during validation.",
		})
		OrderSubmitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_submit_total",
			Help:      "Count of order submissions by outcome.",
		}, []string{"result"})
		APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Count of backend API requests by operation and result class.",
		}, []string{"operation", "result"})

		reg.MustRegister(
			CartMutationsTotal,
			CartValidationTotal,
			CartLinesRemovedTotal,
			OrderSubmitTotal,
			APIRequestsTotal,
		)
	})
}

// ObserveCartMutation increments the cart mutation counter when metrics are registered.
func ObserveCartMutation(action string) {
	if CartMutationsTotal != nil {
		CartMutationsTotal.WithLabelValues(action).Inc()
	}
}

// ObserveValidation increments the validation counter when metrics are registered.
func ObserveValidation(result string, removed int) {
	if CartValidationTotal != nil {
		CartValidationTotal.WithLabelValues(result).Inc()
	}
	if CartLinesRemovedTotal != nil && removed > 0 {
		CartLinesRemovedTotal.Add(float64(removed))
	}
}

// ObserveOrderSubmit increments the order submission counter when metrics are registered.
func ObserveOrderSubmit(result string) {
	if OrderSubmitTotal != nil {
		OrderSubmitTotal.WithLabelValues(result).Inc()
	}
}

// ObserveAPIRequest increments the API request counter when metrics are registered.
func ObserveAPIRequest(operation, result string) {
	if APIRequestsTotal != nil {
		APIRequestsTotal.WithLabelValues(operation, result).Inc()
	}
}
