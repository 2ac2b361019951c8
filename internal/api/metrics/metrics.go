// Package metrics defines and registers all custom Prometheus metrics for
// the portfolio back-office API. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// CustomersRegisteredTotal counts successful customer signups.
var CustomersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customers_registered_total",
		Help:      "Total number of customers registered.",
	},
)

// PortfoliosCreatedTotal counts newly created portfolios.
// Label:
//   - exchange: the portfolio's exchange (e.g. "NYSE")
var PortfoliosCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portfolios_created_total",
		Help:      "Total number of portfolios created, by exchange.",
	},
	[]string{"exchange"},
)

// PortfolioConflictsTotal counts portfolio creations rejected by the
// uniqueness guarantee (pre-check or storage index alike).
var PortfolioConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "portfolio_conflicts_total",
		Help:      "Total number of portfolio creations rejected as duplicates.",
	},
)

// AuthzDenialsTotal counts authorization denials.
// Label:
//   - kind: "role" (route policy) or "ownership" (resource guard)
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of denied authorization checks, by kind.",
	},
	[]string{"kind"},
)
