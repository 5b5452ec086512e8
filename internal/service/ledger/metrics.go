package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bank",
		Name:      "ledger_operations_total",
		Help:      "Total number of committed ledger operations",
	},
	[]string{"type"},
)
