// Package metrics expone los contadores Prometheus del servicio de pedidos.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados posibles de una operación.
const (
	ResultOK                = "ok"
	ResultNoop              = "noop"
	ResultInsufficientStock = "insufficient_stock"
	ResultError             = "error"
)

var (
	orderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Name:      "transitions_total",
		Help:      "Operaciones del ciclo de vida de pedidos por tipo y resultado.",
	}, []string{"transition", "result"})

	stockMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stock",
		Name:      "ledger_mutations_total",
		Help:      "Mutaciones confirmadas de existencias (create/update).",
	}, []string{"kind"})
)

// ObserveTransition registra el resultado de una transición de pedido.
func ObserveTransition(transition, result string) {
	orderTransitions.WithLabelValues(transition, result).Inc()
}

// ObserveStockMutations suma mutaciones confirmadas de existencias.
func ObserveStockMutations(created, updated int) {
	if created > 0 {
		stockMutations.WithLabelValues("create").Add(float64(created))
	}
	if updated > 0 {
		stockMutations.WithLabelValues("update").Add(float64(updated))
	}
}
