package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics tracks order placement and stock reconciliation.
type OrderMetrics struct {
	placed         prometheus.Counter
	stockConflicts prometheus.Counter
	deleted        prometheus.Counter
	restoredUnits  prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	m := &OrderMetrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders accepted and persisted.",
		}),
		stockConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_stock_conflicts_total",
			Help: "Orders rolled back because stock ran out during decrement.",
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Orders deleted by admins.",
		}),
		restoredUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_stock_units_restored_total",
			Help: "Product units returned to stock by order deletion.",
		}),
	}
	reg.MustRegister(m.placed, m.stockConflicts, m.deleted, m.restoredUnits)
	return m
}

func (m *OrderMetrics) IncPlaced() {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.Inc()
}

func (m *OrderMetrics) IncStockConflict() {
	if m == nil || m.stockConflicts == nil {
		return
	}
	m.stockConflicts.Inc()
}

// ObserveDeleted counts a deleted order and the units it put back.
func (m *OrderMetrics) ObserveDeleted(units int) {
	if m == nil || m.deleted == nil {
		return
	}
	m.deleted.Inc()
	if units > 0 {
		m.restoredUnits.Add(float64(units))
	}
}
