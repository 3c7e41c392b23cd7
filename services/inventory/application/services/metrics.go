package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ghuser/restocker/services/inventory"

type inventoryMetrics struct {
	activities metric.Int64Counter
	upserts    metric.Int64Counter
	alerts     metric.Int64Counter
}

// newInventoryMetrics registers the inventory counters on the global meter
// provider. Before telemetry.Init runs the provider is a no-op.
func newInventoryMetrics() *inventoryMetrics {
	m := otel.Meter(meterName)
	return &inventoryMetrics{
		activities: counter(m, "inventory.activity.logged", "Activity events applied to items"),
		upserts:    counter(m, "inventory.upsert.records", "Bulk upsert records by outcome"),
		alerts:     counter(m, "inventory.restock.alerts", "Restock alerts raised"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}
