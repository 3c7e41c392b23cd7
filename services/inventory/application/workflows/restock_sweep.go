// Package workflows holds the Temporal workflows of the inventory context.
package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	appsvcs "github.com/ghuser/restocker/services/inventory/application/services"
)

// Registered names. Schedules and clients refer to these, not to Go symbols.
const (
	RestockSweepWorkflowName = "inventory.restock_sweep"
	SweepLowStockActivity    = "inventory.sweep_low_stock"
)

// Sweeper re-evaluates every item for restock alerts.
type Sweeper interface {
	Sweep(ctx context.Context) (appsvcs.SweepResult, error)
}

// Activities binds the sweep activity to its dependencies.
type Activities struct {
	Sweeper Sweeper
}

// SweepLowStock runs one full pass over the inventory.
func (a *Activities) SweepLowStock(ctx context.Context) (appsvcs.SweepResult, error) {
	res, err := a.Sweeper.Sweep(ctx)
	if err != nil {
		return res, err
	}
	activity.GetLogger(ctx).Info("restock sweep done", "checked", res.Checked, "alerted", res.Alerted)
	return res, nil
}

// RestockSweepWorkflow runs the sweep activity once. It is started by a cron
// schedule so alerts go out even when nobody logs activity.
func RestockSweepWorkflow(ctx workflow.Context) (appsvcs.SweepResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 10 * time.Second,
			MaximumAttempts: 3,
		},
	})

	var res appsvcs.SweepResult
	if err := workflow.ExecuteActivity(ctx, SweepLowStockActivity).Get(ctx, &res); err != nil {
		return res, err
	}
	return res, nil
}

// Registry is the subset of worker.Worker used for registration. The Temporal
// test environment satisfies it as well.
type Registry interface {
	RegisterWorkflowWithOptions(w interface{}, options workflow.RegisterOptions)
	RegisterActivityWithOptions(a interface{}, options activity.RegisterOptions)
}

// Register adds the restock workflow and its activity to w.
func Register(w Registry, acts *Activities) {
	w.RegisterWorkflowWithOptions(RestockSweepWorkflow, workflow.RegisterOptions{Name: RestockSweepWorkflowName})
	w.RegisterActivityWithOptions(acts.SweepLowStock, activity.RegisterOptions{Name: SweepLowStockActivity})
}
