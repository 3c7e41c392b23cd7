package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ghuser/restocker/pkg/logger"
	itemdomain "github.com/ghuser/restocker/services/inventory/domain"
	"github.com/ghuser/restocker/services/inventory/domain/models"
	"github.com/ghuser/restocker/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// SweepResult summarizes one pass over all items.
type SweepResult struct {
	Checked int `json:"checked"`
	Alerted int `json:"alerted"`
}

// RestockNotifier raises restock alerts for opted-in low items, at most once
// per throttle window per item. Alerts are structured log lines; delivery to
// a device is not handled here.
type RestockNotifier struct {
	repo     repositories.ItemRepository
	log      logger.Logger
	mode     domainsvcs.RateMode
	throttle time.Duration
	metrics  *inventoryMetrics
	now      func() time.Time
}

// NewRestockNotifier returns a RestockNotifier evaluating items under mode.
func NewRestockNotifier(repo repositories.ItemRepository, log logger.Logger, mode domainsvcs.RateMode, throttle time.Duration) *RestockNotifier {
	if throttle <= 0 {
		throttle = domainsvcs.DefaultNotifyThrottle
	}
	return &RestockNotifier{
		repo:     repo,
		log:      log,
		mode:     mode,
		throttle: throttle,
		metrics:  newInventoryMetrics(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Check evaluates one item and alerts if due. An item deleted in the
// meantime is not an error.
func (n *RestockNotifier) Check(ctx context.Context, id int64) (bool, error) {
	item, err := n.repo.GetByID(ctx, id)
	if errors.Is(err, itemdomain.ErrItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}
	return n.evaluate(ctx, item, n.now())
}

// Sweep evaluates every item. Per-item failures are joined and do not stop
// the sweep.
func (n *RestockNotifier) Sweep(ctx context.Context) (SweepResult, error) {
	items, err := n.repo.List(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list items: %w", err)
	}

	now := n.now()
	res := SweepResult{Checked: len(items)}
	var errs []error
	for _, item := range items {
		alerted, err := n.evaluate(ctx, item, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if alerted {
			res.Alerted++
		}
	}
	n.log.InfoContext(ctx, "restock sweep finished", "checked", res.Checked, "alerted", res.Alerted)
	return res, errors.Join(errs...)
}

func (n *RestockNotifier) evaluate(ctx context.Context, item *models.Item, now time.Time) (bool, error) {
	if !domainsvcs.ShouldAlert(item, n.mode, now, n.throttle) {
		return false, nil
	}

	days := domainsvcs.DaysLeft(item, n.mode, now)
	args := []any{
		"item_id", item.ID,
		"name", item.Name.String(),
		"quantity", item.Quantity,
		"threshold", item.Threshold,
		"unit", item.Unit,
		"store", domainsvcs.StoreLabel(item.Store),
	}
	if !math.IsInf(days, 1) {
		args = append(args, "days_left", math.Round(days*10)/10)
	}
	n.log.WarnContext(ctx, "restock alert", args...)

	if err := n.repo.MarkNotified(ctx, item.ID, now); err != nil {
		return false, fmt.Errorf("mark item %d notified: %w", item.ID, err)
	}
	n.metrics.alerts.Add(ctx, 1)
	return true, nil
}
