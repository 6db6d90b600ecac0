// Package alert fans low-stock notifications out to staff channels.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// LowStockAlert is raised when a purchase leaves a product at or below its
// threshold.
type LowStockAlert struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
	Time      time.Time `json:"time"`
}

// Message is the human readable form shown to staff.
func (a LowStockAlert) Message() string {
	return fmt.Sprintf("ALERT: Stock for '%s' (ID: %s) has fallen below threshold. Current stock: %d",
		a.Name, a.ProductID, a.Stock)
}

type StaffAlerter interface {
	Notify(ctx context.Context, a LowStockAlert) error
}

// Multi notifies every alerter and joins their errors.
type Multi []StaffAlerter

func (m Multi) Notify(ctx context.Context, a LowStockAlert) error {
	var errs []error
	for _, alerter := range m {
		if err := alerter.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
