package inventory

import (
	"context"
	"errors"
	"fmt"

	dominv "github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/observability/logctx"
)

// Decrementer takes paid lines out of stock inside the caller's unit of work.
type Decrementer struct {
	log observability.Logger
}

func NewDecrementer(logger observability.Logger) *Decrementer {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Decrementer{log: logger.With(observability.F("component", "inventory_decrement"))}
}

// Apply locks each stock row and deducts the requested quantity when enough is
// on hand. Short lines are reported and left untouched; missing rows and
// storage failures become error entries. Apply never fails the caller.
func (d *Decrementer) Apply(ctx context.Context, repo dominv.Repository, lines []dominv.Line) *dominv.Report {
	logger := logctx.FromOr(ctx, d.log)
	report := dominv.NewReport()

	for _, line := range lines {
		stock, err := repo.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, dominv.ErrNotFound) {
				report.Errors = append(report.Errors, fmt.Sprintf("no inventory record for product %s", line.ProductID))
			} else {
				report.Errors = append(report.Errors, fmt.Sprintf("read inventory for product %s: %v", line.ProductID, err))
			}
			continue
		}

		if err := stock.Deduct(line.Quantity); err != nil {
			var short *dominv.InsufficientError
			if !errors.As(err, &short) {
				report.Errors = append(report.Errors, fmt.Sprintf("deduct product %s: %v", line.ProductID, err))
				continue
			}
			report.Shortfalls = append(report.Shortfalls, dominv.Shortfall{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Requested:   short.Requested,
				Available:   short.Available,
			})
			logger.Warn("inventory_shortfall",
				observability.F("product_id", line.ProductID),
				observability.F("requested", short.Requested),
				observability.F("available", short.Available),
			)
			continue
		}
		if err := repo.Update(ctx, stock); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("save inventory for product %s: %v", line.ProductID, err))
			continue
		}
		report.Processed = append(report.Processed, dominv.Processed{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Remaining: stock.Quantity,
		})
	}

	return report
}
