// Package stock decides whether a cart can be checked out against a snapshot
// of stock records. It performs no I/O.
package stock

import (
	"strings"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
)

// Reconcile classifies every line item against records and aggregates the
// verdict. Results keep the order of items regardless of the order of
// records.
//
// Each line is checked against the same unmodified snapshot: two lines for the
// same product are not summed, and stock is not decremented as lines are
// consumed. The check is advisory and reserves nothing.
//
// Callers must reject empty carts, empty product ids and quantities outside
// 1..entity.MaxLineQuantity before calling.
func Reconcile(items []entity.LineItem, records []entity.StockRecord) entity.CheckoutVerdict {
	lookup := make(map[string]entity.StockRecord, len(records))
	for _, rec := range records {
		lookup[rec.ID] = rec
	}

	verdict := entity.CheckoutVerdict{
		StockCheck: make([]entity.StockCheckResult, 0, len(items)),
		CanProceed: true,
	}
	var failed []string

	for _, item := range items {
		verdict.TotalItems += item.Quantity

		rec, ok := lookup[item.ProductID]
		if !ok {
			verdict.StockCheck = append(verdict.StockCheck, entity.StockCheckResult{
				ProductID:         item.ProductID,
				ProductName:       entity.ProductNotFoundName,
				RequestedQuantity: item.Quantity,
				AvailableStock:    0,
				IsAvailable:       false,
			})
			failed = append(failed, entity.ProductNotFoundName)
			continue
		}

		available := rec.AvailableStock >= item.Quantity
		verdict.StockCheck = append(verdict.StockCheck, entity.StockCheckResult{
			ProductID:         item.ProductID,
			ProductName:       rec.Name,
			RequestedQuantity: item.Quantity,
			AvailableStock:    rec.AvailableStock,
			IsAvailable:       available,
		})
		if !available {
			failed = append(failed, rec.Name)
		}
	}

	if len(failed) > 0 {
		verdict.CanProceed = false
		verdict.Message = entity.CheckoutDeniedPrefix + strings.Join(failed, ", ")
		return verdict
	}

	verdict.Message = entity.CheckoutProceedMessage
	return verdict
}

// DistinctProductIDs returns each product id once, in first-seen order. It is
// the id set the stock batch is fetched for.
func DistinctProductIDs(items []entity.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
