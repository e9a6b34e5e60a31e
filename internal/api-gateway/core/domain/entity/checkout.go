package entity

import (
	"fmt"
	"math"
)

// MaxLineQuantity bounds a single line so the cart total cannot overflow.
const MaxLineQuantity = math.MaxInt32

var QuantityTooLargeMessage = fmt.Sprintf("Quantity must not exceed %d", MaxLineQuantity)

const (
	ProductNotFoundName    = "Product not found"
	CheckoutProceedMessage = "All items are available. Checkout can proceed."
	CheckoutDeniedPrefix   = "The following items are out of stock or insufficient quantity: "
)

type LineItem struct {
	ProductID string
	Quantity  int
}

type StockCheckResult struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableStock    int    `json:"availableStock"`
	IsAvailable       bool   `json:"isAvailable"`
}

type CheckoutVerdict struct {
	StockCheck []StockCheckResult `json:"stockCheck"`
	CanProceed bool               `json:"canProceed"`
	TotalItems int                `json:"totalItems"`
	Message    string             `json:"message"`
}

// UnavailableNames returns the product names of every failing line, in order.
func (v *CheckoutVerdict) UnavailableNames() []string {
	var names []string
	for _, r := range v.StockCheck {
		if !r.IsAvailable {
			names = append(names, r.ProductName)
		}
	}
	return names
}
