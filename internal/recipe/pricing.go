package recipe

import (
	"fmt"
	"strings"

	"bakehouse-backend/internal/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Pricing is derived at read time from a recipe's item list and the tenant's
// VAT settings. Nothing here is persisted.
type Pricing struct {
	TotalCost      decimal.Decimal `json:"total_cost"`
	PriceBeforeVat decimal.Decimal `json:"price_before_vat"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	Profit         decimal.Decimal `json:"profit"`
}

// UnitCost is purchaseCost / purchaseQuantity, or zero when the purchase
// quantity is zero.
func UnitCost(purchaseCost, purchaseQuantity decimal.Decimal) decimal.Decimal {
	if purchaseQuantity.IsZero() {
		return decimal.Zero
	}
	return purchaseCost.Div(purchaseQuantity)
}

// ComputePricing derives cost, sale price and profit for a recipe.
//
//	totalCost      = Σ item.quantity × unitCost(item.inventory)
//	priceBeforeVat = totalCost / (1 - margin/100)   (margin > 0)
//	finalPrice     = priceBeforeVat × (1 + vat/100) (hasVat)
//	profit         = priceBeforeVat − totalCost
func ComputePricing(items []models.RecipeItem, targetMargin decimal.Decimal, hasVat bool, vatRate decimal.Decimal) Pricing {
	totalCost := decimal.Zero
	for _, item := range items {
		if item.Inventory == nil {
			continue
		}
		unitCost := UnitCost(item.Inventory.PurchaseCost, item.Inventory.PurchaseQuantity)
		totalCost = totalCost.Add(item.Quantity.Mul(unitCost))
	}

	priceBeforeVat := totalCost
	if targetMargin.IsPositive() {
		denominator := decimal.NewFromInt(1).Sub(targetMargin.Div(oneHundred))
		priceBeforeVat = totalCost.Div(denominator)
	}

	finalPrice := priceBeforeVat
	if hasVat {
		finalPrice = priceBeforeVat.Mul(decimal.NewFromInt(1).Add(vatRate.Div(oneHundred)))
	}

	return Pricing{
		TotalCost:      totalCost,
		PriceBeforeVat: priceBeforeVat,
		FinalPrice:     finalPrice,
		Profit:         priceBeforeVat.Sub(totalCost),
	}
}

// ParseMargin validates a target margin percentage. The margin feeds the
// denominator 1 - margin/100, so 100 (division by zero) and above (negative
// price) are rejected along with negative values.
func ParseMargin(s string) (decimal.Decimal, error) {
	m, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("margin must be a number")
	}
	if m.IsNegative() || m.GreaterThanOrEqual(oneHundred) {
		return decimal.Zero, fmt.Errorf("margin must be between 0 and 99")
	}
	return m, nil
}

// ParseVatRate parses the tenant's stored VAT rate string; empty means 0.
func ParseVatRate(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	rate, err := decimal.NewFromString(s)
	if err != nil || rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
