package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// FieldError is a pricing or shape violation tied to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RoundMoney rounds half-up to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// Totals is the result of pricing a set of line items.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices items with a percentage tax rate and an absolute discount.
// Each item's Amount is rewritten to quantity x unit price.
func ComputeTotals(items []LineItem, taxRate, discount decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, &FieldError{Field: "tax_rate", Message: "must not be negative"}
	}
	if discount.IsNegative() {
		return Totals{}, &FieldError{Field: "discount", Message: "must not be negative"}
	}

	subtotal := decimal.Zero
	for i := range items {
		it := &items[i]
		if it.Quantity <= 0 {
			return Totals{}, &FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"}
		}
		if it.UnitPrice.IsNegative() {
			return Totals{}, &FieldError{Field: fmt.Sprintf("items[%d].unit_price", i), Message: "must not be negative"}
		}
		it.UnitPrice = RoundMoney(it.UnitPrice)
		it.Amount = RoundMoney(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		subtotal = subtotal.Add(it.Amount)
	}

	tax := RoundMoney(subtotal.Mul(taxRate).Div(hundred))
	discount = RoundMoney(discount)
	gross := subtotal.Add(tax)
	if discount.GreaterThan(gross) {
		return Totals{}, &FieldError{Field: "discount", Message: "must not exceed subtotal plus tax"}
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: gross.Sub(discount)}, nil
}

// Reprice replaces items and pricing inputs and recomputes the derived totals.
// On error the quotation is not modified.
func (q *Quotation) Reprice(items []LineItem, taxRate, discount decimal.Decimal) error {
	priced := append([]LineItem(nil), items...)
	t, err := ComputeTotals(priced, taxRate, discount)
	if err != nil {
		return err
	}
	q.Items = priced
	q.TaxRate = taxRate
	q.Discount = RoundMoney(discount)
	q.Subtotal = t.Subtotal
	q.Tax = t.Tax
	q.TotalAmount = t.Total
	return nil
}
