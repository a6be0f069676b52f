package importer

import "github.com/shopspring/decimal"

// Derive recomputes the amounts of 'c' that depend on the 'edited' one.
//
// The total amount is the most trustworthy figure on a statement, so it is
// preserved as long as possible: quantity is back-solved first, then price,
// and the total is recomputed only when there is no total to preserve.
//
//  1. total, price or fees edited, total > 0 and price > 0:
//     quantity = (total - fees) / price
//  2. total, quantity or fees edited, total > 0 and quantity > 0:
//     price = (total - fees) / quantity
//  3. quantity, price or fees edited, quantity > 0 and price > 0:
//     total = quantity * price + fees
//  4. quantity, price or fees edited otherwise:
//     total = fees
//
// The first rule whose preconditions hold is the only one applied. A
// back-solved value that would be negative is dropped, leaving the field
// unchanged. Editing any other field is a no-op.
func Derive(c *Candidate, edited Field) {
	if !edited.numeric() {
		return
	}
	total, price, qty := c.TotalAmount.IsPositive(), c.Price.IsPositive(), c.Quantity.IsPositive()

	switch {
	case edited != FieldQuantity && total && price:
		if q, ok := backSolve(c.TotalAmount, c.Fees, c.Price); ok {
			c.Quantity = q
		}
	case edited != FieldPrice && total && qty:
		if p, ok := backSolve(c.TotalAmount, c.Fees, c.Quantity); ok {
			c.Price = p
		}
	case edited != FieldTotalAmount && qty && price:
		c.TotalAmount = c.Quantity.Mul(c.Price).Add(c.Fees)
	case edited != FieldTotalAmount:
		c.TotalAmount = c.Fees
	}
}

// backSolve returns (total - fees) / by, 'by' must be positive.
func backSolve(total, fees, by decimal.Decimal) (decimal.Decimal, bool) {
	v := total.Sub(fees).Div(by)
	if v.IsNegative() {
		return decimal.Zero, false
	}
	return v, true
}
