package normalize

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DeriveChange repairs change and changePercent when the provider sent them as
// zero or not at all. changePercent is in percent units and stays zero when
// previousClose is zero.
func DeriveChange(price, previousClose, change, changePercent decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if change.IsZero() {
		change = price.Sub(previousClose)
	}
	if changePercent.IsZero() && !previousClose.IsZero() {
		changePercent = price.Sub(previousClose).Div(previousClose).Mul(hundred)
	}
	return change, changePercent
}
