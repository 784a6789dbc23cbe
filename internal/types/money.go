// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

// DefaultCurrency is the currency every quote is issued in unless a client's
// rules say otherwise.
const DefaultCurrency = "AED"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// Rounded returns the amount rounded to two decimal places.
func (m Money) Rounded() decimal.Decimal {
	return m.Amount.Round(2)
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
