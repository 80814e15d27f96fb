package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the storefront's pricing currency, Kenyan shillings.
var DefaultCurrency = currency.MustParseISO("KES")

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// Add assumes both values share a currency; the receiver's currency wins.
func (m Money) Add(amount decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(amount), Currency: m.Currency}
}

func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.StringFixed(2)
}
