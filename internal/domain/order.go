package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCheckoutIncomplete = errors.New("checkout configuration is incomplete")
)

// OrderDraft is what an order-submission routine reads to build its payload.
type OrderDraft struct {
	ID            uuid.UUID
	Lines         []CartLine
	TotalQuantity int
	Subtotal      Money
	Checkout      CheckoutConfig
}

func NewOrderDraft(cart Cart, checkout CheckoutConfig, cur currency.Unit) (OrderDraft, error) {
	if cart.IsEmpty() {
		return OrderDraft{}, ErrCartEmpty
	}
	if !checkout.IsComplete() {
		return OrderDraft{}, ErrCheckoutIncomplete
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return OrderDraft{}, fmt.Errorf("uuid.NewRandom: %w", err)
	}

	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)

	if checkout.MobileMoneyPhone != nil {
		phone := *checkout.MobileMoneyPhone
		checkout.MobileMoneyPhone = &phone
	}

	return OrderDraft{
		ID:            id,
		Lines:         lines,
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      cart.Subtotal(cur),
		Checkout:      checkout,
	}, nil
}
