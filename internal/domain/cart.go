package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Product is the snapshot of a catalog product captured when it is added to the cart.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageRef *string
}

type CartLine struct {
	Product  Product
	Quantity int
}

// Cart is an ordered sequence of lines, at most one per product ID.
// Transitions never mutate the receiver; they return a new Cart.
type Cart struct {
	Lines []CartLine
}

// Add appends a line with quantity 1 for an unseen product,
// otherwise increments the existing line and keeps its original snapshot.
func (c Cart) Add(p Product) Cart {
	if i := c.index(p.ID); i >= 0 {
		return c.withQuantity(i, c.Lines[i].Quantity+1)
	}

	lines := make([]CartLine, len(c.Lines), len(c.Lines)+1)
	copy(lines, c.Lines)

	return Cart{Lines: append(lines, CartLine{Product: p, Quantity: 1})}
}

func (c Cart) Increase(id int64) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}

	return c.withQuantity(i, c.Lines[i].Quantity+1)
}

// Decrease removes the line instead of storing a zero quantity.
func (c Cart) Decrease(id int64) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}

	if c.Lines[i].Quantity <= 1 {
		return c.without(i)
	}

	return c.withQuantity(i, c.Lines[i].Quantity-1)
}

func (c Cart) Remove(id int64) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}

	return c.without(i)
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) Line(id int64) (CartLine, bool) {
	i := c.index(id)
	if i < 0 {
		return CartLine{}, false
	}

	return c.Lines[i], true
}

func (c Cart) Quantity(id int64) int {
	line, _ := c.Line(id)
	return line.Quantity
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}

	return total
}

// Subtotal sums price times quantity over all lines. Delivery fees are not included.
func (c Cart) Subtotal(cur currency.Unit) Money {
	total := ZeroMoney(cur)
	for _, line := range c.Lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) index(id int64) int {
	for i, line := range c.Lines {
		if line.Product.ID == id {
			return i
		}
	}

	return -1
}

func (c Cart) withQuantity(i, quantity int) Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	lines[i].Quantity = quantity

	return Cart{Lines: lines}
}

func (c Cart) without(i int) Cart {
	if len(c.Lines) == 1 {
		return Cart{}
	}

	lines := make([]CartLine, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:i]...)
	lines = append(lines, c.Lines[i+1:]...)

	return Cart{Lines: lines}
}
