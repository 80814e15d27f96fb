package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrMalformedCart = errors.New("malformed cart payload")

// DefaultCartKey is the namespace key the cart is persisted under.
const DefaultCartKey = "shopping-cart"

// cartLineRecord is the persisted shape of one cart line.
type cartLineRecord struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	ImageRef *string     `json:"imageRef"`
	Quantity int         `json:"quantity"`

	// ImgURL is the image field of older payloads, read only when ImageRef is absent.
	ImgURL *string `json:"img_url,omitempty"`
}

// CartCodec serializes a cart as an ordered JSON array of line records.
type CartCodec struct{}

func (CartCodec) Encode(cart domain.Cart) ([]byte, error) {
	records := make([]cartLineRecord, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		records = append(records, cartLineRecord{
			ID:       line.Product.ID,
			Name:     line.Product.Name,
			Price:    json.Number(line.Product.Price.String()),
			ImageRef: line.Product.ImageRef,
			Quantity: line.Quantity,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// Decode rejects payloads that would break cart invariants: duplicate IDs, non-positive quantities or negative prices.
func (CartCodec) Decode(data []byte) (domain.Cart, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []cartLineRecord
	if err := dec.Decode(&records); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %w", ErrMalformedCart, err)
	}
	if dec.More() {
		return domain.Cart{}, fmt.Errorf("%w: trailing data", ErrMalformedCart)
	}

	if len(records) == 0 {
		return domain.Cart{}, nil
	}

	seen := make(map[int64]struct{}, len(records))
	lines := make([]domain.CartLine, 0, len(records))

	for i, record := range records {
		line, err := mapRecordToDomain(record)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("%w: record[%d]: %w", ErrMalformedCart, i, err)
		}

		if _, ok := seen[line.Product.ID]; ok {
			return domain.Cart{}, fmt.Errorf("%w: record[%d]: duplicate id %d", ErrMalformedCart, i, line.Product.ID)
		}
		seen[line.Product.ID] = struct{}{}

		lines = append(lines, line)
	}

	return domain.Cart{Lines: lines}, nil
}

func mapRecordToDomain(record cartLineRecord) (domain.CartLine, error) {
	if record.Quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("quantity[%d] is not positive", record.Quantity)
	}

	price, err := decimal.NewFromString(record.Price.String())
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("price[%s] is not valid: %w", record.Price, err)
	}

	if price.IsNegative() {
		return domain.CartLine{}, fmt.Errorf("price[%s] is negative", record.Price)
	}

	imageRef := record.ImageRef
	if imageRef == nil {
		imageRef = record.ImgURL
	}

	return domain.CartLine{
		Product: domain.Product{
			ID:       record.ID,
			Name:     record.Name,
			Price:    price,
			ImageRef: imageRef,
		},
		Quantity: record.Quantity,
	}, nil
}
