package storage_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cart domain.Cart
	}{
		{
			name: "empty cart",
			cart: domain.Cart{},
		},
		{
			name: "single line without image",
			cart: domain.Cart{Lines: []domain.CartLine{{
				Product:  domain.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(10)},
				Quantity: 1,
			}}},
		},
		{
			name: "three random lines",
			cart: randomCart(3),
		},
		{
			name: "zero price and fractional price",
			cart: domain.Cart{Lines: []domain.CartLine{
				{Product: domain.Product{ID: 7, Name: "Free sample", Price: decimal.Zero}, Quantity: 2},
				{Product: domain.Product{ID: 8, Name: "Gum", Price: decimal.RequireFromString("0.05")}, Quantity: 40},
			}},
		},
	}

	codec := storage.CartCodec{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.Encode(tt.cart)
			require.NoError(t, err)

			got, err := codec.Decode(data)
			require.NoError(t, err)

			assert.Empty(t, cmp.Diff(tt.cart, got))
		})
	}
}

func TestCartCodec_Encode_Layout(t *testing.T) {
	image := "/images/a.png"
	cart := domain.Cart{Lines: []domain.CartLine{
		{Product: domain.Product{ID: 1, Name: "A", Price: decimal.RequireFromString("10.5"), ImageRef: &image}, Quantity: 2},
		{Product: domain.Product{ID: 2, Name: "B", Price: decimal.NewFromInt(3)}, Quantity: 1},
	}}

	data, err := storage.CartCodec{}.Encode(cart)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":1,"name":"A","price":10.5,"imageRef":"/images/a.png","quantity":2},
		{"id":2,"name":"B","price":3,"imageRef":null,"quantity":1}
	]`, string(data))
}

func TestCartCodec_Decode(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		wantLines     int
		wantMalformed bool
	}{
		{
			name:      "null: empty cart",
			data:      `null`,
			wantLines: 0,
		},
		{
			name:      "empty array: empty cart",
			data:      `[]`,
			wantLines: 0,
		},
		{
			name:      "quoted price: ok",
			data:      `[{"id":1,"name":"A","price":"12.30","imageRef":null,"quantity":1}]`,
			wantLines: 1,
		},
		{
			name:      "unknown fields ignored: ok",
			data:      `[{"id":1,"name":"A","price":1,"sku":"a-1","quantity":3}]`,
			wantLines: 1,
		},
		{
			name:          "truncated json: malformed",
			data:          `[{"id":1,"name":"A","pri`,
			wantMalformed: true,
		},
		{
			name:          "object instead of array: malformed",
			data:          `{"id":1}`,
			wantMalformed: true,
		},
		{
			name:          "zero quantity: malformed",
			data:          `[{"id":1,"name":"A","price":1,"quantity":0}]`,
			wantMalformed: true,
		},
		{
			name:          "duplicate id: malformed",
			data:          `[{"id":1,"name":"A","price":1,"quantity":1},{"id":1,"name":"A","price":1,"quantity":2}]`,
			wantMalformed: true,
		},
		{
			name:          "missing price: malformed",
			data:          `[{"id":1,"name":"A","quantity":1}]`,
			wantMalformed: true,
		},
		{
			name:          "negative price: malformed",
			data:          `[{"id":1,"name":"A","price":-0.01,"quantity":1}]`,
			wantMalformed: true,
		},
		{
			name:          "trailing garbage: malformed",
			data:          `[] []`,
			wantMalformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.CartCodec{}.Decode([]byte(tt.data))
			if tt.wantMalformed {
				require.ErrorIs(t, err, storage.ErrMalformedCart)
				assert.True(t, got.IsEmpty())
				return
			}
			require.NoError(t, err)

			assert.Len(t, got.Lines, tt.wantLines)
		})
	}
}

func TestCartCodec_DecodeImageFields(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantImage *string
	}{
		{
			name:      "imageRef: ok",
			data:      `[{"id":1,"name":"A","price":1,"imageRef":"/img/a.png","quantity":1}]`,
			wantImage: ptr("/img/a.png"),
		},
		{
			name:      "img_url only: ok",
			data:      `[{"id":1,"name":"A","price":1,"img_url":"/img/legacy.png","quantity":1}]`,
			wantImage: ptr("/img/legacy.png"),
		},
		{
			name:      "both present: imageRef wins",
			data:      `[{"id":1,"name":"A","price":1,"imageRef":"/img/a.png","img_url":"/img/legacy.png","quantity":1}]`,
			wantImage: ptr("/img/a.png"),
		},
		{
			name: "neither: nil",
			data: `[{"id":1,"name":"A","price":1,"quantity":1}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.CartCodec{}.Decode([]byte(tt.data))
			require.NoError(t, err)
			require.Len(t, got.Lines, 1)

			assert.Equal(t, tt.wantImage, got.Lines[0].Product.ImageRef)
		})
	}
}

func TestCartCodec_EncodeOmitsLegacyImageField(t *testing.T) {
	data, err := storage.CartCodec{}.Encode(randomCart(1))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "img_url")
}

func ptr[T any](v T) *T {
	return &v
}

func randomCart(n int) domain.Cart {
	cart := domain.Cart{}
	for i := 0; i < n; i++ {
		image := gofakeit.URL()
		product := domain.Product{
			ID:       int64(i + 1),
			Name:     gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 100)),
			ImageRef: &image,
		}

		for q := gofakeit.IntRange(1, 5); q > 0; q-- {
			cart = cart.Add(product)
		}
	}

	return cart
}
