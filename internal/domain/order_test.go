package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderDraft(t *testing.T) {
	product := domain.Product{ID: 3, Name: "Kettle", Price: decimal.RequireFromString("1500")}
	cart := domain.Cart{}.Add(product).Add(product)
	complete := withDelivery(domain.DeliveryDoorstep, onDeliveryCash())(t)

	tests := []struct {
		name      string
		cart      domain.Cart
		checkout  domain.CheckoutConfig
		wantError error
	}{
		{
			name:     "complete checkout: ok",
			cart:     cart,
			checkout: complete,
		},
		{
			name:      "empty cart: error",
			cart:      domain.Cart{},
			checkout:  complete,
			wantError: domain.ErrCartEmpty,
		},
		{
			name:      "delivery unset: error",
			cart:      cart,
			checkout:  onDeliveryCash()(t),
			wantError: domain.ErrCheckoutIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := domain.NewOrderDraft(tt.cart, tt.checkout, domain.DefaultCurrency)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, draft.ID)
			assert.Equal(t, 2, draft.TotalQuantity)
			assert.True(t, decimal.RequireFromString("3000").Equal(draft.Subtotal.Amount))
			assert.Empty(t, cmp.Diff(tt.cart.Lines, draft.Lines))
			assert.Equal(t, tt.checkout, draft.Checkout)
		})
	}
}

func TestNewOrderDraft_CopiesPhone(t *testing.T) {
	cart := domain.Cart{}.Add(randomProduct())
	checkout := withDelivery(domain.DeliveryPickup, payNowWithPhone("0712345678"))(t)

	draft, err := domain.NewOrderDraft(cart, checkout, domain.DefaultCurrency)
	require.NoError(t, err)

	*checkout.MobileMoneyPhone = "changed"
	assert.Equal(t, "0712345678", *draft.Checkout.MobileMoneyPhone)
}
