package domain_test

import (
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefaultCurrency(t *testing.T) {
	assert.Equal(t, "KES", domain.DefaultCurrency.String())
}

func TestMoney_String(t *testing.T) {
	m := domain.ZeroMoney(domain.DefaultCurrency).Add(decimal.RequireFromString("22.5"))

	assert.Equal(t, "KES 22.50", m.String())
}
