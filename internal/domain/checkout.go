package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDeliveryMethod    = errors.New("unknown delivery method")
	ErrUnknownPaymentMethod     = errors.New("unknown payment method")
	ErrUnknownOnDeliveryMethod  = errors.New("unknown pay-on-delivery method")
	ErrOnDeliveryNotApplicable  = errors.New("pay-on-delivery method requires pay-on-delivery payment")
	ErrMobileMoneyNotApplicable = errors.New("mobile money phone requires a mobile money payment path")
)

type DeliveryMethod int

const (
	DeliveryUnset DeliveryMethod = iota
	DeliveryPickup
	DeliveryDoorstep
)

func (m DeliveryMethod) String() string {
	switch m {
	case DeliveryUnset:
		return ""
	case DeliveryPickup:
		return "pickup"
	case DeliveryDoorstep:
		return "delivery"
	}

	return fmt.Sprintf("DeliveryMethod(%d)", int(m))
}

func (m DeliveryMethod) valid() bool {
	switch m {
	case DeliveryUnset, DeliveryPickup, DeliveryDoorstep:
		return true
	}

	return false
}

func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch s {
	case "":
		return DeliveryUnset, nil
	case "pickup":
		return DeliveryPickup, nil
	case "delivery":
		return DeliveryDoorstep, nil
	}

	return DeliveryUnset, fmt.Errorf("%w: %q", ErrUnknownDeliveryMethod, s)
}

type PaymentMethod int

const (
	PaymentUnset PaymentMethod = iota
	PaymentOnDelivery
	PaymentNowMobileMoney
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentUnset:
		return ""
	case PaymentOnDelivery:
		return "pay-on-delivery"
	case PaymentNowMobileMoney:
		return "pay-now-mobile-money"
	}

	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}

func (m PaymentMethod) valid() bool {
	switch m {
	case PaymentUnset, PaymentOnDelivery, PaymentNowMobileMoney:
		return true
	}

	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "":
		return PaymentUnset, nil
	case "pay-on-delivery":
		return PaymentOnDelivery, nil
	case "pay-now-mobile-money":
		return PaymentNowMobileMoney, nil
	}

	return PaymentUnset, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, s)
}

// OnDeliveryMethod is how a pay-on-delivery order is settled at the door.
type OnDeliveryMethod int

const (
	OnDeliveryUnset OnDeliveryMethod = iota
	OnDeliveryCash
	OnDeliveryMobileMoney
)

func (m OnDeliveryMethod) String() string {
	switch m {
	case OnDeliveryUnset:
		return ""
	case OnDeliveryCash:
		return "cash"
	case OnDeliveryMobileMoney:
		return "mobile-money"
	}

	return fmt.Sprintf("OnDeliveryMethod(%d)", int(m))
}

func (m OnDeliveryMethod) valid() bool {
	switch m {
	case OnDeliveryUnset, OnDeliveryCash, OnDeliveryMobileMoney:
		return true
	}

	return false
}

func ParseOnDeliveryMethod(s string) (OnDeliveryMethod, error) {
	switch s {
	case "":
		return OnDeliveryUnset, nil
	case "cash":
		return OnDeliveryCash, nil
	case "mobile-money":
		return OnDeliveryMobileMoney, nil
	}

	return OnDeliveryUnset, fmt.Errorf("%w: %q", ErrUnknownOnDeliveryMethod, s)
}

// CheckoutConfig holds the shopper's in-progress checkout choices.
//
// MobileMoneyPhone is only ever non-nil while RequiresMobileMoney is true,
// and OnDelivery is only ever set while Payment is PaymentOnDelivery.
// The With* transitions keep both rules; on error they return the receiver unchanged.
type CheckoutConfig struct {
	Delivery         DeliveryMethod
	Payment          PaymentMethod
	OnDelivery       OnDeliveryMethod
	MobileMoneyPhone *string
}

func (c CheckoutConfig) WithDelivery(m DeliveryMethod) (CheckoutConfig, error) {
	if !m.valid() {
		return c, fmt.Errorf("%w: %d", ErrUnknownDeliveryMethod, int(m))
	}

	c.Delivery = m
	return c, nil
}

func (c CheckoutConfig) WithPayment(m PaymentMethod) (CheckoutConfig, error) {
	if !m.valid() {
		return c, fmt.Errorf("%w: %d", ErrUnknownPaymentMethod, int(m))
	}

	c.Payment = m
	if m != PaymentOnDelivery {
		c.OnDelivery = OnDeliveryUnset
	}
	if !c.RequiresMobileMoney() {
		c.MobileMoneyPhone = nil
	}

	return c, nil
}

func (c CheckoutConfig) WithOnDeliveryMethod(m OnDeliveryMethod) (CheckoutConfig, error) {
	if !m.valid() {
		return c, fmt.Errorf("%w: %d", ErrUnknownOnDeliveryMethod, int(m))
	}
	if c.Payment != PaymentOnDelivery {
		return c, ErrOnDeliveryNotApplicable
	}

	c.OnDelivery = m
	if m != OnDeliveryMobileMoney {
		c.MobileMoneyPhone = nil
	}

	return c, nil
}

// WithMobileMoneyPhone stores the phone verbatim, format checks belong to the caller.
func (c CheckoutConfig) WithMobileMoneyPhone(phone string) (CheckoutConfig, error) {
	if !c.RequiresMobileMoney() {
		return c, ErrMobileMoneyNotApplicable
	}

	c.MobileMoneyPhone = &phone
	return c, nil
}

func (c CheckoutConfig) RequiresMobileMoney() bool {
	switch c.Payment {
	case PaymentNowMobileMoney:
		return true
	case PaymentOnDelivery:
		return c.OnDelivery == OnDeliveryMobileMoney
	case PaymentUnset:
		return false
	}

	return false
}

func (c CheckoutConfig) IsComplete() bool {
	if c.Delivery == DeliveryUnset || c.Payment == PaymentUnset {
		return false
	}

	if c.RequiresMobileMoney() {
		return c.MobileMoneyPhone != nil && *c.MobileMoneyPhone != ""
	}

	return true
}
