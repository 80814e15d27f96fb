// Package engine is the cart and checkout facade shared by storefront consumers
// within one checkout session.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	Cart          domain.Cart
	TotalQuantity int
	Subtotal      domain.Money
	Checkout      domain.CheckoutConfig
	Complete      bool
}

type Option func(*options)

type options struct {
	logger   *zap.Logger
	key      string
	currency currency.Unit
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStorageKey overrides the namespace key the cart is persisted under.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

func WithCurrency(cur currency.Unit) Option {
	return func(o *options) {
		o.currency = cur
	}
}

// Session owns the cart and the checkout configuration of one shopper.
// Every mutation is applied and written through to the store before the next one starts.
// Persistence is best effort: the in-memory cart stays authoritative when a write fails.
type Session struct {
	mu sync.Mutex

	entry    *storage.Entry[domain.Cart]
	logger   *zap.Logger
	currency currency.Unit

	cart     domain.Cart
	checkout domain.CheckoutConfig

	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// New hydrates the cart from store. Absent or malformed data yields an empty cart.
// The checkout configuration always starts unset.
func New(ctx context.Context, store port.KeyValueStore, opts ...Option) (*Session, error) {
	o := options{
		logger:   zap.NewNop(),
		key:      storage.DefaultCartKey,
		currency: domain.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}

	entry, err := storage.NewEntry[domain.Cart](store, o.key, storage.CartCodec{})
	if err != nil {
		return nil, err
	}

	s := &Session{
		entry:       entry,
		logger:      o.logger.With(zap.String("storage_key", o.key)),
		currency:    o.currency,
		subscribers: make(map[int]func(Snapshot)),
	}

	cart, err := entry.LoadOrDefault(ctx, domain.Cart{})
	if err != nil {
		s.logger.Warn("stored cart unreadable, starting empty", zap.Error(err))
	}
	s.cart = cart

	s.logger.Debug("session hydrated",
		zap.Int("lines", len(cart.Lines)),
		zap.Int("total_quantity", cart.TotalQuantity()))

	return s, nil
}

func (s *Session) AddToCart(ctx context.Context, p domain.Product) domain.Cart {
	return s.updateCart(ctx, "add to cart", p.ID, func(c domain.Cart) domain.Cart { return c.Add(p) })
}

func (s *Session) IncreaseQuantity(ctx context.Context, id int64) domain.Cart {
	return s.updateCart(ctx, "increase quantity", id, func(c domain.Cart) domain.Cart { return c.Increase(id) })
}

func (s *Session) DecreaseQuantity(ctx context.Context, id int64) domain.Cart {
	return s.updateCart(ctx, "decrease quantity", id, func(c domain.Cart) domain.Cart { return c.Decrease(id) })
}

func (s *Session) RemoveFromCart(ctx context.Context, id int64) domain.Cart {
	return s.updateCart(ctx, "remove from cart", id, func(c domain.Cart) domain.Cart { return c.Remove(id) })
}

func (s *Session) ClearCart(ctx context.Context) domain.Cart {
	return s.updateCart(ctx, "clear cart", 0, domain.Cart.Clear)
}

func (s *Session) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyCart(s.cart)
}

func (s *Session) Items() []domain.CartLine {
	return s.Cart().Lines
}

func (s *Session) Quantity(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Quantity(id)
}

func (s *Session) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.TotalQuantity()
}

func (s *Session) Subtotal() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Subtotal(s.currency)
}

func (s *Session) Currency() currency.Unit {
	return s.currency
}

func (s *Session) SetDeliveryMethod(m domain.DeliveryMethod) error {
	return s.updateCheckout("set delivery method", func(c domain.CheckoutConfig) (domain.CheckoutConfig, error) {
		return c.WithDelivery(m)
	})
}

func (s *Session) SetPaymentMethod(m domain.PaymentMethod) error {
	return s.updateCheckout("set payment method", func(c domain.CheckoutConfig) (domain.CheckoutConfig, error) {
		return c.WithPayment(m)
	})
}

func (s *Session) SetPayOnDeliverySubMethod(m domain.OnDeliveryMethod) error {
	return s.updateCheckout("set pay-on-delivery method", func(c domain.CheckoutConfig) (domain.CheckoutConfig, error) {
		return c.WithOnDeliveryMethod(m)
	})
}

func (s *Session) SetMobileMoneyPhone(phone string) error {
	return s.updateCheckout("set mobile money phone", func(c domain.CheckoutConfig) (domain.CheckoutConfig, error) {
		return c.WithMobileMoneyPhone(phone)
	})
}

// ResetCheckout starts a fresh configuration, typically after an order was submitted.
func (s *Session) ResetCheckout() {
	_ = s.updateCheckout("reset checkout", func(domain.CheckoutConfig) (domain.CheckoutConfig, error) {
		return domain.CheckoutConfig{}, nil
	})
}

func (s *Session) Checkout() domain.CheckoutConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyCheckout(s.checkout)
}

func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkout.IsComplete()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// OrderDraft returns domain.ErrCartEmpty or domain.ErrCheckoutIncomplete
// when the session is not ready for submission.
func (s *Session) OrderDraft() (domain.OrderDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.NewOrderDraft(s.cart, s.checkout, s.currency)
}

// Subscribe registers fn to receive a snapshot after every successful mutation.
// fn runs synchronously on the mutating goroutine and must not call back into the session.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subscribers, id)
		})
	}
}

func (s *Session) updateCart(ctx context.Context, op string, id int64, transition func(domain.Cart) domain.Cart) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = transition(s.cart)
	s.persistLocked(ctx, op)

	s.logger.Debug(op,
		zap.Int64("product_id", id),
		zap.Int("total_quantity", s.cart.TotalQuantity()))

	s.notifyLocked()

	return copyCart(s.cart)
}

// persistLocked is the write-through effect; failures are logged and swallowed.
func (s *Session) persistLocked(ctx context.Context, op string) {
	if err := s.entry.Save(ctx, s.cart); err != nil {
		s.logger.Warn("cart write-through failed",
			zap.String("op", op),
			zap.Error(err))
	}
}

func (s *Session) updateCheckout(op string, transition func(domain.CheckoutConfig) (domain.CheckoutConfig, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := transition(s.checkout)
	if err != nil {
		s.logger.Debug(op+" rejected", zap.Error(err))
		return err
	}

	s.checkout = next

	s.logger.Debug(op,
		zap.Stringer("delivery", next.Delivery),
		zap.Stringer("payment", next.Payment),
		zap.Stringer("on_delivery", next.OnDelivery),
		zap.Bool("complete", next.IsComplete()))

	s.notifyLocked()

	return nil
}

func (s *Session) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}

	snapshot := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Cart:          copyCart(s.cart),
		TotalQuantity: s.cart.TotalQuantity(),
		Subtotal:      s.cart.Subtotal(s.currency),
		Checkout:      copyCheckout(s.checkout),
		Complete:      s.checkout.IsComplete(),
	}
}

// copyCart detaches the lines slice so callers cannot write into session state.
func copyCart(c domain.Cart) domain.Cart {
	if c.Lines == nil {
		return domain.Cart{}
	}

	lines := make([]domain.CartLine, len(c.Lines))
	copy(lines, c.Lines)

	return domain.Cart{Lines: lines}
}

// copyCheckout detaches the phone pointer so callers cannot write into session state.
func copyCheckout(c domain.CheckoutConfig) domain.CheckoutConfig {
	if c.MobileMoneyPhone != nil {
		phone := *c.MobileMoneyPhone
		c.MobileMoneyPhone = &phone
	}

	return c
}

// IsNotApplicable reports whether err is a checkout setter rejecting a choice
// that does not fit the current payment path.
func IsNotApplicable(err error) bool {
	return errors.Is(err, domain.ErrOnDeliveryNotApplicable) || errors.Is(err, domain.ErrMobileMoneyNotApplicable)
}
