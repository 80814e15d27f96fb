// Package httpapi exposes one engine.Session over HTTP. The process serves a
// single shopper: every request reads and mutates the same cart and checkout
// configuration, the way one browser origin shares its storefront state.
// Run one process per shopper to isolate carts.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/engine"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const maxBodyBytes = 1 << 16

type Handler struct {
	session *engine.Session
	logger  *zap.Logger
}

func NewHandler(session *engine.Session, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		session: session,
		logger:  logger,
	}
}

// Routes mounts the cart and checkout endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Get("/items/{id}/quantity", h.GetQuantity)
		r.Post("/items/{id}/increase", h.IncreaseQuantity)
		r.Post("/items/{id}/decrease", h.DecreaseQuantity)
		r.Delete("/items/{id}", h.RemoveItem)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", h.GetCheckout)
		r.Delete("/", h.ResetCheckout)
		r.Put("/delivery", h.SetDelivery)
		r.Put("/payment", h.SetPayment)
		r.Put("/payment/on-delivery", h.SetOnDelivery)
		r.Put("/phone", h.SetPhone)
		r.Get("/draft", h.GetDraft)
	})
}

type ProductDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageRef *string         `json:"imageRef"`
}

type CartLineDTO struct {
	ProductDTO
	Quantity int `json:"quantity"`
}

type CartDTO struct {
	Items         []CartLineDTO `json:"items"`
	TotalQuantity int           `json:"totalQuantity"`
	Subtotal      string        `json:"subtotal"`
	Currency      string        `json:"currency"`
}

type CheckoutDTO struct {
	DeliveryMethod         string  `json:"deliveryMethod"`
	PaymentMethod          string  `json:"paymentMethod"`
	PayOnDeliverySubMethod string  `json:"payOnDeliverySubMethod"`
	MobileMoneyPhone       *string `json:"mobileMoneyPhone"`
	RequiresMobileMoney    bool    `json:"requiresMobileMoney"`
	Complete               bool    `json:"complete"`
}

type OrderDraftDTO struct {
	ID       string      `json:"id"`
	Cart     CartDTO     `json:"cart"`
	Checkout CheckoutDTO `json:"checkout"`
}

type MethodRequestDTO struct {
	Method string `json:"method"`
}

type PhoneRequestDTO struct {
	Phone string `json:"phone"`
}

type QuantityDTO struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, toCartDTO(h.session.Cart(), h.session.Currency()))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart := h.session.ClearCart(r.Context())
	h.respondJSON(w, http.StatusOK, toCartDTO(cart, h.session.Currency()))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req ProductDTO
	if !h.decode(w, r, &req) {
		return
	}

	if req.ID <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be positive")
		return
	}
	if req.Price.IsNegative() {
		h.respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	cart := h.session.AddToCart(r.Context(), domain.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageRef: req.ImageRef,
	})

	h.respondJSON(w, http.StatusCreated, toCartDTO(cart, h.session.Currency()))
}

func (h *Handler) GetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, QuantityDTO{ID: id, Quantity: h.session.Quantity(id)})
}

func (h *Handler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart := h.session.IncreaseQuantity(r.Context(), id)
	h.respondJSON(w, http.StatusOK, toCartDTO(cart, h.session.Currency()))
}

func (h *Handler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart := h.session.DecreaseQuantity(r.Context(), id)
	h.respondJSON(w, http.StatusOK, toCartDTO(cart, h.session.Currency()))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart := h.session.RemoveFromCart(r.Context(), id)
	h.respondJSON(w, http.StatusOK, toCartDTO(cart, h.session.Currency()))
}

func (h *Handler) GetCheckout(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, toCheckoutDTO(h.session.Checkout()))
}

func (h *Handler) ResetCheckout(w http.ResponseWriter, _ *http.Request) {
	h.session.ResetCheckout()
	h.respondJSON(w, http.StatusOK, toCheckoutDTO(h.session.Checkout()))
}

func (h *Handler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var req MethodRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	method, err := domain.ParseDeliveryMethod(req.Method)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_delivery_method", err.Error())
		return
	}

	h.applyCheckout(w, h.session.SetDeliveryMethod(method))
}

func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req MethodRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
		return
	}

	h.applyCheckout(w, h.session.SetPaymentMethod(method))
}

func (h *Handler) SetOnDelivery(w http.ResponseWriter, r *http.Request) {
	var req MethodRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	method, err := domain.ParseOnDeliveryMethod(req.Method)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_on_delivery_method", err.Error())
		return
	}

	h.applyCheckout(w, h.session.SetPayOnDeliverySubMethod(method))
}

func (h *Handler) SetPhone(w http.ResponseWriter, r *http.Request) {
	var req PhoneRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	h.applyCheckout(w, h.session.SetMobileMoneyPhone(req.Phone))
}

func (h *Handler) GetDraft(w http.ResponseWriter, _ *http.Request) {
	draft, err := h.session.OrderDraft()
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		h.respondError(w, http.StatusConflict, "cart_empty", err.Error())
		return
	case errors.Is(err, domain.ErrCheckoutIncomplete):
		h.respondError(w, http.StatusConflict, "checkout_incomplete", err.Error())
		return
	case err != nil:
		h.logger.Error("order draft failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal", "order draft failed")
		return
	}

	h.respondJSON(w, http.StatusOK, OrderDraftDTO{
		ID:       draft.ID.String(),
		Cart:     toCartDTO(domain.Cart{Lines: draft.Lines}, draft.Subtotal.Currency),
		Checkout: toCheckoutDTO(draft.Checkout),
	})
}

func (h *Handler) applyCheckout(w http.ResponseWriter, err error) {
	if err != nil {
		if engine.IsNotApplicable(err) {
			h.respondError(w, http.StatusConflict, "not_applicable", err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, toCheckoutDTO(h.session.Checkout()))
}

func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be an integer")
		return 0, false
	}

	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}

	return true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func toCartDTO(cart domain.Cart, cur currency.Unit) CartDTO {
	subtotal := cart.Subtotal(cur)

	items := make([]CartLineDTO, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, CartLineDTO{
			ProductDTO: ProductDTO{
				ID:       line.Product.ID,
				Name:     line.Product.Name,
				Price:    line.Product.Price,
				ImageRef: line.Product.ImageRef,
			},
			Quantity: line.Quantity,
		})
	}

	return CartDTO{
		Items:         items,
		TotalQuantity: cart.TotalQuantity(),
		Subtotal:      subtotal.Amount.StringFixed(2),
		Currency:      subtotal.Currency.String(),
	}
}

func toCheckoutDTO(cfg domain.CheckoutConfig) CheckoutDTO {
	return CheckoutDTO{
		DeliveryMethod:         cfg.Delivery.String(),
		PaymentMethod:          cfg.Payment.String(),
		PayOnDeliverySubMethod: cfg.OnDelivery.String(),
		MobileMoneyPhone:       cfg.MobileMoneyPhone,
		RequiresMobileMoney:    cfg.RequiresMobileMoney(),
		Complete:               cfg.IsComplete(),
	}
}
