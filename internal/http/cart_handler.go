package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/cart"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/pricing"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/submit"
)

type CartHandler struct {
	sessions      *Sessions
	pricing       pricing.Config
	builder       *order.Builder
	submitter     submit.Submitter
	submitTimeout time.Duration
	logger        *log.Logger
}

func NewCartHandler(sessions *Sessions, cfg pricing.Config, builder *order.Builder, submitter submit.Submitter, submitTimeout time.Duration, logger *log.Logger) *CartHandler {
	return &CartHandler{
		sessions:      sessions,
		pricing:       cfg,
		builder:       builder,
		submitter:     submitter,
		submitTimeout: submitTimeout,
		logger:        logger,
	}
}

// GetCart returns the reconciled cart view so stale stock is surfaced on
// every render.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	warnings, err := store.Reconcile(r.Context())
	if err != nil {
		h.logger.Printf("reconcile cart: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to check stock")
		return
	}

	items := store.Items()
	writeJSON(w, http.StatusOK, NewCartView(items, h.pricing.Summarize(items), warnings))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var body struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	res, err := store.AddItem(r.Context(), body.ProductID, body.Quantity)
	if err != nil {
		h.logger.Printf("add item: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	switch res.Status {
	case cart.AddAccepted:
		writeJSON(w, http.StatusOK, res)
	case cart.AddNotFound:
		writeError(w, http.StatusNotFound, "product not found")
	default:
		// Stock rejections carry the structured result so the page can tell
		// the shopper how much room is left.
		writeJSON(w, http.StatusConflict, res)
	}
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	store.RemoveItem(r.Context(), productID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := store.UpdateQuantity(r.Context(), productID, body.Quantity)
	if err != nil {
		h.logger.Printf("update quantity: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update quantity")
		return
	}
	if !res.Found {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *CartHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := store.UpdateVariant(r.Context(), productID, cart.VariantField(body.Field), body.Value)
	if err != nil {
		if errors.Is(err, cart.ErrUnknownVariant) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid variant field")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	store.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PaymentMethod  string `json:"paymentMethod"`
	DeliveryOption string `json:"deliveryOption"`
	Notes          string `json:"notes"`
}

type checkoutResponse struct {
	OrderID       string    `json:"orderId"`
	OrderDate     time.Time `json:"orderDate"`
	ItemCount     int       `json:"itemCount"`
	Subtotal      float64   `json:"subtotal"`
	DeliveryFee   float64   `json:"deliveryFee"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"paymentMethod"`
}

// Checkout runs the full flow: reconcile, build, submit, clear. The cart is
// cleared only after the submitter acknowledges the order, so a failed
// submission never strands the shopper with an emptied cart.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var body checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Name == "" || body.Email == "" || body.Phone == "" || body.Address == "" {
		writeError(w, http.StatusBadRequest, "missing contact details")
		return
	}
	if body.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "missing payment method")
		return
	}

	warnings, err := store.Reconcile(r.Context())
	if err != nil {
		h.logger.Printf("checkout reconcile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to check stock")
		return
	}
	if len(warnings) > 0 {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    "stock issues detected",
			"warnings": warnings,
		})
		return
	}

	items := store.Items()
	summary := h.pricing.Summarize(items)

	customer := order.Customer{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Address: body.Address,
		City:    body.City,
	}

	o, err := h.builder.Build(items, summary, customer, body.PaymentMethod, body.DeliveryOption, body.Notes)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		h.logger.Printf("build order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build order")
		return
	}

	submitCtx, cancel := context.WithTimeout(r.Context(), h.submitTimeout)
	defer cancel()

	if err := h.submitter.Submit(submitCtx, o); err != nil {
		h.logger.Printf("submit order %s: %v", o.ID, err)
		writeError(w, http.StatusBadGateway, "order submission failed, please try again")
		return
	}

	store.Clear(r.Context())

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:       o.ID,
		OrderDate:     o.CreatedAt,
		ItemCount:     summary.ItemCount,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
	})
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	profileID := chi.URLParam(r, "profileId")
	if profileID == "" {
		writeError(w, http.StatusBadRequest, "missing profileId")
		return nil, false
	}
	return h.sessions.Get(r.Context(), profileID), true
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
