package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/commerce-core/internal/discount/domain"
	"github.com/tair/commerce-core/internal/discount/usecase/command"
	"github.com/tair/commerce-core/internal/discount/usecase/query"
	ordercommand "github.com/tair/commerce-core/internal/order/usecase/command"
	"github.com/tair/commerce-core/pkg/logger"
	"github.com/tair/commerce-core/pkg/money"
)

// DiscountHandler handles HTTP requests for discounts using CQRS pattern
type DiscountHandler struct {
	// Command handlers
	createGiftCard  *command.CreateGiftCardHandler
	createPromoCode *command.CreatePromoCodeHandler
	createOffer     *command.CreateCancellationOfferHandler
	applyOne        *command.ApplyDiscountHandler
	applyBulk       *command.ApplyDiscountsHandler
	updateStatus    *ordercommand.UpdateOrderStatusHandler

	// Query handlers
	validateCode   *query.ValidateCodeHandler
	preview        *query.PreviewDiscountHandler
	offerAvailable *query.CancellationOfferAvailableHandler
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(
	createGiftCard *command.CreateGiftCardHandler,
	createPromoCode *command.CreatePromoCodeHandler,
	createOffer *command.CreateCancellationOfferHandler,
	applyOne *command.ApplyDiscountHandler,
	applyBulk *command.ApplyDiscountsHandler,
	updateStatus *ordercommand.UpdateOrderStatusHandler,
	validateCode *query.ValidateCodeHandler,
	preview *query.PreviewDiscountHandler,
	offerAvailable *query.CancellationOfferAvailableHandler,
) *DiscountHandler {
	return &DiscountHandler{
		createGiftCard:  createGiftCard,
		createPromoCode: createPromoCode,
		createOffer:     createOffer,
		applyOne:        applyOne,
		applyBulk:       applyBulk,
		updateStatus:    updateStatus,
		validateCode:    validateCode,
		preview:         preview,
		offerAvailable:  offerAvailable,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateGiftCard handles POST /api/discounts/gift-cards
func (h *DiscountHandler) CreateGiftCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value          float64 `json:"value"`
		ProductID      *uint   `json:"product_id"`
		UserID         *uint   `json:"user_id"`
		RecipientEmail string  `json:"recipient_email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	gift, err := h.createGiftCard.Handle(r.Context(), command.CreateGiftCardCommand{
		Value:          money.FromDollars(req.Value),
		ProductID:      req.ProductID,
		UserID:         req.UserID,
		RecipientEmail: req.RecipientEmail,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create gift card")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Gift card created successfully",
		Data:    gift,
	})
}

// CreatePromoCode handles POST /api/discounts/promo-codes
func (h *DiscountHandler) CreatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string     `json:"code"`
		Value     int64      `json:"value"`
		ValueKind string     `json:"value_kind"`
		MaxUses   *int       `json:"max_uses"`
		MinOrder  *float64   `json:"min_order"`
		ExpiresAt *time.Time `json:"expires_at"`
		UserID    *uint      `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CreatePromoCodeCommand{
		Code:      req.Code,
		Value:     req.Value,
		ValueKind: req.ValueKind,
		MaxUses:   req.MaxUses,
		ExpiresAt: req.ExpiresAt,
		UserID:    req.UserID,
	}
	if req.MinOrder != nil {
		minOrder := money.FromDollars(*req.MinOrder).Cents()
		cmd.MinOrderCents = &minOrder
	}

	promo, err := h.createPromoCode.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create promo code")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Promo code created successfully",
		Data:    promo,
	})
}

// CreateCancellationOffer handles POST /api/discounts/cancellation-offers
func (h *DiscountHandler) CreateCancellationOffer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    uint       `json:"user_id"`
		ExpiresAt *time.Time `json:"expires_at"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	offer, err := h.createOffer.Handle(r.Context(), command.CreateCancellationOfferCommand{
		UserID:    req.UserID,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create cancellation offer")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Cancellation offer created successfully",
		Data:    offer,
	})
}

// ValidateCode handles GET /api/discounts/validate/{code}
func (h *DiscountHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	discount, err := h.validateCode.Handle(r.Context(), query.ValidateCodeQuery{Code: code})
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("code", code).Msg("Failed to validate code")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to validate code",
		})
		return
	}

	if discount == nil {
		respondJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Discount not found",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    discount,
	})
}

// ApplyDiscount handles POST /api/orders/{id}/discounts
func (h *DiscountHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	amount, err := h.applyOne.Handle(r.Context(), command.ApplyDiscountCommand{
		OrderID: orderID,
		Code:    req.Code,
	})
	if err != nil {
		respondJSON(w, applyErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Discount applied successfully",
		Data:    map[string]float64{"amount_applied": amount.Dollars()},
	})
}

// ApplyDiscounts handles POST /api/orders/{id}/discounts/bulk
func (h *DiscountHandler) ApplyDiscounts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Codes []string `json:"codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	total, err := h.applyBulk.Handle(r.Context(), command.ApplyDiscountsCommand{
		OrderID: orderID,
		Codes:   req.Codes,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("order_id", orderID).Msg("Failed to apply discounts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]float64{"total_applied": total.Dollars()},
	})
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status
func (h *DiscountHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	order, err := h.updateStatus.Handle(r.Context(), ordercommand.UpdateOrderStatusCommand{
		OrderID: orderID,
		Status:  req.Status,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("order_id", orderID).Msg("Failed to update order status")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// PreviewDiscount handles GET /api/orders/{id}/discounts/preview/{code}
func (h *DiscountHandler) PreviewDiscount(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	code := mux.Vars(r)["code"]

	amount, err := h.preview.Handle(r.Context(), query.PreviewDiscountQuery{
		OrderID: orderID,
		Code:    code,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("order_id", orderID).Msg("Failed to preview discount")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to preview discount",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]float64{"amount": amount.Dollars()},
	})
}

// CancellationOfferAvailable handles GET /api/users/{id}/cancellation-offer
func (h *DiscountHandler) CancellationOfferAvailable(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	available, err := h.offerAvailable.Handle(r.Context(), query.CancellationOfferAvailableQuery{UserID: userID})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("user_id", userID).Msg("Failed to check offer eligibility")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to check offer eligibility",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]bool{"available": available},
	})
}

// RegisterRoutes registers all discount routes
func (h *DiscountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/discounts/gift-cards", h.CreateGiftCard).Methods("POST")
	router.HandleFunc("/api/discounts/promo-codes", h.CreatePromoCode).Methods("POST")
	router.HandleFunc("/api/discounts/cancellation-offers", h.CreateCancellationOffer).Methods("POST")
	router.HandleFunc("/api/discounts/validate/{code}", h.ValidateCode).Methods("GET")
	router.HandleFunc("/api/orders/{id}/discounts", h.ApplyDiscount).Methods("POST")
	router.HandleFunc("/api/orders/{id}/discounts/bulk", h.ApplyDiscounts).Methods("POST")
	router.HandleFunc("/api/orders/{id}/discounts/preview/{code}", h.PreviewDiscount).Methods("GET")
	router.HandleFunc("/api/orders/{id}/status", h.UpdateOrderStatus).Methods("PATCH")
	router.HandleFunc("/api/users/{id}/cancellation-offer", h.CancellationOfferAvailable).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *DiscountHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Discount service is healthy",
		})
	}).Methods("GET")
}

// applyErrorStatus maps strict-apply domain errors to HTTP statuses.
func applyErrorStatus(err error) int {
	var belowMin *domain.BelowMinimumError
	switch {
	case errors.Is(err, domain.ErrDiscountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyApplied),
		errors.Is(err, domain.ErrNotUsableAtCheckout),
		errors.Is(err, domain.ErrProductDisallowsCodes),
		errors.Is(err, domain.ErrWrongUser),
		errors.As(err, &belowMin):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
