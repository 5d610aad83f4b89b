package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/internal/inventory/usecase/command"
	"github.com/tair/commerce-core/internal/inventory/usecase/query"
	"github.com/tair/commerce-core/pkg/logger"
)

// InventoryHandler handles HTTP requests for inventory using CQRS pattern
type InventoryHandler struct {
	// Command handlers
	createItem     *command.CreateItemHandler
	adjustStock    *command.AdjustStockHandler
	restock        *command.RestockHandler
	recordReturn   *command.RecordReturnHandler
	markDamaged    *command.MarkDamagedHandler
	reserve        *command.ReserveInventoryHandler
	fulfill        *command.FulfillReservationsHandler
	release        *command.ReleaseReservationsHandler
	releaseExpired *command.ReleaseExpiredHandler

	// Query handlers
	getInventory  *query.GetInventoryHandler
	listInventory *query.ListInventoryHandler
	listTxns      *query.ListTransactionsHandler
	listAlerts    *query.ListAlertsHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	createItem *command.CreateItemHandler,
	adjustStock *command.AdjustStockHandler,
	restock *command.RestockHandler,
	recordReturn *command.RecordReturnHandler,
	markDamaged *command.MarkDamagedHandler,
	reserve *command.ReserveInventoryHandler,
	fulfill *command.FulfillReservationsHandler,
	release *command.ReleaseReservationsHandler,
	releaseExpired *command.ReleaseExpiredHandler,
	getInventory *query.GetInventoryHandler,
	listInventory *query.ListInventoryHandler,
	listTxns *query.ListTransactionsHandler,
	listAlerts *query.ListAlertsHandler,
) *InventoryHandler {
	return &InventoryHandler{
		createItem:     createItem,
		adjustStock:    adjustStock,
		restock:        restock,
		recordReturn:   recordReturn,
		markDamaged:    markDamaged,
		reserve:        reserve,
		fulfill:        fulfill,
		release:        release,
		releaseExpired: releaseExpired,
		getInventory:   getInventory,
		listInventory:  listInventory,
		listTxns:       listTxns,
		listAlerts:     listAlerts,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateItem handles POST /api/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID       uint  `json:"product_id"`
		InitialQuantity int   `json:"initial_quantity"`
		ReorderPoint    *int  `json:"reorder_point"`
		ReorderQuantity *int  `json:"reorder_quantity"`
		TrackInventory  *bool `json:"track_inventory"`
		AllowBackorder  bool  `json:"allow_backorder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	// Tracking defaults to on unless the request disables it.
	track := true
	if req.TrackInventory != nil {
		track = *req.TrackInventory
	}

	item, err := h.createItem.Handle(r.Context(), command.CreateItemCommand{
		ProductID:       req.ProductID,
		InitialQuantity: req.InitialQuantity,
		ReorderPoint:    req.ReorderPoint,
		ReorderQuantity: req.ReorderQuantity,
		TrackInventory:  track,
		AllowBackorder:  req.AllowBackorder,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create inventory item")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Inventory item created successfully",
		Data:    item,
	})
}

// GetInventory handles GET /api/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.getInventory.Handle(r.Context(), id)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: status})
}

// GetInventoryByProduct handles GET /api/products/{id}/inventory
func (h *InventoryHandler) GetInventoryByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.getInventory.HandleByProduct(r.Context(), productID)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: status})
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	statuses, err := h.listInventory.Handle(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list inventory")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list inventory",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: statuses})
}

// AdjustStock handles POST /api/inventory/{id}/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req command.AdjustStockCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	req.ItemID = id

	txn, err := h.adjustStock.Handle(r.Context(), req)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted successfully",
		Data:    txn,
	})
}

// Restock handles POST /api/inventory/{id}/restock
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req command.RestockCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	req.ItemID = id

	txn, err := h.restock.Handle(r.Context(), req)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock received successfully",
		Data:    txn,
	})
}

// RecordReturn handles POST /api/inventory/{id}/returns
func (h *InventoryHandler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req command.RecordReturnCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	req.ItemID = id

	txn, err := h.recordReturn.Handle(r.Context(), req)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Return recorded successfully",
		Data:    txn,
	})
}

// MarkDamaged handles POST /api/inventory/{id}/damage
func (h *InventoryHandler) MarkDamaged(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req command.MarkDamagedCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	req.ItemID = id

	txn, err := h.markDamaged.Handle(r.Context(), req)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Damaged stock recorded successfully",
		Data:    txn,
	})
}

// ReserveInventory handles POST /api/orders/{id}/reservations
func (h *InventoryHandler) ReserveInventory(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reservations, err := h.reserve.Handle(r.Context(), command.ReserveInventoryCommand{OrderID: orderID})
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Inventory reserved successfully",
		Data:    reservations,
	})
}

// FulfillReservations handles POST /api/orders/{id}/reservations/fulfill
func (h *InventoryHandler) FulfillReservations(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := h.fulfill.Handle(r.Context(), command.FulfillReservationsCommand{OrderID: orderID})
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservations fulfilled successfully",
		Data:    map[string]int{"fulfilled": count},
	})
}

// ReleaseReservations handles DELETE /api/orders/{id}/reservations
func (h *InventoryHandler) ReleaseReservations(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := h.release.Handle(r.Context(), command.ReleaseReservationsCommand{OrderID: orderID})
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservations released successfully",
		Data:    map[string]int{"released": count},
	})
}

// ReleaseExpired handles POST /api/reservations/release-expired
func (h *InventoryHandler) ReleaseExpired(w http.ResponseWriter, r *http.Request) {
	count, err := h.releaseExpired.Handle(r.Context())
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to release expired reservations")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to release expired reservations",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"released": count},
	})
}

// ListTransactions handles GET /api/inventory/{id}/transactions
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit, offset := pagination(r)
	resolve := r.URL.Query().Get("resolve") == "true"

	views, err := h.listTxns.Handle(r.Context(), id, limit, offset, resolve)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: views})
}

// ListAlerts handles GET /api/inventory/{id}/alerts
func (h *InventoryHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	includeResolved := r.URL.Query().Get("include_resolved") == "true"

	alerts, err := h.listAlerts.Handle(r.Context(), id, includeResolved)
	if err != nil {
		respondJSON(w, inventoryErrorStatus(err), Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: alerts})
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory", h.CreateItem).Methods("POST")
	router.HandleFunc("/api/inventory", h.ListInventory).Methods("GET")
	router.HandleFunc("/api/inventory/{id}", h.GetInventory).Methods("GET")
	router.HandleFunc("/api/inventory/{id}/adjust", h.AdjustStock).Methods("POST")
	router.HandleFunc("/api/inventory/{id}/restock", h.Restock).Methods("POST")
	router.HandleFunc("/api/inventory/{id}/returns", h.RecordReturn).Methods("POST")
	router.HandleFunc("/api/inventory/{id}/damage", h.MarkDamaged).Methods("POST")
	router.HandleFunc("/api/inventory/{id}/transactions", h.ListTransactions).Methods("GET")
	router.HandleFunc("/api/inventory/{id}/alerts", h.ListAlerts).Methods("GET")
	router.HandleFunc("/api/products/{id}/inventory", h.GetInventoryByProduct).Methods("GET")
	router.HandleFunc("/api/orders/{id}/reservations", h.ReserveInventory).Methods("POST")
	router.HandleFunc("/api/orders/{id}/reservations", h.ReleaseReservations).Methods("DELETE")
	router.HandleFunc("/api/orders/{id}/reservations/fulfill", h.FulfillReservations).Methods("POST")
	router.HandleFunc("/api/reservations/release-expired", h.ReleaseExpired).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// inventoryErrorStatus maps ledger domain errors to HTTP statuses.
func inventoryErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotTracked),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrStockBelowZero),
		errors.Is(err, domain.ErrReservationNotActive):
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

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
