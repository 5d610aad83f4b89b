package kafka

import "time"

// OrderStatusChangedEvent signals that an order moved to a terminal
// payment state. The inventory service fulfills or releases the order's
// reservations based on the event type.
type OrderStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrderID   uint      `json:"order_id"`
	UserID    uint      `json:"user_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StockAlertEvent broadcasts a newly opened inventory alert.
type StockAlertEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	InventoryItemID uint      `json:"inventory_item_id"`
	ProductID       uint      `json:"product_id"`
	AlertType       string    `json:"alert_type"`
	ThresholdValue  int       `json:"threshold_value"`
	CurrentValue    int       `json:"current_value"`
	Timestamp       time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeStockAlert     = "inventory.stock_alert"
)

// Kafka topics
const (
	TopicOrderEvents = "order-events"
	TopicStockAlerts = "stock-alerts"
)
