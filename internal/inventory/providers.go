package inventory

import (
	"context"

	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/internal/inventory/repository"
	"github.com/tair/commerce-core/internal/inventory/usecase/command"
	"github.com/tair/commerce-core/internal/inventory/usecase/query"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	orderrepo "github.com/tair/commerce-core/internal/order/repository"
	"github.com/tair/commerce-core/kafka"
)

// ProvideInventoryRepository builds the repository chain: gorm storage
// wrapped with tracing.
func ProvideInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewTracingInventoryRepository(
		repository.NewGormInventoryRepository(db))
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepo.NewGormOrderRepository(db)
}

// KafkaAlertNotifier forwards stock alerts to the stock-alerts topic.
// A nil publisher turns it into a no-op, used when Kafka is disabled.
type KafkaAlertNotifier struct {
	publisher *kafka.Publisher
}

func NewKafkaAlertNotifier(publisher *kafka.Publisher) *KafkaAlertNotifier {
	return &KafkaAlertNotifier{publisher: publisher}
}

func (n *KafkaAlertNotifier) NotifyStockAlert(ctx context.Context, item *domain.InventoryItem, alert *domain.InventoryAlert) error {
	if n.publisher == nil {
		return nil
	}
	return n.publisher.PublishStockAlert(ctx, kafka.StockAlertEvent{
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		AlertType:       alert.AlertType,
		ThresholdValue:  alert.ThresholdValue,
		CurrentValue:    alert.CurrentValue,
	})
}

// ProvideAlertNotifier provides the stock alert notifier
func ProvideAlertNotifier(publisher *kafka.Publisher) command.AlertNotifier {
	return NewKafkaAlertNotifier(publisher)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
	ProvideOrderRepository,
	ProvideAlertNotifier,
)

var CommandSet = wire.NewSet(
	command.NewCreateItemHandler,
	command.NewAdjustStockHandler,
	command.NewRestockHandler,
	command.NewRecordReturnHandler,
	command.NewMarkDamagedHandler,
	command.NewReserveInventoryHandler,
	command.NewFulfillReservationsHandler,
	command.NewReleaseReservationsHandler,
	command.NewReleaseExpiredHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetInventoryHandler,
	query.NewListInventoryHandler,
	query.NewListTransactionsHandler,
	query.NewListAlertsHandler,
)
