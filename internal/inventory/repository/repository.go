package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.InventoryItem{},
		&domain.InventoryTransaction{},
		&domain.InventoryReservation{},
		&domain.InventoryAlert{},
	)
}

// Transact runs fn against a repository bound to one database transaction.
func (r *GormInventoryRepository) Transact(ctx context.Context, fn func(domain.InventoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormInventoryRepository{db: tx})
	})
}

func (r *GormInventoryRepository) CreateItem(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormInventoryRepository) FindItem(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindItemByProductID(ctx context.Context, productID uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

func (r *GormInventoryRepository) SaveItem(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormInventoryRepository) CreateTransaction(ctx context.Context, txn *domain.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *GormInventoryRepository) ListTransactions(ctx context.Context, itemID uint, limit, offset int) ([]domain.InventoryTransaction, error) {
	var txns []domain.InventoryTransaction
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&txns).Error
	return txns, err
}

func (r *GormInventoryRepository) CreateReservation(ctx context.Context, reservation *domain.InventoryReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *GormInventoryRepository) SaveReservation(ctx context.Context, reservation *domain.InventoryReservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *GormInventoryRepository) ActiveReservationsForOrder(ctx context.Context, orderID uint) ([]domain.InventoryReservation, error) {
	var reservations []domain.InventoryReservation
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, domain.ReservationActive).
		Find(&reservations).Error
	return reservations, err
}

func (r *GormInventoryRepository) ExpiredActiveReservations(ctx context.Context, now time.Time) ([]domain.InventoryReservation, error) {
	var reservations []domain.InventoryReservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", domain.ReservationActive, now).
		Find(&reservations).Error
	return reservations, err
}

// UnresolvedAlert returns nil without error when no open alert exists.
func (r *GormInventoryRepository) UnresolvedAlert(ctx context.Context, itemID uint, alertType string) (*domain.InventoryAlert, error) {
	var alert domain.InventoryAlert
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND alert_type = ? AND is_resolved = ?", itemID, alertType, false).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *GormInventoryRepository) CreateAlert(ctx context.Context, alert *domain.InventoryAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *GormInventoryRepository) ResolveAlerts(ctx context.Context, itemID uint, alertType string, resolvedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.InventoryAlert{}).
		Where("inventory_item_id = ? AND alert_type = ? AND is_resolved = ?", itemID, alertType, false).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": resolvedAt,
			"resolved_by": "system",
		}).Error
}

func (r *GormInventoryRepository) ListAlerts(ctx context.Context, itemID uint, includeResolved bool) ([]domain.InventoryAlert, error) {
	q := r.db.WithContext(ctx).Where("inventory_item_id = ?", itemID)
	if !includeResolved {
		q = q.Where("is_resolved = ?", false)
	}
	var alerts []domain.InventoryAlert
	err := q.Order("id DESC").Find(&alerts).Error
	return alerts, err
}

// FindItemForUpdate locks the item row for the duration of the transaction.
func (r *GormInventoryRepository) FindItemForUpdate(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindItemByProductIDForUpdate(ctx context.Context, productID uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindReservationForUpdate(ctx context.Context, id uint) (*domain.InventoryReservation, error) {
	var reservation domain.InventoryReservation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
