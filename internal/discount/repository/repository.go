package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/money"
)

type GormDiscountRepository struct {
	db *gorm.DB
}

func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

func (r *GormDiscountRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Discount{})
}

func (r *GormDiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	discount.Code = domain.NormalizeCode(discount.Code)
	return r.db.WithContext(ctx).Create(discount).Error
}

// FindByCode matches case-insensitively; codes are stored uppercase.
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*domain.Discount, error) {
	var discount domain.Discount
	err := r.db.WithContext(ctx).
		Where("code = ?", domain.NormalizeCode(code)).
		First(&discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) FindByID(ctx context.Context, id uint) (*domain.Discount, error) {
	var discount domain.Discount
	err := r.db.WithContext(ctx).First(&discount, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *GormDiscountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Discount{}).
		Where("code = ?", domain.NormalizeCode(code)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormDiscountRepository) ExistsKindForUser(ctx context.Context, kind string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Discount{}).
		Where("kind = ? AND user_id = ?", kind, userID).
		Count(&count).Error
	return count > 0, err
}

// ApplyToOrder redeems the discount and writes the pivot row in one
// transaction. The discount row is re-read with a row lock and redeemed from
// that fresh state; a concurrent checkout that already drained the balance or
// exhausted the use counter fails here instead of double-spending.
func (r *GormDiscountRepository) ApplyToOrder(ctx context.Context, orderID, discountID uint, subtotal money.Money) (*domain.ApplyRecord, error) {
	var record domain.ApplyRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var discount domain.Discount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&discount, discountID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDiscountNotFound
			}
			return err
		}

		record, err = discount.Redeem(subtotal, time.Now())
		if err != nil {
			return err
		}

		pivot := orderdomain.OrderDiscount{
			OrderID:            orderID,
			DiscountID:         discount.ID,
			AmountAppliedCents: record.AmountApplied.Cents(),
		}
		if record.BalanceBefore != nil {
			before := record.BalanceBefore.Cents()
			pivot.BalanceBeforeCents = &before
		}
		if record.BalanceAfter != nil {
			after := record.BalanceAfter.Cents()
			pivot.BalanceAfterCents = &after
		}
		if err := tx.Create(&pivot).Error; err != nil {
			return err
		}
		return tx.Save(&discount).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormDiscountRepository) Update(ctx context.Context, discount *domain.Discount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}
