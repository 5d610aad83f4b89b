package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/commerce-core/internal/discount/domain"
	"github.com/tair/commerce-core/pkg/logger"
	"github.com/tair/commerce-core/pkg/money"
)

const codeCacheTTL = 5 * time.Minute

// CachedDiscountRepository is a read-through cache over code lookups. Every
// write path invalidates the cached code explicitly; redemption mutates
// balance and use counters, so stale entries would validate drained codes.
type CachedDiscountRepository struct {
	inner domain.DiscountRepository
	rdb   *redis.Client
}

func NewCachedDiscountRepository(inner domain.DiscountRepository, rdb *redis.Client) *CachedDiscountRepository {
	return &CachedDiscountRepository{inner: inner, rdb: rdb}
}

func cacheKey(code string) string {
	return "discount:code:" + domain.NormalizeCode(code)
}

func (r *CachedDiscountRepository) FindByCode(ctx context.Context, code string) (*domain.Discount, error) {
	if r.rdb != nil {
		cached, err := r.rdb.Get(ctx, cacheKey(code)).Bytes()
		if err == nil && len(cached) > 0 {
			var discount domain.Discount
			if err := json.Unmarshal(cached, &discount); err == nil {
				logger.Debug(ctx).Str("code", discount.Code).Msg("Discount cache hit")
				return &discount, nil
			}
		}
	}

	discount, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if r.rdb != nil {
		if payload, err := json.Marshal(discount); err == nil {
			if err := r.rdb.Set(ctx, cacheKey(discount.Code), payload, codeCacheTTL).Err(); err != nil {
				logger.Warn(ctx).Err(err).Str("code", discount.Code).Msg("Failed to cache discount")
			}
		}
	}
	return discount, nil
}

func (r *CachedDiscountRepository) invalidate(ctx context.Context, code string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, cacheKey(code)).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("code", code).Msg("Failed to invalidate discount cache")
	}
}

func (r *CachedDiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	if err := r.inner.Create(ctx, discount); err != nil {
		return err
	}
	r.invalidate(ctx, discount.Code)
	return nil
}

func (r *CachedDiscountRepository) FindByID(ctx context.Context, id uint) (*domain.Discount, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedDiscountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.inner.ExistsByCode(ctx, code)
}

func (r *CachedDiscountRepository) ExistsKindForUser(ctx context.Context, kind string, userID uint) (bool, error) {
	return r.inner.ExistsKindForUser(ctx, kind, userID)
}

// ApplyToOrder never consults the cache: the inner repository re-reads the
// discount under lock, and the redeemed code is invalidated afterwards.
func (r *CachedDiscountRepository) ApplyToOrder(ctx context.Context, orderID, discountID uint, subtotal money.Money) (*domain.ApplyRecord, error) {
	record, err := r.inner.ApplyToOrder(ctx, orderID, discountID, subtotal)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, record.Discount.Code)
	return record, nil
}

func (r *CachedDiscountRepository) Update(ctx context.Context, discount *domain.Discount) error {
	if err := r.inner.Update(ctx, discount); err != nil {
		return err
	}
	r.invalidate(ctx, discount.Code)
	return nil
}
