package discount

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/commerce-core/internal/discount/domain"
	"github.com/tair/commerce-core/internal/discount/repository"
	"github.com/tair/commerce-core/internal/discount/usecase/command"
	"github.com/tair/commerce-core/internal/discount/usecase/query"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	orderrepo "github.com/tair/commerce-core/internal/order/repository"
	ordercommand "github.com/tair/commerce-core/internal/order/usecase/command"
	productdomain "github.com/tair/commerce-core/internal/product/domain"
	productrepo "github.com/tair/commerce-core/internal/product/repository"
	"github.com/tair/commerce-core/kafka"
)

// ProvideDiscountRepository builds the repository chain: gorm storage behind
// the redis read-through cache, wrapped with tracing.
func ProvideDiscountRepository(db *gorm.DB, rdb *redis.Client) domain.DiscountRepository {
	return repository.NewTracingDiscountRepository(
		repository.NewCachedDiscountRepository(
			repository.NewGormDiscountRepository(db), rdb))
}

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) orderdomain.OrderRepository {
	return orderrepo.NewGormOrderRepository(db)
}

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) productdomain.ProductRepository {
	return productrepo.NewGormProductRepository(db)
}

// ProvideStatusEventPublisher provides the order status event publisher.
// A nil publisher stays a nil interface so status updates skip publishing.
func ProvideStatusEventPublisher(publisher *kafka.Publisher) ordercommand.StatusEventPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideDiscountRepository,
	ProvideOrderRepository,
	ProvideProductRepository,
	ProvideStatusEventPublisher,
)

var CommandSet = wire.NewSet(
	command.NewCreateGiftCardHandler,
	command.NewCreatePromoCodeHandler,
	command.NewCreateCancellationOfferHandler,
	command.NewApplyDiscountHandler,
	command.NewApplyDiscountsHandler,
	ordercommand.NewUpdateOrderStatusHandler,
)

var QuerySet = wire.NewSet(
	query.NewValidateCodeHandler,
	query.NewPreviewDiscountHandler,
	query.NewCancellationOfferAvailableHandler,
)
