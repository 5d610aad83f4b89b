//go:build wireinject
// +build wireinject

package discount

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/commerce-core/internal/discount/delivery/http"
	"github.com/tair/commerce-core/kafka"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, rdb *redis.Client, publisher *kafka.Publisher) (*http.DiscountHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewDiscountHandler,
	)
	return nil, nil
}
