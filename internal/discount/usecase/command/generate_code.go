package command

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/commerce-core/internal/discount/domain"
)

// Code prefixes per discount kind
const (
	GiftCardPrefix          = "GIFT-"
	PromoCodePrefix         = "PROMO-"
	CancellationOfferPrefix = "CANCELLATION-OFFER-"
)

// DefaultCodeAttempts bounds collision retries during code generation.
const DefaultCodeAttempts = 10

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// GenerateUniqueCode draws random codes with the given prefix until one does
// not collide, giving up with ErrCodeGenerationExhausted after maxAttempts.
func GenerateUniqueCode(ctx context.Context, repo domain.DiscountRepository, prefix string, maxAttempts int) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := prefix + randomSuffix()
		exists, err := repo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrCodeGenerationExhausted
}
