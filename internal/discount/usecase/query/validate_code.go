package query

import (
	"context"
	"errors"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
)

// ValidateCodeQuery represents the query to validate a discount code
type ValidateCodeQuery struct {
	Code string
}

// ValidateCodeHandler handles code validation
type ValidateCodeHandler struct {
	repo domain.DiscountRepository
}

// NewValidateCodeHandler creates a new validate code handler
func NewValidateCodeHandler(repo domain.DiscountRepository) *ValidateCodeHandler {
	return &ValidateCodeHandler{repo: repo}
}

// Handle resolves the code case-insensitively. Unknown, expired, drained and
// exhausted codes all come back as nil without error; this is the silent
// validation path used before checkout.
func (h *ValidateCodeHandler) Handle(ctx context.Context, q ValidateCodeQuery) (*domain.Discount, error) {
	discount, err := h.repo.FindByCode(ctx, q.Code)
	if err != nil {
		if errors.Is(err, domain.ErrDiscountNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !discount.IsUsable(time.Now()) {
		return nil, nil
	}
	return discount, nil
}
