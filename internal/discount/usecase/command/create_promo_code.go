package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
)

// CreatePromoCodeCommand represents the command to issue a promo code.
// Value is percentage points for percentage codes and cents for fixed ones.
type CreatePromoCodeCommand struct {
	Code          string
	Value         int64
	ValueKind     string
	MaxUses       *int
	MinOrderCents *int64
	ExpiresAt     *time.Time
	UserID        *uint
}

// CreatePromoCodeHandler handles promo code issuance
type CreatePromoCodeHandler struct {
	repo domain.DiscountRepository
}

// NewCreatePromoCodeHandler creates a new promo code handler
func NewCreatePromoCodeHandler(repo domain.DiscountRepository) *CreatePromoCodeHandler {
	return &CreatePromoCodeHandler{repo: repo}
}

// Handle issues a promo code, uppercasing a provided code or generating one.
func (h *CreatePromoCodeHandler) Handle(ctx context.Context, cmd CreatePromoCodeCommand) (*domain.Discount, error) {
	if cmd.ValueKind == "" {
		cmd.ValueKind = domain.ValuePercentage
	}
	if cmd.ValueKind != domain.ValuePercentage && cmd.ValueKind != domain.ValueFixed {
		return nil, fmt.Errorf("unknown value kind %q", cmd.ValueKind)
	}
	if cmd.Value <= 0 {
		return nil, fmt.Errorf("promo value must be greater than 0")
	}
	if cmd.ValueKind == domain.ValuePercentage && cmd.Value > 100 {
		return nil, fmt.Errorf("percentage value must be at most 100")
	}

	code := domain.NormalizeCode(cmd.Code)
	if code == "" {
		generated, err := GenerateUniqueCode(ctx, h.repo, PromoCodePrefix, DefaultCodeAttempts)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		exists, err := h.repo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("discount code %s already exists", code)
		}
	}

	discount := &domain.Discount{
		Code:          code,
		Kind:          domain.KindPromoCode,
		ValueKind:     cmd.ValueKind,
		ValueCents:    cmd.Value,
		MaxUses:       cmd.MaxUses,
		MinOrderCents: cmd.MinOrderCents,
		ExpiresAt:     cmd.ExpiresAt,
		UserID:        cmd.UserID,
	}

	if err := h.repo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}

	return discount, nil
}
