package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
)

// Cancellation offers are a fixed 20% off, one use, scoped to the user.
const cancellationOfferPercent = 20

// CreateCancellationOfferCommand represents the command to issue a
// cancellation retention offer
type CreateCancellationOfferCommand struct {
	UserID    uint
	ExpiresAt *time.Time
}

// CreateCancellationOfferHandler handles cancellation offer issuance
type CreateCancellationOfferHandler struct {
	repo domain.DiscountRepository
}

// NewCreateCancellationOfferHandler creates a new cancellation offer handler
func NewCreateCancellationOfferHandler(repo domain.DiscountRepository) *CreateCancellationOfferHandler {
	return &CreateCancellationOfferHandler{repo: repo}
}

// Handle issues the retention offer for the user.
func (h *CreateCancellationOfferHandler) Handle(ctx context.Context, cmd CreateCancellationOfferCommand) (*domain.Discount, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}

	code, err := GenerateUniqueCode(ctx, h.repo, CancellationOfferPrefix, DefaultCodeAttempts)
	if err != nil {
		return nil, err
	}

	maxUses := 1
	discount := &domain.Discount{
		Code:       code,
		Kind:       domain.KindCancellation,
		ValueKind:  domain.ValuePercentage,
		ValueCents: cancellationOfferPercent,
		MaxUses:    &maxUses,
		UserID:     &cmd.UserID,
		ExpiresAt:  cmd.ExpiresAt,
	}

	if err := h.repo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to create cancellation offer: %w", err)
	}

	return discount, nil
}
