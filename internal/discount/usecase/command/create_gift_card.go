package command

import (
	"context"
	"fmt"

	"github.com/tair/commerce-core/internal/discount/domain"
	"github.com/tair/commerce-core/pkg/money"
)

// CreateGiftCardCommand represents the command to issue a gift card
type CreateGiftCardCommand struct {
	Value          money.Money
	ProductID      *uint
	UserID         *uint
	RecipientEmail string
}

// CreateGiftCardHandler handles gift card issuance
type CreateGiftCardHandler struct {
	repo domain.DiscountRepository
}

// NewCreateGiftCardHandler creates a new gift card handler
func NewCreateGiftCardHandler(repo domain.DiscountRepository) *CreateGiftCardHandler {
	return &CreateGiftCardHandler{repo: repo}
}

// Handle issues a gift card whose balance starts at the face value.
func (h *CreateGiftCardHandler) Handle(ctx context.Context, cmd CreateGiftCardCommand) (*domain.Discount, error) {
	if cmd.Value <= 0 {
		return nil, fmt.Errorf("gift card value must be greater than 0")
	}

	code, err := GenerateUniqueCode(ctx, h.repo, GiftCardPrefix, DefaultCodeAttempts)
	if err != nil {
		return nil, err
	}

	balance := cmd.Value.Cents()
	discount := &domain.Discount{
		Code:                code,
		Kind:                domain.KindGiftCard,
		ValueKind:           domain.ValueFixed,
		ValueCents:          cmd.Value.Cents(),
		CurrentBalanceCents: &balance,
		ProductID:           cmd.ProductID,
		UserID:              cmd.UserID,
		RecipientEmail:      cmd.RecipientEmail,
	}

	if err := h.repo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("failed to create gift card: %w", err)
	}

	return discount, nil
}
