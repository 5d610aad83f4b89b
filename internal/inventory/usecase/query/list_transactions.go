package query

import (
	"context"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// TransactionView is a ledger row plus, when a resolver is registered for
// its reference kind, the referenced record itself.
type TransactionView struct {
	domain.InventoryTransaction
	Reference interface{} `json:"reference,omitempty"`
}

type ListTransactionsHandler struct {
	repo     domain.InventoryRepository
	registry *domain.ReferenceRegistry
}

func NewListTransactionsHandler(repo domain.InventoryRepository, registry *domain.ReferenceRegistry) *ListTransactionsHandler {
	return &ListTransactionsHandler{repo: repo, registry: registry}
}

func (h *ListTransactionsHandler) Handle(ctx context.Context, itemID uint, limit, offset int, resolve bool) ([]TransactionView, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := h.repo.FindItem(ctx, itemID); err != nil {
		return nil, err
	}

	txns, err := h.repo.ListTransactions(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(txns))
	for _, txn := range txns {
		view := TransactionView{InventoryTransaction: txn}
		if resolve && txn.ReferenceType != "" && h.registry != nil {
			ref, err := h.registry.Resolve(ctx, domain.Reference{Kind: txn.ReferenceType, ID: txn.ReferenceID})
			if err != nil {
				// A dangling reference should not break the listing.
				logger.Debug(ctx).Err(err).
					Str("reference_type", txn.ReferenceType).
					Uint("reference_id", txn.ReferenceID).
					Msg("Could not resolve transaction reference")
			} else {
				view.Reference = ref
			}
		}
		views = append(views, view)
	}
	return views, nil
}
