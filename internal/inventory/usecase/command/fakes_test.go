package command

import (
	"context"
	"errors"
	"time"

	"github.com/tair/commerce-core/internal/inventory/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
)

var orderNotFoundErr = errors.New("order not found")

// fakeInventoryRepo is an in-memory InventoryRepository. Transact runs the
// callback against the fake itself; ForUpdate lookups degrade to plain reads.
type fakeInventoryRepo struct {
	items        map[uint]*domain.InventoryItem
	txns         []domain.InventoryTransaction
	reservations map[uint]*domain.InventoryReservation
	alerts       []*domain.InventoryAlert
	nextItemID   uint
	nextResID    uint
	nextAlertID  uint
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items:        make(map[uint]*domain.InventoryItem),
		reservations: make(map[uint]*domain.InventoryReservation),
	}
}

func (f *fakeInventoryRepo) add(item *domain.InventoryItem) *domain.InventoryItem {
	f.nextItemID++
	item.ID = f.nextItemID
	f.items[item.ID] = item
	return item
}

func (f *fakeInventoryRepo) CreateItem(_ context.Context, item *domain.InventoryItem) error {
	f.add(item)
	return nil
}

func (f *fakeInventoryRepo) FindItem(_ context.Context, id uint) (*domain.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeInventoryRepo) FindItemByProductID(_ context.Context, productID uint) (*domain.InventoryItem, error) {
	for _, item := range f.items {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *fakeInventoryRepo) ListItems(_ context.Context, _, _ int) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeInventoryRepo) SaveItem(_ context.Context, item *domain.InventoryItem) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeInventoryRepo) CreateTransaction(_ context.Context, txn *domain.InventoryTransaction) error {
	txn.ID = uint(len(f.txns) + 1)
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeInventoryRepo) ListTransactions(_ context.Context, itemID uint, _, _ int) ([]domain.InventoryTransaction, error) {
	var out []domain.InventoryTransaction
	for _, txn := range f.txns {
		if txn.InventoryItemID == itemID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) CreateReservation(_ context.Context, reservation *domain.InventoryReservation) error {
	f.nextResID++
	reservation.ID = f.nextResID
	stored := *reservation
	f.reservations[reservation.ID] = &stored
	return nil
}

func (f *fakeInventoryRepo) SaveReservation(_ context.Context, reservation *domain.InventoryReservation) error {
	stored := *reservation
	f.reservations[reservation.ID] = &stored
	return nil
}

func (f *fakeInventoryRepo) ActiveReservationsForOrder(_ context.Context, orderID uint) ([]domain.InventoryReservation, error) {
	var out []domain.InventoryReservation
	for _, r := range f.reservations {
		if r.OrderID != nil && *r.OrderID == orderID && r.Status == domain.ReservationActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) ExpiredActiveReservations(_ context.Context, now time.Time) ([]domain.InventoryReservation, error) {
	var out []domain.InventoryReservation
	for _, r := range f.reservations {
		if r.IsExpired(now) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) UnresolvedAlert(_ context.Context, itemID uint, alertType string) (*domain.InventoryAlert, error) {
	for _, a := range f.alerts {
		if a.InventoryItemID == itemID && a.AlertType == alertType && !a.IsResolved {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeInventoryRepo) CreateAlert(_ context.Context, alert *domain.InventoryAlert) error {
	f.nextAlertID++
	alert.ID = f.nextAlertID
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeInventoryRepo) ResolveAlerts(_ context.Context, itemID uint, alertType string, resolvedAt time.Time) error {
	for _, a := range f.alerts {
		if a.InventoryItemID == itemID && a.AlertType == alertType && !a.IsResolved {
			a.IsResolved = true
			a.ResolvedAt = &resolvedAt
			a.ResolvedBy = "system"
		}
	}
	return nil
}

func (f *fakeInventoryRepo) ListAlerts(_ context.Context, itemID uint, includeResolved bool) ([]domain.InventoryAlert, error) {
	var out []domain.InventoryAlert
	for _, a := range f.alerts {
		if a.InventoryItemID != itemID {
			continue
		}
		if !includeResolved && a.IsResolved {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeInventoryRepo) Transact(_ context.Context, fn func(domain.InventoryRepository) error) error {
	return fn(f)
}

func (f *fakeInventoryRepo) FindItemForUpdate(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	return f.FindItem(ctx, id)
}

func (f *fakeInventoryRepo) FindItemByProductIDForUpdate(ctx context.Context, productID uint) (*domain.InventoryItem, error) {
	return f.FindItemByProductID(ctx, productID)
}

func (f *fakeInventoryRepo) FindReservationForUpdate(_ context.Context, id uint) (*domain.InventoryReservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, errors.New("reservation not found")
	}
	return r, nil
}

// unresolvedCount tallies open alerts of one type for an item.
func (f *fakeInventoryRepo) unresolvedCount(itemID uint, alertType string) int {
	n := 0
	for _, a := range f.alerts {
		if a.InventoryItemID == itemID && a.AlertType == alertType && !a.IsResolved {
			n++
		}
	}
	return n
}

type fakeOrderRepo struct {
	orders map[uint]*orderdomain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*orderdomain.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *orderdomain.Order) error {
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uint) (*orderdomain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderNotFoundErr
	}
	return o, nil
}

func (f *fakeOrderRepo) FindByUserID(_ context.Context, userID uint, _, _ int) ([]orderdomain.Order, error) {
	var out []orderdomain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (f *fakeOrderRepo) CountRenewalOrders(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

type fakeNotifier struct {
	alerts []*domain.InventoryAlert
}

func (f *fakeNotifier) NotifyStockAlert(_ context.Context, _ *domain.InventoryItem, alert *domain.InventoryAlert) error {
	f.alerts = append(f.alerts, alert)
	return nil
}
