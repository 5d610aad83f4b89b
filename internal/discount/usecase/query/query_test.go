package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/money"
)

type stubDiscountRepo struct {
	byCode      map[string]*domain.Discount
	kindForUser map[uint]string
}

func newStubDiscountRepo() *stubDiscountRepo {
	return &stubDiscountRepo{
		byCode:      make(map[string]*domain.Discount),
		kindForUser: make(map[uint]string),
	}
}

func (s *stubDiscountRepo) Create(_ context.Context, d *domain.Discount) error {
	s.byCode[domain.NormalizeCode(d.Code)] = d
	return nil
}

func (s *stubDiscountRepo) FindByCode(_ context.Context, code string) (*domain.Discount, error) {
	d, ok := s.byCode[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

func (s *stubDiscountRepo) FindByID(_ context.Context, _ uint) (*domain.Discount, error) {
	return nil, domain.ErrDiscountNotFound
}

func (s *stubDiscountRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := s.byCode[domain.NormalizeCode(code)]
	return ok, nil
}

func (s *stubDiscountRepo) ExistsKindForUser(_ context.Context, kind string, userID uint) (bool, error) {
	return s.kindForUser[userID] == kind, nil
}

func (s *stubDiscountRepo) ApplyToOrder(_ context.Context, _, _ uint, _ money.Money) (*domain.ApplyRecord, error) {
	return nil, nil
}

func (s *stubDiscountRepo) Update(_ context.Context, _ *domain.Discount) error {
	return nil
}

type stubOrderRepo struct {
	orders   map[uint]*orderdomain.Order
	renewals map[uint]int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uint]*orderdomain.Order),
		renewals: make(map[uint]int64),
	}
}

func (s *stubOrderRepo) Create(_ context.Context, o *orderdomain.Order) error {
	s.orders[o.ID] = o
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uint) (*orderdomain.Order, error) {
	return s.orders[id], nil
}

func (s *stubOrderRepo) FindByUserID(_ context.Context, _ uint, _, _ int) ([]orderdomain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ uint, _ string) error {
	return nil
}

func (s *stubOrderRepo) CountRenewalOrders(_ context.Context, userID uint) (int64, error) {
	return s.renewals[userID], nil
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestValidateCodeReturnsUsableDiscount(t *testing.T) {
	repo := newStubDiscountRepo()
	repo.byCode["SAVE10"] = &domain.Discount{
		ID: 1, Code: "SAVE10", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 10,
	}

	h := NewValidateCodeHandler(repo)
	d, err := h.Handle(context.Background(), ValidateCodeQuery{Code: "save10"})
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "SAVE10", d.Code)
}

func TestValidateCodeNilForUnknown(t *testing.T) {
	h := NewValidateCodeHandler(newStubDiscountRepo())
	d, err := h.Handle(context.Background(), ValidateCodeQuery{Code: "MISSING"})
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestValidateCodeNilForInvalid(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	cases := map[string]*domain.Discount{
		"expired":           {Code: "X", Kind: domain.KindPromoCode, ExpiresAt: &past},
		"drained gift card": {Code: "X", Kind: domain.KindGiftCard, CurrentBalanceCents: int64Ptr(0)},
		"exhausted":         {Code: "X", Kind: domain.KindPromoCode, MaxUses: intPtr(1), TimesUsed: 1},
	}

	for name, discount := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStubDiscountRepo()
			repo.byCode["X"] = discount

			h := NewValidateCodeHandler(repo)
			d, err := h.Handle(context.Background(), ValidateCodeQuery{Code: "X"})
			require.NoError(t, err)
			assert.Nil(t, d)
		})
	}
}

func TestPreviewDiscount(t *testing.T) {
	discounts := newStubDiscountRepo()
	orders := newStubOrderRepo()
	orders.orders[1] = &orderdomain.Order{
		ID: 1, UserID: 7,
		Items: []orderdomain.OrderItem{{AmountCents: 9999, Quantity: 1}},
	}
	discounts.byCode["THIRD"] = &domain.Discount{
		Code: "THIRD", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 33,
	}

	h := NewPreviewDiscountHandler(discounts, orders)
	amount, err := h.Handle(context.Background(), PreviewDiscountQuery{OrderID: 1, Code: "THIRD"})
	require.NoError(t, err)
	assert.Equal(t, money.Money(3300), amount)

	amount, err = h.Handle(context.Background(), PreviewDiscountQuery{OrderID: 1, Code: "GONE"})
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), amount)
}

func TestCancellationOfferAvailability(t *testing.T) {
	t.Run("eligible with enough renewals and no prior offer", func(t *testing.T) {
		discounts := newStubDiscountRepo()
		orders := newStubOrderRepo()
		orders.renewals[7] = 4

		h := NewCancellationOfferAvailableHandler(discounts, orders)
		ok, err := h.Handle(context.Background(), CancellationOfferAvailableQuery{UserID: 7})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ineligible below four renewals", func(t *testing.T) {
		discounts := newStubDiscountRepo()
		orders := newStubOrderRepo()
		orders.renewals[7] = 3

		h := NewCancellationOfferAvailableHandler(discounts, orders)
		ok, err := h.Handle(context.Background(), CancellationOfferAvailableQuery{UserID: 7})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ineligible with an existing offer", func(t *testing.T) {
		discounts := newStubDiscountRepo()
		discounts.kindForUser[7] = domain.KindCancellation
		orders := newStubOrderRepo()
		orders.renewals[7] = 10

		h := NewCancellationOfferAvailableHandler(discounts, orders)
		ok, err := h.Handle(context.Background(), CancellationOfferAvailableQuery{UserID: 7})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
