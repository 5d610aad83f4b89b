package command

import (
	"context"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	productdomain "github.com/tair/commerce-core/internal/product/domain"
	"github.com/tair/commerce-core/pkg/money"
)

type fakeDiscountRepo struct {
	discounts map[string]*domain.Discount
	applied   []appliedRecord
	nextID    uint
	// existsAlways forces every generated code to collide.
	existsAlways bool
}

type appliedRecord struct {
	orderID uint
	record  domain.ApplyRecord
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{discounts: make(map[string]*domain.Discount)}
}

func (f *fakeDiscountRepo) add(d *domain.Discount) *domain.Discount {
	f.nextID++
	d.ID = f.nextID
	d.Code = domain.NormalizeCode(d.Code)
	f.discounts[d.Code] = d
	return d
}

func (f *fakeDiscountRepo) Create(_ context.Context, d *domain.Discount) error {
	f.add(d)
	return nil
}

// FindByCode hands out a snapshot copy, the way a plain SELECT would.
func (f *fakeDiscountRepo) FindByCode(_ context.Context, code string) (*domain.Discount, error) {
	d, ok := f.discounts[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrDiscountNotFound
	}
	snapshot := *d
	return &snapshot, nil
}

func (f *fakeDiscountRepo) FindByID(_ context.Context, id uint) (*domain.Discount, error) {
	for _, d := range f.discounts {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domain.ErrDiscountNotFound
}

func (f *fakeDiscountRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	if f.existsAlways {
		return true, nil
	}
	_, ok := f.discounts[domain.NormalizeCode(code)]
	return ok, nil
}

func (f *fakeDiscountRepo) ExistsKindForUser(_ context.Context, kind string, userID uint) (bool, error) {
	for _, d := range f.discounts {
		if d.Kind == kind && d.UserID != nil && *d.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ApplyToOrder redeems against the authoritative row, mirroring the locked
// re-read the gorm repository does, so stale snapshots cannot over-spend.
func (f *fakeDiscountRepo) ApplyToOrder(_ context.Context, orderID, discountID uint, subtotal money.Money) (*domain.ApplyRecord, error) {
	for _, d := range f.discounts {
		if d.ID != discountID {
			continue
		}
		record, err := d.Redeem(subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		f.applied = append(f.applied, appliedRecord{orderID: orderID, record: record})
		return &record, nil
	}
	return nil, domain.ErrDiscountNotFound
}

func (f *fakeDiscountRepo) Update(_ context.Context, d *domain.Discount) error {
	f.discounts[d.Code] = d
	return nil
}

type fakeOrderRepo struct {
	orders   map[uint]*orderdomain.Order
	renewals map[uint]int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uint]*orderdomain.Order),
		renewals: make(map[uint]int64),
	}
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

func (f *fakeOrderRepo) CountRenewalOrders(_ context.Context, userID uint) (int64, error) {
	return f.renewals[userID], nil
}

type fakeProductRepo struct {
	products map[uint]*productdomain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*productdomain.Product)}
}

func (f *fakeProductRepo) Create(_ context.Context, p *productdomain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint) (*productdomain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, productNotFoundErr
	}
	return p, nil
}

func (f *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*productdomain.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, productNotFoundErr
}

func (f *fakeProductRepo) Update(_ context.Context, p *productdomain.Product) error {
	f.products[p.ID] = p
	return nil
}
