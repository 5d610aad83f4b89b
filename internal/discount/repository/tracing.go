package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/commerce-core/internal/discount/domain"
	"github.com/tair/commerce-core/pkg/money"
)

var tracer = otel.Tracer("discount-repository")

// TracingDiscountRepository wraps a DiscountRepository with tracing spans.
type TracingDiscountRepository struct {
	inner domain.DiscountRepository
}

func NewTracingDiscountRepository(inner domain.DiscountRepository) *TracingDiscountRepository {
	return &TracingDiscountRepository{inner: inner}
}

func (r *TracingDiscountRepository) Create(ctx context.Context, discount *domain.Discount) error {
	ctx, span := tracer.Start(ctx, "repository.discount.Create")
	defer span.End()

	err := r.inner.Create(ctx, discount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.Int("discount.id", int(discount.ID)),
		attribute.String("discount.kind", discount.Kind),
	)
	return nil
}

func (r *TracingDiscountRepository) FindByCode(ctx context.Context, code string) (*domain.Discount, error) {
	ctx, span := tracer.Start(ctx, "repository.discount.FindByCode")
	defer span.End()

	discount, err := r.inner.FindByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("discount.id", int(discount.ID)),
		attribute.String("discount.kind", discount.Kind),
	)
	return discount, nil
}

func (r *TracingDiscountRepository) FindByID(ctx context.Context, id uint) (*domain.Discount, error) {
	ctx, span := tracer.Start(ctx, "repository.discount.FindByID",
		trace.WithAttributes(attribute.Int("discount.id", int(id))),
	)
	defer span.End()

	discount, err := r.inner.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return discount, nil
}

func (r *TracingDiscountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.discount.ExistsByCode")
	defer span.End()

	exists, err := r.inner.ExistsByCode(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("discount.exists", exists))
	return exists, nil
}

func (r *TracingDiscountRepository) ExistsKindForUser(ctx context.Context, kind string, userID uint) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.discount.ExistsKindForUser",
		trace.WithAttributes(
			attribute.String("discount.kind", kind),
			attribute.Int("user.id", int(userID)),
		),
	)
	defer span.End()

	exists, err := r.inner.ExistsKindForUser(ctx, kind, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return exists, nil
}

func (r *TracingDiscountRepository) ApplyToOrder(ctx context.Context, orderID, discountID uint, subtotal money.Money) (*domain.ApplyRecord, error) {
	ctx, span := tracer.Start(ctx, "repository.discount.ApplyToOrder",
		trace.WithAttributes(
			attribute.Int("order.id", int(orderID)),
			attribute.Int("discount.id", int(discountID)),
		),
	)
	defer span.End()

	record, err := r.inner.ApplyToOrder(ctx, orderID, discountID, subtotal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("discount.amount_applied_cents", record.AmountApplied.Cents()))
	return record, nil
}

func (r *TracingDiscountRepository) Update(ctx context.Context, discount *domain.Discount) error {
	ctx, span := tracer.Start(ctx, "repository.discount.Update",
		trace.WithAttributes(attribute.Int("discount.id", int(discount.ID))),
	)
	defer span.End()

	err := r.inner.Update(ctx, discount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
