package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingInventoryRepository decorates the hot ledger paths with spans.
// Untouched methods fall through to the embedded repository.
type TracingInventoryRepository struct {
	domain.InventoryRepository
}

func NewTracingInventoryRepository(inner domain.InventoryRepository) *TracingInventoryRepository {
	return &TracingInventoryRepository{InventoryRepository: inner}
}

// Transact traces the whole transactional unit, including lock wait time.
func (r *TracingInventoryRepository) Transact(ctx context.Context, fn func(domain.InventoryRepository) error) error {
	ctx, span := tracer.Start(ctx, "repository.inventory.Transact")
	defer span.End()

	err := r.InventoryRepository.Transact(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingInventoryRepository) FindItem(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.inventory.FindItem",
		trace.WithAttributes(attribute.Int("inventory.id", int(id))),
	)
	defer span.End()

	item, err := r.InventoryRepository.FindItem(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("inventory.product_id", int(item.ProductID)),
		attribute.Int("inventory.quantity_available", item.QuantityAvailable),
		attribute.Int("inventory.quantity_reserved", item.QuantityReserved),
	)
	return item, nil
}

func (r *TracingInventoryRepository) CreateTransaction(ctx context.Context, txn *domain.InventoryTransaction) error {
	ctx, span := tracer.Start(ctx, "repository.inventory.CreateTransaction",
		trace.WithAttributes(
			attribute.Int("inventory.id", int(txn.InventoryItemID)),
			attribute.String("transaction.type", txn.Type),
			attribute.Int("transaction.quantity", txn.Quantity),
		),
	)
	defer span.End()

	err := r.InventoryRepository.CreateTransaction(ctx, txn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingInventoryRepository) CreateReservation(ctx context.Context, reservation *domain.InventoryReservation) error {
	ctx, span := tracer.Start(ctx, "repository.inventory.CreateReservation",
		trace.WithAttributes(
			attribute.Int("inventory.id", int(reservation.InventoryItemID)),
			attribute.Int("reservation.quantity", reservation.Quantity),
		),
	)
	defer span.End()

	err := r.InventoryRepository.CreateReservation(ctx, reservation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("reservation.id", int(reservation.ID)))
	return nil
}

func (r *TracingInventoryRepository) ExpiredActiveReservations(ctx context.Context, now time.Time) ([]domain.InventoryReservation, error) {
	ctx, span := tracer.Start(ctx, "repository.inventory.ExpiredActiveReservations")
	defer span.End()

	reservations, err := r.InventoryRepository.ExpiredActiveReservations(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(reservations)))
	return reservations, nil
}
