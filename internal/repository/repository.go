package repository

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	UpdateState(ctx context.Context, id int32, state domain.ProductState) error
	// WriteOff decrements total_quantity by the entry's quantity and closes the
	// entry in one transaction; total never drops below the remaining open
	// frozen quantity.
	WriteOff(ctx context.Context, productID int32, entryID uuid.UUID) error
}

type OrderRepository interface {
	// CreateCommitted inserts the order and its reservation lines after
	// re-validating availability inside the same transaction, with the product
	// rows locked. Returns domain.ErrStockUnavailable if any line no longer fits.
	CreateCommitted(ctx context.Context, order *domain.Order, lines []domain.ReservationLine) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	GetLines(ctx context.Context, orderID int32) ([]domain.ReservationLine, error)
	UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus, hasPartialReturn bool) error
	// CommittedQuantity sums reservation-line quantity over orders in the given
	// status set whose window overlaps the query window (inclusive bounds),
	// optionally excluding one order (the order under edit).
	CommittedQuantity(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) (int32, error)
	ListOverlapping(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) ([]domain.OverlappingReservation, error)
}

type FreezeRepository interface {
	// Open inserts the entry after verifying, with the product row locked, that
	// open frozen quantity plus the new entry does not exceed total quantity.
	Open(ctx context.Context, e *domain.FreezeEntry) error
	Close(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FreezeEntry, error)
	ListOpen(ctx context.Context, productID int32) ([]domain.FreezeEntry, error)
	// OpenQuantity is the product's frozen quantity: the sum of its open entries.
	OpenQuantity(ctx context.Context, productID int32) (int32, error)
}

type VersionRepository interface {
	// Create inserts the version, its items, the backing child order and its
	// reservation lines, and closes the parent order, all in one transaction.
	Create(ctx context.Context, v *domain.PartialReturnVersion, child *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.PartialReturnVersion, error)
	ListByParent(ctx context.Context, parentOrderID int32) ([]domain.PartialReturnVersion, error)
	ActiveByParent(ctx context.Context, parentOrderID int32) (*domain.PartialReturnVersion, error)
	// ListOutstandingByProduct returns pending items of active versions holding
	// the product, for partial-return risk annotations.
	ListOutstandingByProduct(ctx context.Context, productID int32) ([]domain.OutstandingVersionItem, error)
	ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.PartialReturnVersion, error)
	// Resolve marks the version resolved and its backing order returned.
	Resolve(ctx context.Context, versionID int32) error
	MarkItemReturned(ctx context.Context, versionID, productID int32) error
}
