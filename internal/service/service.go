package service

import (
	"context"

	"equiprent-backend/internal/domain"

	"github.com/google/uuid"
)

// AvailabilityService is the evaluator: every check re-derives the verdict from
// current records, so there is nothing cached to go stale. A verdict reserves
// nothing; the atomic reservation happens in OrderService.PlaceOrder.
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, productID, quantity int32, window domain.DateWindow, excludeOrderID *int32) (*domain.AvailabilityResult, error)
	CheckOrderAvailability(ctx context.Context, items []domain.OrderItemRequest, window domain.DateWindow, excludeOrderID *int32) (*domain.OrderAvailabilityResult, error)
	// InPossessionQuantity counts only units physically out with customers
	// (issued/on rent), for reporting.
	InPossessionQuantity(ctx context.Context, productID int32, window domain.DateWindow) (int32, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, sku, name string, totalQuantity int32) (*domain.Product, error)
	GetProduct(ctx context.Context, id int32) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	SetState(ctx context.Context, id int32, state domain.ProductState) error
}

type OrderService interface {
	// PlaceOrder books the order atomically: availability is re-validated under
	// a per-product lock inside the insert transaction. Returns
	// domain.ErrStockUnavailable (retryable) if stock was taken in the meantime.
	PlaceOrder(ctx context.Context, orderNumber string, items []domain.OrderItemRequest, window domain.DateWindow) (*domain.Order, error)
	Transition(ctx context.Context, orderID int32, target domain.OrderStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int32) (*domain.Order, []domain.ReservationLine, error)
}

type ReturnService interface {
	// RecordReturn books returned quantities against the order's lines. If
	// anything is still outstanding a partial-return version is created and
	// returned; a full return closes the order and returns nil.
	RecordReturn(ctx context.Context, orderID int32, returned map[int32]int32) (*domain.PartialReturnVersion, error)
	CreateVersion(ctx context.Context, parentOrderID int32, unreturned []domain.OrderItemRequest) (*domain.PartialReturnVersion, error)
	ResolveVersion(ctx context.Context, versionID int32) error
	ReturnVersionItem(ctx context.Context, versionID, productID int32) error
}

type FreezeService interface {
	OpenFreeze(ctx context.Context, productID, quantity int32, reason domain.FreezeReason, note string) (*domain.FreezeEntry, error)
	CloseFreeze(ctx context.Context, entryID uuid.UUID) error
	// WriteOff is the total-loss path: closes the entry and decrements the
	// product's total quantity together.
	WriteOff(ctx context.Context, productID int32, entryID uuid.UUID) error
	FrozenQuantity(ctx context.Context, productID int32) (int32, error)
	ListOpenFreezes(ctx context.Context, productID int32) ([]domain.FreezeEntry, error)
}

type EmailService interface {
	SendOverdueVersionNotice(ctx context.Context, displayNumber string, daysOverdue int32, itemCount int) error
}
