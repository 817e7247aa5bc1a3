package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) UpdateState(ctx context.Context, id int32, state domain.ProductState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}
func (m *MockProductRepo) WriteOff(ctx context.Context, productID int32, entryID uuid.UUID) error {
	args := m.Called(ctx, productID, entryID)
	return args.Error(0)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) CreateCommitted(ctx context.Context, order *domain.Order, lines []domain.ReservationLine) error {
	args := m.Called(ctx, order, lines)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) GetLines(ctx context.Context, orderID int32) ([]domain.ReservationLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReservationLine), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus, hasPartialReturn bool) error {
	args := m.Called(ctx, id, status, hasPartialReturn)
	return args.Error(0)
}
func (m *MockOrderRepo) CommittedQuantity(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) (int32, error) {
	args := m.Called(ctx, productID, window, excludeOrderID, statuses)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOrderRepo) ListOverlapping(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) ([]domain.OverlappingReservation, error) {
	args := m.Called(ctx, productID, window, excludeOrderID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverlappingReservation), args.Error(1)
}

// MockFreezeRepo
type MockFreezeRepo struct {
	mock.Mock
}

func (m *MockFreezeRepo) Open(ctx context.Context, e *domain.FreezeEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockFreezeRepo) Close(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockFreezeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreezeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FreezeEntry), args.Error(1)
}
func (m *MockFreezeRepo) ListOpen(ctx context.Context, productID int32) ([]domain.FreezeEntry, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FreezeEntry), args.Error(1)
}
func (m *MockFreezeRepo) OpenQuantity(ctx context.Context, productID int32) (int32, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int32), args.Error(1)
}

// MockVersionRepo
type MockVersionRepo struct {
	mock.Mock
}

func (m *MockVersionRepo) Create(ctx context.Context, v *domain.PartialReturnVersion, child *domain.Order) error {
	args := m.Called(ctx, v, child)
	return args.Error(0)
}
func (m *MockVersionRepo) GetByID(ctx context.Context, id int32) (*domain.PartialReturnVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartialReturnVersion), args.Error(1)
}
func (m *MockVersionRepo) ListByParent(ctx context.Context, parentOrderID int32) ([]domain.PartialReturnVersion, error) {
	args := m.Called(ctx, parentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartialReturnVersion), args.Error(1)
}
func (m *MockVersionRepo) ActiveByParent(ctx context.Context, parentOrderID int32) (*domain.PartialReturnVersion, error) {
	args := m.Called(ctx, parentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartialReturnVersion), args.Error(1)
}
func (m *MockVersionRepo) ListOutstandingByProduct(ctx context.Context, productID int32) ([]domain.OutstandingVersionItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingVersionItem), args.Error(1)
}
func (m *MockVersionRepo) ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.PartialReturnVersion, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartialReturnVersion), args.Error(1)
}
func (m *MockVersionRepo) Resolve(ctx context.Context, versionID int32) error {
	args := m.Called(ctx, versionID)
	return args.Error(0)
}
func (m *MockVersionRepo) MarkItemReturned(ctx context.Context, versionID, productID int32) error {
	args := m.Called(ctx, versionID, productID)
	return args.Error(0)
}
