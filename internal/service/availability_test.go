package service

import (
	"context"
	"testing"
	"time"

	"equiprent-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newAvailabilityFixture(now time.Time) (*availabilityService, *MockProductRepo, *MockOrderRepo, *MockFreezeRepo, *MockVersionRepo) {
	productRepo := new(MockProductRepo)
	orderRepo := new(MockOrderRepo)
	freezeRepo := new(MockFreezeRepo)
	versionRepo := new(MockVersionRepo)
	svc := &availabilityService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		freezeRepo:  freezeRepo,
		versionRepo: versionRepo,
		now:         func() time.Time { return now },
	}
	return svc, productRepo, orderRepo, freezeRepo, versionRepo
}

func TestAvailabilityService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	now := date(2026, 3, 1)
	window := domain.DateWindow{Start: date(2026, 3, 10), End: date(2026, 3, 15)}
	probe := domain.DateWindow{Start: date(2026, 3, 9), End: date(2026, 3, 15)}
	productID := int32(7)

	product := &domain.Product{ID: productID, SKU: "TBL-180", Name: "Banquet table", TotalQuantity: 10}

	t.Run("Enough stock", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(4), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(2), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 6, window, nil)
		assert.NoError(t, err)
		assert.True(t, res.IsAvailable)
		assert.Equal(t, int32(10), res.TotalQty)
		assert.Equal(t, int32(4), res.CommittedQty)
		assert.Equal(t, int32(6), res.AvailableQty)
		// Frozen units are reported but never subtracted
		assert.Equal(t, int32(2), res.FrozenQty)
	})

	t.Run("One short", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(4), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 7, window, nil)
		assert.NoError(t, err)
		assert.False(t, res.IsAvailable)
		assert.Equal(t, int32(6), res.AvailableQty)
	})

	t.Run("Overcommitted clamps to zero", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(12), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 1, window, nil)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), res.AvailableQty)
		assert.False(t, res.IsAvailable)
	})

	t.Run("Exclude order under edit", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		exclude := int32(42)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, &exclude, domain.HoldingStatuses).Return(int32(0), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, &exclude, domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 10, window, &exclude)
		assert.NoError(t, err)
		assert.True(t, res.IsAvailable)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Invalid input", func(t *testing.T) {
		svc, _, _, _, _ := newAvailabilityFixture(now)

		_, err := svc.CheckAvailability(ctx, productID, 0, window, nil)
		assert.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		_, err = svc.CheckAvailability(ctx, productID, 1, domain.DateWindow{Start: window.End, End: window.Start}, nil)
		assert.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestAvailabilityService_RiskAnnotations(t *testing.T) {
	ctx := context.Background()
	now := date(2026, 3, 12)
	window := domain.DateWindow{Start: date(2026, 3, 10), End: date(2026, 3, 15)}
	probe := domain.DateWindow{Start: date(2026, 3, 9), End: date(2026, 3, 15)}
	productID := int32(7)
	product := &domain.Product{ID: productID, TotalQuantity: 10}

	t.Run("Handoff and turnaround", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(3), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{
			// On rent and still overlapping the requested window: handoff
			{OrderID: 1, OrderNumber: "OC-1", Status: domain.OrderStatusOnRent,
				RentalStartDate: date(2026, 3, 5), RentalEndDate: date(2026, 3, 10), Quantity: 2},
			// Ends the day before the window starts: turnaround
			{OrderID: 2, OrderNumber: "OC-2", Status: domain.OrderStatusProcessing,
				RentalStartDate: date(2026, 3, 1), RentalEndDate: date(2026, 3, 9), Quantity: 1},
		}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 1, window, nil)
		assert.NoError(t, err)
		assert.Len(t, res.TightScheduleRisk, 2)
		assert.Equal(t, domain.TightScheduleHandoff, res.TightScheduleRisk[0].Reason)
		assert.Equal(t, "OC-1", res.TightScheduleRisk[0].OrderNumber)
		assert.Equal(t, domain.TightScheduleTurnaround, res.TightScheduleRisk[1].Reason)
		assert.Equal(t, "OC-2", res.TightScheduleRisk[1].OrderNumber)
	})

	t.Run("Partial return overdue days", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(0), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{
			{VersionID: 9, DisplayNumber: "OC-100(1)", ParentOrderID: 4, ProductID: productID,
				Quantity: 1, RentalEndDate: date(2026, 3, 8)},
			{VersionID: 11, DisplayNumber: "OC-200(1)", ParentOrderID: 5, ProductID: productID,
				Quantity: 2, RentalEndDate: date(2026, 3, 20)},
		}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 1, window, nil)
		assert.NoError(t, err)
		assert.Len(t, res.PartialReturnRisk, 2)
		assert.Equal(t, int32(4), res.PartialReturnRisk[0].DaysOverdue)
		// Not yet due: clamped to zero, still listed
		assert.Equal(t, int32(0), res.PartialReturnRisk[1].DaysOverdue)
	})

	t.Run("Processing from open freezes", func(t *testing.T) {
		svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)
		entryID := uuid.New()
		productRepo.On("GetByID", ctx, productID).Return(product, nil)
		orderRepo.On("CommittedQuantity", ctx, productID, window, (*int32)(nil), domain.HoldingStatuses).Return(int32(0), nil)
		freezeRepo.On("OpenQuantity", ctx, productID).Return(int32(3), nil)
		orderRepo.On("ListOverlapping", ctx, productID, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, productID).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, productID).Return([]domain.FreezeEntry{
			{ID: entryID, ProductID: productID, Quantity: 3, Reason: domain.FreezeReasonWash, OpenedAt: now},
		}, nil)

		res, err := svc.CheckAvailability(ctx, productID, 10, window, nil)
		assert.NoError(t, err)
		assert.Len(t, res.ProcessingRisk, 1)
		assert.Equal(t, entryID, res.ProcessingRisk[0].EntryID)
		assert.Equal(t, domain.FreezeReasonWash, res.ProcessingRisk[0].Reason)
		// Freeze does not block the verdict
		assert.True(t, res.IsAvailable)
	})
}

func TestAvailabilityService_CheckOrderAvailability(t *testing.T) {
	ctx := context.Background()
	now := date(2026, 3, 1)
	window := domain.DateWindow{Start: date(2026, 3, 10), End: date(2026, 3, 15)}
	probe := domain.DateWindow{Start: date(2026, 3, 9), End: date(2026, 3, 15)}

	svc, productRepo, orderRepo, freezeRepo, versionRepo := newAvailabilityFixture(now)

	productRepo.On("GetByID", ctx, int32(1)).Return(&domain.Product{ID: 1, TotalQuantity: 5}, nil)
	productRepo.On("GetByID", ctx, int32(2)).Return(&domain.Product{ID: 2, TotalQuantity: 5}, nil)
	orderRepo.On("CommittedQuantity", ctx, int32(1), window, (*int32)(nil), domain.HoldingStatuses).Return(int32(0), nil)
	orderRepo.On("CommittedQuantity", ctx, int32(2), window, (*int32)(nil), domain.HoldingStatuses).Return(int32(5), nil)
	for _, id := range []int32{1, 2} {
		freezeRepo.On("OpenQuantity", ctx, id).Return(int32(0), nil)
		orderRepo.On("ListOverlapping", ctx, id, probe, (*int32)(nil), domain.HoldingStatuses).Return([]domain.OverlappingReservation{}, nil)
		versionRepo.On("ListOutstandingByProduct", ctx, id).Return([]domain.OutstandingVersionItem{}, nil)
		freezeRepo.On("ListOpen", ctx, id).Return([]domain.FreezeEntry{}, nil)
	}

	res, err := svc.CheckOrderAvailability(ctx, []domain.OrderItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, window, nil)
	assert.NoError(t, err)
	assert.False(t, res.AllAvailable)
	assert.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].IsAvailable)
	assert.False(t, res.Items[1].IsAvailable)

	_, err = svc.CheckOrderAvailability(ctx, nil, window, nil)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestAvailabilityService_InPossessionQuantity(t *testing.T) {
	ctx := context.Background()
	window := domain.DateWindow{Start: date(2026, 3, 10), End: date(2026, 3, 15)}

	svc, _, orderRepo, _, _ := newAvailabilityFixture(date(2026, 3, 1))
	orderRepo.On("CommittedQuantity", ctx, int32(7), window, (*int32)(nil), domain.PossessionStatuses).Return(int32(3), nil)

	qty, err := svc.InPossessionQuantity(ctx, 7, window)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), qty)
	orderRepo.AssertExpectations(t)
}
