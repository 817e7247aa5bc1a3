package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type availabilityService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	freezeRepo  repository.FreezeRepository
	versionRepo repository.VersionRepository
	now         func() time.Time
}

func NewAvailabilityService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	freezeRepo repository.FreezeRepository,
	versionRepo repository.VersionRepository,
) AvailabilityService {
	return &availabilityService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		freezeRepo:  freezeRepo,
		versionRepo: versionRepo,
		now:         time.Now,
	}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, productID, quantity int32, window domain.DateWindow, excludeOrderID *int32) (*domain.AvailabilityResult, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	committed, err := s.orderRepo.CommittedQuantity(ctx, productID, window, excludeOrderID, domain.HoldingStatuses)
	if err != nil {
		return nil, err
	}
	frozen, err := s.freezeRepo.OpenQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}

	available := product.TotalQuantity - committed
	if available < 0 {
		available = 0
	}

	result := &domain.AvailabilityResult{
		ProductID:    productID,
		RequestedQty: quantity,
		TotalQty:     product.TotalQuantity,
		CommittedQty: committed,
		FrozenQty:    frozen,
		AvailableQty: available,
		IsAvailable:  available >= quantity,
	}

	if err := s.annotateRisks(ctx, result, window, excludeOrderID); err != nil {
		return nil, err
	}
	return result, nil
}

// annotateRisks fills the informative, non-blocking risk lists. Frozen units
// are never subtracted from the availability figure: damage freezes are the
// only truly unissuable kind, and routine cleaning usually finishes in time,
// so the engine surfaces urgency instead of refusing the booking.
func (s *availabilityService) annotateRisks(ctx context.Context, result *domain.AvailabilityResult, window domain.DateWindow, excludeOrderID *int32) error {
	// Probe one day before the window so orders ending just before the start
	// (no turnaround slack) are seen too.
	probe := domain.DateWindow{Start: window.Start.AddDate(0, 0, -1), End: window.End}
	overlaps, err := s.orderRepo.ListOverlapping(ctx, result.ProductID, probe, excludeOrderID, domain.HoldingStatuses)
	if err != nil {
		return err
	}
	for _, ov := range overlaps {
		orderWindow := domain.DateWindow{Start: ov.RentalStartDate, End: ov.RentalEndDate}
		inPossession := ov.Status == domain.OrderStatusIssued || ov.Status == domain.OrderStatusOnRent
		switch {
		case inPossession && orderWindow.Overlaps(window):
			result.TightScheduleRisk = append(result.TightScheduleRisk, domain.TightScheduleRisk{
				OrderID:       ov.OrderID,
				OrderNumber:   ov.OrderNumber,
				Status:        ov.Status,
				RentalEndDate: ov.RentalEndDate,
				Reason:        domain.TightScheduleHandoff,
			})
		default:
			gap := daysBetween(ov.RentalEndDate, window.Start)
			if gap >= 0 && gap <= 1 {
				result.TightScheduleRisk = append(result.TightScheduleRisk, domain.TightScheduleRisk{
					OrderID:       ov.OrderID,
					OrderNumber:   ov.OrderNumber,
					Status:        ov.Status,
					RentalEndDate: ov.RentalEndDate,
					Reason:        domain.TightScheduleTurnaround,
				})
			}
		}
	}

	outstanding, err := s.versionRepo.ListOutstandingByProduct(ctx, result.ProductID)
	if err != nil {
		return err
	}
	now := s.now()
	for _, o := range outstanding {
		overdue := daysBetween(o.RentalEndDate, now)
		if overdue < 0 {
			overdue = 0
		}
		result.PartialReturnRisk = append(result.PartialReturnRisk, domain.PartialReturnRisk{
			VersionID:     o.VersionID,
			DisplayNumber: o.DisplayNumber,
			ParentOrderID: o.ParentOrderID,
			ProductID:     o.ProductID,
			Quantity:      o.Quantity,
			RentalEndDate: o.RentalEndDate,
			DaysOverdue:   overdue,
		})
	}

	open, err := s.freezeRepo.ListOpen(ctx, result.ProductID)
	if err != nil {
		return err
	}
	for _, e := range open {
		result.ProcessingRisk = append(result.ProcessingRisk, domain.ProcessingRisk{
			EntryID:  e.ID,
			Reason:   e.Reason,
			Quantity: e.Quantity,
			OpenedAt: e.OpenedAt,
		})
	}
	return nil
}

func (s *availabilityService) CheckOrderAvailability(ctx context.Context, items []domain.OrderItemRequest, window domain.DateWindow, excludeOrderID *int32) (*domain.OrderAvailabilityResult, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one item is required"}
	}

	result := &domain.OrderAvailabilityResult{AllAvailable: true}
	for _, item := range items {
		r, err := s.CheckAvailability(ctx, item.ProductID, item.Quantity, window, excludeOrderID)
		if err != nil {
			return nil, err
		}
		if !r.IsAvailable {
			result.AllAvailable = false
		}
		result.Items = append(result.Items, *r)
		result.PartialReturnRiskItems = append(result.PartialReturnRiskItems, r.PartialReturnRisk...)
	}
	return result, nil
}

func (s *availabilityService) InPossessionQuantity(ctx context.Context, productID int32, window domain.DateWindow) (int32, error) {
	if err := window.Validate(); err != nil {
		return 0, err
	}
	return s.orderRepo.CommittedQuantity(ctx, productID, window, nil, domain.PossessionStatuses)
}

// daysBetween returns whole days from a to b, negative when b precedes a.
// Dates carry no meaningful time-of-day component.
func daysBetween(a, b time.Time) int32 {
	return int32(b.Sub(a).Hours() / 24)
}
