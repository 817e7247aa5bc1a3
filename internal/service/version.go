package service

import (
	"context"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type returnService struct {
	orderRepo   repository.OrderRepository
	versionRepo repository.VersionRepository
	now         func() time.Time
}

func NewReturnService(orderRepo repository.OrderRepository, versionRepo repository.VersionRepository) ReturnService {
	return &returnService{
		orderRepo:   orderRepo,
		versionRepo: versionRepo,
		now:         time.Now,
	}
}

func (s *returnService) RecordReturn(ctx context.Context, orderID int32, returned map[int32]int32) (*domain.PartialReturnVersion, error) {
	lines, err := s.orderRepo.GetLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrOrderNotFound
	}

	lineByProduct := make(map[int32]domain.ReservationLine, len(lines))
	for _, l := range lines {
		lineByProduct[l.ProductID] = l
	}
	for productID, qty := range returned {
		line, ok := lineByProduct[productID]
		if !ok {
			return nil, &domain.ValidationError{Field: "returned", Reason: fmt.Sprintf("product %d is not on order %d", productID, orderID)}
		}
		if qty < 0 {
			return nil, &domain.ValidationError{Field: "returned", Reason: fmt.Sprintf("negative quantity for product %d", productID)}
		}
		if qty > line.Quantity {
			return nil, fmt.Errorf("product %d: %w", productID, domain.ErrQuantityOverReturn)
		}
	}

	var unreturned []domain.OrderItemRequest
	for _, l := range lines {
		outstanding := l.Quantity - returned[l.ProductID]
		if outstanding > 0 {
			unreturned = append(unreturned, domain.OrderItemRequest{ProductID: l.ProductID, Quantity: outstanding})
		}
	}

	return s.CreateVersion(ctx, orderID, unreturned)
}

// CreateVersion splits the order: the unreturned items are carried forward into
// a successor version backed by its own order-like record, and the parent is
// closed. An empty item list means everything actually came back; the parent is
// closed as a plain return and no version is created. A parent already in
// PARTIAL_RETURN can be split again once its active version resolves, so
// OC-100 can produce OC-100(1), OC-100(2), OC-100(3) over successive returns.
func (s *returnService) CreateVersion(ctx context.Context, parentOrderID int32, unreturned []domain.OrderItemRequest) (*domain.PartialReturnVersion, error) {
	parent, err := s.orderRepo.GetByID(ctx, parentOrderID)
	if err != nil {
		return nil, err
	}
	if parent.ParentOrderID != nil {
		return s.closeOutVersionOrder(ctx, parent, unreturned)
	}

	if len(unreturned) == 0 {
		if !parent.Status.CanTransition(domain.OrderStatusReturned) {
			return nil, returnNotAllowed(parent.Status, domain.OrderStatusReturned)
		}
		if err := s.orderRepo.UpdateStatus(ctx, parentOrderID, domain.OrderStatusReturned, parent.HasPartialReturn); err != nil {
			return nil, err
		}
		logger.Info("Order fully returned", "order_id", parentOrderID, "order_number", parent.OrderNumber)
		return nil, nil
	}

	if parent.Status != domain.OrderStatusPartialReturn && !parent.Status.CanTransition(domain.OrderStatusPartialReturn) {
		return nil, returnNotAllowed(parent.Status, domain.OrderStatusPartialReturn)
	}

	lines, err := s.orderRepo.GetLines(ctx, parentOrderID)
	if err != nil {
		return nil, err
	}
	lineByProduct := make(map[int32]domain.ReservationLine, len(lines))
	for _, l := range lines {
		lineByProduct[l.ProductID] = l
	}
	items := make([]domain.VersionItem, len(unreturned))
	for i, u := range unreturned {
		line, ok := lineByProduct[u.ProductID]
		if !ok {
			return nil, &domain.ValidationError{Field: "unreturned", Reason: fmt.Sprintf("product %d is not on order %d", u.ProductID, parentOrderID)}
		}
		if u.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "unreturned", Reason: fmt.Sprintf("non-positive quantity for product %d", u.ProductID)}
		}
		if u.Quantity > line.Quantity {
			return nil, fmt.Errorf("product %d: %w", u.ProductID, domain.ErrQuantityOverReturn)
		}
		// Items keep the daily rate they were originally booked at.
		items[i] = domain.VersionItem{
			ProductID: u.ProductID,
			Quantity:  u.Quantity,
			DailyRate: line.DailyRate,
			Status:    domain.VersionItemStatusPending,
		}
	}

	active, err := s.versionRepo.ActiveByParent(ctx, parentOrderID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrActiveVersionExists
	}

	existing, err := s.versionRepo.ListByParent(ctx, parentOrderID)
	if err != nil {
		return nil, err
	}
	var next int32 = 1
	for _, v := range existing {
		if n := domain.VersionSuffix(v.DisplayNumber); n >= next {
			next = n + 1
		}
	}
	display := fmt.Sprintf("%s(%d)", domain.BaseOrderNumber(parent.OrderNumber), next)

	today := s.now().Truncate(24 * time.Hour)
	version := &domain.PartialReturnVersion{
		ParentOrderID: parentOrderID,
		VersionNumber: next,
		DisplayNumber: display,
		RentalEndDate: parent.RentalEndDate,
		Status:        domain.VersionStatusActive,
		Items:         items,
	}
	child := &domain.Order{
		OrderNumber:     display,
		Status:          domain.OrderStatusOnRent,
		RentalStartDate: today,
		RentalEndDate:   parent.RentalEndDate,
		ParentOrderID:   &parentOrderID,
	}

	if err := s.versionRepo.Create(ctx, version, child); err != nil {
		return nil, err
	}

	logger.Info("Partial-return version created", "parent_order_id", parentOrderID,
		"version_id", version.ID, "display_number", display, "items", len(items))
	return version, nil
}

// closeOutVersionOrder handles a return recorded against a version's own
// backing order. Versions are never split a second level deep, but a full
// return means nothing would be versioned anyway, so that case resolves the
// version instead of being rejected.
func (s *returnService) closeOutVersionOrder(ctx context.Context, order *domain.Order, unreturned []domain.OrderItemRequest) (*domain.PartialReturnVersion, error) {
	if len(unreturned) > 0 {
		return nil, domain.ErrVersionOfVersion
	}
	if order.Status.IsReleased() {
		return nil, domain.ErrParentAlreadyClosed
	}
	v, err := s.versionRepo.ActiveByParent(ctx, *order.ParentOrderID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.OrderID != order.ID {
		return nil, domain.ErrVersionNotFound
	}
	return nil, s.ResolveVersion(ctx, v.ID)
}

func returnNotAllowed(from, to domain.OrderStatus) error {
	if from.IsReleased() {
		return domain.ErrParentAlreadyClosed
	}
	return fmt.Errorf("%s -> %s: %w", from, to, domain.ErrInvalidTransition)
}

func (s *returnService) ResolveVersion(ctx context.Context, versionID int32) error {
	if err := s.versionRepo.Resolve(ctx, versionID); err != nil {
		return err
	}
	logger.Info("Partial-return version resolved", "version_id", versionID)
	return nil
}

// ReturnVersionItem marks one outstanding item returned; the version resolves
// automatically once nothing remains pending.
func (s *returnService) ReturnVersionItem(ctx context.Context, versionID, productID int32) error {
	if err := s.versionRepo.MarkItemReturned(ctx, versionID, productID); err != nil {
		return err
	}
	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return err
	}
	for _, it := range v.Items {
		if it.Status == domain.VersionItemStatusPending {
			return nil
		}
	}
	return s.ResolveVersion(ctx, versionID)
}
