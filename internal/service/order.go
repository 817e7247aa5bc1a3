package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	locks         *productLocks
	commitTimeout time.Duration
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, commitTimeout time.Duration) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		locks:         newProductLocks(),
		commitTimeout: commitTimeout,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, orderNumber string, items []domain.OrderItemRequest, window domain.DateWindow) (*domain.Order, error) {
	if orderNumber == "" {
		return nil, &domain.ValidationError{Field: "order_number", Reason: "is required"}
	}
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive for product %d", item.ProductID)}
		}
	}

	productIDs := make([]int32, 0, len(items))
	seen := map[int32]bool{}
	for _, item := range items {
		if seen[item.ProductID] {
			return nil, &domain.ValidationError{Field: "items", Reason: fmt.Sprintf("duplicate line for product %d", item.ProductID)}
		}
		seen[item.ProductID] = true
		productIDs = append(productIDs, item.ProductID)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	lockCtx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()
	if err := s.locks.AcquireAll(lockCtx, productIDs); err != nil {
		return nil, err
	}
	defer s.locks.ReleaseAll(productIDs)

	order := &domain.Order{
		OrderNumber:     orderNumber,
		Status:          domain.OrderStatusProcessing,
		RentalStartDate: window.Start,
		RentalEndDate:   window.End,
	}
	lines := make([]domain.ReservationLine, len(items))
	for i, item := range items {
		lines[i] = domain.ReservationLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			DailyRate: item.DailyRate,
		}
	}

	if err := s.orderRepo.CreateCommitted(lockCtx, order, lines); err != nil {
		return nil, err
	}

	logger.Info("Order committed", "order_id", order.ID, "order_number", order.OrderNumber,
		"lines", len(lines), "start", order.RentalStartDate.Format("2006-01-02"), "end", order.RentalEndDate.Format("2006-01-02"))
	return order, nil
}

func (s *orderService) Transition(ctx context.Context, orderID int32, target domain.OrderStatus) (*domain.Order, error) {
	if target == domain.OrderStatusPartialReturn {
		// Entering PARTIAL_RETURN must create the successor version atomically;
		// only the return flow may do it.
		return nil, &domain.ValidationError{Field: "status", Reason: "partial_return is entered via the return flow"}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(target) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, target, domain.ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, target, order.HasPartialReturn); err != nil {
		return nil, err
	}
	logger.Info("Order status changed", "order_id", orderID, "from", order.Status, "to", target)
	order.Status = target
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int32) (*domain.Order, []domain.ReservationLine, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.orderRepo.GetLines(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}
