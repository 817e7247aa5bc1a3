package service

import (
	"context"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, sku, name string, totalQuantity int32) (*domain.Product, error) {
	if sku == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if totalQuantity < 0 {
		return nil, &domain.ValidationError{Field: "total_quantity", Reason: "must not be negative"}
	}

	p := &domain.Product{
		SKU:           sku,
		Name:          name,
		TotalQuantity: totalQuantity,
		State:         domain.ProductStateAvailable,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("Product created", "product_id", p.ID, "sku", sku, "total_quantity", totalQuantity)
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.productRepo.GetBySKU(ctx, sku)
}

func (s *productService) SetState(ctx context.Context, id int32, state domain.ProductState) error {
	switch state {
	case domain.ProductStateAvailable, domain.ProductStateDamaged, domain.ProductStateOnWash,
		domain.ProductStateOnLaundry, domain.ProductStateOnRepair:
	case domain.ProductStateWrittenOff:
		// Only the write-off path may retire a product; the state change rides
		// on the total decrement there.
		return &domain.ValidationError{Field: "state", Reason: "written_off is entered via the write-off flow"}
	default:
		return &domain.ValidationError{Field: "state", Reason: "unknown product state: " + string(state)}
	}

	if err := s.productRepo.UpdateState(ctx, id, state); err != nil {
		return err
	}
	logger.Info("Product state changed", "product_id", id, "state", state)
	return nil
}
