package service

import (
	"context"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type freezeService struct {
	freezeRepo  repository.FreezeRepository
	productRepo repository.ProductRepository
}

func NewFreezeService(freezeRepo repository.FreezeRepository, productRepo repository.ProductRepository) FreezeService {
	return &freezeService{
		freezeRepo:  freezeRepo,
		productRepo: productRepo,
	}
}

func (s *freezeService) OpenFreeze(ctx context.Context, productID, quantity int32, reason domain.FreezeReason, note string) (*domain.FreezeEntry, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if _, err := domain.ParseFreezeReason(string(reason)); err != nil {
		return nil, err
	}

	entry := &domain.FreezeEntry{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		Reason:    reason,
		Note:      note,
	}
	if err := s.freezeRepo.Open(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info("Freeze opened", "entry_id", entry.ID, "product_id", productID,
		"quantity", quantity, "reason", reason)
	return entry, nil
}

func (s *freezeService) CloseFreeze(ctx context.Context, entryID uuid.UUID) error {
	if err := s.freezeRepo.Close(ctx, entryID); err != nil {
		return err
	}
	logger.Info("Freeze closed", "entry_id", entryID)
	return nil
}

func (s *freezeService) WriteOff(ctx context.Context, productID int32, entryID uuid.UUID) error {
	entry, err := s.freezeRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Reason != domain.FreezeReasonDamage {
		return &domain.ValidationError{Field: "entry_id", Reason: "only damage freezes can be written off"}
	}
	if err := s.productRepo.WriteOff(ctx, productID, entryID); err != nil {
		return err
	}
	logger.Info("Units written off", "product_id", productID, "entry_id", entryID, "quantity", entry.Quantity)
	return nil
}

func (s *freezeService) FrozenQuantity(ctx context.Context, productID int32) (int32, error) {
	return s.freezeRepo.OpenQuantity(ctx, productID)
}

func (s *freezeService) ListOpenFreezes(ctx context.Context, productID int32) ([]domain.FreezeEntry, error) {
	return s.freezeRepo.ListOpen(ctx, productID)
}
