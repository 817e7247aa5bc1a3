package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type freezeRepository struct {
	db *sql.DB
}

func NewFreezeRepository(db *sql.DB) repository.FreezeRepository {
	return &freezeRepository{db: db}
}

// Open checks the frozen-never-exceeds-total invariant with the product row
// locked, so concurrent freezes against the same product serialize here.
func (r *freezeRepository) Open(ctx context.Context, e *domain.FreezeEntry) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var total int32
	err = tx.QueryRowContext(ctx, `SELECT total_quantity FROM products WHERE id = $1 FOR UPDATE`, e.ProductID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	var frozen int32
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM freeze_entries WHERE product_id = $1 AND resolved_at IS NULL`,
		e.ProductID).Scan(&frozen)
	if err != nil {
		return err
	}
	if frozen+e.Quantity > total {
		return domain.ErrFrozenExceedsTotal
	}

	e.OpenedAt = time.Now()
	e.ResolvedAt = nil
	_, err = tx.ExecContext(ctx,
		`INSERT INTO freeze_entries (id, product_id, quantity, reason, note, opened_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.ProductID, e.Quantity, e.Reason, e.Note, e.OpenedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *freezeRepository) Close(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE freeze_entries SET resolved_at=$1 WHERE id=$2 AND resolved_at IS NULL`, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrFreezeAlreadyResolved
	}
	return nil
}

func (r *freezeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FreezeEntry, error) {
	e := &domain.FreezeEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, quantity, reason, note, opened_at, resolved_at FROM freeze_entries WHERE id = $1`,
		id).Scan(&e.ID, &e.ProductID, &e.Quantity, &e.Reason, &e.Note, &e.OpenedAt, &e.ResolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFreezeNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *freezeRepository) ListOpen(ctx context.Context, productID int32) ([]domain.FreezeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, quantity, reason, note, opened_at, resolved_at
		 FROM freeze_entries WHERE product_id = $1 AND resolved_at IS NULL ORDER BY opened_at`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.FreezeEntry
	for rows.Next() {
		var e domain.FreezeEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.Reason, &e.Note, &e.OpenedAt, &e.ResolvedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *freezeRepository) OpenQuantity(ctx context.Context, productID int32) (int32, error) {
	var qty int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM freeze_entries WHERE product_id = $1 AND resolved_at IS NULL`,
		productID).Scan(&qty)
	if err != nil {
		return 0, err
	}
	return qty, nil
}
