package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (sku, name, total_quantity, state, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	p.CreatedOn = now
	p.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, p.SKU, p.Name, p.TotalQuantity, p.State, now, now).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, sku, name, total_quantity, state, created_on, updated_on FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.TotalQuantity, &p.State, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, sku, name, total_quantity, state, created_on, updated_on FROM products WHERE sku = $1`
	err := r.db.QueryRowContext(ctx, query, sku).Scan(&p.ID, &p.SKU, &p.Name, &p.TotalQuantity, &p.State, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) UpdateState(ctx context.Context, id int32, state domain.ProductState) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET state=$1, updated_on=$2 WHERE id=$3`, state, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// WriteOff is the total-loss path: the damage entry is closed and the product's
// total is reduced by the entry quantity in the same transaction, so the frozen
// ledger and the counter cannot drift apart.
func (r *productRepository) WriteOff(ctx context.Context, productID int32, entryID uuid.UUID) (err error) {
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
	err = tx.QueryRowContext(ctx, `SELECT total_quantity FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	var entryProductID, entryQty int32
	var resolvedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT product_id, quantity, resolved_at FROM freeze_entries WHERE id = $1 FOR UPDATE`,
		entryID).Scan(&entryProductID, &entryQty, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrFreezeNotFound
	}
	if err != nil {
		return err
	}
	if resolvedAt.Valid {
		return domain.ErrFreezeAlreadyResolved
	}
	if entryProductID != productID {
		return &domain.ValidationError{Field: "entry_id", Reason: fmt.Sprintf("freeze entry belongs to product %d", entryProductID)}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE freeze_entries SET resolved_at=$1 WHERE id=$2`, time.Now(), entryID); err != nil {
		return err
	}

	var remainingFrozen int32
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM freeze_entries WHERE product_id = $1 AND resolved_at IS NULL`,
		productID).Scan(&remainingFrozen)
	if err != nil {
		return err
	}

	newTotal := total - entryQty
	if newTotal < 0 || newTotal < remainingFrozen {
		return domain.ErrFrozenExceedsTotal
	}

	if newTotal == 0 {
		_, err = tx.ExecContext(ctx, `UPDATE products SET total_quantity=$1, state=$2, updated_on=$3 WHERE id=$4`,
			newTotal, domain.ProductStateWrittenOff, time.Now(), productID)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE products SET total_quantity=$1, updated_on=$2 WHERE id=$3`,
			newTotal, time.Now(), productID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}
