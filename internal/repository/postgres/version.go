package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type versionRepository struct {
	db *sql.DB
}

func NewVersionRepository(db *sql.DB) repository.VersionRepository {
	return &versionRepository{db: db}
}

// Create performs the whole partial-return split as one transaction: the child
// order and its reservation lines (the stock the version keeps holding), the
// version row and its items, and the parent close. Either all of it lands or
// none of it does.
func (r *versionRepository) Create(ctx context.Context, v *domain.PartialReturnVersion, child *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var parentStatus domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, v.ParentOrderID).Scan(&parentStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	// A parent in PARTIAL_RETURN may be split again once its active version is
	// resolved; the service enforces the single-active rule before calling in.
	if parentStatus != domain.OrderStatusPartialReturn && !parentStatus.CanTransition(domain.OrderStatusPartialReturn) {
		if parentStatus.IsReleased() {
			return domain.ErrParentAlreadyClosed
		}
		return fmt.Errorf("%s -> %s: %w", parentStatus, domain.OrderStatusPartialReturn, domain.ErrInvalidTransition)
	}

	now := time.Now()
	child.CreatedOn = now
	child.UpdatedOn = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (order_number, status, rental_start_date, rental_end_date, parent_order_id, has_partial_return, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		child.OrderNumber, child.Status, child.RentalStartDate, child.RentalEndDate,
		child.ParentOrderID, child.HasPartialReturn, now, now).Scan(&child.ID)
	if err != nil {
		return err
	}

	for _, it := range v.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reservation_lines (order_id, product_id, quantity, daily_rate) VALUES ($1, $2, $3, $4)`,
			child.ID, it.ProductID, it.Quantity, it.DailyRate)
		if err != nil {
			return err
		}
	}

	v.OrderID = child.ID
	v.CreatedOn = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO partial_return_versions (parent_order_id, order_id, version_number, display_number, rental_end_date, status, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		v.ParentOrderID, v.OrderID, v.VersionNumber, v.DisplayNumber, v.RentalEndDate, v.Status, now).Scan(&v.ID)
	if err != nil {
		return err
	}

	for i := range v.Items {
		v.Items[i].VersionID = v.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO version_items (version_id, product_id, quantity, daily_rate, status) VALUES ($1, $2, $3, $4, $5)`,
			v.ID, v.Items[i].ProductID, v.Items[i].Quantity, v.Items[i].DailyRate, v.Items[i].Status)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, has_partial_return=TRUE, updated_on=$2 WHERE id=$3`,
		domain.OrderStatusPartialReturn, now, v.ParentOrderID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *versionRepository) GetByID(ctx context.Context, id int32) (*domain.PartialReturnVersion, error) {
	v := &domain.PartialReturnVersion{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, parent_order_id, order_id, version_number, display_number, rental_end_date, status, created_on
		 FROM partial_return_versions WHERE id = $1`,
		id).Scan(&v.ID, &v.ParentOrderID, &v.OrderID, &v.VersionNumber, &v.DisplayNumber, &v.RentalEndDate, &v.Status, &v.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	items, err := r.getItems(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.Items = items
	return v, nil
}

func (r *versionRepository) getItems(ctx context.Context, versionID int32) ([]domain.VersionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT version_id, product_id, quantity, daily_rate, status FROM version_items WHERE version_id = $1 ORDER BY product_id`,
		versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.VersionItem
	for rows.Next() {
		var it domain.VersionItem
		if err := rows.Scan(&it.VersionID, &it.ProductID, &it.Quantity, &it.DailyRate, &it.Status); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *versionRepository) ListByParent(ctx context.Context, parentOrderID int32) ([]domain.PartialReturnVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, parent_order_id, order_id, version_number, display_number, rental_end_date, status, created_on
		 FROM partial_return_versions WHERE parent_order_id = $1 ORDER BY version_number`,
		parentOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []domain.PartialReturnVersion
	for rows.Next() {
		var v domain.PartialReturnVersion
		if err := rows.Scan(&v.ID, &v.ParentOrderID, &v.OrderID, &v.VersionNumber, &v.DisplayNumber, &v.RentalEndDate, &v.Status, &v.CreatedOn); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *versionRepository) ActiveByParent(ctx context.Context, parentOrderID int32) (*domain.PartialReturnVersion, error) {
	v := &domain.PartialReturnVersion{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, parent_order_id, order_id, version_number, display_number, rental_end_date, status, created_on
		 FROM partial_return_versions WHERE parent_order_id = $1 AND status = $2`,
		parentOrderID, domain.VersionStatusActive).Scan(&v.ID, &v.ParentOrderID, &v.OrderID, &v.VersionNumber,
		&v.DisplayNumber, &v.RentalEndDate, &v.Status, &v.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *versionRepository) ListOutstandingByProduct(ctx context.Context, productID int32) ([]domain.OutstandingVersionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT v.id, v.display_number, v.parent_order_id, vi.product_id, vi.quantity, v.rental_end_date
		 FROM version_items vi
		 JOIN partial_return_versions v ON v.id = vi.version_id
		 WHERE vi.product_id = $1 AND vi.status = $2 AND v.status = $3
		 ORDER BY v.rental_end_date`,
		productID, domain.VersionItemStatusPending, domain.VersionStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OutstandingVersionItem
	for rows.Next() {
		var o domain.OutstandingVersionItem
		if err := rows.Scan(&o.VersionID, &o.DisplayNumber, &o.ParentOrderID, &o.ProductID, &o.Quantity, &o.RentalEndDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *versionRepository) ListOverdueActive(ctx context.Context, asOf time.Time) ([]domain.PartialReturnVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, parent_order_id, order_id, version_number, display_number, rental_end_date, status, created_on
		 FROM partial_return_versions WHERE status = $1 AND rental_end_date < $2 ORDER BY rental_end_date`,
		domain.VersionStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []domain.PartialReturnVersion
	for rows.Next() {
		var v domain.PartialReturnVersion
		if err := rows.Scan(&v.ID, &v.ParentOrderID, &v.OrderID, &v.VersionNumber, &v.DisplayNumber, &v.RentalEndDate, &v.Status, &v.CreatedOn); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Resolve closes out the version: remaining pending items are marked returned,
// the version flips to RESOLVED and its backing order stops holding stock.
func (r *versionRepository) Resolve(ctx context.Context, versionID int32) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var orderID int32
	var status domain.VersionStatus
	err = tx.QueryRowContext(ctx,
		`SELECT order_id, status FROM partial_return_versions WHERE id = $1 FOR UPDATE`, versionID).Scan(&orderID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrVersionNotFound
	}
	if err != nil {
		return err
	}
	if status == domain.VersionStatusResolved {
		return domain.ErrVersionAlreadyResolved
	}

	now := time.Now()
	if _, err = tx.ExecContext(ctx,
		`UPDATE version_items SET status=$1 WHERE version_id=$2 AND status=$3`,
		domain.VersionItemStatusReturned, versionID, domain.VersionItemStatusPending); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE partial_return_versions SET status=$1 WHERE id=$2`,
		domain.VersionStatusResolved, versionID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_on=$2 WHERE id=$3`,
		domain.OrderStatusReturned, now, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *versionRepository) MarkItemReturned(ctx context.Context, versionID, productID int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE version_items SET status=$1 WHERE version_id=$2 AND product_id=$3 AND status=$4`,
		domain.VersionItemStatusReturned, versionID, productID, domain.VersionItemStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}
