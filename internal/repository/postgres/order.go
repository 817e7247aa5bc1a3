package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/lib/pq"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func statusStrings(statuses []domain.OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// CreateCommitted is the single atomic check-then-commit unit for booking: the
// product rows are locked, committed quantity is re-derived for every line, and
// only then are the order and its reservation lines inserted. Two concurrent
// bookings for the same product serialize on the row lock, so a verdict granted
// here can never be invalidated by a later insert.
func (r *orderRepository) CreateCommitted(ctx context.Context, order *domain.Order, lines []domain.ReservationLine) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	productIDs := make([]int32, 0, len(lines))
	seen := map[int32]bool{}
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			productIDs = append(productIDs, l.ProductID)
		}
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	totals := make(map[int32]int32, len(productIDs))
	rows, err := tx.QueryContext(ctx,
		`SELECT id, total_quantity FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		pq.Array(productIDs))
	if err != nil {
		return err
	}
	for rows.Next() {
		var id, total int32
		if err = rows.Scan(&id, &total); err != nil {
			rows.Close()
			return err
		}
		totals[id] = total
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}
	for _, id := range productIDs {
		if _, ok := totals[id]; !ok {
			return fmt.Errorf("product %d: %w", id, domain.ErrProductNotFound)
		}
	}

	window := domain.DateWindow{Start: order.RentalStartDate, End: order.RentalEndDate}
	for _, l := range lines {
		var committed int32
		err = tx.QueryRowContext(ctx, committedQuantityQuery(false),
			l.ProductID, pq.Array(statusStrings(domain.HoldingStatuses)), window.End, window.Start).Scan(&committed)
		if err != nil {
			return err
		}
		if totals[l.ProductID]-committed < l.Quantity {
			return fmt.Errorf("product %d: %w", l.ProductID, domain.ErrStockUnavailable)
		}
	}

	now := time.Now()
	order.CreatedOn = now
	order.UpdatedOn = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (order_number, status, rental_start_date, rental_end_date, parent_order_id, has_partial_return, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		order.OrderNumber, order.Status, order.RentalStartDate, order.RentalEndDate,
		order.ParentOrderID, order.HasPartialReturn, now, now).Scan(&order.ID)
	if err != nil {
		return err
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reservation_lines (order_id, product_id, quantity, daily_rate) VALUES ($1, $2, $3, $4)`,
			order.ID, lines[i].ProductID, lines[i].Quantity, lines[i].DailyRate)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	o := &domain.Order{}
	query := `SELECT id, order_number, status, rental_start_date, rental_end_date, parent_order_id, has_partial_return, created_on, updated_on
	          FROM orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.OrderNumber, &o.Status, &o.RentalStartDate,
		&o.RentalEndDate, &o.ParentOrderID, &o.HasPartialReturn, &o.CreatedOn, &o.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) GetLines(ctx context.Context, orderID int32) ([]domain.ReservationLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, quantity, daily_rate FROM reservation_lines WHERE order_id = $1 ORDER BY product_id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.ReservationLine
	for rows.Next() {
		var l domain.ReservationLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.Quantity, &l.DailyRate); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int32, status domain.OrderStatus, hasPartialReturn bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, has_partial_return=$2, updated_on=$3 WHERE id=$4`,
		status, hasPartialReturn, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// committedQuantityQuery builds the window-index sum. Overlap bounds are
// inclusive: an order ending exactly on the query start still needs the units
// that day.
func committedQuantityQuery(exclude bool) string {
	q := `SELECT COALESCE(SUM(rl.quantity), 0)
	      FROM reservation_lines rl
	      JOIN orders o ON o.id = rl.order_id
	      WHERE rl.product_id = $1
	        AND o.status = ANY($2)
	        AND o.rental_start_date <= $3
	        AND o.rental_end_date >= $4`
	if exclude {
		q += ` AND o.id <> $5`
	}
	return q
}

func (r *orderRepository) CommittedQuantity(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) (int32, error) {
	args := []interface{}{productID, pq.Array(statusStrings(statuses)), window.End, window.Start}
	if excludeOrderID != nil {
		args = append(args, *excludeOrderID)
	}
	var qty int32
	err := r.db.QueryRowContext(ctx, committedQuantityQuery(excludeOrderID != nil), args...).Scan(&qty)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

func (r *orderRepository) ListOverlapping(ctx context.Context, productID int32, window domain.DateWindow, excludeOrderID *int32, statuses []domain.OrderStatus) ([]domain.OverlappingReservation, error) {
	query := `SELECT o.id, o.order_number, o.status, o.rental_start_date, o.rental_end_date, rl.quantity
	          FROM reservation_lines rl
	          JOIN orders o ON o.id = rl.order_id
	          WHERE rl.product_id = $1
	            AND o.status = ANY($2)
	            AND o.rental_start_date <= $3
	            AND o.rental_end_date >= $4`
	args := []interface{}{productID, pq.Array(statusStrings(statuses)), window.End, window.Start}
	if excludeOrderID != nil {
		query += ` AND o.id <> $5`
		args = append(args, *excludeOrderID)
	}
	query += ` ORDER BY o.rental_end_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OverlappingReservation
	for rows.Next() {
		var ov domain.OverlappingReservation
		if err := rows.Scan(&ov.OrderID, &ov.OrderNumber, &ov.Status, &ov.RentalStartDate, &ov.RentalEndDate, &ov.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}
