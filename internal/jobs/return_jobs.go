package jobs

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
)

// SendOverdueVersionReminders emails the rental desk about active
// partial-return versions whose rental end date has passed.
func (jr *JobRunner) SendOverdueVersionReminders() {
	jr.runWithRecovery("SendOverdueVersionReminders", func() {
		ctx := context.Background()
		now := time.Now()

		versions, err := jr.store.VersionRepository.ListOverdueActive(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue versions", "error", err)
			return
		}

		sent := 0
		for _, v := range versions {
			daysOverdue := int32(now.Sub(v.RentalEndDate).Hours() / 24)
			full, err := jr.store.VersionRepository.GetByID(ctx, v.ID)
			if err != nil {
				logger.Error("Failed to load overdue version", "version_id", v.ID, "error", err)
				continue
			}
			pending := 0
			for _, it := range full.Items {
				if it.Status == domain.VersionItemStatusPending {
					pending++
				}
			}
			if err := jr.services.Email.SendOverdueVersionNotice(ctx, v.DisplayNumber, daysOverdue, pending); err != nil {
				logger.Error("Failed to send overdue version notice", "version_id", v.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Overdue version reminders sent", "count", sent, "overdue_total", len(versions))
	})
}

// ReportOverdueRentals logs orders still on rent past their end date so staff
// can chase the return before the next booking's handoff.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func() {
		ctx := context.Background()

		query := `
			SELECT id, order_number, rental_end_date
			FROM orders
			WHERE status IN ('ISSUED', 'ON_RENT')
			  AND rental_end_date < $1
			ORDER BY rental_end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now())
		if err != nil {
			logger.Error("Failed to query overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id int32
			var number string
			var endDate time.Time
			if err := rows.Scan(&id, &number, &endDate); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			logger.Warn("Rental overdue", "order_id", id, "order_number", number,
				"end_date", endDate.Format("2006-01-02"))
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}
		logger.Info("Overdue rentals reported", "count", count)
	})
}
