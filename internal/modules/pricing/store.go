// README: Quote snapshot store backed by PostgreSQL.
package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linguaschool/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO quote_snapshots (
			order_id, final_price, options, breakdown,
			hourly_fee, duration_hours, weekend_or_holiday, start_time,
			student_count, total_weeks, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11
		)
		RETURNING id`,
		int64(snap.OrderID),
		snap.Quote.FinalPrice,
		snap.Request.Options.String(),
		snap.Quote.Breakdown,
		snap.Request.HourlyFee,
		snap.Request.DurationHours,
		snap.Request.IsWeekendOrHoliday,
		snap.Request.StartTime,
		snap.Request.StudentCount,
		snap.Request.TotalWeeks,
		snap.CreatedAt,
	)
	return row.Scan(&snap.ID)
}

// ListByOrder returns an order's snapshots, newest first.
func (s *Store) ListByOrder(ctx context.Context, orderID types.ID) ([]Snapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, final_price, options, breakdown,
		       hourly_fee, duration_hours, weekend_or_holiday, start_time,
		       student_count, total_weeks, created_at
		FROM quote_snapshots
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`, int64(orderID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snap      Snapshot
		orderID   int64
		options   string
		createdAt time.Time
	)
	err := row.Scan(
		&snap.ID, &orderID, &snap.Quote.FinalPrice, &options, &snap.Quote.Breakdown,
		&snap.Request.HourlyFee, &snap.Request.DurationHours, &snap.Request.IsWeekendOrHoliday, &snap.Request.StartTime,
		&snap.Request.StudentCount, &snap.Request.TotalWeeks, &createdAt,
	)
	if err != nil {
		return Snapshot{}, err
	}
	opts, err := ParseOptions(options)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", snap.ID, err)
	}
	snap.OrderID = types.ID(orderID)
	snap.Request.Options = opts
	snap.CreatedAt = createdAt
	return snap, nil
}
