package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DailyCountRepository implements the single atomic operation spec.md §4.1
// and §9 require: increment and read must happen as one statement so two
// concurrent requests for the same LID never both observe count-1 (see
// internal/locking.KeyMutex for the complementary in-process guard). This is
// the one place this service uses the raw lib/pq pool instead of gorm,
// because gorm has no clean way to express an upsert with RETURNING.
type DailyCountRepository struct {
	raw *sql.DB
}

// NewDailyCountRepository creates a new daily-count repository over the raw
// lib/pq connection pool.
func NewDailyCountRepository(raw *sql.DB) *DailyCountRepository {
	return &DailyCountRepository{raw: raw}
}

// IncrementAndGet atomically increments the (loyaltyID, day) counter and
// returns the post-increment count in a single round trip.
func (r *DailyCountRepository) IncrementAndGet(ctx context.Context, loyaltyID, day string) (int64, error) {
	const query = `
		INSERT INTO daily_transaction_counts (loyalty_id, day, count, created_at, updated_at)
		VALUES ($1, $2, 1, now(), now())
		ON CONFLICT (loyalty_id, day)
		DO UPDATE SET count = daily_transaction_counts.count + 1, updated_at = now()
		RETURNING count`

	var count int64
	row := r.raw.QueryRowContext(ctx, query, loyaltyID, day)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to increment daily count: %w", err)
	}
	return count, nil
}

// Peek returns the current count for (loyaltyID, day) without incrementing,
// for diagnostics and tests.
func (r *DailyCountRepository) Peek(ctx context.Context, loyaltyID, day string) (int64, error) {
	const query = `SELECT count FROM daily_transaction_counts WHERE loyalty_id = $1 AND day = $2`
	var count int64
	row := r.raw.QueryRowContext(ctx, query, loyaltyID, day)
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read daily count: %w", err)
	}
	return count, nil
}
