package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/oke1234/goalmatch/pkg/match"
)

// HistoryStore is the sqlite implementation of match.HistoryStore
type HistoryStore struct {
	db *DB
}

// History returns the history store bound to this database
func (db *DB) History() *HistoryStore {
	return &HistoryStore{db: db}
}

// historyRow mirrors one row of expected_time_history
type historyRow struct {
	Category    string  `db:"category"`
	Difficulty  int     `db:"difficulty"`
	MeanMinutes float64 `db:"mean_minutes"`
}

// Load reads the full historical time table. An empty table is a normal
// first-run condition and yields an empty map.
func (s *HistoryStore) Load(ctx context.Context) (map[match.TimeKey]float64, error) {
	var rows []historyRow
	err := s.db.conn.SelectContext(ctx, &rows, "SELECT category, difficulty, mean_minutes FROM expected_time_history")
	if err != nil {
		return nil, fmt.Errorf("load time history: %w", err)
	}

	times := make(map[match.TimeKey]float64, len(rows))
	for _, r := range rows {
		times[match.TimeKey{Category: r.Category, Difficulty: r.Difficulty}] = r.MeanMinutes
	}
	return times, nil
}

// Save replaces the historical time table with the given mapping. The write
// is a single transaction, retried with backoff on SQLite lock errors.
func (s *HistoryStore) Save(ctx context.Context, times map[match.TimeKey]float64) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		err := s.db.InTransaction(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM expected_time_history"); err != nil {
				return fmt.Errorf("clear time history: %w", err)
			}
			for key, mean := range times {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO expected_time_history (category, difficulty, mean_minutes) VALUES (?, ?, ?)",
					key.Category, key.Difficulty, mean)
				if err != nil {
					return fmt.Errorf("insert time history %s/%d: %w", key.Category, key.Difficulty, err)
				}
			}
			return nil
		})
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		return nil
	})
}
