package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CleanOldData deletes every point older than cutoff.
func (db *SQLiteWriter) CleanOldData(ctx context.Context, cutoff time.Time) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("failed to rollback: %v", rbErr)
			}

			return
		}

		err = tx.Commit()
	}()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM points WHERE timestamp_ms < ?",
		cutoff.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w points: %w", ErrFailedToClean, err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		log.Printf("Removed %d points older than %v", n, cutoff.Format(time.RFC3339))
	}

	return nil
}
