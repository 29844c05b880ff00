package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// ReplaceAll clears the watch history and bulk-inserts the new export in one
// transaction. History is never mutated in place; re-ingestion is a full
// replace.
func (r *HistoryRepo) ReplaceAll(ctx context.Context, events []model.WatchEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM watch_history`); err != nil {
		return err
	}

	for i := range events {
		ev := &events[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO watch_history (video_id, watched_at, title_snapshot, channel_snapshot, position)
			VALUES ($1, $2, $3, $4, $5)`,
			ev.VideoID, ev.WatchedAt, ev.TitleSnapshot, ev.ChannelSnapshot, ev.Position,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListAll returns the full watch history in source export order.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]model.WatchEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, video_id, watched_at, title_snapshot, channel_snapshot, position
		FROM watch_history
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.WatchEvent
	for rows.Next() {
		var ev model.WatchEvent
		err := rows.Scan(&ev.ID, &ev.VideoID, &ev.WatchedAt, &ev.TitleSnapshot, &ev.ChannelSnapshot, &ev.Position)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Count returns the number of stored watch events.
func (r *HistoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM watch_history`).Scan(&n)
	return n, err
}
