package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// ChannelRepo persists the provider-fetched channel enrichment cache. Rows
// are written at most once per channel per run and kept across runs; clearing
// the table is the only way to force a re-fetch.
type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// UpsertMetadata stores one fetched enrichment block. Used by the enrichment
// worker, which persists each result before the next external call so a crash
// mid-run loses at most one in-flight fetch.
func (r *ChannelRepo) UpsertMetadata(ctx context.Context, meta *model.ChannelMetadata) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO channels (channel_id, title, subscriber_count, video_count, view_count,
		                      description, published_at, thumbnail_url, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (channel_id) DO UPDATE
		SET title = EXCLUDED.title, subscriber_count = EXCLUDED.subscriber_count,
		    video_count = EXCLUDED.video_count, view_count = EXCLUDED.view_count,
		    description = EXCLUDED.description, published_at = EXCLUDED.published_at,
		    thumbnail_url = EXCLUDED.thumbnail_url, fetched_at = NOW()`,
		meta.ChannelID, meta.Title, meta.SubscriberCount, meta.VideoCount, meta.ViewCount,
		meta.Description, meta.PublishedAt, meta.ThumbnailURL,
	)
	return err
}

// FindByChannelID returns the cached enrichment for one channel.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*model.ChannelMetadata, error) {
	var meta model.ChannelMetadata
	err := r.pool.QueryRow(ctx, `
		SELECT channel_id, title, subscriber_count, video_count, view_count,
		       description, published_at, thumbnail_url, fetched_at
		FROM channels
		WHERE channel_id = $1`, channelID).Scan(
		&meta.ChannelID, &meta.Title, &meta.SubscriberCount, &meta.VideoCount, &meta.ViewCount,
		&meta.Description, &meta.PublishedAt, &meta.ThumbnailURL, &meta.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListAll returns every cached enrichment block.
func (r *ChannelRepo) ListAll(ctx context.Context) ([]model.ChannelMetadata, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT channel_id, title, subscriber_count, video_count, view_count,
		       description, published_at, thumbnail_url, fetched_at
		FROM channels`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []model.ChannelMetadata
	for rows.Next() {
		var meta model.ChannelMetadata
		err := rows.Scan(
			&meta.ChannelID, &meta.Title, &meta.SubscriberCount, &meta.VideoCount, &meta.ViewCount,
			&meta.Description, &meta.PublishedAt, &meta.ThumbnailURL, &meta.FetchedAt,
		)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}
