package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

const videoColumns = `video_id, title, description, channel_id, channel_title, published_at,
	       category_id, tags, duration, captions_available, content_rating,
	       view_count, like_count, comment_count, privacy_status,
	       made_for_kids, self_declared_made_for_kids, embeddable, fetched_at`

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// UpsertVideos inserts fetched video records with first-write-wins semantics:
// a video already present is a cache hit and is never overwritten. Returns the
// number of newly inserted rows.
func (r *VideoRepo) UpsertVideos(ctx context.Context, videos []model.VideoRecord) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for i := range videos {
		v := &videos[i]
		tag, err := tx.Exec(ctx, `
			INSERT INTO videos (video_id, title, description, channel_id, channel_title, published_at,
			                    category_id, tags, duration, captions_available, content_rating,
			                    view_count, like_count, comment_count, privacy_status,
			                    made_for_kids, self_declared_made_for_kids, embeddable, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
			ON CONFLICT (video_id) DO NOTHING`,
			v.VideoID, v.Title, v.Description, v.ChannelID, v.ChannelTitle, v.PublishedAt,
			v.CategoryID, v.Tags, v.Duration, v.CaptionsAvailable, v.ContentRating,
			v.ViewCount, v.LikeCount, v.CommentCount, v.PrivacyStatus,
			v.MadeForKids, v.SelfDeclaredMadeForKids, v.Embeddable,
		)
		if err != nil {
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, tx.Commit(ctx)
}

// FindByVideoID returns a single video record by exact id.
func (r *VideoRepo) FindByVideoID(ctx context.Context, videoID string) (*model.VideoRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE video_id = $1`, videoID)
	return scanVideo(row)
}

// ListAll returns every cached video record in insertion order.
func (r *VideoRepo) ListAll(ctx context.Context) ([]model.VideoRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY fetched_at, video_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideos(rows)
}

// ListByChannel returns all cached videos for one channel.
func (r *VideoRepo) ListByChannel(ctx context.Context, channelID string) ([]model.VideoRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE channel_id = $1 ORDER BY fetched_at, video_id`, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideos(rows)
}

// ListChannelIDsMissingMetadata returns distinct channel ids that appear in
// the video cache but have no enrichment row yet.
func (r *VideoRepo) ListChannelIDsMissingMetadata(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT v.channel_id
		FROM videos v
		LEFT JOIN channels c ON c.channel_id = v.channel_id
		WHERE v.channel_id <> '' AND c.channel_id IS NULL
		ORDER BY v.channel_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanVideo(row pgx.Row) (*model.VideoRecord, error) {
	var v model.VideoRecord
	err := row.Scan(
		&v.VideoID, &v.Title, &v.Description, &v.ChannelID, &v.ChannelTitle, &v.PublishedAt,
		&v.CategoryID, &v.Tags, &v.Duration, &v.CaptionsAvailable, &v.ContentRating,
		&v.ViewCount, &v.LikeCount, &v.CommentCount, &v.PrivacyStatus,
		&v.MadeForKids, &v.SelfDeclaredMadeForKids, &v.Embeddable, &v.FetchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVideos(rows pgx.Rows) ([]model.VideoRecord, error) {
	var videos []model.VideoRecord
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}
