package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

// ResultRepo persists classification results, analysis runs, AI verdicts, and
// the normalized tag join. Classification rows are overwrite-per-run: they
// reflect exactly the current rule set and corpus snapshot, never an
// accumulation across runs.
type ResultRepo struct {
	pool *pgxpool.Pool
}

func NewResultRepo(pool *pgxpool.Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

// ReplaceResults atomically replaces the whole result corpus with one run's
// output and records the run row with its export payload. Rank preserves the
// aggregator's canonical ordering for later reads.
func (r *ResultRepo) ReplaceResults(ctx context.Context, runID uuid.UUID, generatedAt time.Time, results []model.RankedResult, summary model.Summary, export model.Export) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM classification_results`); err != nil {
		return err
	}

	for rank, res := range results {
		_, err := tx.Exec(ctx, `
			INSERT INTO classification_results (video_id, run_id, risk_level, signals,
			                                    flag_count, warning_count, info_count, rank, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
			res.VideoID, runID, res.RiskLevel, res.Signals,
			res.FlagCount, res.WarningCount, res.InfoCount, rank,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO analysis_runs (run_id, generated_at, total, high, medium, low, export)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, generatedAt, summary.Total, summary.High, summary.Medium, summary.Low, export,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// LatestReport rebuilds the ranked report from the most recent run. Returns
// pgx.ErrNoRows when no run exists yet.
func (r *ResultRepo) LatestReport(ctx context.Context) (*model.Report, error) {
	var report model.Report
	var runID uuid.UUID
	var generatedAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT run_id, generated_at, total, high, medium, low
		FROM analysis_runs
		ORDER BY generated_at DESC
		LIMIT 1`).Scan(&runID, &generatedAt,
		&report.Summary.Total, &report.Summary.High, &report.Summary.Medium, &report.Summary.Low)
	if err != nil {
		return nil, err
	}
	report.RunID = runID.String()
	report.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)

	rows, err := r.pool.Query(ctx, `
		SELECT cr.video_id, cr.risk_level, cr.signals, cr.flag_count, cr.warning_count, cr.info_count,
		       COALESCE(v.title, ''), COALESCE(v.channel_id, ''), COALESCE(v.channel_title, '')
		FROM classification_results cr
		LEFT JOIN videos v ON v.video_id = cr.video_id
		ORDER BY cr.rank`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report.Results = make([]model.RankedResult, 0)
	for rows.Next() {
		var res model.RankedResult
		err := rows.Scan(&res.VideoID, &res.RiskLevel, &res.Signals,
			&res.FlagCount, &res.WarningCount, &res.InfoCount,
			&res.Title, &res.ChannelID, &res.ChannelTitle)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &report, nil
}

// LatestExport returns the stored export payload of the most recent run.
func (r *ResultRepo) LatestExport(ctx context.Context) (*model.Export, error) {
	var export model.Export
	err := r.pool.QueryRow(ctx, `
		SELECT export FROM analysis_runs ORDER BY generated_at DESC LIMIT 1`).Scan(&export)
	if err != nil {
		return nil, err
	}
	return &export, nil
}

// FindResult returns the current classification for one video.
func (r *ResultRepo) FindResult(ctx context.Context, videoID string) (*model.ClassificationResult, error) {
	var res model.ClassificationResult
	err := r.pool.QueryRow(ctx, `
		SELECT video_id, risk_level, signals, flag_count, warning_count, info_count
		FROM classification_results
		WHERE video_id = $1`, videoID).Scan(
		&res.VideoID, &res.RiskLevel, &res.Signals,
		&res.FlagCount, &res.WarningCount, &res.InfoCount,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SaveVerdict upserts one AI verdict and the merged tag union in a single
// transaction. Tags are create-if-absent; existing associations are never
// deleted, so the merge only grows the join.
func (r *ResultRepo) SaveVerdict(ctx context.Context, v *model.AIVerdict) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ai_verdicts (video_id, risk_level, summary, reasoning, content_flags,
		                         flagged_severity, merged_tags, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (video_id) DO UPDATE
		SET risk_level = EXCLUDED.risk_level, summary = EXCLUDED.summary,
		    reasoning = EXCLUDED.reasoning, content_flags = EXCLUDED.content_flags,
		    flagged_severity = EXCLUDED.flagged_severity, merged_tags = EXCLUDED.merged_tags,
		    analyzed_at = EXCLUDED.analyzed_at`,
		v.VideoID, v.RiskLevel, v.Summary, v.Reasoning, v.ContentFlags,
		v.FlaggedSeverity, v.MergedTags, v.AnalyzedAt,
	)
	if err != nil {
		return err
	}

	for _, tag := range v.MergedTags {
		if _, err := tx.Exec(ctx, `INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, tag); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO video_tags (video_id, tag) VALUES ($1, $2)
			ON CONFLICT (video_id, tag) DO NOTHING`, v.VideoID, tag); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindVerdict returns the stored AI verdict for one video, if analyzed.
func (r *ResultRepo) FindVerdict(ctx context.Context, videoID string) (*model.AIVerdict, error) {
	var v model.AIVerdict
	err := r.pool.QueryRow(ctx, `
		SELECT video_id, risk_level, summary, reasoning, content_flags,
		       flagged_severity, merged_tags, analyzed_at
		FROM ai_verdicts
		WHERE video_id = $1`, videoID).Scan(
		&v.VideoID, &v.RiskLevel, &v.Summary, &v.Reasoning, &v.ContentFlags,
		&v.FlaggedSeverity, &v.MergedTags, &v.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
