package repositories

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// PostgresStatsRepository computes channel dashboard aggregates over the
// videos, likes, and subscriptions tables.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// ChannelStats gathers the four dashboard aggregates. The counts are
// independent, so they run concurrently, each on its own pooled connection.
// A channel with no videos reports zero total views rather than an error.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	ctx, span := logging.StartSpan(ctx, "channel-stats")
	defer span.End()

	var stats models.ChannelStats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.count(ctx, `SELECT COUNT(*) FROM likes WHERE liked_by = $1`, channelID, &stats.TotalLikes)
	})
	g.Go(func() error {
		return r.count(ctx, `SELECT COUNT(*) FROM videos WHERE owner_id = $1`, channelID, &stats.TotalVideos)
	})
	g.Go(func() error {
		return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID, &stats.TotalSubscribers)
	})
	g.Go(func() error {
		return r.count(ctx, `SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1`, channelID, &stats.TotalViews)
	})

	if err := g.Wait(); err != nil {
		return models.ChannelStats{}, err
	}

	return stats, nil
}

func (r *PostgresStatsRepository) count(ctx context.Context, query, channelID string, dest *int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := conn.QueryRow(ctx, query, channelID).Scan(dest); err != nil {
		return fmt.Errorf("channel stats query: %w", err)
	}
	return nil
}

var _ StatsRepository = (*PostgresStatsRepository)(nil)
