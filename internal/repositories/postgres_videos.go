package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

const videoColumns = `id, title, description, video_file, thumbnail, duration, views, is_published, owner_id, created_at, updated_at`

// videoSortFields maps caller-facing sort names to columns for paginated
// video listings.
var videoSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, title, description, video_file, thumbnail, duration, views, is_published, owner_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.Title, video.Description, video.VideoFile, video.Thumbnail,
		video.Duration, video.Views, video.IsPublished, video.OwnerID, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// FindByID fetches a video by primary key.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	return scanVideo(row)
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(&video.ID, &video.Title, &video.Description, &video.VideoFile, &video.Thumbnail,
		&video.Duration, &video.Views, &video.IsPublished, &video.OwnerID, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}
	return video, nil
}

// ListByOwner returns a sorted page of the owner's videos. Unpublished
// uploads are included only when the requester is the owner.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID, requesterID string, params ListParams) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query := fmt.Sprintf(`
        SELECT %s FROM videos
        WHERE owner_id = $1 AND (is_published OR owner_id::text = $2)
        ORDER BY %s %s
        OFFSET $3 LIMIT $4
    `, videoColumns, sortColumn(params.SortBy, videoSortFields), sortDirection(params.SortDesc))

	rows, err := conn.Query(ctx, query, ownerID, requesterID, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

// ListChannelVideos returns every video uploaded by the channel, most recent
// first.
func (r *PostgresVideoRepository) ListChannelVideos(ctx context.Context, channelID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+` FROM videos
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, channelID)
	if err != nil {
		return nil, fmt.Errorf("query channel videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

func collectVideos(rows pgx.Rows) ([]models.Video, error) {
	var videos []models.Video
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.Description, &video.VideoFile, &video.Thumbnail,
			&video.Duration, &video.Views, &video.IsPublished, &video.OwnerID, &video.CreatedAt, &video.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

// Update applies the provided partial changes, matching on both id and owner.
func (r *PostgresVideoRepository) Update(ctx context.Context, id, ownerID string, update VideoUpdate) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE videos
        SET title = COALESCE($3, title),
            description = COALESCE($4, description),
            thumbnail = COALESCE($5, thumbnail),
            updated_at = NOW()
        WHERE id = $1 AND owner_id = $2
        RETURNING `+videoColumns+`
    `, id, ownerID, update.Title, update.Description, update.Thumbnail)

	return scanVideo(row)
}

// Delete removes the video together with its comments, its likes, likes on
// its comments, and any playlist references, all inside one transaction. Zero
// matched rows on the ownership check surface as ErrNotFound.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id, ownerID string) error {
	ctx, span := logging.StartSpan(ctx, "video-delete")
	defer span.End()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin video delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var owned bool
	err = tx.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1 AND owner_id = $2 FOR UPDATE)
    `, id, ownerID).Scan(&owned)
	if err != nil {
		return fmt.Errorf("check video ownership: %w", err)
	}
	if !owned {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes
        WHERE target_kind = 'comment'
          AND target_id IN (SELECT id FROM comments WHERE video_id = $1)
    `, id); err != nil {
		return fmt.Errorf("delete comment likes: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        DELETE FROM likes WHERE target_kind = 'video' AND target_id = $1
    `, id); err != nil {
		return fmt.Errorf("delete video likes: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        UPDATE playlists
        SET video_ids = array_remove(video_ids, $1::uuid), updated_at = NOW()
        WHERE $1::uuid = ANY(video_ids)
    `, id); err != nil {
		return fmt.Errorf("remove playlist references: %w", err)
	}

	// Comments cascade through their foreign key.
	if _, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit video delete: %w", err)
	}
	return nil
}

// TogglePublish flips the publish flag, matching on both id and owner.
func (r *PostgresVideoRepository) TogglePublish(ctx context.Context, id, ownerID string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE videos
        SET is_published = NOT is_published, updated_at = NOW()
        WHERE id = $1 AND owner_id = $2
        RETURNING `+videoColumns+`
    `, id, ownerID)

	return scanVideo(row)
}

// IncrementViews bumps the view counter by one.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
