package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// VideoUpdate carries the optional field changes for a partial video update.
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
}

// VideoRepository defines the data access contract for videos. Every
// mutation that takes an ownerID is a single conditional statement; zero
// affected rows surface as ErrNotFound.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	// ListByOwner hides unpublished uploads unless the requester is the
	// owner.
	ListByOwner(ctx context.Context, ownerID, requesterID string, params ListParams) ([]models.Video, error)
	ListChannelVideos(ctx context.Context, channelID string) ([]models.Video, error)
	Update(ctx context.Context, id, ownerID string, update VideoUpdate) (models.Video, error)
	// Delete removes the video together with its comments, likes, and
	// playlist references in one transaction.
	Delete(ctx context.Context, id, ownerID string) error
	TogglePublish(ctx context.Context, id, ownerID string) (models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}
