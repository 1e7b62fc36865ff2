package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// CommentRepository defines the data access contract for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	ListByVideo(ctx context.Context, videoID string, params ListParams) ([]models.Comment, error)
	Update(ctx context.Context, id, ownerID, content string) (models.Comment, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// LikeRepository defines the toggle-based contract for likes.
type LikeRepository interface {
	// Toggle inserts the like when absent and removes it when present,
	// reporting whether the like now exists.
	Toggle(ctx context.Context, like models.Like) (added bool, err error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}

// PlaylistRepository defines the data access contract for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id, ownerID string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, id, ownerID string, name, description *string) (models.Playlist, error)
	Delete(ctx context.Context, id, ownerID string) error
	AddVideo(ctx context.Context, id, ownerID, videoID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, id, ownerID, videoID string) (models.Playlist, error)
}

// SubscriptionRepository defines the toggle-based contract for channel
// subscriptions.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, sub models.Subscription) (added bool, err error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.User, error)
}

// TweetRepository defines the data access contract for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	Update(ctx context.Context, id, ownerID, content string) (models.Tweet, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// StatsRepository computes the aggregated channel dashboard summary.
type StatsRepository interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}
