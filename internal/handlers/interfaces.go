package handlers

import (
	"context"
	"io"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserStore captures the persistence operations required by the user and
// auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id string, update repositories.AccountUpdate) (models.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error
	AppendWatchHistory(ctx context.Context, id, videoID string) error
	WatchHistory(ctx context.Context, id string) ([]models.WatchHistoryEntry, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListByOwner(ctx context.Context, ownerID, requesterID string, params repositories.ListParams) ([]models.Video, error)
	ListChannelVideos(ctx context.Context, channelID string) ([]models.Video, error)
	Update(ctx context.Context, id, ownerID string, update repositories.VideoUpdate) (models.Video, error)
	Delete(ctx context.Context, id, ownerID string) error
	TogglePublish(ctx context.Context, id, ownerID string) (models.Video, error)
	IncrementViews(ctx context.Context, id string) error
}

// CommentStore captures persistence for comment workflows.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	ListByVideo(ctx context.Context, videoID string, params repositories.ListParams) ([]models.Comment, error)
	Update(ctx context.Context, id, ownerID, content string) (models.Comment, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// LikeStore captures the toggle-based like operations.
type LikeStore interface {
	Toggle(ctx context.Context, like models.Like) (added bool, err error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}

// PlaylistStore captures persistence for playlist workflows.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id, ownerID string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	Update(ctx context.Context, id, ownerID string, name, description *string) (models.Playlist, error)
	Delete(ctx context.Context, id, ownerID string) error
	AddVideo(ctx context.Context, id, ownerID, videoID string) (models.Playlist, error)
	RemoveVideo(ctx context.Context, id, ownerID, videoID string) (models.Playlist, error)
}

// SubscriptionStore captures the toggle-based subscription operations.
type SubscriptionStore interface {
	Toggle(ctx context.Context, sub models.Subscription) (added bool, err error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.User, error)
}

// TweetStore captures persistence for tweet workflows.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	Update(ctx context.Context, id, ownerID, content string) (models.Tweet, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// StatsStore computes the channel dashboard aggregates.
type StatsStore interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

// TokenService mints and verifies signed session credentials.
type TokenService interface {
	IssuePair(userID string) (models.TokenPair, error)
	VerifyAccess(token string) (string, error)
	VerifyRefresh(token string) (string, error)
}

// MediaStore uploads user-supplied files to the external media host and
// returns a public URL.
type MediaStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}
