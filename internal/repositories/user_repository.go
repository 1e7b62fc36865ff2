package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// AccountUpdate carries the optional field changes for a user account.
type AccountUpdate struct {
	FullName *string
	Email    *string
}

// UserRepository defines the data access contract for users, including the
// refresh-token lifecycle and the user-centric aggregation reads.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
	UpdateAccount(ctx context.Context, id string, update AccountUpdate) (models.User, error)
	UpdateAvatar(ctx context.Context, id, url string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, url string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken unconditionally replaces the stored refresh token;
	// an empty token clears it (logout).
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken atomically swaps oldToken for newToken. It returns
	// ErrNotFound when the stored token no longer matches, which the caller
	// treats as a revoked (already rotated) token.
	RotateRefreshToken(ctx context.Context, id, oldToken, newToken string) error

	AppendWatchHistory(ctx context.Context, id, videoID string) error
	WatchHistory(ctx context.Context, id string) ([]models.WatchHistoryEntry, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}
