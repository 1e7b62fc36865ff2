package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

// LikeHandler implements the like toggle endpoints and the liked-video list.
type LikeHandler struct {
	Likes   LikeStore
	NowFunc func() time.Time
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, "videoId")
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, "commentId")
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, "tweetId")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.LikeTarget, param string) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, ok := pathID(r, param)
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, param+" must be a valid id")
		return
	}

	added, err := h.Likes.Toggle(ctx, models.Like{
		ID:         uuid.NewString(),
		TargetKind: kind,
		TargetID:   targetID,
		LikedBy:    user.ID,
		CreatedAt:  h.now(),
	})
	if err != nil {
		respondStoreError(ctx, w, err, string(kind)+" not found")
		return
	}

	message := "like removed successfully"
	if added {
		message = "like added successfully"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"liked": added}, message)
}

// LikedVideos handles GET /api/v1/likes/videos, returning the videos the
// authenticated user has liked, most recently liked first.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videos, err := h.Likes.ListLikedVideos(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "liked videos not found")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondData(ctx, w, http.StatusOK, videos, "liked videos fetched successfully")
}

func (h LikeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
