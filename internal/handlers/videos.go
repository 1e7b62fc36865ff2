package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// VideoHandler implements the video catalog endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Users   UserStore
	Media   MediaStore
	NowFunc func() time.Time
}

type videoUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// List handles GET /api/v1/videos. A valid userId query parameter is
// required; results are paginated and sortable. Unpublished uploads appear
// only when the caller lists their own videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requester, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if ownerID == "" {
		respondError(ctx, w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "userId must be a valid id")
		return
	}

	videos, err := h.Videos.ListByOwner(ctx, ownerID, requester.ID, listParams(r))
	if err != nil {
		respondStoreError(ctx, w, err, "videos not found")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondData(ctx, w, http.StatusOK, videos, "videos fetched successfully")
}

// Create handles POST /api/v1/videos. The body is multipart with required
// videoFile and thumbnail files plus title and description fields.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, http.StatusBadRequest, "title and description are required")
		return
	}

	duration := 0.0
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			respondError(ctx, w, http.StatusBadRequest, "duration must be a non-negative number")
			return
		}
		duration = parsed
	}

	videoURL, provided, err := saveUpload(r, h.Media, "videoFile", "videos")
	if err != nil {
		logging.FromContext(ctx).Error("video upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store video file")
		return
	}
	if !provided {
		respondError(ctx, w, http.StatusBadRequest, "videoFile is required")
		return
	}

	thumbnailURL, provided, err := saveUpload(r, h.Media, "thumbnail", "thumbnails")
	if err != nil {
		logging.FromContext(ctx).Error("thumbnail upload failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
		return
	}
	if !provided {
		respondError(ctx, w, http.StatusBadRequest, "thumbnail is required")
		return
	}

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		IsPublished: true,
		OwnerID:     user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logging.FromContext(ctx).Error("create video", "error", err, "ownerId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to publish video")
		return
	}

	respondData(ctx, w, http.StatusCreated, video, "video published successfully")
}

// Get handles GET /api/v1/videos/{videoId}. The endpoint is public; each
// fetch increments the view counter, and an authenticated fetch also prepends
// the video to the viewer's watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, ok := pathID(r, "videoId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "videoId must be a valid id")
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logging.FromContext(ctx).Warn("increment views", "error", err, "videoId", videoID)
	} else {
		video.Views++
	}

	if viewer, authed := auth.UserFromContext(ctx); authed {
		if err := h.Users.AppendWatchHistory(ctx, viewer.ID, videoID); err != nil {
			logging.FromContext(ctx).Warn("append watch history", "error", err, "userId", viewer.ID)
		}
	}

	respondData(ctx, w, http.StatusOK, video, "video fetched successfully")
}

// Update handles PATCH /api/v1/videos/{videoId}. Title and description come
// from the form; a new thumbnail file is optional. Only the owner may update,
// and a non-owner receives the same not-found response as a missing video.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID, ok := pathID(r, "videoId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "videoId must be a valid id")
		return
	}

	update := repositories.VideoUpdate{}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		if title := strings.TrimSpace(r.FormValue("title")); title != "" {
			update.Title = &title
		}
		if description := strings.TrimSpace(r.FormValue("description")); description != "" {
			update.Description = &description
		}
		url, provided, err := saveUpload(r, h.Media, "thumbnail", "thumbnails")
		if err != nil {
			logging.FromContext(ctx).Error("thumbnail upload failed", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
			return
		}
		if provided {
			update.Thumbnail = &url
		}
	} else {
		var req videoUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "invalid request body")
			return
		}
		if title := strings.TrimSpace(req.Title); title != "" {
			update.Title = &title
		}
		if description := strings.TrimSpace(req.Description); description != "" {
			update.Description = &description
		}
	}

	if update.Title == nil && update.Description == nil && update.Thumbnail == nil {
		respondError(ctx, w, http.StatusBadRequest, "nothing to update")
		return
	}

	video, err := h.Videos.Update(ctx, videoID, user.ID, update)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, video, "video updated successfully")
}

// Delete handles DELETE /api/v1/videos/{videoId}. Deleting a video also
// removes its comments, its likes, and any playlist references.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID, ok := pathID(r, "videoId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "videoId must be a valid id")
		return
	}

	if err := h.Videos.Delete(ctx, videoID, user.ID); err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video deleted successfully")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID, ok := pathID(r, "videoId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "videoId must be a valid id")
		return
	}

	video, err := h.Videos.TogglePublish(ctx, videoID, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "video not found")
		return
	}

	respondData(ctx, w, http.StatusOK, video, "publish status toggled successfully")
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
