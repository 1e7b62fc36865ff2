package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

// DashboardHandler serves the authenticated channel owner's aggregates.
type DashboardHandler struct {
	Stats  StatsStore
	Videos VideoStore
}

// ChannelStats handles GET /api/v1/dashboard/stats and
// GET /api/v1/dashboard/stats/{channelId}. The aggregates expose no draft
// content, so any channel may be queried; without a channelId the
// authenticated channel is assumed. A channel with no activity reports zero
// for every aggregate.
func (h DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	channelID := user.ID
	if r.PathValue("channelId") != "" {
		channelID, ok = pathID(r, "channelId")
		if !ok {
			respondError(ctx, w, http.StatusBadRequest, "channelId must be a valid id")
			return
		}
	}

	stats, err := h.Stats.ChannelStats(ctx, channelID)
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats fetched successfully")
}

// ChannelVideos handles GET /api/v1/dashboard/videos, returning every video
// the authenticated user has uploaded, published or not.
func (h DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videos, err := h.Videos.ListChannelVideos(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "videos not found")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondData(ctx, w, http.StatusOK, videos, "channel videos fetched successfully")
}
