package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to
// your own channel is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	channelID, ok := pathID(r, "channelId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "channelId must be a valid id")
		return
	}
	if channelID == user.ID {
		respondError(ctx, w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	added, err := h.Subscriptions.Toggle(ctx, models.Subscription{
		ID:           uuid.NewString(),
		ChannelID:    channelID,
		SubscriberID: user.ID,
		CreatedAt:    h.now(),
	})
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	message := "unsubscribed successfully"
	if added {
		message = "subscribed successfully"
	}
	respondData(ctx, w, http.StatusOK, map[string]bool{"subscribed": added}, message)
}

// SubscriberCount handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) SubscriberCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, ok := pathID(r, "channelId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "channelId must be a valid id")
		return
	}

	count, err := h.Subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		respondStoreError(ctx, w, err, "channel not found")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]int64{"subscribers": count}, "subscriber count fetched successfully")
}

// SubscribedChannels handles GET /api/v1/subscriptions/u/{subscriberId},
// returning the channels the given user is subscribed to.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID, ok := pathID(r, "subscriberId")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "subscriberId must be a valid id")
		return
	}

	channels, err := h.Subscriptions.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		respondStoreError(ctx, w, err, "subscriptions not found")
		return
	}
	if channels == nil {
		channels = []models.User{}
	}
	for i := range channels {
		channels[i] = channels[i].Sanitized()
	}

	respondData(ctx, w, http.StatusOK, channels, "subscribed channels fetched successfully")
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
