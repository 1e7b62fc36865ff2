package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/models"
)

func TestLikeHandlerToggleParity(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	fan := seedUser(t, store, "fan", "fan@example.com", "password123")
	video := seedVideo(t, store, owner.ID, "first")
	handler := LikeHandler{Likes: memLikeStore{store}}

	toggle := func() (bool, string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/likes/toggle/v/"+video.ID, nil)
		req.SetPathValue("videoId", video.ID)
		req = req.WithContext(auth.WithUser(req.Context(), fan.Sanitized()))
		rec := httptest.NewRecorder()
		handler.ToggleVideo(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
		}
		var resp envelope
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		var state map[string]bool
		if err := json.Unmarshal(resp.Data, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return state["liked"], resp.Message
	}

	liked, _ := toggle()
	if !liked {
		t.Fatal("expected first toggle to add the like")
	}
	liked, _ = toggle()
	if liked {
		t.Fatal("expected second toggle to remove the like")
	}
	liked, _ = toggle()
	if !liked {
		t.Fatal("expected third toggle to add the like again")
	}
}

func TestLikeHandlerLikedVideos(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	fan := seedUser(t, store, "fan", "fan@example.com", "password123")
	video := seedVideo(t, store, owner.ID, "first")
	seedVideo(t, store, owner.ID, "unliked")

	likes := memLikeStore{store}
	if _, err := likes.Toggle(context.Background(), models.Like{
		ID: uuid.NewString(), TargetKind: models.LikeTargetVideo, TargetID: video.ID, LikedBy: fan.ID,
	}); err != nil {
		t.Fatalf("toggle like: %v", err)
	}

	handler := LikeHandler{Likes: likes}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req = req.WithContext(auth.WithUser(req.Context(), fan.Sanitized()))
	rec := httptest.NewRecorder()

	handler.LikedVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var videos []models.Video
	if err := json.Unmarshal(resp.Data, &videos); err != nil {
		t.Fatalf("decode videos: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != video.ID {
		t.Fatalf("expected only the liked video, got %+v", videos)
	}
}

func TestCommentHandlerCreateAndEdit(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	commenter := seedUser(t, store, "commenter", "commenter@example.com", "password123")
	video := seedVideo(t, store, owner.ID, "first")
	handler := CommentHandler{Comments: memCommentStore{store}, Videos: memVideoStore{store}}

	body, _ := json.Marshal(commentRequest{Content: "nice video"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/"+video.ID, bytes.NewReader(body))
	req.SetPathValue("videoId", video.ID)
	req = req.WithContext(auth.WithUser(req.Context(), commenter.Sanitized()))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var comment models.Comment
	if err := json.Unmarshal(resp.Data, &comment); err != nil {
		t.Fatalf("decode comment: %v", err)
	}

	// The video owner cannot edit someone else's comment.
	body, _ = json.Marshal(commentRequest{Content: "edited"})
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/comments/c/"+comment.ID, bytes.NewReader(body))
	req.SetPathValue("commentId", comment.ID)
	req = req.WithContext(auth.WithUser(req.Context(), owner.Sanitized()))
	rec = httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCommentHandlerCreateUnknownVideo(t *testing.T) {
	store := newMemStore()
	commenter := seedUser(t, store, "commenter", "commenter@example.com", "password123")
	handler := CommentHandler{Comments: memCommentStore{store}, Videos: memVideoStore{store}}

	missing := uuid.NewString()
	body, _ := json.Marshal(commentRequest{Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/"+missing, bytes.NewReader(body))
	req.SetPathValue("videoId", missing)
	req = req.WithContext(auth.WithUser(req.Context(), commenter.Sanitized()))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestPlaylistHandlerAddVideoIdempotent(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	video := seedVideo(t, store, owner.ID, "first")

	playlists := memPlaylistStore{store}
	playlist := models.Playlist{ID: uuid.NewString(), Name: "favorites", OwnerID: owner.ID}
	if err := playlists.Create(context.Background(), playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	handler := PlaylistHandler{Playlists: playlists}

	add := func() models.Playlist {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/playlists/add/"+video.ID+"/"+playlist.ID, nil)
		req.SetPathValue("videoId", video.ID)
		req.SetPathValue("playlistId", playlist.ID)
		req = req.WithContext(auth.WithUser(req.Context(), owner.Sanitized()))
		rec := httptest.NewRecorder()
		handler.AddVideo(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		var resp envelope
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		var updated models.Playlist
		if err := json.Unmarshal(resp.Data, &updated); err != nil {
			t.Fatalf("decode playlist: %v", err)
		}
		return updated
	}

	if updated := add(); len(updated.VideoIDs) != 1 {
		t.Fatalf("expected 1 video got %d", len(updated.VideoIDs))
	}
	if updated := add(); len(updated.VideoIDs) != 1 {
		t.Fatalf("expected duplicate add to be a no-op, got %d videos", len(updated.VideoIDs))
	}
}

func TestPlaylistHandlerOwnerScope(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	intruder := seedUser(t, store, "intruder", "intruder@example.com", "password123")

	playlists := memPlaylistStore{store}
	playlist := models.Playlist{ID: uuid.NewString(), Name: "private", OwnerID: owner.ID}
	if err := playlists.Create(context.Background(), playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	handler := PlaylistHandler{Playlists: playlists}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/"+playlist.ID, nil)
	req.SetPathValue("playlistId", playlist.ID)
	req = req.WithContext(auth.WithUser(req.Context(), intruder.Sanitized()))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSubscriptionHandlerToggleAndSelf(t *testing.T) {
	store := newMemStore()
	channel := seedUser(t, store, "channel", "channel@example.com", "password123")
	fan := seedUser(t, store, "fan", "fan@example.com", "password123")
	handler := SubscriptionHandler{Subscriptions: memSubscriptionStore{store}}

	toggle := func(actor models.User, channelID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/c/"+channelID, nil)
		req.SetPathValue("channelId", channelID)
		req = req.WithContext(auth.WithUser(req.Context(), actor.Sanitized()))
		rec := httptest.NewRecorder()
		handler.Toggle(rec, req)
		return rec
	}

	if rec := toggle(fan, channel.ID); rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	count, err := (memSubscriptionStore{store}).CountSubscribers(context.Background(), channel.ID)
	if err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 subscriber got %d", count)
	}

	if rec := toggle(channel, channel.ID); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected self-subscribe rejection, got %d", rec.Code)
	}
}

func TestTweetHandlerLifecycle(t *testing.T) {
	store := newMemStore()
	author := seedUser(t, store, "author", "author@example.com", "password123")
	handler := TweetHandler{Tweets: memTweetStore{store}}

	body, _ := json.Marshal(tweetRequest{Content: "hello world"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), author.Sanitized()))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d", http.StatusCreated, rec.Code)
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var tweet models.Tweet
	if err := json.Unmarshal(resp.Data, &tweet); err != nil {
		t.Fatalf("decode tweet: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/"+author.ID, nil)
	req.SetPathValue("userId", author.ID)
	rec = httptest.NewRecorder()

	handler.ListByUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/"+tweet.ID, nil)
	req.SetPathValue("tweetId", tweet.ID)
	req = req.WithContext(auth.WithUser(req.Context(), author.Sanitized()))
	rec = httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
}

func TestDashboardHandlerEmptyChannel(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	handler := DashboardHandler{Stats: memStatsStore{store}, Videos: memVideoStore{store}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req = req.WithContext(auth.WithUser(req.Context(), owner.Sanitized()))
	rec := httptest.NewRecorder()

	handler.ChannelStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var stats models.ChannelStats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats != (models.ChannelStats{}) {
		t.Fatalf("expected zeroed stats for empty channel, got %+v", stats)
	}
}

func TestDashboardHandlerIncludesUnpublished(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	seedVideo(t, store, owner.ID, "published")
	draft := seedVideo(t, store, owner.ID, "draft")
	if _, err := (memVideoStore{store}).TogglePublish(context.Background(), draft.ID, owner.ID); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	handler := DashboardHandler{Stats: memStatsStore{store}, Videos: memVideoStore{store}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil)
	req = req.WithContext(auth.WithUser(req.Context(), owner.Sanitized()))
	rec := httptest.NewRecorder()

	handler.ChannelVideos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var videos []models.Video
	if err := json.Unmarshal(resp.Data, &videos); err != nil {
		t.Fatalf("decode videos: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected drafts to be included, got %d videos", len(videos))
	}
}

func TestDashboardHandlerStatsForOtherChannel(t *testing.T) {
	store := newMemStore()
	owner := seedUser(t, store, "owner", "owner@example.com", "password123")
	viewer := seedUser(t, store, "viewer", "viewer@example.com", "password123")
	seedVideo(t, store, owner.ID, "first")
	handler := DashboardHandler{Stats: memStatsStore{store}, Videos: memVideoStore{store}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats/"+owner.ID, nil)
	req.SetPathValue("channelId", owner.ID)
	req = req.WithContext(auth.WithUser(req.Context(), viewer.Sanitized()))
	rec := httptest.NewRecorder()

	handler.ChannelStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	var resp envelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var stats models.ChannelStats
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalVideos != 1 {
		t.Fatalf("expected 1 video in channel stats, got %+v", stats)
	}
}

func TestDashboardHandlerStatsRejectsMalformedChannel(t *testing.T) {
	store := newMemStore()
	viewer := seedUser(t, store, "viewer", "viewer@example.com", "password123")
	handler := DashboardHandler{Stats: memStatsStore{store}, Videos: memVideoStore{store}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats/not-a-uuid", nil)
	req.SetPathValue("channelId", "not-a-uuid")
	req = req.WithContext(auth.WithUser(req.Context(), viewer.Sanitized()))
	rec := httptest.NewRecorder()

	handler.ChannelStats(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}
