package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// memStore is a single in-memory backend implementing every store interface
// the handlers depend on. It mirrors the uniqueness and ownership rules the
// persistence layer enforces.
type memStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	videos        map[string]models.Video
	comments      map[string]models.Comment
	likes         map[string]models.Like
	playlists     map[string]models.Playlist
	subscriptions map[string]models.Subscription
	tweets        map[string]models.Tweet
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]models.User),
		videos:        make(map[string]models.Video),
		comments:      make(map[string]models.Comment),
		likes:         make(map[string]models.Like),
		playlists:     make(map[string]models.Playlist),
		subscriptions: make(map[string]models.Subscription),
		tweets:        make(map[string]models.Tweet),
	}
}

func (s *memStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memStore) FindByUsernameOrEmail(_ context.Context, identifier string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memStore) UpdateAccount(_ context.Context, id string, update repositories.AccountUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	s.users[id] = user
	return user, nil
}

func (s *memStore) UpdateAvatar(_ context.Context, id, url string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.Avatar = url
	s.users[id] = user
	return user, nil
}

func (s *memStore) UpdateCoverImage(_ context.Context, id, url string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.CoverImage = url
	s.users[id] = user
	return user, nil
}

func (s *memStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	s.users[id] = user
	return nil
}

func (s *memStore) SetRefreshToken(_ context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[id] = user
	return nil
}

func (s *memStore) RotateRefreshToken(_ context.Context, id, oldToken, newToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok || user.RefreshToken != oldToken {
		return repositories.ErrNotFound
	}
	user.RefreshToken = newToken
	s.users[id] = user
	return nil
}

func (s *memStore) AppendWatchHistory(_ context.Context, id, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	history := []string{videoID}
	for _, existing := range user.WatchHistory {
		if existing != videoID {
			history = append(history, existing)
		}
	}
	if len(history) > 100 {
		history = history[:100]
	}
	user.WatchHistory = history
	s.users[id] = user
	return nil
}

func (s *memStore) WatchHistory(_ context.Context, id string) ([]models.WatchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	var entries []models.WatchHistoryEntry
	for _, videoID := range user.WatchHistory {
		video, ok := s.videos[videoID]
		if !ok {
			continue
		}
		owner := s.users[video.OwnerID]
		entries = append(entries, models.WatchHistoryEntry{
			Video: video,
			Owner: models.OwnerSummary{Username: owner.Username, FullName: owner.FullName, Avatar: owner.Avatar},
		})
	}
	return entries, nil
}

func (s *memStore) ChannelProfile(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username != username {
			continue
		}
		profile := models.ChannelProfile{
			ID:         user.ID,
			Username:   user.Username,
			FullName:   user.FullName,
			Email:      user.Email,
			Avatar:     user.Avatar,
			CoverImage: user.CoverImage,
		}
		for _, sub := range s.subscriptions {
			if sub.ChannelID == user.ID {
				profile.SubscriberCount++
				if sub.SubscriberID == viewerID {
					profile.IsSubscribed = true
				}
			}
			if sub.SubscriberID == user.ID {
				profile.SubscribedTo++
			}
		}
		return profile, nil
	}
	return models.ChannelProfile{}, repositories.ErrNotFound
}

type memVideoStore struct{ *memStore }

func (s memVideoStore) Create(_ context.Context, video models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[video.ID] = video
	return nil
}

func (s memVideoStore) FindByID(_ context.Context, id string) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s memVideoStore) ListByOwner(_ context.Context, ownerID, requesterID string, params repositories.ListParams) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var videos []models.Video
	for _, video := range s.videos {
		if video.OwnerID == ownerID && (video.IsPublished || video.OwnerID == requesterID) {
			videos = append(videos, video)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		if params.SortDesc {
			return videos[i].CreatedAt.After(videos[j].CreatedAt)
		}
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
	offset := params.Offset()
	if offset >= len(videos) {
		return nil, nil
	}
	end := offset + params.Limit
	if end > len(videos) {
		end = len(videos)
	}
	return videos[offset:end], nil
}

func (s memVideoStore) ListChannelVideos(_ context.Context, channelID string) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var videos []models.Video
	for _, video := range s.videos {
		if video.OwnerID == channelID {
			videos = append(videos, video)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	return videos, nil
}

func (s memVideoStore) Update(_ context.Context, id, ownerID string, update repositories.VideoUpdate) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok || video.OwnerID != ownerID {
		return models.Video{}, repositories.ErrNotFound
	}
	if update.Title != nil {
		video.Title = *update.Title
	}
	if update.Description != nil {
		video.Description = *update.Description
	}
	if update.Thumbnail != nil {
		video.Thumbnail = *update.Thumbnail
	}
	s.videos[id] = video
	return video, nil
}

func (s memVideoStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok || video.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	for commentID, comment := range s.comments {
		if comment.VideoID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

func (s memVideoStore) TogglePublish(_ context.Context, id, ownerID string) (models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok || video.OwnerID != ownerID {
		return models.Video{}, repositories.ErrNotFound
	}
	video.IsPublished = !video.IsPublished
	s.videos[id] = video
	return video, nil
}

func (s memVideoStore) IncrementViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

type memCommentStore struct{ *memStore }

func (s memCommentStore) Create(_ context.Context, comment models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[comment.VideoID]; !ok {
		return repositories.ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s memCommentStore) ListByVideo(_ context.Context, videoID string, params repositories.ListParams) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, comment := range s.comments {
		if comment.VideoID == videoID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if params.SortDesc {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	offset := params.Offset()
	if offset >= len(comments) {
		return nil, nil
	}
	end := offset + params.Limit
	if end > len(comments) {
		end = len(comments)
	}
	return comments[offset:end], nil
}

func (s memCommentStore) Update(_ context.Context, id, ownerID, content string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok || comment.OwnerID != ownerID {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s memCommentStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok || comment.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

type memLikeStore struct{ *memStore }

func likeKey(like models.Like) string {
	return fmt.Sprintf("%s:%s:%s", like.TargetKind, like.TargetID, like.LikedBy)
}

func (s memLikeStore) Toggle(_ context.Context, like models.Like) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey(like)
	if _, ok := s.likes[key]; ok {
		delete(s.likes, key)
		return false, nil
	}
	s.likes[key] = like
	return true, nil
}

func (s memLikeStore) ListLikedVideos(_ context.Context, userID string) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var liked []models.Like
	for _, like := range s.likes {
		if like.LikedBy == userID && like.TargetKind == models.LikeTargetVideo {
			liked = append(liked, like)
		}
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i].CreatedAt.After(liked[j].CreatedAt) })
	var videos []models.Video
	for _, like := range liked {
		if video, ok := s.videos[like.TargetID]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

type memPlaylistStore struct{ *memStore }

func (s memPlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s memPlaylistStore) FindByID(_ context.Context, id, ownerID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s memPlaylistStore) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var playlists []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			playlists = append(playlists, playlist)
		}
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].CreatedAt.After(playlists[j].CreatedAt) })
	return playlists, nil
}

func (s memPlaylistStore) Update(_ context.Context, id, ownerID string, name, description *string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return models.Playlist{}, repositories.ErrNotFound
	}
	if name != nil {
		playlist.Name = *name
	}
	if description != nil {
		playlist.Description = *description
	}
	s.playlists[id] = playlist
	return playlist, nil
}

func (s memPlaylistStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s memPlaylistStore) AddVideo(_ context.Context, id, ownerID, videoID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return models.Playlist{}, repositories.ErrNotFound
	}
	for _, existing := range playlist.VideoIDs {
		if existing == videoID {
			return playlist, nil
		}
	}
	playlist.VideoIDs = append(playlist.VideoIDs, videoID)
	s.playlists[id] = playlist
	return playlist, nil
}

func (s memPlaylistStore) RemoveVideo(_ context.Context, id, ownerID, videoID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playlist, ok := s.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return models.Playlist{}, repositories.ErrNotFound
	}
	var remaining []string
	for _, existing := range playlist.VideoIDs {
		if existing != videoID {
			remaining = append(remaining, existing)
		}
	}
	playlist.VideoIDs = remaining
	s.playlists[id] = playlist
	return playlist, nil
}

type memSubscriptionStore struct{ *memStore }

func subscriptionKey(sub models.Subscription) string {
	return sub.ChannelID + ":" + sub.SubscriberID
}

func (s memSubscriptionStore) Toggle(_ context.Context, sub models.Subscription) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subscriptionKey(sub)
	if _, ok := s.subscriptions[key]; ok {
		delete(s.subscriptions, key)
		return false, nil
	}
	s.subscriptions[key] = sub
	return true, nil
}

func (s memSubscriptionStore) CountSubscribers(_ context.Context, channelID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (s memSubscriptionStore) ListSubscribedChannels(_ context.Context, subscriberID string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var channels []models.User
	for _, sub := range s.subscriptions {
		if sub.SubscriberID == subscriberID {
			if user, ok := s.users[sub.ChannelID]; ok {
				channels = append(channels, user)
			}
		}
	}
	return channels, nil
}

type memTweetStore struct{ *memStore }

func (s memTweetStore) Create(_ context.Context, tweet models.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s memTweetStore) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tweets []models.Tweet
	for _, tweet := range s.tweets {
		if tweet.OwnerID == ownerID {
			tweets = append(tweets, tweet)
		}
	}
	sort.Slice(tweets, func(i, j int) bool { return tweets[i].CreatedAt.After(tweets[j].CreatedAt) })
	return tweets, nil
}

func (s memTweetStore) Update(_ context.Context, id, ownerID, content string) (models.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tweet, ok := s.tweets[id]
	if !ok || tweet.OwnerID != ownerID {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s memTweetStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tweet, ok := s.tweets[id]
	if !ok || tweet.OwnerID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

type memStatsStore struct{ *memStore }

func (s memStatsStore) ChannelStats(_ context.Context, channelID string) (models.ChannelStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.ChannelStats{}
	for _, like := range s.likes {
		if like.LikedBy == channelID {
			stats.TotalLikes++
		}
	}
	for _, video := range s.videos {
		if video.OwnerID == channelID {
			stats.TotalVideos++
			stats.TotalViews += video.Views
		}
	}
	for _, sub := range s.subscriptions {
		if sub.ChannelID == channelID {
			stats.TotalSubscribers++
		}
	}
	return stats, nil
}

// memMediaStore records uploads and returns deterministic URLs.
type memMediaStore struct {
	mu    sync.Mutex
	saved []string
}

func (s *memMediaStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, name)
	return "https://cdn.test/" + strings.TrimLeft(name, "/"), nil
}
