package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		AccessTokenSecret:  "access-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenTTL:    240 * time.Hour,
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
	}

	deps := buildDependencies(fakePool{}, nil, cfg)

	checks := map[string]bool{
		"users":         deps.Users != nil,
		"videos":        deps.Videos != nil,
		"comments":      deps.Comments != nil,
		"likes":         deps.Likes != nil,
		"playlists":     deps.Playlists != nil,
		"subscriptions": deps.Subscriptions != nil,
		"tweets":        deps.Tweets != nil,
		"stats":         deps.Stats != nil,
		"tokens":        deps.Tokens != nil,
		"login limiter": deps.LoginLimiter != nil,
	}
	for name, ok := range checks {
		if !ok {
			t.Fatalf("expected %s dependency to be configured", name)
		}
	}
}
