package handlers

import (
	"net/http/httptest"
	"testing"
)

func TestListParamsClamping(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
		wantDesc  bool
	}{
		{name: "defaults", target: "/api/v1/videos", wantPage: 1, wantLimit: 10, wantDesc: false},
		{name: "zero page", target: "/api/v1/videos?page=0&limit=-5", wantPage: 1, wantLimit: 10, wantDesc: false},
		{name: "negative page", target: "/api/v1/videos?page=-3", wantPage: 1, wantLimit: 10, wantDesc: false},
		{name: "oversized limit", target: "/api/v1/videos?limit=5000", wantPage: 1, wantLimit: 100, wantDesc: false},
		{name: "ascending", target: "/api/v1/videos?page=2&limit=25&sortType=asc", wantPage: 2, wantLimit: 25, wantDesc: false},
		{name: "descending", target: "/api/v1/videos?sortType=desc", wantPage: 1, wantLimit: 10, wantDesc: true},
		{name: "garbage numbers", target: "/api/v1/videos?page=abc&limit=xyz", wantPage: 1, wantLimit: 10, wantDesc: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			params := listParams(req)

			if params.Page != tc.wantPage {
				t.Fatalf("expected page %d got %d", tc.wantPage, params.Page)
			}
			if params.Limit != tc.wantLimit {
				t.Fatalf("expected limit %d got %d", tc.wantLimit, params.Limit)
			}
			if params.SortDesc != tc.wantDesc {
				t.Fatalf("expected sortDesc %v got %v", tc.wantDesc, params.SortDesc)
			}
		})
	}
}

func TestPathIDRejectsMalformed(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/videos/not-a-uuid", nil)
	req.SetPathValue("videoId", "not-a-uuid")

	if _, ok := pathID(req, "videoId"); ok {
		t.Fatal("expected malformed id to be rejected")
	}
}
