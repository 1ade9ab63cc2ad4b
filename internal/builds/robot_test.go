package builds_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourorg/releasectl/internal/builds"
)

const flexReleasesJSON = `{
  "production": {
    "8.3.0": {"fullImage": "full-830", "system": "sys-830", "version": "ver-830", "releaseNotes": "rn"},
    "8.4.0-alpha.0": {"fullImage": "full-a0", "system": "sys-a0", "version": "ver-a0", "releaseNotes": "rn"},
    "8.4.0-alpha.2": {"fullImage": "full-a2", "system": "sys-a2", "version": "ver-a2", "releaseNotes": "rn"},
    "8.2.0-beta.1": {"fullImage": "full-b1", "system": "sys-b1", "version": "ver-b1", "releaseNotes": "rn"},
    "8.1.0-rc.9": {"fullImage": "ignored", "system": "ignored", "version": "ignored", "releaseNotes": "rn"}
  }
}`

func TestFetchRobotReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/ot3-oe/"):
			if _, err := w.Write([]byte(flexReleasesJSON)); err != nil {
				t.Errorf("write response: %v", err)
			}
		case strings.HasPrefix(r.URL.Path, "/ot2-br/"):
			if _, err := w.Write([]byte(`{"production": {}}`)); err != nil {
				t.Errorf("write response: %v", err)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := builds.NewClient(builds.ClientConfig{BaseURL: server.URL})
	client.WithLimiter(rate.NewLimiter(rate.Inf, 0))
	client.WithSleeper(func(time.Duration) {})

	results := builds.FetchRobotReleases(context.Background(), client)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	flex := results[0]
	if flex.Label != "Flex" {
		t.Fatalf("first result = %q, want Flex", flex.Label)
	}
	if flex.Err != nil {
		t.Fatalf("Flex fetch failed: %v", flex.Err)
	}
	if rel := flex.Releases.LatestAlpha(); rel == nil || rel.Version != "8.4.0-alpha.2" {
		t.Fatalf("LatestAlpha = %+v", rel)
	}
	if rel := flex.Releases.LatestBeta(); rel == nil || rel.Version != "8.2.0-beta.1" {
		t.Fatalf("LatestBeta = %+v", rel)
	}
	if rel := flex.Releases.LatestStable(); rel == nil || rel.Version != "8.3.0" {
		t.Fatalf("LatestStable = %+v", rel)
	}

	// An empty production map is an error for that robot only.
	ot2 := results[1]
	if ot2.Label != "OT-2" {
		t.Fatalf("second result = %q, want OT-2", ot2.Label)
	}
	if ot2.Err == nil {
		t.Fatalf("OT-2 with no production entries should error")
	}
}

func TestReleaseSetDropsUnknownPrereleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(flexReleasesJSON)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := builds.NewClient(builds.ClientConfig{BaseURL: server.URL})
	client.WithLimiter(rate.NewLimiter(rate.Inf, 0))

	results := builds.FetchRobotReleases(context.Background(), client)
	set := results[0].Releases
	if got := len(set.Alphas) + len(set.Betas) + len(set.Stables); got != 4 {
		t.Fatalf("classified %d releases, want 4 (rc dropped)", got)
	}
}
