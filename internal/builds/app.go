package builds

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds the parallel manifest downloads.
const fetchConcurrency = 4

// AppFile is one downloadable artifact listed in an app channel manifest.
type AppFile struct {
	URL    string `yaml:"url"`
	SHA512 string `yaml:"sha512"`
	Size   int64  `yaml:"size"`
}

// complete reports whether the entry carries every required field.
func (f AppFile) complete() bool {
	return f.URL != "" && f.SHA512 != "" && f.Size > 0
}

// AppManifest is the electron-updater YAML document published per channel and
// platform. Unknown fields are ignored.
type AppManifest struct {
	Version      string    `yaml:"version"`
	Files        []AppFile `yaml:"files"`
	Path         string    `yaml:"path"`
	SHA512       string    `yaml:"sha512"`
	ReleaseNotes string    `yaml:"releaseNotes"`
	ReleaseDate  string    `yaml:"releaseDate"`
}

// ReleaseTime parses the manifest's release date, or reports ok=false when it
// is absent or malformed.
func (m AppManifest) ReleaseTime() (time.Time, bool) {
	if m.ReleaseDate == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, m.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// AppChannel names one published manifest location.
type AppChannel struct {
	Label string
	Path  string
}

// AppChannels enumerates the nine channel/platform manifests in display order.
func AppChannels() []AppChannel {
	return []AppChannel{
		{Label: "Alpha (Windows)", Path: "/app/alpha.yml"},
		{Label: "Alpha (Mac)", Path: "/app/alpha-mac.yml"},
		{Label: "Alpha (Linux)", Path: "/app/alpha-linux.yml"},
		{Label: "Beta (Windows)", Path: "/app/beta.yml"},
		{Label: "Beta (Mac)", Path: "/app/beta-mac.yml"},
		{Label: "Beta (Linux)", Path: "/app/beta-linux.yml"},
		{Label: "Latest (Windows)", Path: "/app/latest.yml"},
		{Label: "Latest (Mac)", Path: "/app/latest-mac.yml"},
		{Label: "Latest (Linux)", Path: "/app/latest-linux.yml"},
	}
}

// AppResult pairs a channel with its fetched manifest or error.
type AppResult struct {
	Label    string
	Manifest AppManifest
	Err      error
}

// FetchAppManifests downloads every channel manifest concurrently. A failed
// channel yields an error result; it does not abort the other fetches.
func FetchAppManifests(ctx context.Context, client *Client) []AppResult {
	channels := AppChannels()
	results := make([]AppResult, len(channels))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)

	for i, channel := range channels {
		group.Go(func() error {
			var manifest AppManifest
			err := client.GetYAML(groupCtx, channel.Path, &manifest)
			if err == nil {
				manifest.Files = completeFiles(manifest.Files)
			}
			results[i] = AppResult{Label: channel.Label, Manifest: manifest, Err: err}
			return nil
		})
	}

	// Failures are recorded per channel, never returned.
	_ = group.Wait()
	return results
}

// completeFiles drops file entries missing url, sha512 or size.
func completeFiles(files []AppFile) []AppFile {
	kept := files[:0]
	for _, f := range files {
		if f.complete() {
			kept = append(kept, f)
		}
	}
	return kept
}
