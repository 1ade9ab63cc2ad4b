package builds

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/releasectl/internal/version"
)

// RobotRelease is one published system release for a robot product line.
type RobotRelease struct {
	Version      string
	FullImage    string
	System       string
	VersionURL   string
	ReleaseNotes string
}

// robotReleaseInfo mirrors one production entry of releases.json.
type robotReleaseInfo struct {
	FullImage    string `json:"fullImage"`
	System       string `json:"system"`
	Version      string `json:"version"`
	ReleaseNotes string `json:"releaseNotes"`
}

// robotReleasesDoc mirrors the top-level releases.json shape.
type robotReleasesDoc struct {
	Production map[string]robotReleaseInfo `json:"production"`
}

// ReleaseSet groups a robot's production releases by channel.
type ReleaseSet struct {
	Alphas  []RobotRelease
	Betas   []RobotRelease
	Stables []RobotRelease
}

// NewReleaseSet classifies the production map by semver prerelease tag.
// Entries with unrecognized versions or prerelease tags are dropped.
func NewReleaseSet(production map[string]robotReleaseInfo) ReleaseSet {
	var set ReleaseSet
	for ver, info := range production {
		release := RobotRelease{
			Version:      ver,
			FullImage:    info.FullImage,
			System:       info.System,
			VersionURL:   info.Version,
			ReleaseNotes: info.ReleaseNotes,
		}
		channel, err := version.Classify(ver)
		if err != nil {
			continue
		}
		switch channel {
		case version.ChannelAlpha:
			set.Alphas = append(set.Alphas, release)
		case version.ChannelBeta:
			set.Betas = append(set.Betas, release)
		case version.ChannelStable:
			set.Stables = append(set.Stables, release)
		}
	}
	return set
}

// LatestAlpha returns the highest-versioned alpha release, or nil.
func (s ReleaseSet) LatestAlpha() *RobotRelease { return latest(s.Alphas) }

// LatestBeta returns the highest-versioned beta release, or nil.
func (s ReleaseSet) LatestBeta() *RobotRelease { return latest(s.Betas) }

// LatestStable returns the highest-versioned stable release, or nil.
func (s ReleaseSet) LatestStable() *RobotRelease { return latest(s.Stables) }

func latest(releases []RobotRelease) *RobotRelease {
	var (
		best    *RobotRelease
		bestVer *semver.Version
	)
	for i := range releases {
		v, err := semver.NewVersion(releases[i].Version)
		if err != nil {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best = &releases[i]
			bestVer = v
		}
	}
	return best
}

// RobotTarget names one robot product line metadata document.
type RobotTarget struct {
	Label string
	Path  string
}

// RobotTargets enumerates the product lines in display order.
func RobotTargets() []RobotTarget {
	return []RobotTarget{
		{Label: "Flex", Path: "/ot3-oe/releases.json"},
		{Label: "OT-2", Path: "/ot2-br/releases.json"},
	}
}

// RobotResult pairs a robot with its fetched release set or error.
type RobotResult struct {
	Label    string
	Releases ReleaseSet
	Err      error
}

// FetchRobotReleases downloads every robot releases.json concurrently. A
// payload without production entries is an error for that robot.
func FetchRobotReleases(ctx context.Context, client *Client) []RobotResult {
	targets := RobotTargets()
	results := make([]RobotResult, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)

	for i, target := range targets {
		group.Go(func() error {
			var doc robotReleasesDoc
			err := client.GetJSON(groupCtx, target.Path, &doc)
			if err == nil && len(doc.Production) == 0 {
				err = fmt.Errorf("no production entries in %s", target.Path)
			}
			result := RobotResult{Label: target.Label, Err: err}
			if err == nil {
				result.Releases = NewReleaseSet(doc.Production)
			}
			results[i] = result
			return nil
		})
	}

	// Failures are recorded per robot, never returned.
	_ = group.Wait()
	return results
}
