// Package version implements tag and branch naming rules for the robot stack
// release trains.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ReleaseType selects which tag namespace a release cut publishes into.
type ReleaseType string

const (
	// External releases tag with the public v* namespace.
	External ReleaseType = "external"
	// Internal releases tag with the internal@ / ot3@ namespaces.
	Internal ReleaseType = "internal"
)

// ParseReleaseType validates a user-supplied release type string.
func ParseReleaseType(s string) (ReleaseType, error) {
	switch ReleaseType(strings.ToLower(strings.TrimSpace(s))) {
	case External:
		return External, nil
	case Internal:
		return Internal, nil
	default:
		return "", fmt.Errorf("release type must be %q or %q, got %q", Internal, External, s)
	}
}

// Stability marks whether a release cut targets a stable train.
type Stability string

const (
	Stable   Stability = "stable"
	Unstable Stability = "unstable"
)

// ParseStability validates a user-supplied stability string.
func ParseStability(s string) (Stability, error) {
	switch Stability(strings.ToLower(strings.TrimSpace(s))) {
	case Stable:
		return Stable, nil
	case Unstable:
		return Unstable, nil
	default:
		return "", fmt.Errorf("stability must be %q or %q, got %q", Stable, Unstable, s)
	}
}

// Normalize trims a base version and guarantees the leading "v" the tag
// conventions expect.
func Normalize(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if !strings.HasPrefix(base, "v") {
		base = "v" + base
	}
	return base
}

// Bare strips the leading "v" from a normalized base version.
func Bare(base string) string {
	return strings.TrimPrefix(Normalize(base), "v")
}

// ChoreBranch returns the chore_release branch name for a base version.
func ChoreBranch(base string) string {
	return "chore_release-" + Bare(base)
}

const choreBranchPrefix = "chore_release-"

// ChoreBranchVersion parses the semver suffix of a chore_release branch name.
// Branches whose suffix is not a plain dotted-numeric version are rejected.
func ChoreBranchVersion(branch string) (*semver.Version, bool) {
	suffix, ok := strings.CutPrefix(branch, choreBranchPrefix)
	if !ok {
		return nil, false
	}
	if strings.Trim(suffix, "0123456789.") != "" {
		return nil, false
	}
	v, err := semver.StrictNewVersion(suffix)
	if err != nil {
		return nil, false
	}
	return v, true
}

// LatestChoreBranch picks the highest-versioned chore_release branch from the
// provided branch names, or "" when none qualify.
func LatestChoreBranch(branches []string) string {
	var (
		best    *semver.Version
		bestRef string
	)
	for _, branch := range branches {
		v, ok := ChoreBranchVersion(branch)
		if !ok {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRef = branch
		}
	}
	return bestRef
}

// Channel identifies a release channel derived from a version's prerelease tag.
type Channel string

const (
	ChannelAlpha  Channel = "alpha"
	ChannelBeta   Channel = "beta"
	ChannelStable Channel = "stable"
)

// Classify maps a version string onto its release channel. Versions without a
// prerelease component are stable; unknown prerelease tags are rejected.
func Classify(raw string) (Channel, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return "", fmt.Errorf("parse version %q: %w", raw, err)
	}
	pre := v.Prerelease()
	if pre == "" {
		return ChannelStable, nil
	}
	tag, _, _ := strings.Cut(pre, ".")
	switch Channel(tag) {
	case ChannelAlpha:
		return ChannelAlpha, nil
	case ChannelBeta:
		return ChannelBeta, nil
	default:
		return "", fmt.Errorf("unknown prerelease tag %q in %q", tag, raw)
	}
}

// PlannedTag builds the tag a repository should receive for a release. The tag
// is the repository's pattern for the chosen release type followed by the bare
// version: v8.4.0, internal@8.4.0, ot3@8.4.0.
func PlannedTag(pattern, base string) string {
	if pattern == "v" {
		return Normalize(base)
	}
	return pattern + Bare(base)
}

// TagVersion extracts the semver component of a tag carrying the given
// pattern prefix. Tags outside the pattern or without a parseable version
// report ok=false.
func TagVersion(pattern, tag string) (*semver.Version, bool) {
	rest, ok := strings.CutPrefix(tag, pattern)
	if !ok {
		return nil, false
	}
	rest = strings.TrimPrefix(rest, "v")
	v, err := semver.NewVersion(rest)
	if err != nil {
		return nil, false
	}
	return v, true
}

// GreaterExisting returns the existing tags that sort above the planned tag
// for the same pattern. A non-empty result means the planned tag must not be
// pushed (checklist: validate no tags greater than the proper version exist).
func GreaterExisting(pattern, planned string, existing []string) []string {
	plannedVer, ok := TagVersion(pattern, planned)
	if !ok {
		return nil
	}
	var greater []string
	for _, tag := range existing {
		v, ok := TagVersion(pattern, tag)
		if !ok {
			continue
		}
		if v.GreaterThan(plannedVer) {
			greater = append(greater, tag)
		}
	}
	return greater
}
