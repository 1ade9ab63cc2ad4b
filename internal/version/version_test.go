package version_test

import (
	"testing"

	"github.com/yourorg/releasectl/internal/version"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"8.4.0", "v8.4.0"},
		{"v8.4.0", "v8.4.0"},
		{" 8.4.0 ", "v8.4.0"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := version.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChoreBranch(t *testing.T) {
	if got, want := version.ChoreBranch("v8.4.0"), "chore_release-8.4.0"; got != want {
		t.Fatalf("ChoreBranch = %q, want %q", got, want)
	}
	if got, want := version.ChoreBranch("8.4.0"), "chore_release-8.4.0"; got != want {
		t.Fatalf("ChoreBranch = %q, want %q", got, want)
	}
}

func TestLatestChoreBranch(t *testing.T) {
	branches := []string{
		"chore_release-8.1.0",
		"chore_release-8.4.0",
		"chore_release-8.2.1",
		"chore_release-notes",
		"edge",
	}
	if got, want := version.LatestChoreBranch(branches), "chore_release-8.4.0"; got != want {
		t.Fatalf("LatestChoreBranch = %q, want %q", got, want)
	}
	if got := version.LatestChoreBranch([]string{"main"}); got != "" {
		t.Fatalf("LatestChoreBranch with no candidates = %q, want empty", got)
	}
}

func TestChoreBranchVersionRejectsNonNumericSuffix(t *testing.T) {
	for _, branch := range []string{"chore_release-notes", "chore_release-8.4.0-rc1", "release-8.4.0"} {
		if _, ok := version.ChoreBranchVersion(branch); ok {
			t.Errorf("ChoreBranchVersion(%q) accepted, want rejected", branch)
		}
	}
	if _, ok := version.ChoreBranchVersion("chore_release-8.4.0"); !ok {
		t.Fatalf("ChoreBranchVersion rejected a valid branch")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in      string
		want    version.Channel
		wantErr bool
	}{
		{"8.4.0", version.ChannelStable, false},
		{"8.4.0-alpha.2", version.ChannelAlpha, false},
		{"8.4.0-beta.0", version.ChannelBeta, false},
		{"8.4.0-rc.1", "", true},
		{"not-a-version", "", true},
	}
	for _, tc := range cases {
		got, err := version.Classify(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Classify(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Classify(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlannedTag(t *testing.T) {
	cases := []struct {
		pattern string
		base    string
		want    string
	}{
		{"v", "8.4.0", "v8.4.0"},
		{"v", "v8.4.0", "v8.4.0"},
		{"internal@", "v8.4.0", "internal@8.4.0"},
		{"ot3@", "8.4.0-alpha.1", "ot3@8.4.0-alpha.1"},
	}
	for _, tc := range cases {
		if got := version.PlannedTag(tc.pattern, tc.base); got != tc.want {
			t.Errorf("PlannedTag(%q, %q) = %q, want %q", tc.pattern, tc.base, got, tc.want)
		}
	}
}

func TestGreaterExisting(t *testing.T) {
	existing := []string{"v8.3.0", "v8.4.1", "v8.5.0-alpha.0", "internal@9.0.0", "vgarbage"}

	greater := version.GreaterExisting("v", "v8.4.0", existing)
	if len(greater) != 2 {
		t.Fatalf("GreaterExisting = %v, want 2 entries", greater)
	}

	// internal@ tags are a separate namespace and must not block a v tag.
	if got := version.GreaterExisting("v", "v9.1.0", existing); got != nil {
		t.Fatalf("GreaterExisting above all = %v, want none", got)
	}
}

func TestParseReleaseType(t *testing.T) {
	if _, err := version.ParseReleaseType("Internal "); err != nil {
		t.Fatalf("ParseReleaseType rejected internal: %v", err)
	}
	if _, err := version.ParseReleaseType("nightly"); err == nil {
		t.Fatalf("ParseReleaseType accepted nightly")
	}
}

func TestParseStability(t *testing.T) {
	if _, err := version.ParseStability("stable"); err != nil {
		t.Fatalf("ParseStability rejected stable: %v", err)
	}
	if _, err := version.ParseStability("flaky"); err == nil {
		t.Fatalf("ParseStability accepted flaky")
	}
}
