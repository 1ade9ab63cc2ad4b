package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/yourorg/releasectl/internal/version"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd
}

func TestResolveInputsDefaultsWithoutTerminal(t *testing.T) {
	opts := &reposSyncOptions{}

	rt, st, base, err := opts.resolveInputs(newTestCommand())
	if err != nil {
		t.Fatalf("resolveInputs returned error: %v", err)
	}
	if rt != version.External {
		t.Fatalf("release type = %q, want external", rt)
	}
	if st != version.Unstable {
		t.Fatalf("stability = %q, want unstable", st)
	}
	if base != defaultBaseVersion {
		t.Fatalf("base = %q, want %q", base, defaultBaseVersion)
	}
}

func TestResolveInputsNormalizesVersion(t *testing.T) {
	opts := &reposSyncOptions{
		releaseType: "internal",
		stability:   "stable",
		baseVersion: "8.2.0",
	}

	rt, st, base, err := opts.resolveInputs(newTestCommand())
	if err != nil {
		t.Fatalf("resolveInputs returned error: %v", err)
	}
	if rt != version.Internal || st != version.Stable {
		t.Fatalf("parsed %q/%q", rt, st)
	}
	if base != "v8.2.0" {
		t.Fatalf("base = %q, want v8.2.0", base)
	}
}

func TestResolveInputsRejectsUnknownReleaseType(t *testing.T) {
	opts := &reposSyncOptions{releaseType: "nightly"}

	_, _, _, err := opts.resolveInputs(newTestCommand())
	if err == nil || !strings.Contains(err.Error(), "release type") {
		t.Fatalf("expected release type error, got %v", err)
	}
}
