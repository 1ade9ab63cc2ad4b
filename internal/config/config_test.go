package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/yourorg/releasectl/internal/config"
	"github.com/yourorg/releasectl/internal/version"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

func TestDefaultReposEnumeration(t *testing.T) {
	repos := config.DefaultRepos()

	want := []string{"buildroot", "ot3-firmware", "oe-core", "opentrons"}
	if len(repos) != len(want) {
		t.Fatalf("DefaultRepos has %d entries, want %d", len(repos), len(want))
	}
	for i, name := range want {
		if repos[i].Name != name {
			t.Errorf("repos[%d].Name = %q, want %q", i, repos[i].Name, name)
		}
		if repos[i].URL == "" || repos[i].DefaultBranch == "" {
			t.Errorf("repo %q missing url or default branch", name)
		}
		if repos[i].ExternalPattern != "v" {
			t.Errorf("repo %q external pattern = %q, want v", name, repos[i].ExternalPattern)
		}
	}
}

func TestMonorepoUsesOT3Namespace(t *testing.T) {
	settings := config.Defaults()
	mono, ok := settings.Monorepo()
	if !ok {
		t.Fatalf("Monorepo not found in defaults")
	}
	if mono.InternalPattern != "ot3@" {
		t.Fatalf("monorepo internal pattern = %q, want ot3@", mono.InternalPattern)
	}
	if mono.DefaultBranch != "edge" {
		t.Fatalf("monorepo default branch = %q, want edge", mono.DefaultBranch)
	}
}

func TestTagPattern(t *testing.T) {
	repo := config.Repo{ExternalPattern: "v", InternalPattern: "internal@"}
	if got := repo.TagPattern(version.External); got != "v" {
		t.Fatalf("TagPattern(external) = %q", got)
	}
	if got := repo.TagPattern(version.Internal); got != "internal@" {
		t.Fatalf("TagPattern(internal) = %q", got)
	}
}

func TestCompareURL(t *testing.T) {
	repo := config.Repo{URL: "https://github.com/Opentrons/oe-core.git"}
	got := repo.CompareURL("v8.3.0", "chore_release-8.4.0")
	want := "https://github.com/Opentrons/oe-core/compare/v8.3.0...chore_release-8.4.0"
	if got != want {
		t.Fatalf("CompareURL = %q, want %q", got, want)
	}
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	setupHome(t)

	settings, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings.BuildsBaseURL != config.DefaultBuildsBaseURL {
		t.Fatalf("BuildsBaseURL = %q", settings.BuildsBaseURL)
	}
	if settings.InternalBuildsBaseURL != config.DefaultInternalBuildsBaseURL {
		t.Fatalf("InternalBuildsBaseURL = %q", settings.InternalBuildsBaseURL)
	}
	if len(settings.Repos) != 4 {
		t.Fatalf("expected 4 default repos, got %d", len(settings.Repos))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := setupHome(t)

	settings := config.Defaults()
	settings.WorkspaceRoot = "/src/robot-stack"
	settings.Repos = settings.Repos[:2]

	if err := config.Save(settings); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	configPath := filepath.Join(home, ".config", "releasectl", "config.yaml")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Fatalf("config file permissions = %o, want 600", mode)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.WorkspaceRoot != "/src/robot-stack" {
		t.Fatalf("WorkspaceRoot = %q", loaded.WorkspaceRoot)
	}
	if len(loaded.Repos) != 2 {
		t.Fatalf("expected 2 repos after round trip, got %d", len(loaded.Repos))
	}
	if loaded.Repos[0].Name != "buildroot" || loaded.Repos[0].DefaultBranch != "opentrons-develop" {
		t.Fatalf("first repo mangled: %+v", loaded.Repos[0])
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	setupHome(t)
	keyring.MockInit()

	const (
		profile = "default"
		token   = "ghp_test_token"
	)

	if err := config.SaveToken(profile, token); err != nil {
		t.Fatalf("SaveToken returned error: %v", err)
	}

	got, err := config.LoadToken(profile)
	if err != nil {
		t.Fatalf("LoadToken returned error: %v", err)
	}
	if got != token {
		t.Fatalf("LoadToken = %q, want %q", got, token)
	}
}

func TestSaveTokenValidation(t *testing.T) {
	keyring.MockInit()

	if err := config.SaveToken("default", "  "); err == nil {
		t.Fatalf("SaveToken accepted blank token")
	}
	if err := config.SaveToken("", "token"); err == nil {
		t.Fatalf("SaveToken accepted empty profile")
	}
}

func TestLoadTokenMissing(t *testing.T) {
	keyring.MockInit()

	if _, err := config.LoadToken("nobody"); err == nil {
		t.Fatalf("LoadToken for unknown profile expected error")
	}
}
