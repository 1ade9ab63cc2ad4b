package cmd

import (
	"fmt"

	"github.com/yourorg/releasectl/internal/builds"
	"github.com/yourorg/releasectl/internal/config"
)

var buildsClientFactory = defaultBuildsClientFactory

// defaultBuildsClientFactory returns a client for the public or internal
// builds endpoint per the loaded settings.
func defaultBuildsClientFactory(internal bool) (*builds.Client, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	base := settings.BuildsBaseURL
	if internal {
		base = settings.InternalBuildsBaseURL
	}
	return builds.NewClient(builds.ClientConfig{BaseURL: base}), nil
}

func buildBuildsClient(internal bool) (*builds.Client, error) {
	return buildsClientFactory(internal)
}

var githubClientFactory = defaultGitHubClientFactory

// defaultGitHubClientFactory returns an authenticated GitHub API client for
// the profile.
func defaultGitHubClientFactory(profile string) (*builds.Client, error) {
	token, err := config.LoadToken(profile)
	if err != nil {
		return nil, fmt.Errorf("load auth: %w", err)
	}
	return builds.NewClient(builds.ClientConfig{
		BaseURL: builds.GitHubAPIBaseURL,
		Token:   token,
	}), nil
}

func buildGitHubClient(profile string) (*builds.Client, error) {
	return githubClientFactory(profile)
}
