// Package config manages disk and keyring state for releasectl profiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/yourorg/releasectl/internal/version"
)

const (
	serviceName = "releasectl"

	dirPermissions  = 0o700
	filePermissions = 0o600

	// DefaultBuildsBaseURL serves the public release metadata.
	DefaultBuildsBaseURL = "https://builds.opentrons.com"
	// DefaultInternalBuildsBaseURL serves the internal (ot3-development) metadata.
	DefaultInternalBuildsBaseURL = "https://ot3-development.builds.opentrons.com"
)

// Repo describes one sibling repository of the robot stack.
type Repo struct {
	Name            string `mapstructure:"name" json:"name"`
	URL             string `mapstructure:"url" json:"url"`
	Path            string `mapstructure:"path" json:"path"`
	DefaultBranch   string `mapstructure:"default_branch" json:"default_branch"`
	ExternalPattern string `mapstructure:"external_pattern" json:"external_pattern"`
	InternalPattern string `mapstructure:"internal_pattern" json:"internal_pattern"`
}

// TagPattern selects the tag namespace for a release type.
func (r Repo) TagPattern(rt version.ReleaseType) string {
	if rt == version.Internal {
		return r.InternalPattern
	}
	return r.ExternalPattern
}

// Patterns lists both tag namespaces in external, internal order.
func (r Repo) Patterns() []string {
	return []string{r.ExternalPattern, r.InternalPattern}
}

// CompareURL builds the GitHub compare link from a tag to a branch head.
func (r Repo) CompareURL(tag, branch string) string {
	base := strings.TrimSuffix(r.URL, ".git")
	return fmt.Sprintf("%s/compare/%s...%s", base, tag, branch)
}

// Settings is the full configuration releasectl runs with.
type Settings struct {
	WorkspaceRoot         string `mapstructure:"workspace_root" json:"workspace_root"`
	BuildsBaseURL         string `mapstructure:"builds_base_url" json:"builds_base_url"`
	InternalBuildsBaseURL string `mapstructure:"internal_builds_base_url" json:"internal_builds_base_url"`
	Repos                 []Repo `mapstructure:"repos" json:"repos"`
}

// RepoNamed looks a repository up by name.
func (s Settings) RepoNamed(name string) (Repo, bool) {
	for _, r := range s.Repos {
		if r.Name == name {
			return r, true
		}
	}
	return Repo{}, false
}

// Monorepo returns the opentrons monorepo entry; release check and planning
// treat it specially because it carries the ot3@ namespace.
func (s Settings) Monorepo() (Repo, bool) {
	return s.RepoNamed("opentrons")
}

// DefaultRepos reproduces the canonical sibling repository table.
func DefaultRepos() []Repo {
	return []Repo{
		{
			Name:            "buildroot",
			URL:             "https://github.com/Opentrons/buildroot.git",
			Path:            "buildroot",
			DefaultBranch:   "opentrons-develop",
			ExternalPattern: "v",
			InternalPattern: "internal@",
		},
		{
			Name:            "ot3-firmware",
			URL:             "https://github.com/Opentrons/ot3-firmware.git",
			Path:            "ot3-firmware",
			DefaultBranch:   "main",
			ExternalPattern: "v",
			InternalPattern: "internal@",
		},
		{
			Name:            "oe-core",
			URL:             "https://github.com/Opentrons/oe-core.git",
			Path:            "oe-core",
			DefaultBranch:   "main",
			ExternalPattern: "v",
			InternalPattern: "internal@",
		},
		{
			Name:            "opentrons",
			URL:             "https://github.com/Opentrons/opentrons.git",
			Path:            "opentrons",
			DefaultBranch:   "edge",
			ExternalPattern: "v",
			InternalPattern: "ot3@",
		},
	}
}

// Defaults returns the built-in settings used when no config file exists.
func Defaults() Settings {
	return Settings{
		WorkspaceRoot:         ".",
		BuildsBaseURL:         DefaultBuildsBaseURL,
		InternalBuildsBaseURL: DefaultInternalBuildsBaseURL,
		Repos:                 DefaultRepos(),
	}
}

// configDir returns the directory where we persist structured configuration.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "releasectl"), nil
}

// ensureConfigDir ensures the configuration directory exists with restricted permissions.
func ensureConfigDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// FilePath returns the location of the config file, creating its directory.
func FilePath() (string, error) {
	dir, err := ensureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads settings from ~/.config/releasectl/config.yaml, falling back to
// the built-in defaults for any key the file does not set.
func Load() (Settings, error) {
	dir, err := ensureConfigDir()
	if err != nil {
		return Settings{}, err
	}

	cfg := viper.New()
	configPath := filepath.Join(dir, "config.yaml")
	cfg.SetConfigFile(configPath)

	defaults := Defaults()
	cfg.SetDefault("workspace_root", defaults.WorkspaceRoot)
	cfg.SetDefault("builds_base_url", defaults.BuildsBaseURL)
	cfg.SetDefault("internal_builds_base_url", defaults.InternalBuildsBaseURL)

	readErr := cfg.ReadInConfig()
	if readErr != nil && !isConfigNotFound(readErr) {
		return Settings{}, fmt.Errorf("read config: %w", readErr)
	}

	var settings Settings
	if err := cfg.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if len(settings.Repos) == 0 {
		settings.Repos = defaults.Repos
	}
	return settings, nil
}

// Save persists settings to the config file with restricted permissions.
func Save(settings Settings) error {
	dir, err := ensureConfigDir()
	if err != nil {
		return err
	}

	cfg := viper.New()
	configPath := filepath.Join(dir, "config.yaml")
	cfg.SetConfigFile(configPath)

	cfg.Set("workspace_root", settings.WorkspaceRoot)
	cfg.Set("builds_base_url", settings.BuildsBaseURL)
	cfg.Set("internal_builds_base_url", settings.InternalBuildsBaseURL)

	repos := make([]map[string]string, 0, len(settings.Repos))
	for _, r := range settings.Repos {
		repos = append(repos, map[string]string{
			"name":             r.Name,
			"url":              r.URL,
			"path":             r.Path,
			"default_branch":   r.DefaultBranch,
			"external_pattern": r.ExternalPattern,
			"internal_pattern": r.InternalPattern,
		})
	}
	cfg.Set("repos", repos)

	if err := cfg.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(configPath, filePermissions); err != nil {
		return fmt.Errorf("restrict config permissions: %w", err)
	}
	return nil
}

// SaveToken stores the GitHub API token for the provided profile in the OS keyring.
func SaveToken(profile, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if profile == "" {
		return errors.New("profile name cannot be empty")
	}
	if err := keyring.Set(serviceName, profile, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// LoadToken returns the stored GitHub token for a profile.
func LoadToken(profile string) (string, error) {
	if profile == "" {
		return "", errors.New("profile name cannot be empty")
	}
	token, err := keyring.Get(serviceName, profile)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("load token: no stored credentials for profile %q", profile)
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func isConfigNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}
