package cmd

import "testing"

func TestOwnerRepoFromURL(t *testing.T) {
	tests := []struct {
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{url: "https://github.com/Opentrons/opentrons.git", owner: "Opentrons", repo: "opentrons"},
		{url: "https://github.com/Opentrons/ot3-firmware", owner: "Opentrons", repo: "ot3-firmware"},
		{url: "git@gitlab.com:group/project.git", wantErr: true},
		{url: "https://github.com/Opentrons", wantErr: true},
	}

	for _, tt := range tests {
		owner, repo, err := ownerRepoFromURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ownerRepoFromURL(%q) expected an error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ownerRepoFromURL(%q): %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ownerRepoFromURL(%q) = %s/%s, want %s/%s", tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
}
