package builds

import (
	"context"
	"fmt"
	"net/url"
)

// GitHubAPIBaseURL is the REST endpoint release checks talk to.
const GitHubAPIBaseURL = "https://api.github.com"

// PullRequest is the subset of the GitHub pulls payload release checks need.
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	Draft   bool   `json:"draft"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
}

// OpenPullRequests lists the open pull requests targeting the base branch of
// owner/repo.
func (c *Client) OpenPullRequests(ctx context.Context, owner, repo, base string) ([]PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls?state=open&base=%s",
		url.PathEscape(owner), url.PathEscape(repo), url.QueryEscape(base))

	var pulls []PullRequest
	if err := c.GetJSON(ctx, path, &pulls); err != nil {
		return nil, fmt.Errorf("list open pull requests into %s: %w", base, err)
	}
	return pulls, nil
}
