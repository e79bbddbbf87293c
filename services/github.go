// services/github.go
package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v66/github"
)

// GitHubNotifier implements Notifier with GitHub App installation auth: each
// outbound call authenticates as the installation that owns the target repo.
type GitHubNotifier struct {
	appID      int64
	privateKey []byte
}

// NewGitHubNotifier reads GITHUB_APP_ID and GITHUB_PRIVATE_KEY_PATH. Comments
// are the only channel users learn about domain failures through, so missing
// credentials are an error, not a degraded mode.
func NewGitHubNotifier() (*GitHubNotifier, error) {
	appIDStr := os.Getenv("GITHUB_APP_ID")
	if appIDStr == "" {
		return nil, fmt.Errorf("GITHUB_APP_ID environment variable not set")
	}
	appID, err := strconv.ParseInt(appIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_APP_ID %q: %w", appIDStr, err)
	}

	keyPath := os.Getenv("GITHUB_PRIVATE_KEY_PATH")
	if keyPath == "" {
		keyPath = "./private-key.pem"
	}
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read GitHub App private key: %w", err)
	}

	log.Println("✅ GitHub App credentials loaded")
	return &GitHubNotifier{appID: appID, privateKey: key}, nil
}

func (n *GitHubNotifier) clientFor(installationID int64) (*github.Client, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, n.appID, installationID, n.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build installation transport for %d: %w", installationID, err)
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}

// PostIssueComment posts a markdown comment on an issue or pull request (the
// issues API covers both).
func (n *GitHubNotifier) PostIssueComment(ctx context.Context, installationID int64, owner, repo string, issueNumber int, body string) error {
	client, err := n.clientFor(installationID)
	if err != nil {
		return err
	}

	_, _, err = client.Issues.CreateComment(ctx, owner, repo, issueNumber, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to post comment on %s/%s#%d: %w", owner, repo, issueNumber, err)
	}
	return nil
}
