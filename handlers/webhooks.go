// handlers/webhooks.go
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-github/v66/github"

	"gitwork/services"
	"gitwork/utils"
)

// WebhookHandler is the event router: it authenticates inbound GitHub
// deliveries and demultiplexes (event, action) pairs onto lifecycle engine
// entry points. Every entry point is idempotent, so GitHub's at-least-once
// delivery is safe to replay.
type WebhookHandler struct {
	Bounties *services.BountyService
	secret   []byte
}

func NewWebhookHandler(bounties *services.BountyService, secret string) *WebhookHandler {
	return &WebhookHandler{Bounties: bounties, secret: []byte(secret)}
}

func SetupWebhookRoutes(app *fiber.App, h *WebhookHandler) {
	app.Post("/api/webhooks/github", h.HandleGitHubWebhook)
	app.Get("/api/webhooks/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "GitWork Webhooks"})
	})
}

// HandleGitHubWebhook verifies the HMAC-SHA256 signature (constant-time
// comparison inside the signing library) before any side effect. Unrecognized
// event/action pairs are a 200 no-op; engine failures return 500 so GitHub
// redelivers into the idempotent entry points.
func (h *WebhookHandler) HandleGitHubWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Hub-Signature-256")
	eventName := c.Get("X-GitHub-Event")
	deliveryID := c.Get("X-GitHub-Delivery")

	if err := github.ValidateSignature(signature, body, h.secret); err != nil {
		log.Printf("🚫 Rejected webhook delivery %s: %v", deliveryID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	payload, err := github.ParseWebHook(eventName, body)
	if err != nil {
		// Event types we don't care about are ignored, not errors.
		return c.SendString("OK")
	}

	ctx := c.UserContext()

	switch event := payload.(type) {
	case *github.InstallationEvent:
		switch event.GetAction() {
		case "created":
			err = h.Bounties.ProcessInstallation(ctx,
				event.GetInstallation().GetID(),
				event.GetInstallation().GetAccount().GetLogin(),
				event.GetInstallation().GetAccount().GetType())
		case "deleted":
			err = h.Bounties.ProcessUninstallation(ctx,
				event.GetInstallation().GetID(),
				event.GetInstallation().GetAccount().GetLogin())
		}

	case *github.IssuesEvent:
		switch event.GetAction() {
		case "labeled":
			log.Printf("🏷️  Issue #%d labeled with: %s", event.GetIssue().GetNumber(), event.GetLabel().GetName())
			if utils.HasBountyLabelPrefix(event.GetLabel().GetName()) {
				_, err = h.Bounties.ProcessLabeledIssue(ctx, services.LabeledIssue{
					IssueID:        event.GetIssue().GetID(),
					Owner:          event.GetRepo().GetOwner().GetLogin(),
					Repo:           event.GetRepo().GetName(),
					IssueNumber:    event.GetIssue().GetNumber(),
					Labels:         labelNames(event.GetIssue().Labels),
					InstallationID: event.GetInstallation().GetID(),
				})
			}
		case "unlabeled":
			if utils.HasBountyLabelPrefix(event.GetLabel().GetName()) {
				log.Printf("🗑️  Bounty label removed from issue #%d", event.GetIssue().GetNumber())
				err = h.Bounties.CancelBounty(ctx, services.UnlabeledIssue{
					Owner:          event.GetRepo().GetOwner().GetLogin(),
					Repo:           event.GetRepo().GetName(),
					IssueNumber:    event.GetIssue().GetNumber(),
					InstallationID: event.GetInstallation().GetID(),
				})
			}
		case "closed":
			err = h.Bounties.HandleIssueClosed(ctx, services.ClosedIssue{
				Owner:          event.GetRepo().GetOwner().GetLogin(),
				Repo:           event.GetRepo().GetName(),
				IssueNumber:    event.GetIssue().GetNumber(),
				InstallationID: event.GetInstallation().GetID(),
			})
		}

	case *github.PullRequestEvent:
		pr := event.GetPullRequest()
		switch {
		case event.GetAction() == "opened":
			err = h.Bounties.ProcessOpenedPullRequest(ctx, services.OpenedPullRequest{
				Owner:          event.GetRepo().GetOwner().GetLogin(),
				Repo:           event.GetRepo().GetName(),
				Number:         pr.GetNumber(),
				Title:          pr.GetTitle(),
				Body:           pr.GetBody(),
				InstallationID: event.GetInstallation().GetID(),
			})
		case event.GetAction() == "closed" && pr.GetMerged():
			log.Printf("🎉 PR #%d merged by %s", pr.GetNumber(), pr.GetUser().GetLogin())
			err = h.Bounties.ProcessMergedPullRequest(ctx, services.MergedPullRequest{
				Owner:          event.GetRepo().GetOwner().GetLogin(),
				Repo:           event.GetRepo().GetName(),
				Number:         pr.GetNumber(),
				Title:          pr.GetTitle(),
				Body:           pr.GetBody(),
				AuthorLogin:    pr.GetUser().GetLogin(),
				InstallationID: event.GetInstallation().GetID(),
			})
		case event.GetAction() == "closed":
			log.Printf("⏭️  PR #%d closed but not merged", pr.GetNumber())
		}
	}

	if err != nil {
		log.Printf("❌ Error processing %s delivery %s: %v", eventName, deliveryID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook processing failed"})
	}
	return c.SendString("OK")
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}
