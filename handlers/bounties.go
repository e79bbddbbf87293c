// handlers/bounties.go
package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"gitwork/db"
	"gitwork/models"
)

// BountyHandler serves the public read surface (search, stats) and the
// gateway-authenticated contributor profile.
type BountyHandler struct {
	Store *db.Store
}

func NewBountyHandler(store *db.Store) *BountyHandler {
	return &BountyHandler{Store: store}
}

func SetupBountyRoutes(app *fiber.App, authed fiber.Router, h *BountyHandler) {
	app.Get("/api/bounties/search", h.SearchBounties)
	app.Get("/api/bounties/stats", h.BountyStats)
	authed.Get("/profile", h.ContributorProfile)
}

type bountyView struct {
	ID          uint                `json:"id"`
	Owner       string              `json:"owner"`
	Repo        string              `json:"repo"`
	IssueNumber int                 `json:"issue_number"`
	IssueURL    string              `json:"issue_url"`
	Slug        string              `json:"slug"`
	Amount      decimal.Decimal     `json:"amount"`
	Currency    models.Currency     `json:"currency"`
	Status      models.BountyStatus `json:"status"`
	CreatedAt   string              `json:"created_at"`
}

func toBountyView(b models.Bounty) bountyView {
	return bountyView{
		ID:          b.ID,
		Owner:       b.GithubRepoOwner,
		Repo:        b.GithubRepoName,
		IssueNumber: b.GithubIssueNumber,
		IssueURL:    fmt.Sprintf("https://github.com/%s/%s/issues/%d", b.GithubRepoOwner, b.GithubRepoName, b.GithubIssueNumber),
		Slug:        slug.Make(fmt.Sprintf("%s %s %d", b.GithubRepoOwner, b.GithubRepoName, b.GithubIssueNumber)),
		Amount:      b.BountyAmount,
		Currency:    b.Currency,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// SearchBounties lists funded bounties, optionally filtered by a repo or
// owner substring. Pending and cancelled bounties are never listed.
func (h *BountyHandler) SearchBounties(c *fiber.Ctx) error {
	bounties, err := h.Store.SearchBounties(c.Query("q"), c.QueryInt("limit", 50))
	if err != nil {
		log.Printf("❌ Bounty search failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed"})
	}

	views := make([]bountyView, 0, len(bounties))
	for _, b := range bounties {
		views = append(views, toBountyView(b))
	}
	return c.JSON(fiber.Map{"bounties": views, "count": len(views)})
}

func (h *BountyHandler) BountyStats(c *fiber.Ctx) error {
	stats, err := h.Store.GetBountyStats()
	if err != nil {
		log.Printf("❌ Bounty stats failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "stats unavailable"})
	}
	return c.JSON(stats)
}

// ContributorProfile returns the authenticated contributor's claimed bounties
// with per-currency earnings totals.
func (h *BountyHandler) ContributorProfile(c *fiber.Ctx) error {
	login, _ := c.Locals("github_login").(string)
	if login == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated user"})
	}

	claimed, err := h.Store.ClaimedByContributor(login)
	if err != nil {
		log.Printf("❌ Profile lookup failed for %s: %v", login, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "profile unavailable"})
	}

	totals := map[models.Currency]decimal.Decimal{
		models.CurrencyUSDC: decimal.Zero,
		models.CurrencySOL:  decimal.Zero,
	}
	views := make([]bountyView, 0, len(claimed))
	for _, b := range claimed {
		totals[b.Currency] = totals[b.Currency].Add(b.BountyAmount)
		views = append(views, toBountyView(b))
	}

	return c.JSON(fiber.Map{
		"username":          login,
		"claimed_bounties":  views,
		"total_usdc_earned": totals[models.CurrencyUSDC],
		"total_sol_earned":  totals[models.CurrencySOL],
		"claimed_count":     len(views),
	})
}
