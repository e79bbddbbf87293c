// handlers/claim.go
package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gitwork/services"
)

// ClaimHandler exposes the payout surface. Requests arrive through the
// service gateway, which resolves the GitHub identity of the caller before
// proxying here.
type ClaimHandler struct {
	Bounties *services.BountyService
}

func NewClaimHandler(bounties *services.BountyService) *ClaimHandler {
	return &ClaimHandler{Bounties: bounties}
}

func SetupClaimRoutes(group fiber.Router, h *ClaimHandler) {
	group.Post("/claim/:bountyId", h.ClaimBounty)
}

type claimRequest struct {
	WalletAddress string `json:"wallet_address"`
}

func (h *ClaimHandler) ClaimBounty(c *fiber.Ctx) error {
	login, _ := c.Locals("github_login").(string)
	if login == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authenticated user"})
	}

	bountyID, err := strconv.ParseUint(c.Params("bountyId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid bounty id"})
	}

	var req claimRequest
	if err := c.BodyParser(&req); err != nil || req.WalletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "wallet_address is required"})
	}

	result, err := h.Bounties.ClaimBounty(c.UserContext(), uint(bountyID), login, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBountyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bounty not found"})
		case errors.Is(err, services.ErrWrongContributor):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "bounty is not claimable by this user"})
		case errors.Is(err, services.ErrNotReadyToClaim),
			errors.Is(err, services.ErrAlreadyClaimed),
			errors.Is(err, services.ErrInvalidWalletAddress):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("❌ Claim failed for bounty %d: %v", bountyID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "transfer failed, please retry"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"signature": result.TransactionSignature,
		"amount":    result.Amount.String(),
		"currency":  result.Currency,
	})
}
