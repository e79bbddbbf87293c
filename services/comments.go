// services/comments.go
package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"gitwork/models"
	"gitwork/utils"
)

const commentFooter = "\n\n---\n*Powered by [GitWork](https://gitwork.dev) 🚀*"

func depositRequestComment(amount decimal.Decimal, currency models.Currency, walletAddress string) string {
	return fmt.Sprintf(`## 🎯 Bounty Created!

Thank you for creating a bounty on this issue!

**Bounty Amount:** %s %s
**Status:** ⏳ Awaiting deposit

### Next Steps:

To activate this bounty, please deposit **%s %s** to the following escrow wallet:

`+"```\n%s\n```"+`

Once the deposit is confirmed, this bounty will be live and available for contributors to claim!%s`,
		amount, currency, amount, currency, walletAddress, commentFooter)
}

func depositConfirmedComment(amount decimal.Decimal, currency models.Currency) string {
	return fmt.Sprintf(`## ✅ Bounty Active!

The bounty of **%s %s** has been deposited and is now in escrow!

### For Contributors:

This issue is now available to work on. The bounty will be automatically released when:
1. A pull request that closes this issue is merged
2. The contributor claims their reward via the GitWork dashboard%s`,
		amount, currency, commentFooter)
}

func bountyUpdatedComment(amount decimal.Decimal, currency models.Currency, walletAddress string) string {
	return fmt.Sprintf(`## ✏️ Bounty Updated

The bounty on this issue is now **%s %s**. The escrow wallet is unchanged:

`+"```\n%s\n```"+`

Deposit the updated amount to activate the bounty.%s`,
		amount, currency, walletAddress, commentFooter)
}

func claimNotificationComment(username string, amount decimal.Decimal, currency models.Currency, claimURL string) string {
	return fmt.Sprintf(`## 🎉 Bounty Ready to Claim!

Congratulations @%s! Your pull request has been merged.

**Bounty Amount:** %s %s

### Claim Your Reward:

**👉 [Claim %s %s](%s)**

You'll need to:
1. Sign in with your GitHub account
2. Provide your Solana wallet address
3. Confirm the transfer

The funds will be sent to your wallet immediately!%s`,
		username, amount, currency, amount, currency, claimURL, commentFooter)
}

func pullRequestMergedComment(username string, issueNumber int, amount decimal.Decimal, currency models.Currency, claimURL string) string {
	return fmt.Sprintf(`## 🎉 Bounty Unlocked!

Great work @%s! This PR resolves issue #%d which has a **%s %s** bounty attached.

**Next Steps:**
1. Visit your claim link: [Claim %s %s](%s)
2. Sign in with GitHub and provide your Solana wallet address
3. Receive your reward! 💰%s`,
		username, issueNumber, amount, currency, amount, currency, claimURL, commentFooter)
}

func pullRequestOpenedComment(issueNumber int, amount decimal.Decimal, currency models.Currency) string {
	return fmt.Sprintf(`## 💰 Bounty Attached

This pull request references issue #%d, which carries an active **%s %s** bounty.
If this PR is merged, its author will be able to claim the reward.%s`,
		issueNumber, amount, currency, commentFooter)
}

func claimConfirmedComment(username string, amount decimal.Decimal, currency models.Currency, walletAddress, signature string) string {
	return fmt.Sprintf(`## ✅ Bounty Claimed!

Congratulations! The bounty has been successfully claimed by @%s.

**Amount:** %s %s
**Recipient:** `+"`%s`"+`
**Transaction:** [View on Solana Explorer](https://explorer.solana.com/tx/%s)%s`,
		username, amount, currency, walletAddress, signature, commentFooter)
}

func depositMismatchComment(b *models.Bounty, reason string, usdcBalance, solBalance decimal.Decimal) string {
	return fmt.Sprintf(`## ❌ Invalid Deposit Detected

I detected a deposit in the escrow wallet, but it doesn't match the bounty requirements.

**Bounty Requirements:**
- **Currency:** %s
- **Amount:** %s %s

**Current Wallet Balance:**
- **USDC:** %s
- **SOL:** %s

**Issue:** %s

**To fix this:**
1. Send the **correct currency** (%s) to the escrow wallet
2. I'll automatically detect the correct deposit

**Escrow Wallet:** `+"`%s`"+`%s`,
		b.Currency, b.BountyAmount, b.Currency, usdcBalance, solBalance, reason,
		b.Currency, b.EscrowWalletAddress, commentFooter)
}

func cancellationComment(b *models.Bounty, refundSignature string, refundErr error) string {
	var sb strings.Builder
	sb.WriteString("## 🗑️ Bounty Cancelled\n\n")
	fmt.Fprintf(&sb, "The **%s %s** bounty on this issue has been cancelled because its label was removed.\n", b.BountyAmount, b.Currency)

	switch {
	case refundSignature != "":
		fmt.Fprintf(&sb, "\nEscrowed funds have been refunded: [View on Solana Explorer](https://explorer.solana.com/tx/%s)\n", refundSignature)
	case refundErr != nil:
		sb.WriteString("\n⚠️ The escrow refund could not be completed automatically and will be handled by the operators.\n")
	}

	sb.WriteString(commentFooter)
	return sb.String()
}

func labelErrorComment(err error) string {
	var header string
	switch err.(type) {
	case *utils.MultipleBountyLabelsError:
		header = "## ❌ Multiple Bounty Labels"
	case *utils.UnsupportedCurrencyError:
		header = "## ❌ Unsupported Currency"
	default:
		header = "## ❌ Invalid Bounty Label"
	}

	return fmt.Sprintf(`%s

%s.

Please use exactly one label of the form `+"`%s:<CURRENCY>:<AMOUNT>`"+` with CURRENCY one of USDC or SOL. No bounty has been created.%s`,
		header, err.Error(), utils.BountyLabelPrefix, commentFooter)
}

func issueClosedComment(b *models.Bounty) string {
	if b.Status == models.StatusClaimed {
		explorer := ""
		if b.TransactionSignature != "" {
			explorer = fmt.Sprintf("\n- 🔗 Transaction: [View on Explorer](https://explorer.solana.com/tx/%s)", b.TransactionSignature)
		}
		return fmt.Sprintf(`## ✅ Bounty Successfully Completed!

This issue has been resolved and the bounty has been claimed by @%s.

**Final Status:**
- 💰 Amount: %s %s
- 👤 Claimed by: @%s
- 📝 Pull Request: #%d%s

Thank you for contributing to open source! 🎉%s`,
			b.ContributorGithubUsername, b.BountyAmount, b.Currency,
			b.ContributorGithubUsername, b.PullRequestNumber, explorer, commentFooter)
	}

	return fmt.Sprintf(`## 📌 Issue Closed

This issue has been closed. The bounty status is: **%s**.%s`, b.Status, commentFooter)
}
