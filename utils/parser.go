// utils/parser.go
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"gitwork/models"
)

// BountyLabelPrefix is the external contract with repo owners:
// labels look like "gitwork:USDC:50" (prefix and currency case-insensitive).
const BountyLabelPrefix = "gitwork"

var bountyLabelPattern = regexp.MustCompile(`(?i)^` + BountyLabelPrefix + `:([A-Za-z]+):(\d+(?:\.\d+)?)$`)

// BountyLabel is a successfully parsed bounty label.
type BountyLabel struct {
	Currency  models.Currency
	Amount    decimal.Decimal
	LabelName string
}

// UnsupportedCurrencyError means the label matched the bounty grammar but named
// a currency outside the allow-list. It must never create a bounty.
type UnsupportedCurrencyError struct {
	Currency  string
	LabelName string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s. Only USDC and SOL are supported", e.Currency)
}

// MultipleBountyLabelsError means an issue carries two or more valid bounty
// labels at once. Ambiguous configuration never creates an economic commitment.
type MultipleBountyLabelsError struct {
	Labels []BountyLabel
}

func (e *MultipleBountyLabelsError) Error() string {
	names := make([]string, len(e.Labels))
	for i, l := range e.Labels {
		names[i] = l.LabelName
	}
	return fmt.Sprintf("multiple bounty labels detected: %s", strings.Join(names, ", "))
}

// IsSupportedCurrency reports whether the currency is on the allow-list.
func IsSupportedCurrency(currency string) bool {
	switch models.Currency(strings.ToUpper(currency)) {
	case models.CurrencyUSDC, models.CurrencySOL:
		return true
	}
	return false
}

// ParseBountyLabel parses a single label. It returns (nil, nil) when the label
// is not a bounty label at all, a parsed BountyLabel for a valid one, or an
// *UnsupportedCurrencyError when the grammar matches but the currency doesn't.
func ParseBountyLabel(label string) (*BountyLabel, error) {
	match := bountyLabelPattern.FindStringSubmatch(label)
	if match == nil {
		return nil, nil
	}

	currency := strings.ToUpper(match[1])
	amount, err := decimal.NewFromString(match[2])
	if err != nil || !amount.IsPositive() {
		return nil, nil
	}

	if !IsSupportedCurrency(currency) {
		return nil, &UnsupportedCurrencyError{Currency: currency, LabelName: label}
	}

	return &BountyLabel{
		Currency:  models.Currency(currency),
		Amount:    amount,
		LabelName: label,
	}, nil
}

// FindBountyLabel scans the full label set of an issue. An unsupported-currency
// label takes precedence over anything else; more than one valid bounty label is
// an error enumerating all of them; exactly one parses; zero returns (nil, nil).
func FindBountyLabel(labels []string) (*BountyLabel, error) {
	var found []BountyLabel

	for _, name := range labels {
		parsed, err := ParseBountyLabel(name)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			found = append(found, *parsed)
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, &MultipleBountyLabelsError{Labels: found}
	}
}

// HasBountyLabelPrefix is the cheap pre-filter used by the webhook router to
// decide whether a removed label could have been a bounty label.
func HasBountyLabelPrefix(label string) bool {
	return strings.HasPrefix(strings.ToLower(label), BountyLabelPrefix+":")
}
