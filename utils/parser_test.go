// utils/parser_test.go
package utils

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitwork/models"
)

func TestParseBountyLabel(t *testing.T) {
	t.Run("valid USDC label", func(t *testing.T) {
		label, err := ParseBountyLabel("gitwork:USDC:50")
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, models.CurrencyUSDC, label.Currency)
		assert.True(t, label.Amount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "gitwork:USDC:50", label.LabelName)
	})

	t.Run("valid SOL label with decimal amount", func(t *testing.T) {
		label, err := ParseBountyLabel("gitwork:SOL:0.5")
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, models.CurrencySOL, label.Currency)
		assert.True(t, label.Amount.Equal(decimal.RequireFromString("0.5")))
	})

	t.Run("prefix and currency are case-insensitive", func(t *testing.T) {
		label, err := ParseBountyLabel("GitWork:usdc:100")
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.Equal(t, models.CurrencyUSDC, label.Currency)
	})

	t.Run("unsupported currency is a typed error", func(t *testing.T) {
		label, err := ParseBountyLabel("gitwork:BTC:50")
		assert.Nil(t, label)
		var unsupported *UnsupportedCurrencyError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "BTC", unsupported.Currency)
	})

	t.Run("non-bounty labels are ignored silently", func(t *testing.T) {
		for _, name := range []string{"bug", "help wanted", "gitwork", "gitwork:USDC", "bounty:USDC:50"} {
			label, err := ParseBountyLabel(name)
			assert.NoError(t, err, name)
			assert.Nil(t, label, name)
		}
	})

	t.Run("zero and negative amounts never parse", func(t *testing.T) {
		label, err := ParseBountyLabel("gitwork:USDC:0")
		assert.NoError(t, err)
		assert.Nil(t, label)

		label, err = ParseBountyLabel("gitwork:USDC:-5")
		assert.NoError(t, err)
		assert.Nil(t, label)
	})
}

func TestFindBountyLabel(t *testing.T) {
	t.Run("single bounty label among ordinary labels", func(t *testing.T) {
		label, err := FindBountyLabel([]string{"bug", "gitwork:USDC:25", "help wanted"})
		require.NoError(t, err)
		require.NotNil(t, label)
		assert.True(t, label.Amount.Equal(decimal.NewFromInt(25)))
	})

	t.Run("no bounty label", func(t *testing.T) {
		label, err := FindBountyLabel([]string{"bug", "enhancement"})
		assert.NoError(t, err)
		assert.Nil(t, label)
	})

	t.Run("multiple bounty labels enumerate all of them", func(t *testing.T) {
		label, err := FindBountyLabel([]string{"gitwork:USDC:50", "gitwork:SOL:1"})
		assert.Nil(t, label)
		var multiple *MultipleBountyLabelsError
		require.ErrorAs(t, err, &multiple)
		assert.Len(t, multiple.Labels, 2)
	})

	t.Run("unsupported currency wins over a valid label", func(t *testing.T) {
		_, err := FindBountyLabel([]string{"gitwork:BTC:50", "gitwork:USDC:50"})
		var unsupported *UnsupportedCurrencyError
		assert.True(t, errors.As(err, &unsupported))
	})
}

func TestHasBountyLabelPrefix(t *testing.T) {
	assert.True(t, HasBountyLabelPrefix("gitwork:USDC:50"))
	assert.True(t, HasBountyLabelPrefix("GITWORK:anything"))
	assert.False(t, HasBountyLabelPrefix("gitwork"))
	assert.False(t, HasBountyLabelPrefix("bug"))
}
