// utils/issuerefs_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIssueReferences(t *testing.T) {
	t.Run("bare references in title and body", func(t *testing.T) {
		refs := ExtractIssueReferences("Fix crash #42", "Also touches #7 and #42 again")
		assert.Equal(t, []int{42, 7}, refs)
	})

	t.Run("no references", func(t *testing.T) {
		refs := ExtractIssueReferences("Refactor parser", "cleanup only")
		assert.Empty(t, refs)
	})

	t.Run("order of first appearance", func(t *testing.T) {
		refs := ExtractIssueReferences("", "#3 then #1 then #3 then #2")
		assert.Equal(t, []int{3, 1, 2}, refs)
	})

	t.Run("closing keywords are not required", func(t *testing.T) {
		refs := ExtractIssueReferences("See #8", "mentions #9, fixes #10")
		assert.Equal(t, []int{8, 9, 10}, refs)
	})
}
