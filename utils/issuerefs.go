// utils/issuerefs.go
package utils

import (
	"regexp"
	"strconv"
)

var issueRefPattern = regexp.MustCompile(`#(\d+)`)

// ExtractIssueReferences returns the de-duplicated issue numbers referenced by a
// pull request's title or body. Any bare "#123" counts, not just GitHub's
// closing keywords. Numbers come back in order of first appearance.
func ExtractIssueReferences(title, body string) []int {
	seen := make(map[int]bool)
	var refs []int

	for _, match := range issueRefPattern.FindAllStringSubmatch(title+"\n"+body, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		refs = append(refs, n)
	}

	return refs
}
