package utils

import "github.com/microcosm-cc/bluemonday"

// contentPolicy allows user generated markup and hardens links.
var contentPolicy = bluemonday.UGCPolicy().
	RequireNoFollowOnLinks(true).
	AddTargetBlankToFullyQualifiedLinks(true)

// Sanitize strips scripts, handlers and unsafe attributes from board content.
func Sanitize(input string) string {
	return contentPolicy.Sanitize(input)
}
