// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"regexp"
	"strings"
)

// Highlight wraps each case-insensitive whole-word match of any keyword
// in **…** emphasis markers. Word boundaries keep "learn" from matching
// inside "learning". Purely cosmetic: applied to titles and abstracts at
// display time, never to the text that gets embedded or ranked.
func Highlight(text string, keywords []string) string {
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		// QuoteMeta guarantees a valid pattern.
		re := regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(kw) + `)\b`)
		text = re.ReplaceAllString(text, "**$1**")
	}
	return text
}
