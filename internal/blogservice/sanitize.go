package blogservice

import "regexp"

var (
	scriptTagRX = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	iframeTagRX = regexp.MustCompile(`(?is)<\s*iframe[^>]*>.*?<\s*/\s*iframe\s*>`)
)

// sanitizeMarkdown strips active HTML embedded in the Markdown body before it
// is stored. Markdown itself passes through untouched.
func sanitizeMarkdown(markdown string) string {
	out := scriptTagRX.ReplaceAllString(markdown, "")
	return iframeTagRX.ReplaceAllString(out, "")
}
