package tagservice

import (
	"strings"

	"github.com/inkwell-app/inkwell/internal/common"
)

// Normalize returns the canonical form of a tag name: trimmed of surrounding
// whitespace and lower-cased. Canonical names are the uniqueness key for tags.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func validateTagName(v *common.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(v.CheckStringLength(name, 1, 50), "name", "must be at most 50 characters long")
}

func validateColor(v *common.Validator, color string) {
	v.Check(v.CheckStringLength(color, 0, 20), "color", "must be at most 20 characters long")
}
