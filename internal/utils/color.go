package utils

import "regexp"

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor accepte uniquement #RGB ou #RRGGBB
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}
