package stats

import (
	"strings"

	"venuebook/internal/bookings/models"
)

// FallbackColor is used when a stored color is missing or not a hex code.
const FallbackColor = models.DefaultTypeColor

// NormalizeColor returns input as an uppercase #RRGGBB code. Three-digit
// codes are expanded and the leading # is optional.
func NormalizeColor(input string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(input), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || strings.IndexFunc(hex, notHex) >= 0 {
		return FallbackColor
	}
	return "#" + strings.ToUpper(hex)
}

func notHex(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return false
	default:
		return true
	}
}
