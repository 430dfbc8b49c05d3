package file

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) (domain.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return domain.Color{}, fmt.Errorf("%w: colour %q", domain.ErrInvalidInput, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return domain.Color{}, fmt.Errorf("%w: colour %q", domain.ErrInvalidInput, s)
	}
	channel := func(shift uint) float64 {
		return float64((v>>shift)&0xff) / 255
	}
	return domain.Color{R: channel(24), G: channel(16), B: channel(8), A: channel(0)}, nil
}

// FormatColor renders c as "#rrggbb", or "#rrggbbaa" when not opaque.
func FormatColor(c domain.Color) string {
	b := func(f float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
	}
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", b(c.R), b(c.G), b(c.B))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", b(c.R), b(c.G), b(c.B), b(c.A))
}
