package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts "#rgb", "#rrggbb", "rgb(r, g, b)" and SVG/X11 colour
// names such as "firebrick" or "slategray".
func ParseColor(s string) (color.Color, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch {
	case norm == "":
		return nil, fmt.Errorf("empty colour")
	case strings.HasPrefix(norm, "#"):
		return parseHexColor(norm[1:], s)
	case strings.HasPrefix(norm, "rgb(") && strings.HasSuffix(norm, ")"):
		return parseRGBColor(norm[len("rgb(") : len(norm)-1], s)
	}
	if c, ok := colornames.Map[norm]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}

// ParsePalette parses every entry of values.
func ParsePalette(values []string) ([]color.Color, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	pal := make([]color.Color, len(values))
	for i, v := range values {
		c, err := ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("palette[%d]: %w", i, err)
		}
		pal[i] = c
	}
	return pal, nil
}

func parseHexColor(hex, orig string) (color.Color, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid hex colour %q", orig)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex colour %q: %v", orig, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func parseRGBColor(body, orig string) (color.Color, error) {
	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid rgb colour %q", orig)
	}
	var c [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid rgb colour %q: %v", orig, err)
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}
