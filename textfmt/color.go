// Package textfmt styles terminal text with named or RGB colours.
// It is pure: no I/O, no shared state.
package textfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Color is a parsed colour specification: either one of the 16 ANSI colours or a
// 24-bit RGB value.
type Color struct {
	TrueColor bool
	ANSI      termenv.ANSIColor
	R, G, B   uint8
}

// RGB returns a 24-bit colour.
func RGB(r, g, b uint8) Color { return Color{TrueColor: true, R: r, G: g, B: b} }

var named = map[string]termenv.ANSIColor{
	"black":          termenv.ANSIBlack,
	"red":            termenv.ANSIRed,
	"green":          termenv.ANSIGreen,
	"yellow":         termenv.ANSIYellow,
	"blue":           termenv.ANSIBlue,
	"magenta":        termenv.ANSIMagenta,
	"purple":         termenv.ANSIMagenta,
	"cyan":           termenv.ANSICyan,
	"white":          termenv.ANSIWhite,
	"bright_black":   termenv.ANSIBrightBlack,
	"bright_red":     termenv.ANSIBrightRed,
	"bright_green":   termenv.ANSIBrightGreen,
	"bright_yellow":  termenv.ANSIBrightYellow,
	"bright_blue":    termenv.ANSIBrightBlue,
	"bright_magenta": termenv.ANSIBrightMagenta,
	"bright_cyan":    termenv.ANSIBrightCyan,
	"bright_white":   termenv.ANSIBrightWhite,
}

// ParseColor parses a colour name or an "rgb(r,g,b)" literal.
//
// In an rgb literal every channel that is not an integer in [0,255], optionally
// signed with '+', becomes 255.
// Anything else that cannot be parsed, including rgb literals without exactly three
// channels, is white.
func ParseColor(spec string) Color {
	if c, ok := named[spec]; ok {
		return Color{ANSI: c}
	}
	return parseRGB(spec)
}

func parseRGB(spec string) Color {
	if !strings.HasPrefix(spec, "rgb(") || !strings.HasSuffix(spec, ")") {
		return Color{ANSI: termenv.ANSIWhite}
	}
	parts := strings.Split(spec[len("rgb("):len(spec)-1], ",")
	if len(parts) != 3 {
		return Color{ANSI: termenv.ANSIWhite}
	}
	return RGB(channel(parts[0]), channel(parts[1]), channel(parts[2]))
}

// channel parses one rgb component. A single leading '+' is allowed.
func channel(s string) uint8 {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "+"), 10, 8)
	if err != nil {
		return 255
	}
	return uint8(v)
}

// termenv converts c for use with profile p.
func (c Color) termenv(p termenv.Profile) termenv.Color {
	if c.TrueColor {
		return p.Convert(termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	}
	return p.Convert(c.ANSI)
}

func (c Color) String() string {
	if c.TrueColor {
		return fmt.Sprintf("TrueColor(%d,%d,%d)", c.R, c.G, c.B)
	}
	return fmt.Sprintf("ANSI(%d)", int(c.ANSI))
}
