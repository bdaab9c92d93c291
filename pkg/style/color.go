// Package style defines the terminal color model: foreground/background
// color values, tri-state text attributes, and SGR escape code generation
// for a given level of terminal color support.
package style

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorSupport describes how many colors a terminal can display.
type ColorSupport uint8

const (
	// ColorSupportNone means the output stream should receive no escape codes.
	ColorSupportNone ColorSupport = iota
	// ColorSupportAnsi16 supports the basic 16 ANSI colors.
	ColorSupportAnsi16
	// ColorSupportAnsi256 supports the extended 256 color palette.
	ColorSupportAnsi256
	// ColorSupportTrueColor supports 24-bit RGB colors.
	ColorSupportTrueColor
)

// ColorMode defines how a ColorValue is represented.
type ColorMode uint8

const (
	// ColorModeNone means no value is set (inherit whatever is active).
	ColorModeNone ColorMode = iota
	// ColorModeDefault explicitly selects the terminal's default color.
	ColorModeDefault
	// ColorMode16 selects one of the basic 16 ANSI colors (0-15).
	ColorMode16
	// ColorMode256 selects an index in the extended 256 color palette.
	ColorMode256
	// ColorModeRGB selects a 24-bit color.
	ColorModeRGB
)

// ColorValue is a single color: unset, terminal default, palette index,
// or 24-bit RGB packed as 0xRRGGBB.
type ColorValue struct {
	Mode  ColorMode
	Value uint32
}

// Pre-defined values for the basic palette.
var (
	ValueNone    = ColorValue{Mode: ColorModeNone}
	ValueDefault = ColorValue{Mode: ColorModeDefault}

	Black   = ColorValue{Mode: ColorMode16, Value: 0}
	Red     = ColorValue{Mode: ColorMode16, Value: 1}
	Green   = ColorValue{Mode: ColorMode16, Value: 2}
	Yellow  = ColorValue{Mode: ColorMode16, Value: 3}
	Blue    = ColorValue{Mode: ColorMode16, Value: 4}
	Magenta = ColorValue{Mode: ColorMode16, Value: 5}
	Cyan    = ColorValue{Mode: ColorMode16, Value: 6}
	White   = ColorValue{Mode: ColorMode16, Value: 7}

	BrightBlack   = ColorValue{Mode: ColorMode16, Value: 8}
	BrightRed     = ColorValue{Mode: ColorMode16, Value: 9}
	BrightGreen   = ColorValue{Mode: ColorMode16, Value: 10}
	BrightYellow  = ColorValue{Mode: ColorMode16, Value: 11}
	BrightBlue    = ColorValue{Mode: ColorMode16, Value: 12}
	BrightMagenta = ColorValue{Mode: ColorMode16, Value: 13}
	BrightCyan    = ColorValue{Mode: ColorMode16, Value: 14}
	BrightWhite   = ColorValue{Mode: ColorMode16, Value: 15}
)

// Ansi creates a basic 16-palette color (0-15).
func Ansi(index uint8) ColorValue {
	return ColorValue{Mode: ColorMode16, Value: uint32(index & 0x0f)}
}

// Xterm creates a 256-palette color (0-255).
func Xterm(index uint8) ColorValue {
	return ColorValue{Mode: ColorMode256, Value: uint32(index)}
}

// RGB creates a 24-bit true color.
func RGB(r, g, b uint8) ColorValue {
	return ColorValue{Mode: ColorModeRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// Hex parses a color from a "#RRGGBB" or "#RGB" string.
func Hex(h string) (ColorValue, error) {
	s := strings.TrimPrefix(h, "#")
	switch len(s) {
	case 3:
		var buf [6]byte
		for i := 0; i < 3; i++ {
			buf[2*i], buf[2*i+1] = s[i], s[i]
		}
		s = string(buf[:])
	case 6:
	default:
		return ValueNone, fmt.Errorf("invalid hex color %q", h)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ValueNone, fmt.Errorf("invalid hex color %q", h)
	}
	return ColorValue{Mode: ColorModeRGB, Value: uint32(v)}, nil
}

// Attr is a tri-state text attribute: unset attributes inherit the value
// already in effect when colors are combined.
type Attr uint8

const (
	AttrUnset Attr = iota
	AttrOn
	AttrOff
)

// attr picks the right-hand attribute unless it is unset.
func (a Attr) override(b Attr) Attr {
	if b != AttrUnset {
		return b
	}
	return a
}

// Color is a complete text presentation: optional foreground and background
// values plus independent tri-state style flags.
type Color struct {
	Fore      ColorValue
	Back      ColorValue
	Bold      Attr
	Dim       Attr
	Italic    Attr
	Underline Attr
	Blink     Attr
	Reverse   Attr
}

// None is the empty color: it sets nothing and combines as identity.
var None = Color{}

// Fore creates a color with only the foreground set.
func Fore(v ColorValue) Color { return Color{Fore: v} }

// Back creates a color with only the background set.
func Back(v ColorValue) Color { return Color{Back: v} }

// Style attribute shorthands.
var (
	Bold      = Color{Bold: AttrOn}
	Dim       = Color{Dim: AttrOn}
	Italic    = Color{Italic: AttrOn}
	Underline = Color{Underline: AttrOn}
	Blink     = Color{Blink: AttrOn}
	Reverse   = Color{Reverse: AttrOn}
)

// Combine overlays b on top of a: fields set in b win, unset fields
// inherit from a.
func Combine(a, b Color) Color {
	out := Color{
		Bold:      a.Bold.override(b.Bold),
		Dim:       a.Dim.override(b.Dim),
		Italic:    a.Italic.override(b.Italic),
		Underline: a.Underline.override(b.Underline),
		Blink:     a.Blink.override(b.Blink),
		Reverse:   a.Reverse.override(b.Reverse),
	}
	out.Fore = a.Fore
	if b.Fore.Mode != ColorModeNone {
		out.Fore = b.Fore
	}
	out.Back = a.Back
	if b.Back.Mode != ColorModeNone {
		out.Back = b.Back
	}
	return out
}

// Combine overlays other on top of c.
func (c Color) Combine(other Color) Color {
	return Combine(c, other)
}

// IsNone reports whether the color sets nothing at all.
func (c Color) IsNone() bool {
	return c == None
}

// Code renders the color as a single SGR sequence for the given support
// level. The sequence always starts with a reset so that the emitted state
// never depends on what was active before. Returns "" when the terminal
// has no color support.
func (c Color) Code(sup ColorSupport) string {
	if sup == ColorSupportNone {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\x1b[0")
	if c.Bold == AttrOn {
		sb.WriteString(";1")
	}
	if c.Dim == AttrOn {
		sb.WriteString(";2")
	}
	if c.Italic == AttrOn {
		sb.WriteString(";3")
	}
	if c.Underline == AttrOn {
		sb.WriteString(";4")
	}
	if c.Blink == AttrOn {
		sb.WriteString(";5")
	}
	if c.Reverse == AttrOn {
		sb.WriteString(";7")
	}
	writeColorParams(&sb, c.Fore, sup, true)
	writeColorParams(&sb, c.Back, sup, false)
	sb.WriteByte('m')
	return sb.String()
}

func writeColorParams(sb *strings.Builder, v ColorValue, sup ColorSupport, fg bool) {
	v = v.downsample(sup)

	switch v.Mode {
	case ColorModeNone:
		// Inherit: reset at the start of the sequence already cleared it.
	case ColorModeDefault:
		if fg {
			sb.WriteString(";39")
		} else {
			sb.WriteString(";49")
		}
	case ColorMode16:
		idx := int(v.Value)
		base := 30
		if !fg {
			base = 40
		}
		if idx < 8 {
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(base + idx))
		} else {
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(base + 60 + idx - 8))
		}
	case ColorMode256:
		if fg {
			sb.WriteString(";38;5;")
		} else {
			sb.WriteString(";48;5;")
		}
		sb.WriteString(strconv.Itoa(int(v.Value)))
	case ColorModeRGB:
		if fg {
			sb.WriteString(";38;2;")
		} else {
			sb.WriteString(";48;2;")
		}
		sb.WriteString(strconv.Itoa(int(v.Value >> 16 & 0xff)))
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(int(v.Value >> 8 & 0xff)))
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(int(v.Value & 0xff)))
	}
}

// downsample converts the value to the widest representation the given
// support level can carry.
func (v ColorValue) downsample(sup ColorSupport) ColorValue {
	switch v.Mode {
	case ColorModeRGB:
		switch sup {
		case ColorSupportTrueColor:
			return v
		case ColorSupportAnsi256:
			return ColorValue{Mode: ColorMode256, Value: uint32(nearest256(v.rgb()))}
		default:
			return ColorValue{Mode: ColorMode16, Value: uint32(nearest16(v.rgb()))}
		}
	case ColorMode256:
		if sup >= ColorSupportAnsi256 {
			return v
		}
		if v.Value < 16 {
			return ColorValue{Mode: ColorMode16, Value: v.Value}
		}
		return ColorValue{Mode: ColorMode16, Value: uint32(nearest16(palette256()[v.Value]))}
	default:
		return v
	}
}

func (v ColorValue) rgb() colorful.Color {
	return colorful.Color{
		R: float64(v.Value>>16&0xff) / 255,
		G: float64(v.Value>>8&0xff) / 255,
		B: float64(v.Value&0xff) / 255,
	}
}

var (
	paletteOnce sync.Once
	palette     [256]colorful.Color
)

// palette256 returns the xterm 256-color palette: the 16 base colors,
// a 6x6x6 color cube, and a 24-step grayscale ramp.
func palette256() *[256]colorful.Color {
	paletteOnce.Do(func() {
		for i, v := range base16 {
			palette[i] = v
		}
		levels := [6]float64{0, 0x5f, 0x87, 0xaf, 0xd7, 0xff}
		for r := 0; r < 6; r++ {
			for g := 0; g < 6; g++ {
				for b := 0; b < 6; b++ {
					palette[16+36*r+6*g+b] = colorful.Color{
						R: levels[r] / 255,
						G: levels[g] / 255,
						B: levels[b] / 255,
					}
				}
			}
		}
		for i := 0; i < 24; i++ {
			v := float64(8+10*i) / 255
			palette[232+i] = colorful.Color{R: v, G: v, B: v}
		}
	})
	return &palette
}

// base16 holds conventional RGB values for the 16 ANSI colors. Terminals
// remap these freely, so they are only used for nearest-color matching.
var base16 = [16]colorful.Color{
	{R: 0x00 / 255.0, G: 0x00 / 255.0, B: 0x00 / 255.0},
	{R: 0x80 / 255.0, G: 0x00 / 255.0, B: 0x00 / 255.0},
	{R: 0x00 / 255.0, G: 0x80 / 255.0, B: 0x00 / 255.0},
	{R: 0x80 / 255.0, G: 0x80 / 255.0, B: 0x00 / 255.0},
	{R: 0x00 / 255.0, G: 0x00 / 255.0, B: 0x80 / 255.0},
	{R: 0x80 / 255.0, G: 0x00 / 255.0, B: 0x80 / 255.0},
	{R: 0x00 / 255.0, G: 0x80 / 255.0, B: 0x80 / 255.0},
	{R: 0xc0 / 255.0, G: 0xc0 / 255.0, B: 0xc0 / 255.0},
	{R: 0x80 / 255.0, G: 0x80 / 255.0, B: 0x80 / 255.0},
	{R: 0xff / 255.0, G: 0x00 / 255.0, B: 0x00 / 255.0},
	{R: 0x00 / 255.0, G: 0xff / 255.0, B: 0x00 / 255.0},
	{R: 0xff / 255.0, G: 0xff / 255.0, B: 0x00 / 255.0},
	{R: 0x00 / 255.0, G: 0x00 / 255.0, B: 0xff / 255.0},
	{R: 0xff / 255.0, G: 0x00 / 255.0, B: 0xff / 255.0},
	{R: 0x00 / 255.0, G: 0xff / 255.0, B: 0xff / 255.0},
	{R: 0xff / 255.0, G: 0xff / 255.0, B: 0xff / 255.0},
}

// nearest256 finds the closest palette index for an RGB color. The 16 base
// colors are skipped: their actual appearance depends on the terminal theme.
func nearest256(c colorful.Color) uint8 {
	p := palette256()
	best, bestDist := 16, -1.0
	for i := 16; i < 256; i++ {
		d := c.DistanceLab(p[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}

// nearest16 finds the closest basic ANSI color for an RGB color.
func nearest16(c colorful.Color) uint8 {
	best, bestDist := 0, -1.0
	for i := 0; i < 16; i++ {
		d := c.DistanceLab(base16[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return uint8(best)
}
