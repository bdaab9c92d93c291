package style

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want Color
	}{
		{
			"none is identity on the left",
			None,
			Fore(Red),
			Fore(Red),
		},
		{
			"none is identity on the right",
			Fore(Red),
			None,
			Fore(Red),
		},
		{
			"right side overrides foreground",
			Fore(Red),
			Fore(Green),
			Fore(Green),
		},
		{
			"unset fields inherit",
			Color{Fore: Red, Bold: AttrOn},
			Back(Blue),
			Color{Fore: Red, Back: Blue, Bold: AttrOn},
		},
		{
			"explicit off wins over on",
			Color{Bold: AttrOn},
			Color{Bold: AttrOff},
			Color{Bold: AttrOff},
		},
		{
			"styles accumulate across operands",
			Color{Bold: AttrOn},
			Color{Underline: AttrOn},
			Color{Bold: AttrOn, Underline: AttrOn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.a, tt.b); got != tt.want {
				t.Errorf("Combine(%+v, %+v) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestColorCode(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		sup  ColorSupport
		want string
	}{
		{"no support yields nothing", Fore(Red), ColorSupportNone, ""},
		{"empty color resets", None, ColorSupportAnsi16, "\x1b[0m"},
		{"basic foreground", Fore(Red), ColorSupportAnsi16, "\x1b[0;31m"},
		{"bright foreground", Fore(BrightRed), ColorSupportAnsi16, "\x1b[0;91m"},
		{"basic background", Back(Blue), ColorSupportAnsi16, "\x1b[0;44m"},
		{"bright background", Back(BrightBlue), ColorSupportAnsi16, "\x1b[0;104m"},
		{"default colors", Color{Fore: ValueDefault, Back: ValueDefault}, ColorSupportAnsi16, "\x1b[0;39;49m"},
		{
			"attributes before colors",
			Color{Fore: Green, Bold: AttrOn, Underline: AttrOn},
			ColorSupportAnsi16,
			"\x1b[0;1;4;32m",
		},
		{"256 palette", Fore(Xterm(144)), ColorSupportAnsi256, "\x1b[0;38;5;144m"},
		{"true color", Fore(RGB(0xa0, 0x1e, 0x9c)), ColorSupportTrueColor, "\x1b[0;38;2;160;30;156m"},
		{"true color background", Back(RGB(1, 2, 3)), ColorSupportTrueColor, "\x1b[0;48;2;1;2;3m"},
		{"blink and reverse", Color{Blink: AttrOn, Reverse: AttrOn}, ColorSupportAnsi16, "\x1b[0;5;7m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Code(tt.sup); got != tt.want {
				t.Errorf("Code(%v) = %q, want %q", tt.sup, got, tt.want)
			}
		})
	}
}

func TestDownsample(t *testing.T) {
	t.Run("rgb to 256 picks cube corner", func(t *testing.T) {
		v := RGB(0xff, 0x00, 0x00).downsample(ColorSupportAnsi256)
		if v.Mode != ColorMode256 {
			t.Fatalf("got mode %v, want ColorMode256", v.Mode)
		}
		// Pure red maps to cube entry 16 + 36*5 = 196.
		if v.Value != 196 {
			t.Errorf("got index %d, want 196", v.Value)
		}
	})

	t.Run("rgb gray to 256 uses gray ramp", func(t *testing.T) {
		// 0x80 equals ramp step 12 exactly: 8 + 10*12 = 128.
		v := RGB(0x80, 0x80, 0x80).downsample(ColorSupportAnsi256)
		if v.Value != 244 {
			t.Errorf("gray mapped to index %d, want 244", v.Value)
		}
	})

	t.Run("rgb to 16", func(t *testing.T) {
		v := RGB(0xff, 0x00, 0x00).downsample(ColorSupportAnsi16)
		if v.Mode != ColorMode16 {
			t.Fatalf("got mode %v, want ColorMode16", v.Mode)
		}
		if v.Value != 9 && v.Value != 1 {
			t.Errorf("pure red mapped to %d, want red (1) or bright red (9)", v.Value)
		}
	})

	t.Run("256 below 16 maps directly", func(t *testing.T) {
		v := Xterm(3).downsample(ColorSupportAnsi16)
		if v.Mode != ColorMode16 || v.Value != 3 {
			t.Errorf("got %+v, want 16-color index 3", v)
		}
	})

	t.Run("16 passes through everywhere", func(t *testing.T) {
		for _, sup := range []ColorSupport{ColorSupportAnsi16, ColorSupportAnsi256, ColorSupportTrueColor} {
			if v := Red.downsample(sup); v != Red {
				t.Errorf("Red changed to %+v at support %v", v, sup)
			}
		}
	})
}

func TestHex(t *testing.T) {
	v, err := Hex("#a01e9c")
	if err != nil {
		t.Fatalf("Hex: %v", err)
	}
	if v != RGB(0xa0, 0x1e, 0x9c) {
		t.Errorf("got %+v", v)
	}

	v, err = Hex("#f0c")
	if err != nil {
		t.Fatalf("Hex short: %v", err)
	}
	if v != RGB(0xff, 0x00, 0xcc) {
		t.Errorf("short form got %+v", v)
	}

	if _, err := Hex("not-a-color"); err == nil {
		t.Error("expected error for malformed input")
	}
}
