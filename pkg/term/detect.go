package term

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/odvcencio/weft/pkg/style"
)

// Capabilities describes what the attached terminal can do. It is
// accepted by the rest of the toolkit as a plain value, so callers can
// construct one by hand for testing or forced configurations.
type Capabilities struct {
	Colors         style.ColorSupport
	Unicode        bool
	InteractiveIn  bool
	InteractiveOut bool
}

// Detect inspects the streams and the environment (TERM, COLORTERM,
// NO_COLOR, CLICOLOR_FORCE, locale) and returns the detected
// capabilities.
func Detect(in, out *os.File) Capabilities {
	caps := Capabilities{
		InteractiveIn:  isTerminal(in),
		InteractiveOut: isTerminal(out),
		Unicode:        localeIsUTF8(os.Getenv),
	}
	if out != nil {
		caps.Colors = colorSupport(termenv.NewOutput(out).EnvColorProfile())
	}
	if !caps.InteractiveOut && !envForcesColor() {
		caps.Colors = style.ColorSupportNone
	}
	return caps
}

func isTerminal(f *os.File) bool {
	return f != nil && xterm.IsTerminal(int(f.Fd()))
}

func colorSupport(p termenv.Profile) style.ColorSupport {
	switch p {
	case termenv.TrueColor:
		return style.ColorSupportTrueColor
	case termenv.ANSI256:
		return style.ColorSupportAnsi256
	case termenv.ANSI:
		return style.ColorSupportAnsi16
	default:
		return style.ColorSupportNone
	}
}

func envForcesColor() bool {
	force := os.Getenv("CLICOLOR_FORCE")
	return force != "" && force != "0"
}

// localeIsUTF8 reports whether the locale variables request UTF-8
// output, checking LC_ALL, then LC_CTYPE, then LANG.
func localeIsUTF8(getenv func(string) string) bool {
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(name); v != "" {
			v = strings.ToLower(v)
			return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
		}
	}
	return false
}
