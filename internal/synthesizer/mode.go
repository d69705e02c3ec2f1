package synthesizer

import "fmt"

// Mode selects the downstream analysis tool the tags are written for.
type Mode string

const (
	ModeNone    Mode = ""
	ModePHPStan Mode = "phpstan"
	ModePsalm   Mode = "psalm"
)

// ParseMode validates a mode identifier. The empty string is ModeNone.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModePHPStan, ModePsalm:
		return m, nil
	}
	return ModeNone, fmt.Errorf("unknown tool %q (want %q or %q)", s, ModePHPStan, ModePsalm)
}
