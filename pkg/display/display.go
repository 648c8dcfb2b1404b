// Package display renders bot replies as timestamped terminal lines.
package display

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/muesli/termenv"
)

// TimestampLayout is the HH:MM prefix of every rendered line.
const TimestampLayout = "15:04"

// Identity is how a bot presents itself in the terminal.
type Identity struct {
	DisplayName string
	ColorTag    string
}

// NewIdentity picks a random 256-color foreground for name.
func NewIdentity(name string) Identity {
	return Identity{
		DisplayName: name,
		ColorTag:    termenv.ANSI256Color(rand.IntN(255) + 1).Sequence(false),
	}
}

// Format renders "{HH:MM} {name}: {text}\n" without color.
func Format(id Identity, text string, now time.Time) string {
	return fmt.Sprintf("%s %s: %s\n", now.Format(TimestampLayout), id.DisplayName, text)
}

// FormatColored renders the same line wrapped in the identity's ANSI color.
func FormatColored(id Identity, text string, now time.Time) string {
	return fmt.Sprintf("%s%sm%s %s: %s%s%sm\n",
		termenv.CSI, id.ColorTag,
		now.Format(TimestampLayout), id.DisplayName, text,
		termenv.CSI, termenv.ResetSeq)
}

// Formatter chooses between the colored and plain paths.
type Formatter struct {
	Color bool
	Now   func() time.Time
}

func (f Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Format renders text for id using the formatter's settings.
func (f Formatter) Format(id Identity, text string) string {
	if f.Color && id.ColorTag != "" {
		return FormatColored(id, text, f.now())
	}
	return Format(id, text, f.now())
}
