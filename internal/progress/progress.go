// Package progress renders a one-line progress bar to stderr: elapsed time,
// bar, percentage, pos/len, ETA -- the exact format spec.md §6 calls for.
// No bar-rendering library appears anywhere in the retrieved corpus, so
// this is built on the standard library alone (see DESIGN.md).
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Bar tracks progress through a fixed-length unit of work and renders
// itself to an io.Writer (stderr in normal use) every time Set is called.
type Bar struct {
	out     io.Writer
	label   string
	len     int
	pos     int
	start   time.Time
	width   int
	lastLen int
}

// New returns a Bar for a unit of work of the given length, labelled (e.g.
// with the current layer's comparator count) for display.
func New(label string, length int) *Bar {
	return &Bar{
		out:   os.Stderr,
		label: label,
		len:   length,
		start: time.Now(),
		width: 30,
	}
}

// Set updates the current position and redraws the bar in place.
func (b *Bar) Set(pos int) {
	b.pos = pos
	b.render()
}

// Finish draws the bar at 100% and moves to a fresh line.
func (b *Bar) Finish() {
	b.pos = b.len
	b.render()
	fmt.Fprintln(b.out)
}

func (b *Bar) render() {
	frac := 0.0
	if b.len > 0 {
		frac = float64(b.pos) / float64(b.len)
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(b.width))
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", b.width-filled)

	elapsed := time.Since(b.start)
	var eta time.Duration
	if b.pos > 0 && b.pos < b.len {
		eta = time.Duration(float64(elapsed) / float64(b.pos) * float64(b.len-b.pos))
	}

	line := fmt.Sprintf("\r%s elapsed=%s [%s] %5.1f%% %d/%d eta=%s",
		b.label, truncate(elapsed), bar, frac*100, b.pos, b.len, truncate(eta))

	// Pad over any leftover characters from a longer previous line, then
	// remember this line's length for next time. I/O errors here are not
	// actionable (spec.md §7) and are silently dropped.
	pad := ""
	if b.lastLen > len(line) {
		pad = strings.Repeat(" ", b.lastLen-len(line))
	}
	b.lastLen = len(line)
	_, _ = fmt.Fprint(b.out, line+pad)
}

func truncate(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
