// Package progress wraps schollz/progressbar/v3 for the driver's
// per-hunk blame-fetch loop: a throttled, count-driven bar over a
// known-size loop.
package progress

import (
	"time"

	"github.com/schollz/progressbar/v3"
)

// New returns a bar sized for total items.
func New(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(time.Second),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
