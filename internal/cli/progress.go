package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// measureProgress draws a progress bar over the files of a measurement.
// Single-file runs get no bar.
type measureProgress struct {
	quiet bool
	w     io.Writer
	bar   *progressbar.ProgressBar
}

func newMeasureProgress(quiet bool, w io.Writer) *measureProgress {
	return &measureProgress{quiet: quiet, w: w}
}

// OnFileMeasured is passed to measure.WithProgress.
func (p *measureProgress) OnFileMeasured(done, total int) {
	if p.quiet {
		return
	}
	if p.bar == nil {
		if total < 2 {
			return
		}
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("Measuring files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.w)
			}),
		)
	}
	_ = p.bar.Set(done)
}

// Finish completes the bar, if one was drawn.
func (p *measureProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}
