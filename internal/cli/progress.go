package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

const progressSteps = 1000

// progressBar renders export.ProgressSink updates as a terminal bar.
type progressBar struct {
	bar  *progressbar.ProgressBar
	clip string
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{
		bar: progressbar.NewOptions(progressSteps,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetDescription("exporting"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (p *progressBar) Progress(clip string, fraction float64) {
	if clip != p.clip {
		p.clip = clip
		p.bar.Describe(clip)
	}
	step := int(fraction * progressSteps)
	_ = p.bar.Set(max(0, min(step, progressSteps)))
}

func (p *progressBar) finish() {
	_ = p.bar.Finish()
}
