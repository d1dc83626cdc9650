package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps progressbar/v3 with emplace styling
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a counting bar for a known number of steps
func NewProgressBar(max int, description string) *ProgressBar {
	return newProgressBar(os.Stderr, max, description)
}

func newProgressBar(w io.Writer, max int, description string) *ProgressBar {
	bar := progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Add increments the progress bar by n
func (p *ProgressBar) Add(n int) error {
	return p.bar.Add(n)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	return p.bar.Finish()
}

// Describe changes the description of the progress bar
func (p *ProgressBar) Describe(description string) {
	p.bar.Describe(description)
}
