// Package ui provides terminal output helpers for the predict CLI
package ui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Init applies the --no-color flag. color already disables itself off a terminal
func Init(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// label colors keyed by category
var palette = map[string]*color.Color{
	"marah":   color.New(color.FgRed, color.Bold),
	"sedih":   color.New(color.FgBlue, color.Bold),
	"senang":  color.New(color.FgGreen, color.Bold),
	"netral":  color.New(color.FgWhite),
	"cemas":   color.New(color.FgYellow, color.Bold),
	"optimis": color.New(color.FgCyan, color.Bold),
}

var (
	faint = color.New(color.Faint)
	okc   = color.New(color.FgGreen)
	warnc = color.New(color.FgYellow)
	errc  = color.New(color.FgRed)
)

// Paint colors s with the category's color, plain for unknown keys
func Paint(key, s string) string {
	if c, ok := palette[key]; ok {
		return c.Sprint(s)
	}
	return s
}

// Faint renders secondary text
func Faint(s string) string { return faint.Sprint(s) }

// BarWidth is the number of cells in a distribution bar
const BarWidth = 20

// Bar draws p (0..1) as a fixed width bar
func Bar(p float64) string {
	n := int(math.Round(p * BarWidth))
	n = max(0, min(BarWidth, n))
	return strings.Repeat("█", n) + strings.Repeat("░", BarWidth-n)
}

// Success writes a success line
func Success(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", okc.Sprint("✓"), fmt.Sprintf(format, args...))
}

// Warning writes a warning line
func Warning(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", warnc.Sprint("⚠"), fmt.Sprintf(format, args...))
}

// Error writes an error line
func Error(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errc.Sprint("✗"), fmt.Sprintf(format, args...))
}

// Spinner shows indeterminate progress while the model loads
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner builds a spinner writing to w. It stays silent off a terminal
func NewSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	return &Spinner{s: s}
}

// Start starts the animation
func (s *Spinner) Start() { s.s.Start() }

// Stop stops the animation and clears the line
func (s *Spinner) Stop() { s.s.Stop() }

// Progress counts processed rows
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress builds a progress bar over total items writing to w
func NewProgress(w io.Writer, total int, description string) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("comments"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(w, "\n")
		}),
	)
	return &Progress{bar: bar}
}

// Add advances the bar by one item
func (p *Progress) Add() { _ = p.bar.Add(1) }

// Finish completes the bar
func (p *Progress) Finish() { _ = p.bar.Finish() }
