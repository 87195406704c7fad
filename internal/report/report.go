// Package report renders an assessment as a styled terminal report: one row
// per category with its score in points and a bar capped at 100, followed by
// the verdict and the guidance for the standout categories.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/phrazzld/constitution-api/internal/service"
)

// DefaultBarWidth is the bar width in cells when Options.BarWidth is unset.
const DefaultBarWidth = 30

// MaxBarScore is the score that fills the whole bar.
const MaxBarScore = 100.0

// Palette
var (
	accent = lipgloss.Color("#F97316")
	teal   = lipgloss.Color("#14B8A6")
	dim    = lipgloss.Color("#94A3B8")
	border = lipgloss.Color("#334155")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(teal)
	nameStyle    = lipgloss.NewStyle().Width(10)
	highStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	pointsStyle  = lipgloss.NewStyle().Foreground(dim)
	filledStyle  = lipgloss.NewStyle().Foreground(teal)
	emptyStyle   = lipgloss.NewStyle().Foreground(border)
	verdictStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(teal).
			Padding(0, 2)
	hintStyle = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// Options tune the rendering.
type Options struct {
	BarWidth int
}

// Render returns the report for an assessment.
func Render(a *service.Assessment, opts Options) string {
	width := opts.BarWidth
	if width <= 0 {
		width = DefaultBarWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Constitution assessment"))
	b.WriteString("\n\n")

	for _, p := range a.Profiles {
		name := nameStyle.Render(p.Name)
		if p.High {
			name = nameStyle.Bold(true).Foreground(accent).Render(p.Name)
		}
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(Bar(p.Score, width))
		b.WriteString(" ")
		b.WriteString(pointsStyle.Render(Points(p.Score)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(verdictStyle.Render(a.Verdict.Label))
	b.WriteString("\n")

	for _, p := range a.Profiles {
		if !p.High && p.CategoryID != a.Verdict.CategoryID {
			continue
		}
		b.WriteString("\n")
		b.WriteString(highStyle.Render(p.Name))
		if len(p.Tags) > 0 {
			b.WriteString(" ")
			b.WriteString(hintStyle.Render(strings.Join(p.Tags, " · ")))
		}
		b.WriteString("\n")
		b.WriteString(p.Description)
		b.WriteString("\n")
		b.WriteString(p.Recommendation)
		b.WriteString("\n")
	}

	if len(a.Skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("%d answers were skipped", len(a.Skipped))))
		b.WriteString("\n")
	}

	return b.String()
}

// Write renders the report to w.
func Write(w io.Writer, a *service.Assessment, opts Options) error {
	_, err := io.WriteString(w, Render(a, opts))
	return err
}

// Points formats a score for display, e.g. "72.5 points".
func Points(score float64) string {
	return fmt.Sprintf("%.1f points", score)
}

// Bar draws a score as a bar of width cells. Scores above MaxBarScore fill
// the bar; negative scores leave it empty.
func Bar(score float64, width int) string {
	filled := FilledCells(score, width)
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// FilledCells returns how many of width cells a score fills.
func FilledCells(score float64, width int) int {
	if width <= 0 {
		return 0
	}
	ratio := math.Min(math.Max(score, 0), MaxBarScore) / MaxBarScore
	return int(math.Round(ratio * float64(width)))
}
