package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type band struct {
	upTo  float64
	color lipgloss.Color
}

// Bands are checked in order; the last one covers the rest of the scale.
var gaugeBands = []band{
	{33, lipgloss.Color("#FFB6C1")},
	{66, lipgloss.Color("#FFE4B5")},
	{100, lipgloss.Color("#90EE90")},
}

const gaugeThreshold = 50.0

var (
	gaugeBarStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00008B"))
	gaugeThresholdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func bandColor(pct float64) lipgloss.Color {
	for _, b := range gaugeBands {
		if pct < b.upTo {
			return b.color
		}
	}
	return gaugeBands[len(gaugeBands)-1].color
}

// gaugeLayout returns how many of width cells are filled for score and the
// cell holding the threshold marker.
func gaugeLayout(score float64, width int) (filled, marker int) {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled = int(score*float64(width) + 0.5)
	marker = int(gaugeThreshold / 100 * float64(width))
	if marker >= width {
		marker = width - 1
	}
	return filled, marker
}

// renderGauge draws the score as a horizontal bar over colored bands with a
// marker at the decision threshold.
func renderGauge(score float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled, marker := gaugeLayout(score, width)
	var bar strings.Builder
	for i := 0; i < width; i++ {
		pct := (float64(i) + 0.5) / float64(width) * 100
		switch {
		case i == marker:
			bar.WriteString(gaugeThresholdStyle.Render("│"))
		case i < filled:
			bar.WriteString(gaugeBarStyle.Render("█"))
		default:
			bar.WriteString(lipgloss.NewStyle().Foreground(bandColor(pct)).Render("░"))
		}
	}
	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Sentiment Score  %.1f", score*100))
	return title + "\n" + bar.String() + "\n" + gaugeScale(width)
}

func gaugeScale(width int) string {
	scale := []rune(strings.Repeat(" ", width))
	place := func(at int, label string) {
		for i, r := range label {
			if at+i >= 0 && at+i < len(scale) {
				scale[at+i] = r
			}
		}
	}
	place(0, "0")
	place(width/2-1, "50")
	place(width-3, "100")
	return string(scale)
}
