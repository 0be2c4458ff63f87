package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/xstitch/pipeline"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// renderMetrics formats the pattern summary shown after generation.
func renderMetrics(res *pipeline.Result) string {
	m := res.Metrics
	rows := [][2]string{
		{"Dimensions", m.Dimensions},
		{"Stitches", styleNumber.Render(fmt.Sprint(m.StitchCount))},
		{"Time", m.Time},
		{"Fabric", m.Fabric},
		{"Floss", m.Floss},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(styleKey.Render(row[0]) + " " + styleValue.Render(row[1]) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, styleTitle.Render("Cross-Stitch Pattern"))
	fmt.Fprintln(w, renderMetrics(res))
	req := res.Request
	printKeyValue(w, "Font", fmt.Sprintf("%s %s, %s spacing", req.FontSize, req.FontFamily, req.LineSpacing))
	printKeyValue(w, "Thread", req.StitchColor.Hex()+" on "+string(req.FabricColor))
}
