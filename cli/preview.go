package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/xstitch/pattern"
	"github.com/ByLCY/xstitch/pipeline"
)

// debounceDelay is how long typing must pause before the pattern is regenerated.
const debounceDelay = 300 * time.Millisecond

func newPreviewCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Live terminal preview that regenerates as you type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			req, err := cfg.Request()
			if err != nil {
				return err
			}
			req.Text = text
			// The TUI owns the terminal, so the generator stays quiet.
			gen, err := newGenerator(cfg, log.New(io.Discard), true)
			if err != nil {
				return err
			}
			m := newPreviewModel(ctx, gen, req, cfg.Export.Dir)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if pm, ok := final.(previewModel); ok && pm.err != nil {
				loggerFromContext(ctx).Warn("last generation failed", "err", pm.err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "initial text")
	return cmd
}

type regenerateMsg struct{ seq int }

type generatedMsg struct {
	seq int
	res *pipeline.Result
	err error
}

type exportedMsg struct {
	paths []string
	err   error
}

// previewModel is the bubbletea model behind `xstitch preview`.
type previewModel struct {
	ctx       context.Context
	gen       *pipeline.Generator
	req       pattern.Request
	text      []rune
	exportDir string

	seq     int  // bumped on every edit; only the latest tick regenerates
	busy    bool // a generation is running
	pending bool // another generation was requested while busy
	res     *pipeline.Result
	err     error
	status  string
	width   int
	height  int
}

func newPreviewModel(ctx context.Context, gen *pipeline.Generator, req pattern.Request, exportDir string) previewModel {
	return previewModel{
		ctx:       ctx,
		gen:       gen,
		req:       req,
		text:      []rune(req.Text),
		exportDir: exportDir,
		busy:      true, // Init starts the first generation
		width:     80,
		height:    24,
	}
}

func (m previewModel) Init() tea.Cmd {
	return m.generate()
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case regenerateMsg:
		if msg.seq == m.seq {
			return m.start()
		}
	case generatedMsg:
		m.busy = false
		if msg.seq == m.seq {
			m.res, m.err = msg.res, msg.err
		}
		if m.pending {
			m.pending = false
			return m.start()
		}
	case exportedMsg:
		if msg.err != nil {
			m.status = styleError.Render("export failed: " + msg.err.Error())
		} else {
			m.status = styleSuccess.Render(iconSuccess + " saved " + strings.Join(msg.paths, ", "))
		}
	}
	return m, nil
}

func (m previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+g":
		m.req.ShowGrid = !m.req.ShowGrid
		return m.changed(false)
	case "ctrl+f":
		m.req.FontSize = pattern.FontSize(next(pattern.FontSizes(), string(m.req.FontSize)))
		return m.changed(false)
	case "ctrl+t":
		m.req.FontFamily = pattern.FontFamily(next(pattern.FontFamilies(), string(m.req.FontFamily)))
		return m.changed(false)
	case "ctrl+l":
		m.req.LineSpacing = pattern.LineSpacing(next(pattern.LineSpacings(), string(m.req.LineSpacing)))
		return m.changed(false)
	case "ctrl+s":
		return m, m.export()
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if len(m.text) > 0 {
			m.text = m.text[:len(m.text)-1]
		}
	case tea.KeyEnter:
		m.text = append(m.text, '\n')
	case tea.KeySpace:
		m.text = append(m.text, ' ')
	case tea.KeyRunes:
		m.text = append(m.text, msg.Runes...)
	default:
		return m, nil
	}
	return m.changed(true)
}

// changed bumps the sequence number and schedules a regeneration, debounced
// for text edits and immediate for option toggles.
func (m previewModel) changed(debounce bool) (tea.Model, tea.Cmd) {
	m.seq++
	m.req.Text = string(m.text)
	m.status = ""
	if !debounce {
		return m.start()
	}
	seq := m.seq
	return m, tea.Tick(debounceDelay, func(time.Time) tea.Msg { return regenerateMsg{seq: seq} })
}

// start runs one generation at a time so the generator's latest pattern
// always matches the latest request.
func (m previewModel) start() (tea.Model, tea.Cmd) {
	if m.busy {
		m.pending = true
		return m, nil
	}
	m.busy = true
	return m, m.generate()
}

func (m previewModel) generate() tea.Cmd {
	ctx, gen, req, seq := m.ctx, m.gen, m.req, m.seq
	return func() tea.Msg {
		res, err := gen.Generate(ctx, req)
		return generatedMsg{seq: seq, res: res, err: err}
	}
}

func (m previewModel) export() tea.Cmd {
	gen, dir, grid := m.gen, m.exportDir, m.req.ShowGrid
	return func() tea.Msg {
		paths, err := writeExports(gen, dir, exportSet{png: true, withGrid: grid, pdf: true})
		return exportedMsg{paths: paths, err: err}
	}
}

func (m previewModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("xstitch preview"))
	b.WriteString("\n\n")

	input := string(m.text)
	if input == "" {
		input = styleDim.Render("start typing…")
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Width(max(20, m.width-4))
	b.WriteString(box.Render(input + "▏"))
	b.WriteString("\n")

	b.WriteString(styleDim.Render(fmt.Sprintf("size %s · font %s · spacing %s · grid %v",
		m.req.FontSize, m.req.FontFamily, m.req.LineSpacing, m.req.ShowGrid)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styleError.Render(m.err.Error()))
	case m.res == nil || m.res.Empty:
		b.WriteString(styleDim.Render("no pattern"))
	default:
		b.WriteString(renderMetrics(m.res))
		b.WriteString("\n\n")
		b.WriteString(clip(m.res.Grid.Rows(), m.width, m.height-16))
	}
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(styleDim.Render("ctrl+f size  ctrl+t font  ctrl+l spacing  ctrl+g grid  ctrl+s export  esc quit"))
	return b.String()
}

// clip crops the ASCII grid to the visible area.
func clip(rows []string, width, height int) string {
	height = max(1, height)
	truncated := len(rows) > height
	if truncated {
		rows = rows[:height]
	}
	out := make([]string, 0, len(rows)+1)
	for _, row := range rows {
		if width > 0 && len(row) > width {
			row = row[:width]
		}
		out = append(out, row)
	}
	if truncated {
		out = append(out, "…")
	}
	return strings.Join(out, "\n")
}

// next returns the entry after current in values, wrapping around.
func next(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
