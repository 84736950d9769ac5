package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/palette"
	"github.com/muurk/lightctl/internal/ui"
	"github.com/muurk/lightctl/internal/view"
)

// Grid geometry, in terminal cells.
const (
	buttonPad  = 2 // ButtonStyle padding
	buttonGap  = 1
	swatchCell = 2
	labelWidth = 14
	maxSlider  = 40
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderApplicationContainer(
		m.renderContent(),
		BuildHeaderContent(m.cfg.Target),
		m.help.View(m.keys),
		m.width,
		m.height,
	)
}

func (m Model) gridWidth() int {
	return ContentWidth(m.width)
}

func (m Model) patternRows(g *view.PatternGrid) [][]int {
	return view.FitRows(view.Widths(g.Labels(), buttonPad), m.gridWidth(), buttonGap)
}

// swatchRows keeps one hue per column when the terminal is wide enough.
func (m Model) swatchRows(g *view.SwatchGrid) [][]int {
	widths := make([]int, len(g.Swatches))
	for i := range widths {
		widths[i] = swatchCell
	}
	return view.FitRows(widths, min(m.gridWidth(), palette.Hues*swatchCell), 0)
}

func (m Model) renderContent() string {
	var b strings.Builder

	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.loadErr != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(ErrorColor).Render("✗ " + device.ShortMessage(m.loadErr)))
		b.WriteString("\n")
		b.WriteString(HintStyle.Render("press r to retry"))
		b.WriteString("\n")
	}

	if m.panel == nil {
		return b.String()
	}

	for i, c := range m.panel.Controls {
		b.WriteString("\n")
		focused := i == m.focus
		switch c := c.(type) {
		case *view.Toggle:
			b.WriteString(m.renderToggle(c, focused))
		case *view.Range:
			b.WriteString(m.renderRange(c, focused))
		case *view.PatternGrid:
			b.WriteString(m.renderPatterns(c, focused))
		case *view.SwatchGrid:
			b.WriteString(m.renderSwatches(c, focused))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderStatus() string {
	line := statusStyle(m.level).Render(m.status)
	if m.loading || m.level == events.StatusPending {
		line = m.spinner.View() + " " + line
	}

	if m.live != nil {
		if m.live.Connected {
			line += "  " + LiveStyle.Render("● live")
		} else {
			line += "  " + OfflineStyle.Render("○ live sync offline")
		}
	}
	return line
}

func renderLabel(text string, focused bool) string {
	if focused {
		return FocusedLabelStyle.Width(labelWidth).Render("▸ " + text)
	}
	return LabelStyle.Width(labelWidth).Render("  " + text)
}

// buttonStyle picks the style for one button of a toggle or pattern grid.
func buttonStyle(active, underCursor bool) lipgloss.Style {
	switch {
	case active && underCursor:
		return ActiveButtonStyle.Underline(true)
	case active:
		return ActiveButtonStyle
	case underCursor:
		return CursorButtonStyle
	default:
		return ButtonStyle
	}
}

func (m Model) renderToggle(t *view.Toggle, focused bool) string {
	cursor := m.cursors[t.Name()]
	on := buttonStyle(t.On(), focused && cursor == 0).Render("On")
	off := buttonStyle(!t.On(), focused && cursor == 1).Render("Off")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderLabel(t.Field.DisplayLabel(), focused), on, " ", off)
}

func (m Model) renderRange(r *view.Range, focused bool) string {
	width := min(maxSlider, m.gridWidth()-labelWidth-16)
	if width < 8 {
		width = 8
	}
	filled := int(r.Fraction()*float64(width) + 0.5)
	slider := SliderFillStyle.Render(strings.Repeat("━", filled)) +
		SliderTrackStyle.Render(strings.Repeat("─", width-filled))

	input := InputStyle.Render(r.Input)
	if focused && m.editing {
		input = m.input.View()
	}

	bounds := BoundsStyle.Render(fmt.Sprintf("%s..%s", formatBound(r.Min), formatBound(r.Max)))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderLabel(r.Field.DisplayLabel(), focused), slider, " ", input, " ", bounds)
}

func formatBound(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func (m Model) renderPatterns(g *view.PatternGrid, focused bool) string {
	var b strings.Builder
	b.WriteString(renderLabel(g.Field.DisplayLabel(), focused))
	b.WriteString("\n")

	if len(g.Patterns) == 0 {
		b.WriteString(HintStyle.Render("no known patterns on this controller"))
		return b.String()
	}

	cursor := m.cursors[g.Name()]
	for r, row := range m.patternRows(g) {
		if r > 0 {
			b.WriteString("\n")
		}
		buttons := make([]string, len(row))
		for c, i := range row {
			buttons[c] = buttonStyle(i == g.Active, focused && i == cursor).Render(g.Patterns[i].Name)
		}
		b.WriteString(strings.Join(buttons, strings.Repeat(" ", buttonGap)))
	}
	return b.String()
}

func (m Model) renderSwatches(g *view.SwatchGrid, focused bool) string {
	var b strings.Builder
	b.WriteString(renderLabel("Solid Color", focused))
	if g.Selected >= 0 {
		b.WriteString(HintStyle.Render(g.Swatches[g.Selected].RGB().String()))
	}
	b.WriteString("\n")

	cursor := m.cursors[g.Name()]
	for r, row := range m.swatchRows(g) {
		if r > 0 {
			b.WriteString("\n")
		}
		for _, i := range row {
			b.WriteString(renderSwatch(g.Swatches[i], i == g.Selected, focused && i == cursor))
		}
	}
	return b.String()
}

func renderSwatch(s palette.Swatch, selected, underCursor bool) string {
	mark := "  "
	switch {
	case underCursor:
		mark = "<>"
	case selected:
		mark = "[]"
	}
	return ui.SwatchCell(s, mark)
}
