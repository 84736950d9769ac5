package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/lightctl/internal/palette"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way commands should output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintTitle prints a section title
func (p *Printer) PrintTitle(title string) {
	p.Println(TitleStyle.Render(strings.ToUpper(title)))
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting lines
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.PrintResult(NewFailureResult(title, err, troubleshooting))
}

// PrintTable prints rows under headers as a borderless table
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	p.Print(RenderTable(headers, rows))
}

// RenderTable renders a borderless table, two spaces between columns and
// headers in TableHeaderStyle.
func RenderTable(headers []string, rows [][]string) string {
	last := len(headers) - 1
	cell := lipgloss.NewStyle()

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cell
			if row == table.HeaderRow {
				style = TableHeaderStyle
			}
			if col < last {
				style = style.PaddingRight(2)
			}
			return style
		})

	return t.Render() + "\n"
}

// SwatchCell renders text on the swatch's color, picking a readable
// foreground for light swatches.
func SwatchCell(s palette.Swatch, text string) string {
	fg := TextColor
	if s.L >= 50 {
		fg = DarkColor
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(s.RGB().Hex())).
		Foreground(fg).
		Render(text)
}

// RenderSwatchGrid renders the palette with columns swatches per row, each
// cell labelled with its index.
func RenderSwatchGrid(swatches []palette.Swatch, columns int) string {
	if columns <= 0 {
		columns = palette.Hues
	}

	var b strings.Builder
	for i, s := range swatches {
		b.WriteString(SwatchCell(s, fmt.Sprintf("%3d ", s.Index)))
		if (i+1)%columns == 0 || i == len(swatches)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
