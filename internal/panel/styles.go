package panel

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/version"
)

// Application branding constants
const (
	AppName   = "LIGHTCTL"
	GitHubURL = "github.com/muurk/lightctl"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 48 // Minimum supported terminal width
	DefaultWidth     = 80 // Used until the first tea.WindowSizeMsg
	DefaultHeight    = 24
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#FF8B94") // Pink
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor       = lipgloss.Color("#FFFFFF") // White
	SubtleColor     = lipgloss.Color("#626262") // Gray
	BorderColor     = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor  = lipgloss.Color("#43BF6D") // Green (same as secondary)
	BackgroundColor = lipgloss.Color("#1A1A1A") // Dark gray
)

var (
	// LabelStyle is a control's field label
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Bold(true)

	// FocusedLabelStyle marks the control that receives keys
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// ButtonStyle is an unselected button
	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	// ActiveButtonStyle is the selected button of a toggle or pattern grid
	ActiveButtonStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(HighlightColor).
				Bold(true).
				Padding(0, 1)

	// CursorButtonStyle is the button under the cursor in a focused control
	CursorButtonStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	// SliderFillStyle is the filled part of a range slider
	SliderFillStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// SliderTrackStyle is the empty part of a range slider
	SliderTrackStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	// InputStyle is the numeric text box next to a slider
	InputStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Underline(true)

	// BoundsStyle shows a slider's min..max
	BoundsStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// StatusBarStyle frames the status line
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Background(BackgroundColor).
			Padding(0, 1)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// LiveStyle marks a connected live sync session
	LiveStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	// OfflineStyle marks a dropped live sync session
	OfflineStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// HintStyle is for muted inline hints
	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)
)

// statusStyle returns the status line color for a level.
func statusStyle(level events.StatusLevel) lipgloss.Style {
	style := StatusBarStyle
	switch level {
	case events.StatusPending:
		return style.Foreground(WarningColor)
	case events.StatusSuccess:
		return style.Foreground(SecondaryColor)
	case events.StatusFailure:
		return style.Foreground(ErrorColor).Bold(true)
	default:
		return style.Foreground(TextColor)
	}
}

// BuildHeaderContent creates header content with app name, version and the
// controller being driven.
func BuildHeaderContent(target string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(target)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// ContentWidth is the usable width inside RenderApplicationContainer.
func ContentWidth(terminalWidth int) int {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	return terminalWidth - 6
}

// RenderApplicationContainer wraps the panel in a full-screen bordered frame
// with a header and a help footer pinned below the content.
func RenderApplicationContainer(content, header, footer string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(BuildFooterContent(footer)),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top)
	if terminalHeight > 2 {
		borderStyle = borderStyle.Height(terminalHeight - 2)
	}

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(inner),
	)
}
