package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Detail DetailTheme
	Chart  ChartTheme
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	Error               lipgloss.Style
	Mode                lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
}

// DetailTheme styles the single entry screen.
type DetailTheme struct {
	Panel   lipgloss.Style
	Faint   lipgloss.Style
	Missing lipgloss.Style
}

// ChartTheme styles the distribution and trend charts.
type ChartTheme struct {
	Title lipgloss.Style
	Faint lipgloss.Style
	Trend lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return Theme{
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:               lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Mode:                faint,
			CommandName:         commandName,
			CommandDescription:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			CommandSelectedName: commandName.Reverse(true),
		},
		Detail: DetailTheme{
			Panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
			Faint:   faint,
			Missing: lipgloss.NewStyle().Italic(true),
		},
		Chart: ChartTheme{
			Title: lipgloss.NewStyle().Bold(true).Underline(true),
			Faint: faint,
			Trend: lipgloss.NewStyle().Foreground(lipgloss.Color("#42A5F5")),
		},
	}
}
