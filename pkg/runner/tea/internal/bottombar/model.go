package bottombar

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/runner/tea/internal/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeCommand:
		return "CMD"
	case ModeHelp:
		return "HELP"
	default:
		return "NORMAL"
	}
}

// CommandOption describes a command palette entry.
type CommandOption struct {
	Name        string
	Description string
}

// Model tracks footer/help/status rendering state.
type Model struct {
	styles          theme.FooterTheme
	mode            Mode
	helpLine        string
	statusLine      string
	statusErr       bool
	moodPreview     string
	moodColor       string
	commandInput    string
	commandView     string
	commandOptions  []CommandOption
	filteredOptions []CommandOption
	maxSuggestions  int
}

// New returns a footer model with sensible defaults.
func New(t theme.Theme) Model {
	return Model{
		styles:         t.Footer,
		mode:           ModeNormal,
		maxSuggestions: 6,
	}
}

// Mode reports the current visual mode.
func (m Model) Mode() Mode {
	return m.mode
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	if mode != ModeCommand {
		m.filteredOptions = nil
		m.commandInput = ""
		m.commandView = ""
		return
	}
	m.filterSuggestions(m.commandInput)
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
	m.statusErr = false
}

// SetError shows err as the status message.
func (m *Model) SetError(prefix string, err error) {
	if prefix != "" {
		m.statusLine = "ERR: " + prefix + ": " + err.Error()
	} else {
		m.statusLine = "ERR: " + err.Error()
	}
	m.statusErr = true
}

// Status returns the current status message.
func (m Model) Status() string {
	return m.statusLine
}

// SetMoodPreview shows the highlighted mood in the footer.
func (m *Model) SetMoodPreview(label, color string) {
	m.moodPreview = label
	m.moodColor = color
}

// SetCommandDefinitions configures the available command palette entries.
func (m *Model) SetCommandDefinitions(cmds []CommandOption) {
	m.commandOptions = cmds
	m.filterSuggestions(m.commandInput)
}

// UpdateCommandInput refreshes the command palette filter and rendered line.
func (m *Model) UpdateCommandInput(value string, view string) {
	m.commandInput = value
	m.commandView = ":" + view
	m.filterSuggestions(value)
}

// Suggestions returns the palette entries matching the current input.
func (m Model) Suggestions() []CommandOption {
	return append([]CommandOption(nil), m.filteredOptions...)
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	switch m.mode {
	case ModeCommand:
		lines := len(m.filteredOptions)
		if lines > m.maxSuggestions {
			lines = m.maxSuggestions
		}
		// Include command input line.
		return lines + 1
	default:
		return 1
	}
}

// View renders the footer string and reports lines consumed.
func (m Model) View() (string, int) {
	switch m.mode {
	case ModeCommand:
		return m.renderCommandMode()
	default:
		return m.renderStatusLine(), 1
	}
}

func (m Model) renderStatusLine() string {
	segments := []string{m.styles.Mode.Render("[" + m.mode.String() + "]")}
	if m.helpLine != "" {
		segments = append(segments, m.styles.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.Error
		}
		segments = append(segments, style.Render(m.statusLine))
	}
	if m.moodPreview != "" {
		style := lipgloss.NewStyle()
		if m.moodColor != "" {
			style = style.Foreground(lipgloss.Color(m.moodColor))
		}
		segments = append(segments, style.Render(m.moodPreview))
	}
	return strings.Join(segments, " │ ")
}

func (m Model) renderCommandMode() (string, int) {
	var lines []string
	if len(m.filteredOptions) == 0 && m.statusLine != "" {
		lines = append(lines, m.styles.Status.Render(m.statusLine))
	} else {
		limit := m.maxSuggestions
		if limit <= 0 || limit > len(m.filteredOptions) {
			limit = len(m.filteredOptions)
		}
		for i := 0; i < limit; i++ {
			opt := m.filteredOptions[i]
			nameStyle := m.styles.CommandName
			if i == 0 && m.commandInput != "" {
				nameStyle = m.styles.CommandSelectedName
			}
			name := nameStyle.Render(":" + opt.Name)
			if opt.Description == "" {
				lines = append(lines, name)
				continue
			}
			lines = append(lines, name+"  "+m.styles.CommandDescription.Render(opt.Description))
		}
	}
	commandLine := m.commandView
	if commandLine == "" {
		commandLine = ":"
	}
	lines = append(lines, commandLine)
	return strings.Join(lines, "\n"), len(lines)
}

func (m *Model) filterSuggestions(prefix string) {
	if m.mode != ModeCommand {
		m.filteredOptions = nil
		return
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	m.filteredOptions = m.filteredOptions[:0]
	for _, opt := range m.commandOptions {
		if prefix == "" || strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			m.filteredOptions = append(m.filteredOptions, opt)
		}
	}
}
