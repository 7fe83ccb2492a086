package teaui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/mood"
	"tableflip.dev/moodlog/pkg/mood/viewmodel"
	"tableflip.dev/moodlog/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/moodlog/pkg/runner/tea/internal/theme"
)

// Model states and actions
type mode = bottombar.Mode

const (
	modeNormal  = bottombar.ModeNormal
	modeInsert  = bottombar.ModeInsert
	modeCommand = bottombar.ModeCommand
	modeHelp    = bottombar.ModeHelp
)

const mainHelp = "enter log mood, tab switch panes, c charts, ? help, q quit"

var paletteCommands = []bottombar.CommandOption{
	{Name: "chart", Description: "show distribution and weekly trend"},
	{Name: "retry", Description: "reconnect the live views"},
	{Name: "quit", Description: "exit moodlog"},
	{Name: "q", Description: "exit moodlog"},
}

type screen int

const (
	screenMain screen = iota
	screenDetail
	screenChart
)

type action int

const (
	actionNone action = iota
	actionAdd
	actionEditNotes
)

const (
	focusMoods   = 0
	focusHistory = 1
)

// Model contains UI state
type Model struct {
	svc  *app.Service
	subs *subscriptions
	now  func() time.Time

	mode   mode
	screen screen
	action action
	focus  int

	moodList list.Model
	histList list.Model
	input    textinput.Model

	history      []*entry.Entry
	distribution []entry.Distribution

	// pendingMood is the mood chosen before notes are typed.
	pendingMood mood.Option
	// detailID is the entry shown on the detail screen.
	detailID int64

	theme  theme.Theme
	footer bottombar.Model

	termWidth  int
	termHeight int

	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate
}

// New creates a UI model backed by the Service and attaches it to the live
// projections. Call Close when done with it.
func New(svc *app.Service) Model {
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	// Unfocused list should not visually highlight the selected item
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.ShowDescription = false
	dBlur.ShowDescription = false
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	var options []mood.Option
	if svc != nil {
		options = svc.AvailableMoods()
	} else {
		options = mood.Default().Options()
	}
	items := make([]list.Item, 0, len(options))
	for _, o := range options {
		items = append(items, moodItem{opt: o})
	}

	l1 := list.New(items, dFocus, 24, 20)
	l1.Title = "How are you feeling?"
	l1.SetShowHelp(false)
	l1.SetShowStatusBar(false)
	l1.SetFilteringEnabled(false)

	l2 := list.New([]list.Item{}, dBlur, 60, 20)
	l2.Title = "Mood History"
	l2.SetShowHelp(false)
	l2.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Notes (optional)"
	ti.CharLimit = 1024
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	th := theme.Default()
	footer := bottombar.New(th)
	footer.SetHelp(mainHelp)
	footer.SetCommandDefinitions(paletteCommands)

	m := Model{
		svc:      svc,
		now:      time.Now,
		mode:     modeNormal,
		screen:   screenMain,
		focus:    focusMoods,
		moodList: l1,
		histList: l2,
		input:    ti,
		theme:    th,
		footer:   footer,
		focusDel: dFocus,
		blurDel:  dBlur,
	}
	if svc != nil {
		m.subs = subscribe(svc)
	}
	m.updateFocusHeaders()
	return m
}

// Init starts listening to the live projections.
func (m Model) Init() tea.Cmd {
	if m.svc == nil || m.subs == nil {
		return nil
	}
	return tea.Batch(
		waitHistory(m.subs.history),
		waitDistribution(m.subs.distribution),
		waitFailure(m.svc),
	)
}

// Close detaches from the projections so their grace period can start.
func (m Model) Close() {
	m.subs.close()
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.footer.SetError("", msg.err)
	case historyMsg:
		if msg.snap.Err != nil {
			m.footer.SetError("history", msg.snap.Err)
		} else {
			m.setHistory(msg.snap.Value)
		}
		if m.subs != nil && !errors.Is(msg.snap.Err, app.ErrClosed) {
			cmds = append(cmds, waitHistory(m.subs.history))
		}
	case distributionMsg:
		if msg.snap.Err != nil {
			m.footer.SetError("distribution", msg.snap.Err)
		} else {
			m.distribution = msg.snap.Value
		}
		if m.subs != nil && !errors.Is(msg.snap.Err, app.ErrClosed) {
			cmds = append(cmds, waitDistribution(m.subs.distribution))
		}
	case failureMsg:
		m.footer.SetError("", msg.err)
		if m.svc != nil {
			cmds = append(cmds, waitFailure(m.svc))
		}
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.setMode(modeNormal)
				m.footer.SetHelp(mainHelp)
			}
			skipListRouting = true
		case modeInsert:
			skipListRouting = true
			switch msg.String() {
			case "enter":
				m.submitInput()
			case "esc":
				prev := m.action
				m.resetInput()
				switch prev {
				case actionAdd:
					m.footer.SetStatus("Add cancelled")
				case actionEditNotes:
					m.footer.SetStatus("Edit cancelled")
				default:
					m.footer.SetStatus("Cancelled")
				}
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeCommand:
			skipListRouting = true
			switch msg.String() {
			case "enter":
				input := strings.TrimSpace(m.input.Value())
				m.resetInput()
				switch input {
				case "q", "quit", "exit":
					cmds = append(cmds, tea.Quit)
				case "chart", "charts":
					m.screen = screenChart
				case "":
				default:
					m.footer.SetStatus(fmt.Sprintf("Unknown command: %s", input))
				}
			case "esc":
				m.resetInput()
				m.footer.SetStatus("Command cancelled")
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		case modeNormal:
			switch m.screen {
			case screenDetail:
				skipListRouting = true
				if cmd := m.updateDetail(msg); cmd != nil {
					cmds = append(cmds, cmd)
				}
			case screenChart:
				skipListRouting = true
				switch msg.String() {
				case "esc", "q", "c", "backspace":
					m.screen = screenMain
				}
			default:
				switch msg.String() {
				case "q":
					return m, tea.Quit
				case ":":
					m.enterInput(modeCommand, actionNone, "command", "", &cmds)
					m.footer.UpdateCommandInput("", m.input.View())
					skipListRouting = true
				case "?":
					m.setMode(modeHelp)
					m.footer.SetHelp("q or esc closes help")
					skipListRouting = true
				case "tab", "h", "l", "left", "right":
					if m.focus == focusMoods {
						m.focus = focusHistory
					} else {
						m.focus = focusMoods
					}
					m.updateFocusHeaders()
					skipListRouting = true
				case "c":
					m.screen = screenChart
					skipListRouting = true
				case "r":
					m.retry()
					skipListRouting = true
				case "enter":
					skipListRouting = true
					if m.focus == focusMoods {
						if it, ok := m.moodList.SelectedItem().(moodItem); ok {
							m.pendingMood = it.opt
							m.enterInput(modeInsert, actionAdd, "Notes (optional)", "", &cmds)
							m.footer.SetStatus("Logging " + it.opt.DisplayName + ": enter to save, esc to cancel")
						}
					} else if e := m.currentEntry(); e != nil {
						m.detailID = e.ID
						m.screen = screenDetail
					}
				}
			}
		}
	}

	if m.mode == modeNormal && m.screen == screenMain && !skipListRouting {
		var cmd tea.Cmd
		if m.focus == focusMoods {
			m.moodList, cmd = m.moodList.Update(msg)
		} else {
			m.histList, cmd = m.histList.Update(msg)
		}
		cmds = append(cmds, cmd)
		m.previewMood()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) retry() {
	if m.svc == nil {
		return
	}
	m.svc.MoodHistory().Retry()
	m.svc.MoodDistribution().Retry()
	m.footer.SetStatus("Reconnecting")
}

func (m *Model) setMode(md mode) {
	m.mode = md
	m.footer.SetMode(md)
}

// previewMood mirrors the highlighted catalog option into the footer.
func (m *Model) previewMood() {
	if m.focus != focusMoods {
		m.footer.SetMoodPreview("", "")
		return
	}
	if it, ok := m.moodList.SelectedItem().(moodItem); ok {
		m.footer.SetMoodPreview(it.opt.DisplayName, it.opt.Color)
	}
}

// updateDetail handles keys on the detail screen. Digits 1-5 change the mood
// to the catalog option with that level.
func (m *Model) updateDetail(msg tea.KeyPressMsg) tea.Cmd {
	e := m.detailEntry()
	key := msg.String()
	switch key {
	case "esc", "q", "backspace":
		m.screen = screenMain
		return nil
	}
	if e == nil || m.svc == nil {
		return nil
	}
	switch key {
	case "e", "i":
		var cmds []tea.Cmd
		m.enterInput(modeInsert, actionEditNotes, "Notes", e.Notes, &cmds)
		m.footer.SetStatus("Editing notes: enter to save, esc to cancel")
		return tea.Batch(cmds...)
	case "d", "x":
		m.svc.DeleteMoodEntry(e)
		m.footer.SetStatus("Deleted")
		m.screen = screenMain
	case "1", "2", "3", "4", "5":
		level := int(key[0] - '0')
		opt, ok := m.catalog().FindByLevel(level)
		if !ok {
			return nil
		}
		updated := e.Clone()
		updated.Mood = opt.DisplayName
		updated.MoodLevel = opt.Level
		m.svc.UpdateMoodEntry(updated)
		m.footer.SetStatus("Mood changed to " + opt.DisplayName)
	}
	return nil
}

func (m *Model) submitInput() {
	input := strings.TrimSpace(m.input.Value())
	switch m.action {
	case actionAdd:
		if m.svc != nil {
			m.svc.AddMoodEntry(m.pendingMood.DisplayName, m.pendingMood.Level, input)
			m.footer.SetStatus("Logged " + m.pendingMood.DisplayName)
		}
	case actionEditNotes:
		if e := m.detailEntry(); e != nil && m.svc != nil {
			updated := e.Clone()
			updated.Notes = input
			m.svc.UpdateMoodEntry(updated)
			m.footer.SetStatus("Notes saved")
		}
	}
	m.resetInput()
}

func (m *Model) enterInput(md mode, act action, placeholder, value string, cmds *[]tea.Cmd) {
	m.setMode(md)
	m.action = act
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) resetInput() {
	m.setMode(modeNormal)
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) setHistory(all []*entry.Entry) {
	m.history = all
	items := make([]list.Item, 0, len(all))
	for _, e := range all {
		items = append(items, entryItem{e: e})
	}
	m.histList.SetItems(items)
}

func (m *Model) catalog() *mood.Catalog {
	if m.svc == nil {
		return mood.Default()
	}
	return m.svc.Catalog()
}

func (m *Model) currentEntry() *entry.Entry {
	if len(m.histList.Items()) == 0 {
		return nil
	}
	it, ok := m.histList.SelectedItem().(entryItem)
	if !ok {
		return nil
	}
	return it.e
}

// detailEntry resolves the detail id against the latest history, so edits
// and deletions from anywhere show up immediately.
func (m *Model) detailEntry() *entry.Entry {
	for _, e := range m.history {
		if e.ID == m.detailID {
			return e
		}
	}
	return nil
}

// View renders the current screen with the status line.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenDetail:
		body = m.viewDetail()
	case screenChart:
		body = m.viewChart()
	default:
		gap := lipgloss.NewStyle().Padding(0, 1).Render
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.moodList.View(), gap(" "), m.histList.View())
	}

	switch m.mode {
	case modeInsert:
		prompt := "Notes: "
		if m.action == actionAdd {
			prompt = m.pendingMood.DisplayName + " notes: "
		}
		body += "\n\n" + prompt + m.input.View()
	case modeHelp:
		help := "Keys: tab switch panes, ↑/↓ move, enter log mood or open entry, c charts, r reconnect, :q quit\n" +
			"Entry: e edit notes, 1-5 change mood, d delete, esc back"
		body += "\n\n" + m.theme.Footer.Help.Italic(true).Render(help)
	}

	footer, _ := m.footer.View()
	return body + "\n\n" + footer
}

func (m Model) viewDetail() string {
	e := m.detailEntry()
	if e == nil {
		return m.theme.Detail.Missing.Render("Entry not found")
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.catalog().ColorFor(e.Mood))).Render(e.Mood)
	faint := m.theme.Detail.Faint.Render
	notes := e.Notes
	if strings.TrimSpace(notes) == "" {
		notes = faint("no notes")
	}
	lines := []string{
		label,
		faint(fmt.Sprintf("level %d · %s · #%d", e.MoodLevel, e.Timestamp.Local().Format(entry.LayoutDisplay), e.ID)),
		"",
		notes,
	}
	panel := m.theme.Detail.Panel
	if m.termWidth > 8 {
		panel = panel.Width(m.termWidth - 4)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

func (m Model) viewChart() string {
	bars := viewmodel.Bars(m.distribution, m.catalog())
	points := viewmodel.WeeklyTrend(m.history, m.now())
	return lipgloss.JoinVertical(lipgloss.Left,
		renderBars(m.theme.Chart, bars),
		"",
		renderTrend(m.theme.Chart, points),
	)
}

// Run starts the UI and blocks until it exits.
func Run(svc *app.Service) error {
	m := New(svc)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// applySizes recalculates list sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := m.termWidth / 3
	if left < 24 {
		left = 24
	}
	if left > 32 {
		left = 32
	}
	right := m.termWidth - left - 4
	if right < 20 {
		right = 20
	}
	height := m.termHeight - 3 - m.footer.Height()
	if height < 5 {
		height = 5
	}
	m.moodList.SetSize(left, height)
	m.histList.SetSize(right, height)
}

// updateFocusHeaders updates pane titles to reflect which pane is focused.
func (m *Model) updateFocusHeaders() {
	// Fixed-width prefix avoids layout shift when focus changes.
	const on = "» "
	const off = "  "
	if m.focus == focusMoods {
		m.moodList.Title = on + "How are you feeling?"
		m.histList.Title = off + "Mood History"
		m.moodList.SetDelegate(m.focusDel)
		m.histList.SetDelegate(m.blurDel)
	} else {
		m.moodList.Title = off + "How are you feeling?"
		m.histList.Title = on + "Mood History"
		m.moodList.SetDelegate(m.blurDel)
		m.histList.SetDelegate(m.focusDel)
	}
	m.previewMood()
}
