package teaui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
)

// messages
type historyMsg struct{ snap app.Snapshot[[]*entry.Entry] }
type distributionMsg struct{ snap app.Snapshot[[]entry.Distribution] }
type failureMsg struct{ err app.CommandError }
type errMsg struct{ err error }

// subscriptions holds the observers of one UI session. It is shared by every
// copy of the Model.
type subscriptions struct {
	history      *app.Observer[[]*entry.Entry]
	distribution *app.Observer[[]entry.Distribution]
}

func subscribe(svc *app.Service) *subscriptions {
	return &subscriptions{
		history:      svc.MoodHistory().Observe(),
		distribution: svc.MoodDistribution().Observe(),
	}
}

func (s *subscriptions) close() {
	if s == nil {
		return
	}
	s.history.Close()
	s.distribution.Close()
}

// waitHistory blocks for the next history snapshot. A closed observer ends
// the loop by returning nil.
func waitHistory(o *app.Observer[[]*entry.Entry]) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-o.C()
		if !ok {
			return nil
		}
		return historyMsg{snap}
	}
}

func waitDistribution(o *app.Observer[[]entry.Distribution]) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-o.C()
		if !ok {
			return nil
		}
		return distributionMsg{snap}
	}
}

func waitFailure(svc *app.Service) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-svc.Failures()
		if !ok {
			return nil
		}
		return failureMsg{f}
	}
}
