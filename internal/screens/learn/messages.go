package learn

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/learning"
)

// ChangedMsg is sent after the learning session changes.
type ChangedMsg struct{}

// WaitForChange returns a command that delivers ChangedMsg on the machine's
// next change notification. Once the machine is closed the command yields
// nil and the subscription ends.
func WaitForChange(m *learning.Machine) tea.Cmd {
	ch := m.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// selectStepMsg is sent when a next-step topic is picked from the menu.
type selectStepMsg struct {
	Topic string
}

// ratedMsg is sent when a feedback rating has been delivered or has failed.
type ratedMsg struct {
	Rating int
	Err    error
}
