package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/learning"
	"github.com/abhisek/pathwise/internal/logging"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/history"
	"github.com/abhisek/pathwise/internal/screens/home"
	"github.com/abhisek/pathwise/internal/screens/learn"
	practicescreen "github.com/abhisek/pathwise/internal/screens/practice"
	"github.com/abhisek/pathwise/internal/ui/layout"
)

// Options wires the TUI to its services. Machine is required; the rest may
// be nil, which disables the matching feature.
type Options struct {
	Machine  *learning.Machine
	Rater    learn.Rater
	Practice practicescreen.Evaluator
	History  history.Source
	Log      *logging.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	machine *learning.Machine
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options, mastered int) AppModel {
	m := opts.Machine
	homeOpts := home.Options{
		Learn: func() screen.Screen {
			return learn.New(m, opts.Rater)
		},
		MasteredCount: mastered,
	}
	if opts.Practice != nil {
		homeOpts.Practice = func() screen.Screen {
			return practicescreen.New(opts.Practice)
		}
	}
	if opts.History != nil {
		homeOpts.History = func() screen.Screen {
			return history.New(opts.History)
		}
	}

	return AppModel{
		router:  router.New(home.New(homeOpts)),
		machine: m,
	}
}

func (m AppModel) Init() tea.Cmd {
	return learn.WaitForChange(m.machine)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case learn.ChangedMsg:
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, learn.WaitForChange(m.machine))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// status summarizes the running session for the header.
func (m AppModel) status() string {
	v := m.machine.View()
	switch {
	case len(v.TopicHistory) > 0:
		return fmt.Sprintf("★ %d this session", len(v.TopicHistory))
	case v.CurrentTopic != "":
		return v.Phase.String()
	}
	return ""
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Machine == nil {
		return fmt.Errorf("app: learning machine is required")
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	mastered := 0
	if opts.History != nil {
		topics, err := opts.History.MasteredTopics(ctx)
		if err != nil {
			log.Warn("failed to load mastered topics", "error", err)
		}
		mastered = len(topics)
	}

	p := tea.NewProgram(newAppModel(opts, mastered), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
