// Package tui is the interactive front end: a live counter, progress bar,
// growth chart and projection table, plus a form to change the run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/rs/zerolog"
)

const (
	msgConfigured = "Calculation updated successfully!"
	msgStarted    = "Timer started!"
	msgStopped    = "Timer stopped."
	msgReset      = "Counter reset to initial amount"
	msgGoal       = "Congratulations! You've reached your financial goal!"

	feedbackTTL = 4 * time.Second
	frameRate   = 30
)

type screenMode int

const (
	screenTracker screenMode = iota
	screenConfigure
)

type clockTickMsg struct {
	sessionID int
}

type frameMsg struct {
	sessionID int
}

type clearFeedbackMsg struct {
	id int
}

type Options struct {
	Tracker      *tracker.Tracker
	Clock        tracker.Clock
	TickInterval time.Duration
	Logger       zerolog.Logger
	// Observe sees every snapshot the model renders.
	Observe func(tracker.Snapshot)
}

type model struct {
	tracker *tracker.Tracker
	clock   tracker.Clock
	tick    time.Duration
	logger  zerolog.Logger
	observe func(tracker.Snapshot)

	width  int
	height int

	screen    screenMode
	showHelp  bool
	showTable bool

	snap        tracker.Snapshot
	tickSession int

	spring       harmonica.Spring
	shown        float64
	velocity     float64
	animating    bool
	frameSession int

	progress progress.Model
	help     help.Model
	keys     keyMap
	formKeys formKeyMap
	form     configureForm

	feedback   string
	feedbackID int
	quitting   bool
}

// New expects a tracker that has already been resumed from storage.
func New(opts Options) tea.Model {
	if opts.Clock == nil {
		opts.Clock = tracker.RealClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}

	snap := opts.Tracker.Snapshot()
	m := model{
		tracker:  opts.Tracker,
		clock:    opts.Clock,
		tick:     opts.TickInterval,
		logger:   opts.Logger.With().Str("component", "tui").Logger(),
		observe:  opts.Observe,
		screen:   screenTracker,
		snap:     snap,
		spring:   harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 1.0),
		shown:    snap.CurrentAmount,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultKeyMap(),
		formKeys: defaultFormKeyMap(),
		form:     newConfigureForm(),
	}
	if snap.GoalReached {
		m.feedback = msgGoal
		m.feedbackID = 1
	}
	return m
}

func (m model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.snap.Running {
		cmds = append(cmds, m.clockTickCmd())
	}
	if m.feedback != "" {
		cmds = append(cmds, clearFeedbackCmd(m.feedbackID))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(20, msg.Width-24)
		m.help.Width = msg.Width
		return m, nil

	case clockTickMsg:
		if msg.sessionID != m.tickSession {
			return m, nil
		}
		prevErr := m.snap.PersistErr
		snap := m.tracker.Recompute(context.Background(), m.clock.Now())
		cmds := []tea.Cmd{m.setSnapshot(snap)}
		if snap.Running {
			cmds = append(cmds, m.clockTickCmd())
		}
		switch {
		case snap.GoalReached:
			next, cmd := m.withFeedback(msgGoal)
			return next, tea.Batch(append(cmds, cmd)...)
		case snap.PersistErr != nil && prevErr == nil:
			next, cmd := m.withFeedback("progress not saved: " + snap.PersistErr.Error())
			return next, tea.Batch(append(cmds, cmd)...)
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if msg.sessionID != m.frameSession || !m.animating {
			return m, nil
		}
		target := m.snap.CurrentAmount
		m.shown, m.velocity = m.spring.Update(m.shown, m.velocity, target)
		if math.Abs(target-m.shown) < 0.005 && math.Abs(m.velocity) < 0.005 {
			m.shown = target
			m.velocity = 0
			m.animating = false
			return m, nil
		}
		return m, m.frameCmd()

	case clearFeedbackMsg:
		if msg.id == m.feedbackID {
			m.feedback = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch {
			case msg.String() == "esc", key.Matches(msg, m.keys.Help):
				m.showHelp = false
			case msg.String() == "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.screen == screenConfigure {
			return m.updateForm(msg)
		}
		return m.updateTracker(msg)
	}

	if m.screen == screenConfigure {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateTracker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Table):
		m.showTable = !m.showTable
		return m, nil

	case key.Matches(msg, m.keys.Configure):
		m.form.load(m.snap.Record)
		m.screen = screenConfigure
		return m, nil

	case key.Matches(msg, m.keys.Start):
		if err := m.tracker.Start(ctx, m.clock.Now()); err != nil {
			if errors.Is(err, tracker.ErrInvalidTransition) && m.snap.Running {
				return m.withFeedback("Timer is already running.")
			}
			return m.withFeedback(err.Error())
		}
		m.tickSession++
		anim := m.setSnapshot(m.tracker.Snapshot())
		next, cmd := m.commandResult(msgStarted)
		return next, tea.Batch(anim, cmd, m.clockTickCmd())

	case key.Matches(msg, m.keys.Stop):
		if err := m.tracker.Stop(ctx); err != nil {
			if errors.Is(err, tracker.ErrInvalidTransition) {
				return m.withFeedback("Timer is not running.")
			}
			return m.withFeedback(err.Error())
		}
		m.tickSession++
		anim := m.setSnapshot(m.tracker.Snapshot())
		next, cmd := m.commandResult(msgStopped)
		return next, tea.Batch(anim, cmd)

	case key.Matches(msg, m.keys.Reset):
		if !m.snap.Running && m.snap.CurrentAmount == m.snap.Record.Principal {
			return m.withFeedback("Counter is already at the initial amount.")
		}
		m.tracker.Reset(ctx)
		m.tickSession++
		anim := m.setSnapshot(m.tracker.Snapshot())
		next, cmd := m.commandResult(msgReset)
		return next, tea.Batch(anim, cmd)
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.formKeys.Cancel):
		m.form.blurAll()
		m.screen = screenTracker
		return m, nil

	case key.Matches(msg, m.formKeys.Next):
		m.form.setFocus(m.form.focus + 1)
		return m, nil

	case key.Matches(msg, m.formKeys.Prev):
		m.form.setFocus(m.form.focus - 1)
		return m, nil

	case key.Matches(msg, m.formKeys.Submit):
		m.form.formatPrincipal()
		principal, rate, years, err := m.form.values()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		if err := m.tracker.Configure(context.Background(), principal, rate, years); err != nil {
			m.form.err = describeParamError(err)
			return m, nil
		}
		m.form.blurAll()
		m.form.err = ""
		m.screen = screenTracker
		m.tickSession++
		anim := m.setSnapshot(m.tracker.Snapshot())
		next, cmd := m.commandResult(msgConfigured)
		return next, tea.Batch(anim, cmd)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// setSnapshot stores snap and starts the counter animation toward it.
func (m *model) setSnapshot(snap tracker.Snapshot) tea.Cmd {
	m.snap = snap
	if m.observe != nil {
		m.observe(snap)
	}
	if m.shown == snap.CurrentAmount || m.animating {
		return nil
	}
	m.animating = true
	m.frameSession++
	return m.frameCmd()
}

// commandResult reports text, or the save failure if the command could not
// be persisted.
func (m model) commandResult(text string) (tea.Model, tea.Cmd) {
	if m.snap.PersistErr != nil {
		m.logger.Warn().Err(m.snap.PersistErr).Msg("Command applied but not saved")
		return m.withFeedback(text + " (not saved: " + m.snap.PersistErr.Error() + ")")
	}
	return m.withFeedback(text)
}

func (m model) withFeedback(text string) (tea.Model, tea.Cmd) {
	m.feedback = text
	m.feedbackID++
	return m, clearFeedbackCmd(m.feedbackID)
}

func clearFeedbackCmd(id int) tea.Cmd {
	return tea.Tick(feedbackTTL, func(time.Time) tea.Msg {
		return clearFeedbackMsg{id: id}
	})
}

func (m model) clockTickCmd() tea.Cmd {
	session := m.tickSession
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return clockTickMsg{sessionID: session}
	})
}

func (m model) frameCmd() tea.Cmd {
	session := m.frameSession
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg {
		return frameMsg{sessionID: session}
	})
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(coral).
		Padding(1, 1)
	contentStyle := lipgloss.NewStyle().Padding(1, 1, 0, 1)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}
	layoutWidth := max(40, m.width-frame.GetHorizontalFrameSize()-contentStyle.GetHorizontalFrameSize())
	layoutHeight := max(1, m.height-frame.GetVerticalFrameSize()-contentStyle.GetVerticalFrameSize())

	if m.showHelp {
		overlay := renderHelpOverlay(m.help.FullHelpView(m.keys.FullHelp()), layoutWidth)
		return frame.Render(contentStyle.Render(lipgloss.Place(layoutWidth, layoutHeight, lipgloss.Center, lipgloss.Center, overlay)))
	}

	var body string
	if m.screen == screenConfigure {
		body = m.form.view(layoutWidth) + "\n\n" + m.help.View(m.formKeys)
	} else {
		body = m.renderTrackerScreen(layoutWidth)
	}
	return frame.Render(contentStyle.Render(body))
}

func (m model) renderTrackerScreen(layoutWidth int) string {
	snap := m.snap
	header := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderTitle())

	percent := lipgloss.NewStyle().Foreground(yellow).Bold(true).Render(fmt.Sprintf("%.4f%%", snap.PercentComplete))
	elapsed := lipgloss.NewStyle().Foreground(muted).Render(
		fmt.Sprintf("elapsed %s of %s", snap.ElapsedFormatted, growth.FormatDuration(snap.TotalSeconds)),
	)
	progressLine := m.progress.ViewAs(snap.PercentComplete/100) + " " + percent

	var detail string
	if m.showTable {
		detail = renderTable(snap.Table)
	} else {
		detail = renderChart(snap.Chart, snap, layoutWidth)
	}

	feedback := lipgloss.NewStyle().Foreground(lipgloss.Color("#B9B4D0")).Render(m.feedback)
	if m.feedback == msgGoal {
		feedback = lipgloss.NewStyle().Foreground(green).Bold(true).Render(m.feedback)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		stateBadge(snap.State),
		"",
		renderCounter(m.shown, layoutWidth),
		"",
		renderSummary(snap),
		"",
		progressLine,
		elapsed,
		"",
		detail,
		"",
		feedback,
		m.help.View(m.keys),
	)
}
