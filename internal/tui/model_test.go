package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/rs/zerolog"
)

type memStore struct{ rec *tracker.Record }

func (s *memStore) Load(context.Context) (tracker.Record, error) {
	if s.rec == nil {
		return tracker.DefaultRecord(), nil
	}
	return *s.rec, nil
}

func (s *memStore) Save(_ context.Context, rec tracker.Record) error {
	s.rec = &rec
	return nil
}

func (s *memStore) Clear(context.Context) error {
	s.rec = nil
	return nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

var testStart = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, years float64) (model, *testClock, *[]tracker.Snapshot) {
	t.Helper()
	clock := &testClock{now: testStart}
	tr := tracker.New(&memStore{}, zerolog.Nop(), tracker.Options{Clock: clock})
	if err := tr.Configure(context.Background(), 100000, 12, years); err != nil {
		t.Fatalf("Configure() unexpected error: %v", err)
	}
	var seen []tracker.Snapshot
	m := New(Options{
		Tracker: tr,
		Clock:   clock,
		Logger:  zerolog.Nop(),
		Observe: func(s tracker.Snapshot) { seen = append(seen, s) },
	}).(model)
	return m, clock, &seen
}

func press(t *testing.T, m model, k string) model {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(model)
}

func send(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func TestStartThenTickAdvancesCounter(t *testing.T) {
	m, clock, seen := newTestModel(t, 5)

	m = press(t, m, "s")
	if m.snap.State != tracker.StateRunning {
		t.Fatalf("state after start = %s, want running", m.snap.State)
	}
	if m.feedback != msgStarted {
		t.Fatalf("feedback = %q, want %q", m.feedback, msgStarted)
	}

	clock.now = testStart.Add(10 * time.Second)
	m = send(m, clockTickMsg{sessionID: m.tickSession})
	if m.snap.ElapsedSeconds != 10 {
		t.Fatalf("ElapsedSeconds = %v, want 10", m.snap.ElapsedSeconds)
	}
	if m.snap.CurrentAmount <= 100000 {
		t.Fatalf("CurrentAmount = %v, want above principal", m.snap.CurrentAmount)
	}
	if len(*seen) != 2 || (*seen)[1].CurrentAmount != m.snap.CurrentAmount {
		t.Fatalf("observed %d snapshots, want start and tick", len(*seen))
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	m, clock, _ := newTestModel(t, 5)
	m = press(t, m, "s")
	staleSession := m.tickSession

	clock.now = testStart.Add(30 * time.Second)
	m = send(m, clockTickMsg{sessionID: staleSession})
	m = press(t, m, "x")
	frozen := m.snap.CurrentAmount
	if m.feedback != msgStopped {
		t.Fatalf("feedback = %q, want %q", m.feedback, msgStopped)
	}

	clock.now = testStart.Add(time.Hour)
	m = send(m, clockTickMsg{sessionID: staleSession})
	if m.snap.CurrentAmount != frozen || m.snap.Running {
		t.Fatalf("stale tick changed the snapshot: %+v", m.snap)
	}
}

func TestResetAtPrincipalIsNoop(t *testing.T) {
	m, _, seen := newTestModel(t, 5)

	m = press(t, m, "r")
	if !strings.Contains(m.feedback, "already at the initial amount") {
		t.Fatalf("feedback = %q, want no-op notice", m.feedback)
	}
	if len(*seen) != 0 {
		t.Fatalf("observed %d snapshots, want none", len(*seen))
	}
}

func TestResetAfterRunning(t *testing.T) {
	m, clock, _ := newTestModel(t, 5)
	m = press(t, m, "s")
	clock.now = testStart.Add(time.Minute)
	m = send(m, clockTickMsg{sessionID: m.tickSession})

	m = press(t, m, "r")
	if m.feedback != msgReset {
		t.Fatalf("feedback = %q, want %q", m.feedback, msgReset)
	}
	if m.snap.CurrentAmount != 100000 || m.snap.Running {
		t.Fatalf("snapshot after reset = %+v, want principal and stopped", m.snap)
	}
}

func TestConfigureFormFormatsPrincipalOnBlur(t *testing.T) {
	m, _, _ := newTestModel(t, 5)

	m = press(t, m, "c")
	if m.screen != screenConfigure {
		t.Fatalf("screen = %v, want configure", m.screen)
	}
	if got := m.form.inputs[fieldPrincipal].Value(); got != "₹1,00,000.00" {
		t.Fatalf("principal field = %q, want %q", got, "₹1,00,000.00")
	}

	m.form.inputs[fieldPrincipal].SetValue("2500000")
	m = press(t, m, "tab")
	if got := m.form.inputs[fieldPrincipal].Value(); got != "₹25,00,000.00" {
		t.Fatalf("principal field after blur = %q, want %q", got, "₹25,00,000.00")
	}
	if m.form.focus != fieldRate {
		t.Fatalf("focus = %d, want rate field", m.form.focus)
	}

	m.form.setFocus(fieldPrincipal)
	m.form.inputs[fieldPrincipal].SetValue("lots")
	m = press(t, m, "tab")
	if got := m.form.inputs[fieldPrincipal].Value(); got != "lots" {
		t.Fatalf("unparseable principal rewritten to %q", got)
	}
	m = press(t, m, "enter")
	if !strings.Contains(m.form.err, "principal") || m.screen != screenConfigure {
		t.Fatalf("form err = %q on screen %v, want principal error on the form", m.form.err, m.screen)
	}
}

func TestConfigureFormSubmit(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	m = press(t, m, "c")

	m.form.inputs[fieldPrincipal].SetValue("₹2,50,000")
	m.form.inputs[fieldRate].SetValue("-3")
	m = press(t, m, "enter")
	if m.form.err != "rate must be greater than zero" {
		t.Fatalf("form err = %q, want rate error", m.form.err)
	}
	if m.snap.Record.Principal != 100000 {
		t.Fatalf("record changed after rejected submit: %+v", m.snap.Record)
	}

	m.form.inputs[fieldRate].SetValue("8%")
	m.form.inputs[fieldYears].SetValue("10")
	m = press(t, m, "enter")
	if m.screen != screenTracker || m.feedback != msgConfigured {
		t.Fatalf("screen %v feedback %q, want tracker and %q", m.screen, m.feedback, msgConfigured)
	}
	rec := m.snap.Record
	if rec.Principal != 250000 || rec.AnnualRatePercent != 8 || rec.Years != 10 {
		t.Fatalf("record = %+v, want 250000/8/10", rec)
	}
}

func TestConfigureFormRejectsOversizedHorizon(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	m = press(t, m, "c")

	m.form.inputs[fieldYears].SetValue("99999999")
	m = press(t, m, "enter")
	if m.form.err != "years must be at most 1000" || m.screen != screenConfigure {
		t.Fatalf("form err = %q on screen %v, want horizon bound error", m.form.err, m.screen)
	}

	m.form.inputs[fieldRate].SetValue("900")
	m.form.inputs[fieldYears].SetValue("400")
	m = press(t, m, "enter")
	if !strings.Contains(m.form.err, "too large") || m.screen != screenConfigure {
		t.Fatalf("form err = %q on screen %v, want overflow error", m.form.err, m.screen)
	}
	if m.snap.Record.Years != 5 || m.snap.Record.AnnualRatePercent != 12 {
		t.Fatalf("record changed after rejected submit: %+v", m.snap.Record)
	}
}

func TestConfigureFormCancel(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	m = press(t, m, "c")
	m.form.inputs[fieldYears].SetValue("40")
	m = press(t, m, "esc")

	if m.screen != screenTracker || m.snap.Record.Years != 5 {
		t.Fatalf("cancel applied changes: screen %v years %v", m.screen, m.snap.Record.Years)
	}
}

func TestGoalReachedFeedback(t *testing.T) {
	m, clock, _ := newTestModel(t, 0.0001)
	m = press(t, m, "s")

	clock.now = testStart.Add(4000 * time.Second)
	m = send(m, clockTickMsg{sessionID: m.tickSession})
	if m.feedback != msgGoal {
		t.Fatalf("feedback = %q, want %q", m.feedback, msgGoal)
	}
	if m.snap.State != tracker.StateCompleted || m.snap.CurrentAmount != m.snap.FinalAmount {
		t.Fatalf("snapshot = %+v, want completed at final", m.snap)
	}

	m = send(m, clockTickMsg{sessionID: m.tickSession})
	if m.snap.GoalReached || m.snap.Running {
		t.Fatalf("second tick after completion = %+v, want quiet completed run", m.snap)
	}
}

func TestCounterAnimationSettles(t *testing.T) {
	m, clock, _ := newTestModel(t, 5)
	m = press(t, m, "s")
	clock.now = testStart.Add(time.Hour)
	m = send(m, clockTickMsg{sessionID: m.tickSession})

	if !m.animating {
		t.Fatal("animating = false after amount changed")
	}
	for i := 0; i < 1000 && m.animating; i++ {
		m = send(m, frameMsg{sessionID: m.frameSession})
	}
	if m.animating || m.shown != m.snap.CurrentAmount {
		t.Fatalf("shown = %v (animating %v), want %v", m.shown, m.animating, m.snap.CurrentAmount)
	}
}

func TestFeedbackClears(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	m = press(t, m, "s")

	m = send(m, clearFeedbackMsg{id: m.feedbackID - 1})
	if m.feedback == "" {
		t.Fatal("older clear message removed current feedback")
	}
	m = send(m, clearFeedbackMsg{id: m.feedbackID})
	if m.feedback != "" {
		t.Fatalf("feedback = %q, want cleared", m.feedback)
	}
}

func TestViewShowsChartOrTable(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 60})

	view := m.View()
	for _, want := range []string{"₹1,00,000.00", "status:", "Month 60", "configured"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}

	m = press(t, m, "t")
	view = m.View()
	if !strings.Contains(view, "Growth") || !strings.Contains(view, "Date") {
		t.Fatalf("table view missing projection columns:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, 5)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(model).quitting || cmd == nil {
		t.Fatal("q did not quit")
	}
	if next.View() != "" {
		t.Fatal("View() after quit should be empty")
	}
}
