package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/money"
	"github.com/lachiem1/pragati/internal/tracker"
)

const (
	fieldPrincipal = iota
	fieldRate
	fieldYears
	fieldCount
)

type configureForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newConfigureForm() configureForm {
	var f configureForm

	principal := textinput.New()
	principal.Prompt = ""
	principal.Placeholder = "₹1,00,000.00"
	principal.Width = 24
	principal.CharLimit = 32

	rate := textinput.New()
	rate.Prompt = ""
	rate.Placeholder = "12"
	rate.Width = 8
	rate.CharLimit = 8

	years := textinput.New()
	years.Prompt = ""
	years.Placeholder = "5"
	years.Width = 8
	years.CharLimit = 8

	f.inputs = [fieldCount]textinput.Model{principal, rate, years}
	return f
}

// load fills the form from rec and focuses the principal field.
func (f *configureForm) load(rec tracker.Record) {
	f.inputs[fieldPrincipal].SetValue(money.Format(rec.Principal))
	f.inputs[fieldRate].SetValue(strconv.FormatFloat(rec.AnnualRatePercent, 'f', -1, 64))
	f.inputs[fieldYears].SetValue(strconv.FormatFloat(rec.Years, 'f', -1, 64))
	f.err = ""
	f.setFocus(fieldPrincipal)
}

func (f *configureForm) setFocus(i int) {
	if f.focus == fieldPrincipal && i != fieldPrincipal {
		f.formatPrincipal()
	}
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// formatPrincipal rewrites the principal in display form when focus leaves
// it. Unparseable text is left for the user to fix.
func (f *configureForm) formatPrincipal() {
	raw := f.inputs[fieldPrincipal].Value()
	v, err := money.Parse(raw)
	if err != nil {
		return
	}
	f.inputs[fieldPrincipal].SetValue(money.Format(v))
}

func (f *configureForm) blurAll() {
	f.formatPrincipal()
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
}

func (f configureForm) update(msg tea.Msg) (configureForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// values parses the three fields. Errors name the field in user terms.
func (f configureForm) values() (principal, rate, years float64, err error) {
	principal, err = money.Parse(f.inputs[fieldPrincipal].Value())
	if err != nil {
		return 0, 0, 0, errors.New("principal must be an amount like ₹1,00,000")
	}
	rate, err = strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(f.inputs[fieldRate].Value()), "%"), 64)
	if err != nil {
		return 0, 0, 0, errors.New("rate must be a number")
	}
	years, err = strconv.ParseFloat(strings.TrimSpace(f.inputs[fieldYears].Value()), 64)
	if err != nil {
		return 0, 0, 0, errors.New("years must be a number")
	}
	return principal, rate, years, nil
}

func describeParamError(err error) string {
	var perr *growth.InvalidParameterError
	if !errors.As(err, &perr) {
		return err.Error()
	}
	switch {
	case perr.Reason == growth.ReasonOverflow:
		return "years is too large: " + perr.Reason
	case perr.Reason != "":
		return "years " + perr.Reason
	}
	switch perr.Field {
	case growth.FieldPrincipal:
		return "principal must be greater than zero"
	case growth.FieldRate:
		return "rate must be greater than zero"
	case growth.FieldYears:
		return "years must be greater than zero"
	default:
		return perr.Error()
	}
}

func renderConfigureTitle() string {
	raw := []string{
		"█▀▀ █▀█ █▄ █ █▀▀ █ █▀▀ █ █ █▀█ █▀▀",
		"█▄▄ █▄█ █ ▀█ █▀  █ █▄█ █▄█ █▀▄ ██▄",
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true)
	rows := make([]string, 0, len(raw))
	for _, line := range raw {
		rows = append(rows, style.Render(line))
	}
	return strings.Join(rows, "\n")
}

func (f configureForm) view(layoutWidth int) string {
	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderConfigureTitle())

	labels := [fieldCount]string{"Principal", "Annual rate (%)", "Years"}
	rows := make([]string, 0, fieldCount)
	for i, in := range f.inputs {
		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Width(18)
		border := lipgloss.Color("#FFFFFF")
		if i == f.focus {
			labelStyle = labelStyle.Bold(true)
			border = lipgloss.Color("#FFD54A")
		}
		field := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Render(in.View())
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, labelStyle.Render(labels[i]), field))
	}

	parts := []string{title, "", strings.Join(rows, "\n")}
	if f.err != "" {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Bold(true).Render(f.err))
	}
	if p, r, y, err := f.values(); err == nil {
		if final, err := growth.FinalAmount(p, r, y); err == nil {
			preview := fmt.Sprintf("grows to %s", money.Format(final))
			parts = append(parts, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Render(preview))
		}
	}
	return strings.Join(parts, "\n")
}
