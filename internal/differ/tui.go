// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scrapediff/scrapediff/internal/snapshot"
)

// ErrNoSelection is returned when the picker is left without choosing two
// snapshots.
var ErrNoSelection = errors.New("no snapshots selected")

var (
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// SelectSnapshots lets the user pick two snapshots interactively. The pair is
// returned oldest first.
func SelectSnapshots(snaps []snapshot.Snapshot, in io.Reader, out io.Writer) ([]snapshot.Snapshot, error) {
	p := tea.NewProgram(newPicker(snaps), tea.WithInput(in), tea.WithOutput(out))
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	return m.(picker).result()
}

type picker struct {
	items    []snapshot.Snapshot // newest first
	filter   textinput.Model
	cursor   int
	selected []string // sources, at most 2
	done     bool
}

func newPicker(snaps []snapshot.Snapshot) picker {
	items := make([]snapshot.Snapshot, len(snaps))
	for i, s := range snaps {
		items[len(snaps)-1-i] = s
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 64

	return picker{items: items, filter: ti}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.Focused() {
		switch key.String() {
		case "esc", "enter":
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	visible := m.visible()
	switch key.String() {
	case "/":
		cmd := m.filter.Focus()
		return m, cmd
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ":
		if len(visible) == 0 {
			return m, nil
		}
		src := visible[m.cursor].Source()
		if i := indexOf(m.selected, src); i >= 0 {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
		} else if len(m.selected) < 2 {
			m.selected = append(m.selected, src)
		}
	case "enter":
		if len(m.selected) == 2 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m picker) View() string {
	var sb strings.Builder
	sb.WriteString("Select two snapshots:\n\n")
	if m.filter.Focused() || m.filter.Value() != "" {
		sb.WriteString(m.filter.View() + "\n\n")
	}

	for i, s := range m.visible() {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := " "
		line := fmt.Sprintf("%s  %s", s.CapturedAt().Format(snapshot.RecordLayout), s.Source())
		if indexOf(m.selected, s.Source()) >= 0 {
			mark = "x"
			line = selectedStyle.Render(line)
		}
		fmt.Fprintf(&sb, "%s [%s] %s\n", cursor, mark, line)
	}

	sb.WriteString("\n" + helpStyle.Render("SPACE: toggle, ENTER: go, /: filter, Q/ESCAPE: quit") + "\n")
	return sb.String()
}

func (m picker) visible() []snapshot.Snapshot {
	f := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if f == "" {
		return m.items
	}
	var out []snapshot.Snapshot
	for _, s := range m.items {
		if strings.Contains(strings.ToLower(s.Source()), f) {
			out = append(out, s)
		}
	}
	return out
}

func (m picker) result() ([]snapshot.Snapshot, error) {
	if !m.done || len(m.selected) != 2 {
		return nil, ErrNoSelection
	}
	var out []snapshot.Snapshot
	for i := len(m.items) - 1; i >= 0; i-- {
		if indexOf(m.selected, m.items[i].Source()) >= 0 {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
