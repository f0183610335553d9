package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if m.mode == panelIssues && m.issueList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.issueList, cmd = m.issueList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelTree {
			m.mode = panelIssues
		} else {
			m.mode = panelTree
		}
		return m, nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	case "o":
		target, ok := selectedSourceTarget(m)
		if !ok {
			m.sourceJumpStatus = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	var cmd tea.Cmd
	if m.mode == panelTree {
		m.report, cmd = m.report.Update(msg)
	} else {
		m.issueList, cmd = m.issueList.Update(msg)
	}
	return m, cmd
}

type sourceTarget struct {
	file string
	line int
}

// selectedSourceTarget is the selected finding in the issues panel, or the
// first root component in the tree panel.
func selectedSourceTarget(m model) (sourceTarget, bool) {
	if m.mode == panelIssues {
		selected, ok := m.issueList.SelectedItem().(item)
		if !ok || selected.file == "" {
			return sourceTarget{}, false
		}
		return sourceTarget{file: selected.file, line: 1}, true
	}
	for _, result := range m.results {
		if result.Err == nil && result.Path != "" {
			return sourceTarget{file: result.Path, line: 1}, true
		}
	}
	return sourceTarget{}, false
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	args := []string{target.file}
	if strings.Contains(editor, "vim") || strings.Contains(editor, "nvim") || strings.HasSuffix(editor, "/vi") || editor == "vi" {
		args = []string{fmt.Sprintf("+%d", target.line), target.file}
	}
	cmd := exec.Command(editor, args...)
	label := fmt.Sprintf("%s:%d", target.file, target.line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}
