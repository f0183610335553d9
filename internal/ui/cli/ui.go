package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	coreapp "comptree/internal/core/app"
	"comptree/internal/core/ports"
	"comptree/internal/engine/graph"
	"comptree/internal/output"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	unresolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	// file is the absolute path opened by the source jump, if any.
	file string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelTree panelMode = iota
	panelIssues
)

type model struct {
	report     viewport.Model
	issueList  list.Model
	mode       panelMode
	showTrend  bool
	results    []ports.AnalysisResult
	rendered   string
	lastErr    error
	lastUpdate time.Time
	updates    int

	sourceJumpStatus string
}

type updateMsg struct {
	results  []ports.AnalysisResult
	rendered string
	err      error
	at       time.Time
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func updateMsgFrom(update coreapp.Update) updateMsg {
	return updateMsg{
		results:  update.Results,
		rendered: update.Rendered,
		err:      update.Err,
		at:       update.At,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.report.Width = width
		m.report.Height = height
		m.issueList.SetSize(width, height)
		return m, nil
	case updateMsg:
		m.results = msg.results
		m.rendered = msg.rendered
		m.lastErr = msg.err
		m.lastUpdate = msg.at
		m.updates++
		m.report.SetContent(m.rendered)
		m.issueList.SetItems(issueItems(m.results))
		return m, nil
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Source jump failed: %v", msg.err))
		} else {
			m.sourceJumpStatus = statusStyle.Render(fmt.Sprintf("Opened source: %s", msg.target))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == panelTree {
		m.report, cmd = m.report.Update(msg)
	} else {
		m.issueList, cmd = m.issueList.Update(msg)
	}
	return m, cmd
}

// issueItems lists circular imports, unresolved imports and oversized files
// across all results.
func issueItems(results []ports.AnalysisResult) []list.Item {
	items := []list.Item{}
	for _, result := range results {
		if result.Root == nil || result.Err != nil {
			continue
		}
		result.Root.Walk(func(n *graph.ComponentNode) bool {
			for _, dep := range n.Dependencies {
				if dep.State == graph.StateCircular {
					items = append(items, item{
						title: "Circular Import",
						desc:  fmt.Sprintf("%s -> %s", nodeLabel(n), nodeLabel(dep)),
						file:  n.Path,
					})
				}
			}
			for _, spec := range n.Unresolved {
				items = append(items, item{
					title: "Unresolved Import",
					desc:  fmt.Sprintf("%s in %s", spec, nodeLabel(n)),
					file:  n.Path,
				})
			}
			return true
		})
		for _, f := range result.Stats.LargeFiles {
			items = append(items, item{
				title: "Large File",
				desc:  fmt.Sprintf("%s [%d lines]", f.Path, f.Lines),
				file:  absoluteFor(result, f.Path),
			})
		}
		for _, f := range result.Stats.MediumFiles {
			items = append(items, item{
				title: "Medium File",
				desc:  fmt.Sprintf("%s [%d lines]", f.Path, f.Lines),
				file:  absoluteFor(result, f.Path),
			})
		}
	}
	return items
}

func nodeLabel(n *graph.ComponentNode) string {
	if n.RelativePath != "" {
		return n.RelativePath
	}
	return n.Path
}

func absoluteFor(result ports.AnalysisResult, display string) string {
	if filepath.IsAbs(display) {
		return display
	}
	return filepath.Join(result.BasePath, filepath.FromSlash(display))
}

func (m model) counts() (files, lines, circular, unresolved int) {
	for _, result := range m.results {
		if result.Err != nil {
			continue
		}
		files += result.Stats.TotalFiles
		lines += result.Stats.TotalLines
		circular += result.Stats.CircularCount
		unresolved += result.Stats.UnresolvedCount
	}
	return files, lines, circular, unresolved
}

func (m model) View() string {
	files, lines, circular, unresolved := m.counts()

	lastUpdate := "waiting for first run"
	if m.updates > 0 {
		lastUpdate = "Last update: " + m.lastUpdate.Format("15:04:05")
	}
	status := statusStyle.Render(fmt.Sprintf("%s | %d roots | %d files | %d lines", lastUpdate, len(m.results), files, lines))

	var summary string
	switch {
	case m.lastErr != nil:
		summary = cycleStyle.Render(m.lastErr.Error())
	case circular == 0 && unresolved == 0:
		summary = successStyle.Render("No circular or unresolved imports")
	default:
		summary = fmt.Sprintf("%s | %s",
			cycleStyle.Render(fmt.Sprintf("%d circular", circular)),
			unresolvedStyle.Render(fmt.Sprintf("%d unresolved", unresolved)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Component Tree Monitor"), status, summary)

	body := m.report.View()
	if m.mode == panelIssues {
		body = m.issueList.View()
	}
	if m.showTrend {
		body += "\n\n" + renderTrendOverlay(m.results)
	}
	if m.sourceJumpStatus != "" {
		body += "\n\n" + m.sourceJumpStatus
	}

	return docStyle.Render(header + "\n" + renderHelp(m) + "\n\n" + body)
}

func renderHelp(m model) string {
	panel := "tree"
	if m.mode == panelIssues {
		panel = "issues"
	}
	return statusStyle.Render(fmt.Sprintf("[%s] tab: switch panel | t: trend | o: open in $EDITOR | q: quit", panel))
}

func renderTrendOverlay(results []ports.AnalysisResult) string {
	var parts []string
	for _, result := range results {
		if result.Trend == nil {
			continue
		}
		if summary := output.RenderTrendSummary(*result.Trend); summary != "" {
			parts = append(parts, result.Component+strings.TrimRight(summary, "\n"))
		}
	}
	if len(parts) == 0 {
		return statusStyle.Render("No trend data (run with --history; at least two runs needed)")
	}
	return strings.Join(parts, "\n\n")
}

func initialModel() model {
	issueList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	issueList.Title = "Findings"
	issueList.SetShowStatusBar(false)
	issueList.SetFilteringEnabled(true)

	report := viewport.New(0, 0)
	report.SetContent("Analyzing...")

	return model{
		report:    report,
		issueList: issueList,
		mode:      panelTree,
	}
}
