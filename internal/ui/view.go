package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lethe-anon/lethe-ui/internal/format/table"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"github.com/lethe-anon/lethe-ui/internal/page"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/muesli/reflow/truncate"
)

const (
	pageTitle     = "Lethe"
	workingNotice = "working…"
	emptyList     = "(no containers listed)"
	footerHint    = "tab/shift+tab move  enter activate  ←/→ threads  ctrl+r refresh  esc quit"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	title := pageTitle
	if m.pending > 0 {
		lines = append(lines, styledLine{text: render(styles.Title, title) + "  " + render(styles.Loading, workingNotice), raw: true})
	} else {
		lines = append(lines, styledLine{text: title, style: styles.Title})
	}
	lines = append(lines, styledLine{})
	for _, row := range m.formRows() {
		lines = append(lines, styledLine{text: row, raw: true})
	}
	lines = append(lines, styledLine{})
	lines = append(lines, styledLine{text: m.containerHeader(), style: styles.Section})
	lines = append(lines, m.containerLines()...)
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: footerHint, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

// formRows lays out the page controls as aligned label/field/action columns.
func (m *Model) formRows() []string {
	rows := [][]string{
		{m.label("Name", controlName), m.inputView(controlName), m.button("Refresh", controlRefresh)},
		{m.label("Input folder", controlInputFolder), m.inputView(controlInputFolder), m.button("Browse", controlBrowseInput)},
		{m.label("Output folder", controlOutputFolder), m.inputView(controlOutputFolder), m.button("Browse", controlBrowseOutput)},
		{m.label("Threads", controlThreads), m.threadsView()},
	}
	return table.Format(rows, nil)
}

func (m *Model) label(text string, c control) string {
	if m.focus == c {
		return render(styles.FocusedLabel, text)
	}
	return render(styles.Label, text)
}

func (m *Model) inputView(c control) string {
	ti, ok := m.inputs[c]
	if !ok {
		return ""
	}
	return ti.View()
}

func (m *Model) button(text string, c control) string {
	text = "[ " + text + " ]"
	if m.focus == c {
		return render(styles.FocusedButton, text)
	}
	return render(styles.Button, text)
}

// threadsView shows the range as its paired label, which only changes when
// the bridge copies the range value into it.
func (m *Model) threadsView() string {
	text := fmt.Sprintf("◀ %s ▶", m.doc.Text(page.IDThreadsLabel))
	if lo, hi, ok := m.doc.Bounds(page.IDThreadsInput); ok {
		text += fmt.Sprintf("  (%d-%d)", lo, hi)
	}
	if m.focus == controlThreads {
		return render(styles.FocusedRange, text)
	}
	return render(styles.Range, text)
}

func (m *Model) containerHeader() string {
	if count := m.doc.Text(page.IDResult); count != "" {
		return fmt.Sprintf("Containers: %s", count)
	}
	return "Containers"
}

// containerLines renders the list rows. Rows that fuzzy-match the name input
// are highlighted; the rows themselves are never filtered.
func (m *Model) containerLines() []styledLine {
	rows := m.doc.Rows(page.IDContainers)
	if len(rows) == 0 {
		return []styledLine{{text: emptyList, style: styles.Empty}}
	}
	needle, _ := m.doc.ReadValue(page.IDName)
	needle = strings.TrimSpace(needle)
	lines := make([]styledLine, 0, len(rows))
	for _, row := range rows {
		style := styles.Row
		if needle != "" && fuzzy.MatchFold(needle, row) {
			style = styles.MatchedRow
		}
		lines = append(lines, styledLine{text: row, style: style})
	}
	return lines
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.UI.Resize(m.width, m.height)
	return nil
}

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line.raw {
			out[i] = line.text
			continue
		}
		out[i] = render(line.style, line.text)
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
