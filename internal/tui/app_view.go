package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const detailMinWidth = 90

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	h := m.height
	if h <= 0 {
		h = 24
	}
	st := m.ctrl.State()

	top := []string{
		renderHeader(st, m.title, w),
		renderCategoryFilter(st.CurrentCategory, w),
	}
	if st.ShowForm {
		top = append(top, m.form.view(st.Form, w))
	}
	if st.Alert != "" {
		top = append(top, styleAlert().Render(st.Alert))
	}
	header := strings.Join(top, "\n")

	footerLines := []string{}
	if m.minibufferText != "" {
		footerLines = append(footerLines, styleMuted().Render(m.minibufferText))
	}
	footerLines = append(footerLines, truncate(styleMuted().Render(helpLine), w))
	footer := strings.Join(footerLines, "\n")

	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch {
	case st.IsLoading:
		body = renderLoader(m.spinner.View())
	case len(st.Facts) == 0:
		body = renderEmptyList()
	default:
		body = m.viewFacts(len(st.Facts), w, bodyH)
	}

	return header + "\n\n" + body + "\n" + footer
}

// viewFacts renders the list (and the detail pane when enabled) followed by the count.
func (m appModel) viewFacts(n, w, h int) string {
	count := renderFactCount(n)
	listH := h - lipgloss.Height(count)

	l := m.list
	if !m.showDetail {
		l.SetSize(w, listH)
		return l.View() + "\n" + count
	}

	f, ok := m.selectedFact()
	if !ok {
		l.SetSize(w, listH)
		return l.View() + "\n" + count
	}
	if w < detailMinWidth {
		// Too narrow to split: the detail replaces the list.
		return lipgloss.NewStyle().MaxHeight(listH).Render(renderFactDetail(f, w-2)) + "\n" + count
	}

	listW := w * 55 / 100
	detailW := w - listW - 3
	l.SetSize(listW, listH)
	detail := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(colorCardBorder).
		PaddingLeft(1).
		MaxHeight(listH).
		Render(renderFactDetail(f, detailW))
	return lipgloss.JoinHorizontal(lipgloss.Top, l.View(), " ", detail) + "\n" + count
}
