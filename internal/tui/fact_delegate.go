package tui

import (
	"fmt"
	"io"
	"strings"

	"factboard/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type factItem struct {
	fact model.Fact
}

func (i factItem) FilterValue() string { return i.fact.Text }

// factDelegate renders each fact as a two-line row.
type factDelegate struct {
	isUpdating func(id int64) bool
}

func (d factDelegate) Height() int  { return 2 }
func (d factDelegate) Spacing() int { return 1 }
func (d factDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d factDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(factItem)
	if !ok {
		return
	}
	contentW := m.Width() - 2
	if contentW < 10 {
		contentW = 10
	}
	updating := d.isUpdating != nil && d.isUpdating(it.fact.ID)
	line1, line2 := renderFactLines(it.fact, updating, contentW)

	marker := "  "
	if index == m.Index() {
		marker = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("▌ ")
		line1 = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Render(pad(line1, contentW))
	}
	fmt.Fprint(w, marker+line1+"\n"+"  "+line2)
}

func pad(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func newFactList(isUpdating func(id int64) bool) list.Model {
	l := list.New(nil, factDelegate{isUpdating: isUpdating}, 0, 0)
	// The board renders its own header/footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("fact", "facts")
	// q/esc are handled by the board.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	// h/l and d are board keys.
	l.KeyMap.PrevPage.SetKeys("pgup", "b", "u")
	l.KeyMap.NextPage.SetKeys("pgdown", "f")
	return l
}

func factItems(facts []model.Fact) []list.Item {
	items := make([]list.Item, 0, len(facts))
	for _, f := range facts {
		items = append(items, factItem{fact: f})
	}
	return items
}
