package tui

import (
	"fmt"
	"strings"

	"factboard/internal/app"
	"factboard/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// factForm holds the input widgets of the new-fact form. The field values
// themselves live in the controller; the widgets mirror them.
type factForm struct {
	text   textinput.Model
	source textinput.Model
	// catIdx indexes model.Categories(); -1 means nothing chosen.
	catIdx int
	focus  app.FormField
}

func newFactForm() factForm {
	text := textinput.New()
	text.Placeholder = "Share a fact with the world..."
	text.Prompt = ""
	// Let the user overshoot so the counter can go negative, like the web form.
	text.CharLimit = 0

	source := textinput.New()
	source.Placeholder = "Trustworthy source..."
	source.Prompt = ""

	f := factForm{text: text, source: source, catIdx: -1, focus: app.FieldText}
	f.applyFocus()
	return f
}

func (f *factForm) reset() {
	f.text.SetValue("")
	f.source.SetValue("")
	f.catIdx = -1
	f.focus = app.FieldText
	f.applyFocus()
}

func (f *factForm) setWidth(w int) {
	if w < 10 {
		w = 10
	}
	f.text.Width = w
	f.source.Width = w
}

func (f *factForm) applyFocus() {
	f.text.Blur()
	f.source.Blur()
	switch f.focus {
	case app.FieldText:
		f.text.Focus()
	case app.FieldSource:
		f.source.Focus()
	}
}

func (f *factForm) cycleFocus(delta int) {
	n := 3
	f.focus = app.FormField((int(f.focus) + delta + n) % n)
	f.applyFocus()
}

func (f factForm) category() string {
	cats := model.Categories()
	if f.catIdx < 0 || f.catIdx >= len(cats) {
		return ""
	}
	return cats[f.catIdx].Name
}

func (f *factForm) cycleCategory(delta int) {
	n := len(model.Categories())
	if f.catIdx < 0 {
		if delta > 0 {
			f.catIdx = 0
		} else {
			f.catIdx = n - 1
		}
		return
	}
	f.catIdx = (f.catIdx + delta + n) % n
}

// update routes a key to the focused widget and pushes the new values into
// the controller. It returns false for keys the form does not consume.
func (f *factForm) update(msg tea.KeyMsg, ctrl *app.Controller) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		f.cycleFocus(1)
		return nil, true
	case "shift+tab", "up":
		f.cycleFocus(-1)
		return nil, true
	}

	if f.focus == app.FieldCategory {
		switch msg.String() {
		case "left", "h":
			f.cycleCategory(-1)
		case "right", "l", " ":
			f.cycleCategory(1)
		default:
			return nil, false
		}
		ctrl.SetFormField(app.FieldCategory, f.category())
		return nil, true
	}

	var cmd tea.Cmd
	switch f.focus {
	case app.FieldText:
		f.text, cmd = f.text.Update(msg)
		ctrl.SetFormField(app.FieldText, f.text.Value())
	case app.FieldSource:
		f.source, cmd = f.source.Update(msg)
		ctrl.SetFormField(app.FieldSource, f.source.Value())
	}
	return cmd, true
}

// sync copies controller values back into the widgets (e.g. after a submit cleared them).
func (f *factForm) sync(form app.Form) {
	if f.text.Value() != form.Text {
		f.text.SetValue(form.Text)
	}
	if f.source.Value() != form.Source {
		f.source.SetValue(form.Source)
	}
	if f.category() != form.Category {
		f.catIdx = -1
		for i, c := range model.Categories() {
			if c.Name == form.Category {
				f.catIdx = i
				break
			}
		}
	}
}

func (f factForm) view(form app.Form, width int) string {
	label := func(field app.FormField, s string) string {
		st := styleMuted()
		if f.focus == field {
			st = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
		}
		return st.Render(s)
	}

	counter := fmt.Sprintf("%d", form.RemainingChars())
	counterStyle := styleMuted()
	if form.RemainingChars() < 0 {
		counterStyle = lipgloss.NewStyle().Foreground(colorDisputed)
	}

	cat := app.CategoryPrompt
	if c := f.category(); c != "" {
		cat = categoryTagStyle(c).Render(c)
	}

	post := "Post"
	if form.Uploading {
		post = "Posting…"
	}

	lines := []string{
		label(app.FieldText, "Fact    ") + " " + f.text.View() + " " + counterStyle.Render(counter),
		label(app.FieldSource, "Source  ") + " " + f.source.View(),
		label(app.FieldCategory, "Category") + " ‹ " + cat + " ›",
		styleButton(!form.Uploading).Render("[enter] "+post) + styleMuted().Render("  tab: next field  esc: close"),
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Padding(0, 1)
	if width > 4 {
		box = box.Width(width - 2)
	}
	return box.Render(strings.Join(lines, "\n"))
}
