package tui

import (
	"fmt"
	"strings"

	"factboard/internal/app"
	"factboard/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// The render* functions are pure: state in, string out.

func renderHeader(st app.State, title string, width int) string {
	left := styleTitle().Render("📖 " + title)

	var auth string
	if st.UserInfo != nil {
		auth = styleButton(false).Render("[O] Log out")
	} else {
		auth = styleButton(false).Render("[L] Log in")
	}
	greeting := styleMuted().Render(model.Greeting(st.UserInfo))
	toggle := styleButton(true).Render("[n] " + app.FormToggleLabel(st.ShowForm))

	right := lipgloss.JoinHorizontal(lipgloss.Top, greeting, "  ", auth, " ", toggle)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderCategoryFilter(current string, width int) string {
	parts := make([]string, 0, len(model.CategorySelectors()))
	for i, sel := range model.CategorySelectors() {
		label := fmt.Sprintf("%d %s", i, sel)
		if sel == model.AllCategories {
			label = "0 All"
		}
		switch {
		case sel == current && sel == model.AllCategories:
			parts = append(parts, styleButton(true).Render(label))
		case sel == current:
			parts = append(parts, categoryTagStyle(sel).Underline(true).Render(label))
		case sel == model.AllCategories:
			parts = append(parts, styleButton(false).Render(label))
		default:
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(model.CategoryColor(sel))).Render("●")
			parts = append(parts, dot+styleButton(false).Render(label))
		}
	}
	return wrapJoin(parts, " ", width)
}

// wrapJoin joins parts with sep, starting a new line instead of overflowing width.
func wrapJoin(parts []string, sep string, width int) string {
	var lines []string
	cur := ""
	for _, p := range parts {
		if cur == "" {
			cur = p
			continue
		}
		if width > 0 && lipgloss.Width(cur)+lipgloss.Width(sep)+lipgloss.Width(p) > width {
			lines = append(lines, cur)
			cur = p
			continue
		}
		cur += sep + p
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return strings.Join(lines, "\n")
}

func renderLoader(spinnerView string) string {
	return styleMuted().Render(strings.TrimSpace(spinnerView + " " + app.LoadingMessage))
}

func renderEmptyList() string {
	return styleMuted().Render(app.EmptyListMessage)
}

func renderFactCount(n int) string {
	return styleMuted().Render(app.FactCountMessage(n))
}

// renderFactLines renders a fact as two lines: the statement, then its tag and votes.
func renderFactLines(f model.Fact, updating bool, width int) (string, string) {
	text := f.Text
	if f.Disputed() {
		text = lipgloss.NewStyle().Foreground(colorDisputed).Bold(true).Render("⚠️ Disputed") + " " + text
	}
	text += " " + styleMuted().Render("(Source)")

	votes := renderVotes(f, updating)
	meta := categoryTagStyle(f.Category).Render(f.Category) + "  " + votes

	return truncate(text, width), truncate(meta, width)
}

func renderVotes(f model.Fact, updating bool) string {
	parts := []string{
		fmt.Sprintf("🌟 %d", f.VotesMindblowing),
		fmt.Sprintf("⬆️ %d", f.VotesInteresting),
		fmt.Sprintf("⬇️ %d", f.VotesFalse),
	}
	out := strings.Join(parts, "   ")
	if updating {
		return styleMuted().Render(out + "  voting…")
	}
	return out
}

func renderFactDetail(f model.Fact, width int) string {
	var b strings.Builder
	if f.Disputed() {
		b.WriteString("> ⚠️ **Disputed**: more people voted this false than interesting or mindblowing.\n\n")
	}
	b.WriteString(f.Text)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- Category: `%s`\n", f.Category)
	fmt.Fprintf(&b, "- Source: <%s>\n", f.Source)
	if f.CreatedIn > 0 {
		fmt.Fprintf(&b, "- Created in: %d\n", f.CreatedIn)
	}
	fmt.Fprintf(&b, "- Votes: 🌟 %d mindblowing · ⬆️ %d interesting · ⬇️ %d false\n", f.VotesMindblowing, f.VotesInteresting, f.VotesFalse)
	return renderMarkdown(b.String(), width)
}

func truncate(s string, width int) string {
	if width <= 0 || xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}
