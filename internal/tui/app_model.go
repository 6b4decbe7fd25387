package tui

import (
	"context"
	"strings"

	"factboard/internal/app"
	"factboard/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type appModel struct {
	ctx  context.Context
	ctrl *app.Controller
	log  *zap.Logger

	title     string
	loginURL  string
	logoutURL string

	width  int
	height int

	list       list.Model
	form       factForm
	spinner    spinner.Model
	showDetail bool

	// minibufferText is a one-line status shown above the help line.
	minibufferText string

	// open is swapped in tests so nothing is launched.
	open     func(string) tea.Cmd
	copyText func(string) tea.Cmd
}

func newAppModel(ctx context.Context, ctrl *app.Controller, opts Options, log *zap.Logger) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = defaultTitle
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := appModel{
		ctx:       ctx,
		ctrl:      ctrl,
		log:       log.Named("tui"),
		title:     title,
		loginURL:  opts.LoginURL,
		logoutURL: opts.LogoutURL,
		form:      newFactForm(),
		spinner:   sp,
		open:      openURL,
		copyText:  copyCmd,
	}
	m.list = newFactList(ctrl.IsUpdating)
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd(m.ctrl.BeginFetch()), m.spinner.Tick}
	if req, probe := m.ctrl.BeginIdentity(); probe {
		cmds = append(cmds, m.identityCmd(req))
	}
	return tea.Batch(cmds...)
}

func (m appModel) fetchCmd(req app.FetchRequest) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return factsFetchedMsg{res: ctrl.RunFetch(ctx, req)}
	}
}

func (m appModel) identityCmd(req app.IdentityRequest) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return identityMsg{res: ctrl.RunIdentity(ctx, req)}
	}
}

func (m appModel) submitCmd(req app.SubmitRequest) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return submitDoneMsg{res: ctrl.RunSubmit(ctx, req)}
	}
}

func (m appModel) voteCmd(req app.VoteRequest) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return voteDoneMsg{res: ctrl.RunVote(ctx, req)}
	}
}

// refreshList rebuilds the list items from controller state, keeping the
// selection on the same fact when it is still present.
func (m *appModel) refreshList() {
	var selID int64
	hadSel := false
	if it, ok := m.list.SelectedItem().(factItem); ok {
		selID, hadSel = it.fact.ID, true
	}
	facts := m.ctrl.State().Facts
	_ = m.list.SetItems(factItems(facts))
	if !hadSel {
		return
	}
	for i, f := range facts {
		if f.ID == selID {
			m.list.Select(i)
			return
		}
	}
}

func (m appModel) selectedFact() (model.Fact, bool) {
	it, ok := m.list.SelectedItem().(factItem)
	if !ok {
		return model.Fact{}, false
	}
	// The controller holds the freshest counts.
	if f, ok := m.ctrl.FindFact(it.fact.ID); ok {
		return f, true
	}
	return it.fact, true
}
