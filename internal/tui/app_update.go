package tui

import (
	"errors"
	"strconv"

	"factboard/internal/app"
	"factboard/internal/model"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form.setWidth(msg.Width - 24)
		m.list.SetSize(msg.Width, max(3, msg.Height-10))
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once nothing is loading; startFetch restarts it.
		if !m.ctrl.State().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case factsFetchedMsg:
		if m.ctrl.ApplyFetch(msg.res) {
			m.refreshList()
		}
		return m, nil

	case identityMsg:
		m.ctrl.ApplyIdentity(msg.res)
		return m, nil

	case submitDoneMsg:
		m.ctrl.ApplySubmit(msg.res)
		m.form.reset()
		m.refreshList()
		if msg.res.Result.OK() {
			m.list.Select(0)
		}
		return m, nil

	case voteDoneMsg:
		m.ctrl.ApplyVote(msg.res)
		m.refreshList()
		return m, nil

	case urlOpenDoneMsg:
		if msg.err != nil {
			m.log.Debug("open url failed", zap.String("url", msg.url), zap.Error(msg.err))
			m.minibufferText = "open: " + msg.err.Error()
		}
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.minibufferText = "copy: " + msg.err.Error()
		} else {
			m.minibufferText = "Copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		m.minibufferText = ""
		m.ctrl.ClearAlert()
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.ctrl.State().ShowForm {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.ToggleForm()
		return m, nil
	case "enter":
		req, ok := m.ctrl.BeginSubmit(m.ctrl.State().Form.NewFact())
		if !ok {
			return m, nil
		}
		return m, m.submitCmd(req)
	}
	cmd, _ := m.form.update(msg, m.ctrl)
	return m, cmd
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "n":
		m.ctrl.ToggleForm()
		m.form.sync(m.ctrl.State().Form)
		return m, nil
	case "right", "l", "tab":
		return m.cycleCategory(1)
	case "left", "h", "shift+tab":
		return m.cycleCategory(-1)
	case "0", "1", "2", "3", "4", "5", "6", "7", "8":
		i, _ := strconv.Atoi(msg.String())
		sels := model.CategorySelectors()
		if i >= len(sels) {
			return m, nil
		}
		return m.selectCategory(sels[i])
	case "i":
		return m.vote(model.VotesInteresting)
	case "m":
		return m.vote(model.VotesMindblowing)
	case "x":
		return m.vote(model.VotesFalse)
	case "r":
		return m, m.startFetch(m.ctrl.BeginFetch())
	case "d":
		m.showDetail = !m.showDetail
		return m, nil
	case "s":
		f, ok := m.selectedFact()
		if !ok {
			return m, nil
		}
		if !model.ValidHTTPURL(f.Source) {
			m.minibufferText = "source is not a web link"
			return m, nil
		}
		return m, m.open(f.Source)
	case "y":
		f, ok := m.selectedFact()
		if !ok {
			return m, nil
		}
		return m, m.copyText(f.Text + " (" + f.Source + ")")
	case "L", "O":
		u := m.loginURL
		if msg.String() == "O" {
			u = m.logoutURL
		}
		if u == "" {
			m.minibufferText = "no session service configured"
			return m, nil
		}
		return m, m.open(u)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) cycleCategory(delta int) (tea.Model, tea.Cmd) {
	sels := model.CategorySelectors()
	cur := 0
	for i, s := range sels {
		if s == m.ctrl.State().CurrentCategory {
			cur = i
			break
		}
	}
	next := (cur + delta + len(sels)) % len(sels)
	return m.selectCategory(sels[next])
}

func (m appModel) selectCategory(cat string) (tea.Model, tea.Cmd) {
	req, changed, err := m.ctrl.SetCategory(cat)
	if err != nil {
		m.minibufferText = err.Error()
		return m, nil
	}
	if !changed {
		return m, nil
	}
	m.list.Select(0)
	return m, m.startFetch(req)
}

func (m appModel) startFetch(req app.FetchRequest) tea.Cmd {
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

func (m appModel) vote(col model.VoteColumn) (tea.Model, tea.Cmd) {
	f, ok := m.selectedFact()
	if !ok {
		return m, nil
	}
	req, err := m.ctrl.BeginVote(f, col)
	if err != nil {
		if !errors.Is(err, app.ErrVoteInFlight) {
			m.minibufferText = err.Error()
		}
		return m, nil
	}
	return m, m.voteCmd(req)
}
