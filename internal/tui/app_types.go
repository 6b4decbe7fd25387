package tui

import (
	"factboard/internal/app"
)

// Messages carrying controller results back onto the update loop.

type factsFetchedMsg struct {
	res app.FetchResult
}

type identityMsg struct {
	res app.IdentityResult
}

type submitDoneMsg struct {
	res app.SubmitResult
}

type voteDoneMsg struct {
	res app.VoteResult
}

type urlOpenDoneMsg struct {
	url string
	err error
}

type clipboardDoneMsg struct {
	err error
}

// Options configures the board.
type Options struct {
	Title     string
	LoginURL  string
	LogoutURL string
}

const defaultTitle = "Today I Learned"

const helpLine = "←/→ category · 0-8 jump · ↑/↓ select · i/m/x vote · n share · s source · y copy · d detail · r refresh · L/O log in/out · q quit"
