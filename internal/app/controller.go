// Package app holds the application controller: the single owner of UI state
// and the only caller of the fact store and the session service.
//
// Remote operations come in three steps so they fit an event loop:
// Begin* mutates flags and returns a request, Run* performs the call (safe on
// any goroutine), Apply* folds the result back into state. Begin* and Apply*
// must run on the goroutine that owns the Controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"factboard/internal/factstore"
	"factboard/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Session is the identity probe of the remote session service.
type Session interface {
	Identity(ctx context.Context, cookies ...*http.Cookie) (*model.Identity, error)
}

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCookies forwards browser cookies to the identity probe (web UI).
func WithCookies(cookies []*http.Cookie) Option {
	return func(c *Controller) { c.cookies = cookies }
}

// WithAlert registers a callback for user-visible alerts, in addition to State.Alert.
func WithAlert(fn func(string)) Option {
	return func(c *Controller) { c.alert = fn }
}

// WithCategory starts the controller on a category other than "all".
// Unknown names are ignored.
func WithCategory(cat string) Option {
	return func(c *Controller) {
		if model.IsCategorySelector(cat) {
			c.state.CurrentCategory = cat
		}
	}
}

type Controller struct {
	store   factstore.Store
	session Session
	cookies []*http.Cookie
	log     *zap.Logger
	alert   func(string)

	state State

	// fetchGen is bumped by every BeginFetch; only the latest generation may land.
	fetchGen          uint64
	identityRequested bool
}

// New builds a controller. session may be nil, in which case nobody is ever logged in.
func New(store factstore.Store, session Session, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		session: session,
		log:     zap.NewNop(),
		state: State{
			Facts:           []model.Fact{},
			CurrentCategory: model.AllCategories,
			Updating:        map[int64]bool{},
		},
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.Named("app")
	return c
}

// State returns a snapshot safe to hand to views.
func (c *Controller) State() State {
	return c.state.clone()
}

func (c *Controller) ClearAlert() {
	c.state.Alert = ""
}

func (c *Controller) raise(msg string) {
	c.state.Alert = msg
	if c.alert != nil {
		c.alert(msg)
	}
}

// Mount runs the on-load effects: the first fact fetch and the one-time
// identity probe, concurrently.
func (c *Controller) Mount(ctx context.Context) {
	fetchReq := c.BeginFetch()
	idReq, probe := c.BeginIdentity()

	var fetchRes FetchResult
	var idRes IdentityResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchRes = c.RunFetch(gctx, fetchReq)
		return nil
	})
	if probe {
		g.Go(func() error {
			idRes = c.RunIdentity(gctx, idReq)
			return nil
		})
	}
	_ = g.Wait()

	c.ApplyFetch(fetchRes)
	if probe {
		c.ApplyIdentity(idRes)
	}
}

// --- facts list ---

type FetchRequest struct {
	Gen   uint64
	Query factstore.Query
}

type FetchResult struct {
	Gen    uint64
	Result Result[[]model.Fact]
}

// BeginFetch starts a list request for the current category.
func (c *Controller) BeginFetch() FetchRequest {
	c.fetchGen++
	c.state.IsLoading = true
	return FetchRequest{Gen: c.fetchGen, Query: factstore.ListQuery(c.state.CurrentCategory)}
}

func (c *Controller) RunFetch(ctx context.Context, req FetchRequest) FetchResult {
	facts, err := c.store.List(ctx, req.Query)
	if err != nil {
		return FetchResult{Gen: req.Gen, Result: failed[[]model.Fact](err)}
	}
	return FetchResult{Gen: req.Gen, Result: ok(facts)}
}

// ApplyFetch lands a list result. It returns false when the result belongs to
// a superseded request and was dropped.
func (c *Controller) ApplyFetch(res FetchResult) bool {
	if res.Gen != c.fetchGen {
		c.log.Debug("dropping stale fetch", zap.Uint64("gen", res.Gen), zap.Uint64("latest", c.fetchGen))
		return false
	}
	c.state.IsLoading = false
	if !res.Result.OK() {
		c.log.Warn("fetch facts failed", zap.String("category", c.state.CurrentCategory), zap.Error(res.Result.Err))
		c.raise(FetchAlert)
		return true
	}
	facts := res.Result.Value
	if facts == nil {
		facts = []model.Fact{}
	}
	c.state.Facts = facts
	return true
}

// FetchFacts refetches the current category synchronously.
func (c *Controller) FetchFacts(ctx context.Context) error {
	res := c.RunFetch(ctx, c.BeginFetch())
	c.ApplyFetch(res)
	return res.Result.Err
}

// SetCategory switches the filter. A change starts a fetch (changed=true);
// selecting the current category again is a no-op.
func (c *Controller) SetCategory(cat string) (req FetchRequest, changed bool, err error) {
	if !model.IsCategorySelector(cat) {
		return FetchRequest{}, false, fmt.Errorf("unknown category: %q", cat)
	}
	if cat == c.state.CurrentCategory {
		return FetchRequest{}, false, nil
	}
	c.state.CurrentCategory = cat
	return c.BeginFetch(), true, nil
}

// --- identity ---

type IdentityRequest struct{}

type IdentityResult struct {
	Result Result[*model.Identity]
}

// BeginIdentity returns false when the probe already ran (or there is no session service).
func (c *Controller) BeginIdentity() (IdentityRequest, bool) {
	if c.identityRequested || c.session == nil {
		return IdentityRequest{}, false
	}
	c.identityRequested = true
	return IdentityRequest{}, true
}

func (c *Controller) RunIdentity(ctx context.Context, _ IdentityRequest) IdentityResult {
	id, err := c.session.Identity(ctx, c.cookies...)
	if err != nil {
		return IdentityResult{Result: failed[*model.Identity](err)}
	}
	return IdentityResult{Result: ok(id)}
}

func (c *Controller) ApplyIdentity(res IdentityResult) {
	if !res.Result.OK() {
		c.log.Debug("no identity", zap.Error(res.Result.Err))
		c.state.UserInfo = nil
		return
	}
	c.state.UserInfo = res.Result.Value
}

// FetchIdentity probes the session service once; later calls do nothing.
func (c *Controller) FetchIdentity(ctx context.Context) {
	req, probe := c.BeginIdentity()
	if !probe {
		return
	}
	c.ApplyIdentity(c.RunIdentity(ctx, req))
}

// --- form ---

func (c *Controller) ToggleForm() {
	c.state.ShowForm = !c.state.ShowForm
}

// SetFormField edits the form. Edits are ignored while an upload is in flight.
func (c *Controller) SetFormField(field FormField, value string) {
	if c.state.Form.Uploading {
		return
	}
	switch field {
	case FieldText:
		c.state.Form.Text = value
	case FieldSource:
		c.state.Form.Source = value
	case FieldCategory:
		c.state.Form.Category = value
	}
}

type SubmitRequest struct {
	Fact model.NewFact
}

type SubmitResult struct {
	Result Result[model.Fact]
}

// BeginSubmit validates nf. Invalid input (or an upload already in flight)
// returns false and leaves state untouched; nothing is reported.
func (c *Controller) BeginSubmit(nf model.NewFact) (SubmitRequest, bool) {
	if c.state.Form.Uploading {
		return SubmitRequest{}, false
	}
	if err := model.ValidateNewFact(nf); err != nil {
		c.log.Debug("ignoring invalid submission", zap.Error(err))
		return SubmitRequest{}, false
	}
	c.state.Form.Uploading = true
	return SubmitRequest{Fact: nf}, true
}

func (c *Controller) RunSubmit(ctx context.Context, req SubmitRequest) SubmitResult {
	f, err := c.store.Insert(ctx, req.Fact)
	if err != nil {
		return SubmitResult{Result: failed[model.Fact](err)}
	}
	return SubmitResult{Result: ok(f)}
}

// ApplySubmit prepends the inserted row on success. On both paths the form is
// cleared and hidden; an insert failure is not shown to the user.
func (c *Controller) ApplySubmit(res SubmitResult) {
	c.state.Form.Uploading = false
	if res.Result.OK() {
		c.state.Facts = append([]model.Fact{res.Result.Value}, c.state.Facts...)
	} else {
		c.log.Warn("insert fact failed", zap.Error(res.Result.Err))
	}
	c.state.Form = Form{}
	c.state.ShowForm = false
}

// Submit runs a whole submission. submitted is false when validation
// rejected nf and no insert was issued.
func (c *Controller) Submit(ctx context.Context, nf model.NewFact) (res Result[model.Fact], submitted bool) {
	req, ok := c.BeginSubmit(nf)
	if !ok {
		return Result[model.Fact]{}, false
	}
	r := c.RunSubmit(ctx, req)
	c.ApplySubmit(r)
	return r.Result, true
}

// --- votes ---

var ErrVoteInFlight = errors.New("vote already in flight")

type VoteRequest struct {
	ID     int64
	Column model.VoteColumn
	Value  int
}

type VoteResult struct {
	Req    VoteRequest
	Result Result[model.Fact]
}

// BeginVote marks the row as updating and returns the update to send
// (the column set to its current count plus one).
func (c *Controller) BeginVote(f model.Fact, col model.VoteColumn) (VoteRequest, error) {
	if !col.Valid() {
		return VoteRequest{}, fmt.Errorf("invalid vote column: %q", col)
	}
	if c.state.Updating[f.ID] {
		return VoteRequest{}, ErrVoteInFlight
	}
	c.state.Updating[f.ID] = true
	return VoteRequest{ID: f.ID, Column: col, Value: f.Votes(col) + 1}, nil
}

func (c *Controller) RunVote(ctx context.Context, req VoteRequest) VoteResult {
	f, err := c.store.Update(ctx, req.ID, req.Column, req.Value)
	if err != nil {
		return VoteResult{Req: req, Result: failed[model.Fact](err)}
	}
	return VoteResult{Req: req, Result: ok(f)}
}

// ApplyVote replaces the fact with the server's row. Failures leave facts untouched.
func (c *Controller) ApplyVote(res VoteResult) {
	delete(c.state.Updating, res.Req.ID)
	if !res.Result.OK() {
		c.log.Warn("vote failed", zap.Int64("id", res.Req.ID), zap.String("column", string(res.Req.Column)), zap.Error(res.Result.Err))
		return
	}
	for i := range c.state.Facts {
		if c.state.Facts[i].ID == res.Req.ID {
			c.state.Facts[i] = res.Result.Value
			return
		}
	}
}

func (c *Controller) Vote(ctx context.Context, f model.Fact, col model.VoteColumn) (Result[model.Fact], error) {
	req, err := c.BeginVote(f, col)
	if err != nil {
		return Result[model.Fact]{}, err
	}
	res := c.RunVote(ctx, req)
	c.ApplyVote(res)
	return res.Result, nil
}

// IsUpdating reports whether a vote for fact id is in flight.
func (c *Controller) IsUpdating(id int64) bool {
	return c.state.Updating[id]
}

// FindFact looks a fact up in the cached list.
func (c *Controller) FindFact(id int64) (model.Fact, bool) {
	for _, f := range c.state.Facts {
		if f.ID == id {
			return f, true
		}
	}
	return model.Fact{}, false
}
