// Package web serves the fact board as server-rendered HTML.
//
// Every request builds its own app.Controller: the browser's cookies are
// forwarded to the identity probe, so each visitor sees their own greeting.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"factboard/internal/app"
	"factboard/internal/factstore"
	"factboard/internal/model"

	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// SessionService is the login service as seen by the web UI.
type SessionService interface {
	app.Session
	LoginURL() string
	LogoutURL() string
}

// DefaultSessionCookie is the cookie an express-session login service sets.
const DefaultSessionCookie = "connect.sid"

type ServerConfig struct {
	Addr  string
	Title string
	Store factstore.Store
	// Session may be nil: nobody is ever logged in and /login is a 404.
	Session SessionService
	// SessionCookie names the one browser cookie forwarded to the identity
	// probe. Other cookies sent to the board stay here.
	SessionCookie string
	Logger        *zap.Logger
	// RequestTimeout bounds the remote calls made for one request.
	RequestTimeout time.Duration
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	log    *zap.Logger
	secret []byte
	now    func() time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Store == nil {
		return nil, errors.New("web: store is nil")
	}
	if cfg.Title == "" {
		cfg.Title = "Today I Learned"
	}
	cfg.SessionCookie = strings.TrimSpace(cfg.SessionCookie)
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = DefaultSessionCookie
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":          strings.TrimSpace,
		"upper":         strings.ToUpper,
		"categoryColor": model.CategoryColor,
		"factText":      renderFactText,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	secret, err := newSecretKey()
	if err != nil {
		return nil, err
	}

	return &Server{cfg: cfg, tmpl: tmpl, log: log.Named("web"), secret: secret, now: time.Now}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /facts", s.handleFactCreate)
	mux.HandleFunc("POST /facts/{id}/vote", s.handleVote)
	mux.HandleFunc("GET /login", s.handleLogin)
	mux.HandleFunc("GET /logout", s.handleLogout)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Duration("took", time.Since(start)))
	})
}

// controller builds the per-request controller for category cat.
func (s *Server) controller(r *http.Request, cat string) *app.Controller {
	opts := []app.Option{
		app.WithLogger(s.log),
		app.WithCategory(cat),
	}
	if ck, err := r.Cookie(s.cfg.SessionCookie); err == nil {
		opts = append(opts, app.WithCookies([]*http.Cookie{ck}))
	}
	var sess app.Session
	if s.cfg.Session != nil {
		sess = s.cfg.Session
	}
	return app.New(s.cfg.Store, sess, opts...)
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

type pageVM struct {
	Title      string
	State      app.State
	Categories []model.Category
	CSRF       string

	Greeting    string
	AuthURL     string
	AuthLabel   string
	ToggleLabel string
	ToggleURL   string
	Remaining   int
	FormPrompt  string
	CountMsg    string
	EmptyMsg    string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	cat := categoryParam(r.URL.Query().Get("category"))
	ctrl := s.controller(r, cat)
	ctx, cancel := s.requestContext(r)
	defer cancel()
	ctrl.Mount(ctx)
	if r.URL.Query().Get("form") == "1" {
		ctrl.ToggleForm()
	}
	s.renderPage(w, ctrl, http.StatusOK)
}

func (s *Server) renderPage(w http.ResponseWriter, ctrl *app.Controller, status int) {
	st := ctrl.State()
	token, err := newFormToken(s.secret, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	vm := pageVM{
		Title:       s.cfg.Title,
		State:       st,
		Categories:  model.Categories(),
		CSRF:        token,
		Greeting:    model.Greeting(st.UserInfo),
		ToggleLabel: app.FormToggleLabel(st.ShowForm),
		ToggleURL:   homeURL(st.CurrentCategory, !st.ShowForm),
		Remaining:   st.Form.RemainingChars(),
		FormPrompt:  app.CategoryPrompt,
		CountMsg:    app.FactCountMessage(len(st.Facts)),
		EmptyMsg:    app.EmptyListMessage,
	}
	if s.cfg.Session != nil {
		if st.UserInfo != nil {
			vm.AuthURL, vm.AuthLabel = "/logout", "Log out"
		} else {
			vm.AuthURL, vm.AuthLabel = "/login", "Log in"
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		s.log.Warn("render page", zap.Error(err))
	}
}

func (s *Server) handleFactCreate(w http.ResponseWriter, r *http.Request) {
	if !s.checkForm(w, r) {
		return
	}
	cat := categoryParam(r.PostFormValue("current"))
	nf := model.NewFact{
		Text:     r.PostFormValue("text"),
		Source:   strings.TrimSpace(r.PostFormValue("source")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
	}

	ctrl := s.controller(r, cat)
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if _, submitted := ctrl.Submit(ctx, nf); !submitted {
		// Invalid input is not reported: show the form again with what was typed.
		ctrl.Mount(ctx)
		ctrl.ToggleForm()
		ctrl.SetFormField(app.FieldText, nf.Text)
		ctrl.SetFormField(app.FieldSource, nf.Source)
		ctrl.SetFormField(app.FieldCategory, nf.Category)
		s.renderPage(w, ctrl, http.StatusOK)
		return
	}
	http.Redirect(w, r, homeURL(cat, false), http.StatusSeeOther)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	if !s.checkForm(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid fact id", http.StatusBadRequest)
		return
	}
	col, err := model.ParseVoteColumn(r.PostFormValue("column"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cat := categoryParam(r.PostFormValue("current"))

	ctrl := s.controller(r, cat)
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := ctrl.FetchFacts(ctx); err != nil {
		s.renderPage(w, ctrl, http.StatusBadGateway)
		return
	}
	f, ok := ctrl.FindFact(id)
	if !ok {
		http.Error(w, "fact not found", http.StatusNotFound)
		return
	}
	// Vote failures are silent; the page simply shows the old count.
	_, _ = ctrl.Vote(ctx, f, col)
	http.Redirect(w, r, homeURL(cat, false), http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Session == nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.cfg.Session.LoginURL(), http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Session == nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.cfg.Session.LogoutURL(), http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(b)
}

// checkForm parses the POST body and verifies its form token.
func (s *Server) checkForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	if err := verifyFormToken(s.secret, r.PostFormValue("csrf"), s.now()); err != nil {
		s.log.Debug("rejecting form", zap.Error(err))
		http.Error(w, "invalid or expired form, reload the page", http.StatusForbidden)
		return false
	}
	return true
}

// categoryParam maps unknown or empty selectors to "all".
func categoryParam(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if !model.IsCategorySelector(v) {
		return model.AllCategories
	}
	return v
}

func homeURL(cat string, form bool) string {
	q := url.Values{}
	if cat != "" && cat != model.AllCategories {
		q.Set("category", cat)
	}
	if form {
		q.Set("form", "1")
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}
