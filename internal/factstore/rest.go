package factstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"factboard/internal/model"

	"go.uber.org/zap"
)

type RESTConfig struct {
	// BaseURL is the project URL; requests go to <BaseURL>/rest/v1/facts.
	BaseURL string
	// APIKey is sent as both apikey and bearer token when set.
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// REST is a PostgREST client for the facts table.
type REST struct {
	endpoint string
	apiKey   string
	hc       *http.Client
	log      *zap.Logger
}

var _ Store = (*REST)(nil)

func NewREST(cfg RESTConfig) (*REST, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("factstore: rest base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("factstore: invalid rest base url: %q", cfg.BaseURL)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &REST{
		endpoint: base + "/rest/v1/" + Table,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		hc:       hc,
		log:      log.Named("factstore.rest"),
	}, nil
}

// listValues renders q in PostgREST query syntax.
func listValues(q Query) url.Values {
	v := url.Values{}
	v.Set("select", "*")
	if q.Category != "" {
		v.Set("category", "eq."+q.Category)
	}
	dir := "desc"
	if q.Ascending {
		dir = "asc"
	}
	v.Set("order", q.OrderBy+"."+dir)
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

func (s *REST) List(ctx context.Context, q Query) ([]model.Fact, error) {
	q = q.normalized()
	if err := q.validate(); err != nil {
		return nil, err
	}
	var rows []model.Fact
	if err := s.do(ctx, http.MethodGet, listValues(q), nil, &rows); err != nil {
		return nil, fmt.Errorf("factstore: list: %w", err)
	}
	if rows == nil {
		rows = []model.Fact{}
	}
	s.log.Debug("listed facts", zap.String("category", q.Category), zap.Int("rows", len(rows)))
	return rows, nil
}

func (s *REST) Insert(ctx context.Context, nf model.NewFact) (model.Fact, error) {
	var rows []model.Fact
	if err := s.do(ctx, http.MethodPost, url.Values{"select": {"*"}}, []model.NewFact{nf}, &rows); err != nil {
		return model.Fact{}, fmt.Errorf("factstore: insert: %w", err)
	}
	if len(rows) == 0 {
		return model.Fact{}, fmt.Errorf("factstore: insert: %w", ErrNoRows)
	}
	s.log.Debug("inserted fact", zap.Int64("id", rows[0].ID))
	return rows[0], nil
}

func (s *REST) Update(ctx context.Context, id int64, col model.VoteColumn, value int) (model.Fact, error) {
	if !col.Valid() {
		return model.Fact{}, fmt.Errorf("factstore: update: invalid column %q", col)
	}
	v := url.Values{}
	v.Set("id", "eq."+strconv.FormatInt(id, 10))
	v.Set("select", "*")
	var rows []model.Fact
	if err := s.do(ctx, http.MethodPatch, v, map[string]int{string(col): value}, &rows); err != nil {
		return model.Fact{}, fmt.Errorf("factstore: update: %w", err)
	}
	if len(rows) == 0 {
		return model.Fact{}, fmt.Errorf("factstore: update %d: %w", id, ErrNoRows)
	}
	s.log.Debug("updated fact", zap.Int64("id", id), zap.String("column", string(col)), zap.Int("value", value))
	return rows[0], nil
}

func (s *REST) do(ctx context.Context, method string, query url.Values, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	u := s.endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, b)
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
