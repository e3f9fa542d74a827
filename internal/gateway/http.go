// Package gateway is the HTTP implementation of the store's Gateway: a thin
// JSON-over-REST client for the remote authority. It owns transport
// concerns only and holds no task state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"agendafacil/internal/httpmw"
	"agendafacil/internal/model"
	"agendafacil/internal/session"
	"agendafacil/internal/tarefa"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
	sess    *session.Session
	breaker *gobreaker.CircuitBreaker
}

var _ tarefa.Gateway = (*Client)(nil)

type Option func(*Client)

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New builds a client for the authority at baseURL. The session provides
// the bearer credential per request and is terminated on any 401/403.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logrus.StandardLogger(),
		sess:    sess,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Transport == nil {
		token := func() string { return "" }
		if sess != nil {
			token = sess.Token
		}
		c.http.Transport = httpmw.Chain(nil,
			httpmw.WithRequestID,
			httpmw.WithBearer(token),
			httpmw.WithLogging(c.logger),
		)
	}

	// Transport failures and 5xx responses trip the breaker; 4xx are the
	// caller's problem and do not count against the authority.
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "agendafacil-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return c
}

func (c *Client) List(ctx context.Context) ([]model.Tarefa, error) {
	var out []model.Tarefa
	if err := c.do(ctx, http.MethodGet, "/api/tarefas", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := model.ValidateTarefa(out[i]); err != nil {
			return nil, fmt.Errorf("authority returned invalid tarefa %d: %w", out[i].ID, err)
		}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req model.TaskCreate) (model.Tarefa, error) {
	if err := model.ValidateTaskCreate(req); err != nil {
		return model.Tarefa{}, fmt.Errorf("invalid create request: %w", err)
	}
	var out model.Tarefa
	if err := c.do(ctx, http.MethodPost, "/api/tarefas", req, &out); err != nil {
		return model.Tarefa{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id model.TaskID, t model.Tarefa) (model.Tarefa, error) {
	var out model.Tarefa
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tarefas/%d", id), t, &out); err != nil {
		return model.Tarefa{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id model.TaskID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tarefas/%d", id), nil, nil)
}

func (c *Client) CreateRecorrente(ctx context.Context, spec model.RecurrenceSpec) ([]model.Tarefa, error) {
	var out []model.Tarefa
	if err := c.do(ctx, http.MethodPost, "/api/tarefas/recorrente", spec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ToggleChecklistItem(ctx context.Context, taskID model.TaskID, itemID int64) (model.Tarefa, error) {
	path := fmt.Sprintf("/api/tarefas/%d/checklist/%d/toggle", taskID, itemID)
	var out model.Tarefa
	if err := c.do(ctx, http.MethodPut, path, nil, &out); err != nil {
		return model.Tarefa{}, err
	}
	return out, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token and stores it on the
// session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{username, password}, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("login: authority returned no token")
	}
	if c.sess != nil {
		return c.sess.SetToken(out.Token)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", loginRequest{username, password}, nil)
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	v, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			msg := readError(resp)
			resp.Body.Close()
			return nil, fmt.Errorf("%s %s: authority error %d: %s", method, path, resp.StatusCode, msg)
		}
		return resp, nil
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	resp := v.(*http.Response)
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Forced session termination: the credential is no good, nothing
		// here is retried.
		if c.sess != nil {
			c.sess.Terminate()
		}
		return fmt.Errorf("%s %s: %w", method, path, tarefa.ErrUnauthorized)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, readError(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != "" {
		return env.Error
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return resp.Status
}
