// Package client is a Go client for the Plannr API. It carries an explicit
// session (token plus expiry) instead of ambient storage, and provides a
// kanban Board with optimistic mutations that roll back when the server
// rejects a change.
package client

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
	"time"
)

var (
	ErrNoSession      = errors.New("client: no active session")
	ErrSessionExpired = errors.New("client: session expired")
)

// Session is the result of a successful register or login. Expiry is checked
// explicitly before every authenticated call rather than discovered via 401.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && time.Now().Before(s.ExpiresAt)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// tokenTTL mirrors the server's token lifetime. The expiry is tracked
// client-side so calls fail fast instead of bouncing off a 401.
const tokenTTL = time.Hour * 168

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient allows callers to supply their own http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) Session() *Session {
	return c.session
}

// SetSession installs a previously obtained session, e.g. one restored from
// disk between runs.
func (c *Client) SetSession(session *Session) {
	c.session = session
}

func (c *Client) Logout() {
	c.session = nil
}

// APIError is a non-2xx response decoded from the standard envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: %d %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, authed bool) error {
	if authed {
		if c.session == nil {
			return ErrNoSession
		}

		if !c.session.Valid() {
			return ErrSessionExpired
		}
	}

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)

	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)

	if err != nil {
		return err
	}

	var env envelope

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		message := env.Message

		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode data: %w", err)
		}
	}

	return nil
}

type authPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	body := map[string]string{"name": name, "email": email, "password": password}

	var payload authPayload

	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &payload, false); err != nil {
		return nil, err
	}

	c.session = &Session{
		Token:     payload.Token,
		ExpiresAt: time.Now().Add(tokenTTL),
		User:      payload.User,
	}

	return c.session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var payload authPayload

	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &payload, false); err != nil {
		return nil, err
	}

	c.session = &Session{
		Token:     payload.Token,
		ExpiresAt: time.Now().Add(tokenTTL),
		User:      payload.User,
	}

	return c.session, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, true)
	return user, err
}

func (c *Client) ListTodos(ctx context.Context, filters *TodoFilters) ([]Todo, error) {
	path := "/api/todos"

	if filters != nil {
		values := url.Values{}

		if filters.Status != "" {
			values.Set("status", filters.Status)
		}

		if filters.Category != "" {
			values.Set("category", filters.Category)
		}

		if filters.Priority != "" {
			values.Set("priority", filters.Priority)
		}

		if filters.Completed != nil {
			values.Set("completed", strconv.FormatBool(*filters.Completed))
		}

		if filters.ProjectID != nil {
			values.Set("projectId", strconv.FormatUint(uint64(*filters.ProjectID), 10))
		}

		if encoded := values.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var todos []Todo
	err := c.do(ctx, http.MethodGet, path, nil, &todos, true)
	return todos, err
}

func (c *Client) GetTodo(ctx context.Context, id uint) (Todo, error) {
	var todo Todo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/todos/%d", id), nil, &todo, true)
	return todo, err
}

func (c *Client) CreateTodo(ctx context.Context, req CreateTodoRequest) (Todo, error) {
	var todo Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", req, &todo, true)
	return todo, err
}

func (c *Client) UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (Todo, error) {
	var todo Todo
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), req, &todo, true)
	return todo, err
}

func (c *Client) DeleteTodo(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil, true)
}

func (c *Client) ToggleTodo(ctx context.Context, id uint) (Todo, error) {
	var todo Todo
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/todos/%d/toggle", id), nil, &todo, true)
	return todo, err
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects, true)
	return projects, err
}

func (c *Client) GetProject(ctx context.Context, id uint) (Project, error) {
	var project Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, &project, true)
	return project, err
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPost, "/api/projects", req, &project, true)
	return project, err
}

func (c *Client) UpdateProject(ctx context.Context, id uint, req UpdateProjectRequest) (Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/projects/%d", id), req, &project, true)
	return project, err
}

func (c *Client) DeleteProject(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, nil, true)
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags, true)
	return tags, err
}

func (c *Client) CreateTag(ctx context.Context, req CreateTagRequest) (Tag, error) {
	var tag Tag
	err := c.do(ctx, http.MethodPost, "/api/tags", req, &tag, true)
	return tag, err
}

func (c *Client) UpdateTag(ctx context.Context, id uint, req UpdateTagRequest) (Tag, error) {
	var tag Tag
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tags/%d", id), req, &tag, true)
	return tag, err
}

func (c *Client) DeleteTag(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil, true)
}

func (c *Client) GetProfile(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user, true)
	return user, err
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPut, "/api/users/profile", req, &user, true)
	return user, err
}

func (c *Client) UpdatePreferences(ctx context.Context, req UpdatePreferencesRequest) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPut, "/api/users/preferences", req, &user, true)
	return user, err
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/users/profile", nil, nil, true); err != nil {
		return err
	}

	c.session = nil
	return nil
}

func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.do(ctx, http.MethodGet, "/api/users/stats", nil, &stats, true)
	return stats, err
}
