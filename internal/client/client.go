// Package client talks to the todo HTTP API and exposes the same action
// surface as the in-process service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaekwang-park/todo-list/internal/http/handler"
	"github.com/jaekwang-park/todo-list/internal/middleware"
	"github.com/jaekwang-park/todo-list/internal/model"
)

const (
	tokenSubject = "todo-cli"
	tokenTTL     = 5 * time.Minute
	maxErrorBody = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	secret     string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuthSecret makes the client sign a short-lived bearer token with
// secret for every request.
func WithAuthSecret(secret string) Option {
	return func(c *Client) {
		c.secret = secret
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var resp handler.TodoListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/todos", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Todos == nil {
		return []model.Todo{}, nil
	}
	return resp.Todos, nil
}

func (c *Client) GetTodoByID(ctx context.Context, id string) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodGet, todoPath(id), nil, &todo)
	return todo, err
}

func (c *Client) CreateTodo(ctx context.Context, input string) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPost, "/api/v1/todos", handler.InputRequest{Input: input}, &todo)
	return todo, err
}

func (c *Client) EditTodo(ctx context.Context, id, input string) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPut, todoPath(id), handler.InputRequest{Input: input}, &todo)
	return todo, err
}

func (c *Client) UpdateTodo(ctx context.Context, id string, done bool) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPatch, todoPath(id)+"/done", handler.DoneRequest{Done: &done}, &todo)
	return todo, err
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
}

func (c *Client) DeleteMultipleTodos(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/todos/batch-delete", handler.DeleteManyRequest{IDs: ids}, nil)
}

func (c *Client) UpdateTodoOrder(ctx context.Context, pairs []model.OrderPair) error {
	return c.do(ctx, http.MethodPut, "/api/v1/todos/order", handler.OrderRequest{Order: pairs}, nil)
}

func todoPath(id string) string {
	return "/api/v1/todos/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		token, err := middleware.IssueToken(c.secret, tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
