// Package api talks to the remote posts resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blog-client/internal/action"
	"blog-client/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public ReduxBlog API.
const DefaultBaseURL = "http://reduxblog.herokuapp.com/api"

const RequestIDHeader = "X-Request-ID"

var (
	ErrNotFound  = errors.New("post not found")
	ErrMissingID = errors.New("post has no id")
)

// StatusError is returned for any non-2xx response other than 404.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	base   *url.URL
	key    string
	http   *http.Client
	logger *zap.Logger
}

var _ action.PostsAPI = (*Client)(nil)

type Option func(*Client)

// WithAPIKey appends ?key=<key> to every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.key = key }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient builds a client rooted at baseURL, e.g. "http://host/api".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPosts fetches the whole collection.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.do(ctx, http.MethodGet, "posts", nil, &posts); err != nil {
		return nil, err
	}
	for i, p := range posts {
		if p.ID == "" {
			return nil, fmt.Errorf("list entry %d: %w", i, ErrMissingID)
		}
	}
	return posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id model.PostID) (model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodGet, "posts/"+id.String(), nil, &post); err != nil {
		return model.Post{}, err
	}
	if post.ID == "" {
		post.ID = id
	}
	return post, nil
}

// CreatePost submits fields and returns the record the server stored.
func (c *Client) CreatePost(ctx context.Context, fields model.Fields) (model.Post, error) {
	var post model.Post
	if err := c.do(ctx, http.MethodPost, "posts", fields, &post); err != nil {
		return model.Post{}, err
	}
	if post.ID == "" {
		return model.Post{}, fmt.Errorf("created post: %w", ErrMissingID)
	}
	return post, nil
}

// DeletePost removes a post. The response body is ignored.
func (c *Client) DeletePost(ctx context.Context, id model.PostID) error {
	return c.do(ctx, http.MethodDelete, "posts/"+id.String(), nil, nil)
}

func (c *Client) endpoint(path string) string {
	u := c.base.JoinPath(path)
	if c.key != "" {
		q := u.Query()
		q.Set("key", c.key)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("Request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	logger.Debug("Response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
