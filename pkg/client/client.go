// Package client is a Go client for the typoteka HTTP API.
//
// A Client is configured once through Config; there is no package-level
// instance. Calls that need a token use Config.Token, or the token set by
// Login.
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
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds each request when Config.Timeout is zero.
const DefaultTimeout = time.Second

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Config holds the settings of a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:3000".
	BaseURL string
	// Timeout bounds each request; zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is used for all requests; nil builds one with Timeout.
	HTTPClient *http.Client
	// Token is sent as a bearer token on authenticated calls.
	Token string
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode         int
	Message            string
	ValidationMessages []string
}

func (e *APIError) Error() string {
	if len(e.ValidationMessages) > 0 {
		return fmt.Sprintf("typoteka: %d: %s", e.StatusCode, strings.Join(e.ValidationMessages, "; "))
	}
	return fmt.Sprintf("typoteka: %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client calls the typoteka API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: BaseURL must be http or https: %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		token:      cfg.Token,
	}, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends body as JSON and decodes a 2xx response into out when out is
// not nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body struct {
		Error              string   `json:"error"`
		ValidationMessages []string `json:"validationMessages"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.ValidationMessages = body.ValidationMessages
	}
	return apiErr
}

func pageQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Comments {
		q.Set("comments", "true")
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	return q
}

func articlePath(id int64) string { return "/articles/" + strconv.FormatInt(id, 10) }

// Articles returns one page of articles, newest first.
func (c *Client) Articles(ctx context.Context, opts ListOptions) (*ArticleList, error) {
	var list ArticleList
	if err := c.do(ctx, http.MethodGet, "/articles", pageQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Article returns one article, with its comments when comments is true.
func (c *Client) Article(ctx context.Context, id int64, comments bool) (*Article, error) {
	var q url.Values
	if comments {
		q = url.Values{"comments": {"true"}}
	}
	var a Article
	if err := c.do(ctx, http.MethodGet, articlePath(id), q, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CategoryArticles returns one page of the articles in a category.
func (c *Client) CategoryArticles(ctx context.Context, categoryID int64, opts ListOptions) (*ArticleList, error) {
	var list ArticleList
	path := "/categories/" + strconv.FormatInt(categoryID, 10) + "/articles"
	if err := c.do(ctx, http.MethodGet, path, pageQuery(opts), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Search returns the articles matching every keyword of query.
func (c *Client) Search(ctx context.Context, query string) ([]Article, error) {
	var out []Article
	if err := c.do(ctx, http.MethodGet, "/search", url.Values{"query": {query}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists every category, with article counts when count is true.
func (c *Client) Categories(ctx context.Context, count bool) ([]Category, error) {
	var q url.Values
	if count {
		q = url.Values{"count": {"true"}}
	}
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/categories", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateArticle publishes a new article.
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	var a Article
	if err := c.do(ctx, http.MethodPost, "/articles", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateArticle replaces an article's fields and categories.
func (c *Client) UpdateArticle(ctx context.Context, id int64, in ArticleInput) (*Article, error) {
	var a Article
	if err := c.do(ctx, http.MethodPut, articlePath(id), nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArticle removes an article and returns it as it was.
func (c *Client) DeleteArticle(ctx context.Context, id int64) (*Article, error) {
	var a Article
	if err := c.do(ctx, http.MethodDelete, articlePath(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Comments lists the comments of an article, oldest first.
func (c *Client) Comments(ctx context.Context, articleID int64) ([]Comment, error) {
	var out []Comment
	if err := c.do(ctx, http.MethodGet, articlePath(articleID)+"/comments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment adds a comment to an article.
func (c *Client) CreateComment(ctx context.Context, articleID int64, text string) (*Comment, error) {
	var out Comment
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, articlePath(articleID)+"/comments", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment removes a comment of an article.
func (c *Client) DeleteComment(ctx context.Context, articleID, commentID int64) error {
	var ok bool
	path := articlePath(articleID) + "/comments/" + strconv.FormatInt(commentID, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("client: delete comment %d: server answered false", commentID)
	}
	return nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/user", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a token and uses it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var tok Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, body, &tok); err != nil {
		return nil, err
	}
	c.SetToken(tok.AccessToken)
	return &tok, nil
}
