package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/common"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient implements Client over the DocVault REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8000").
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes a single API call.
type request struct {
	method   string
	path     string
	token    string
	body     io.Reader
	ctype    string
	fallback string
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// do performs r and decodes a 2xx JSON answer into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if r.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+r.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug(ctx, "api request failed", "request_id", reqID, "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "api request",
		"request_id", reqID,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.Body, r.fallback)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// errorMessage reads the server's "detail". FastAPI uses a string for
// HTTPException and a list of {msg} objects for validation failures.
func errorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallback
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var t Token
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/token",
		body:     strings.NewReader(form.Encode()),
		ctype:    "application/x-www-form-urlencoded",
		fallback: fallbackLogin,
	}, &t)
	if err != nil {
		return Token{}, err
	}
	if t.AccessToken == "" {
		return Token{}, &Error{Status: http.StatusOK, Message: fallbackLogin}
	}
	return t, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (Registration, error) {
	body, err := jsonBody(map[string]string{"email": email, "hashed_password": password})
	if err != nil {
		return Registration{}, err
	}
	var r Registration
	err = c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/register",
		body:     body,
		ctype:    "application/json",
		fallback: fallbackRegister,
	}, &r)
	return r, err
}

// authJSON performs an authenticated JSON call.
func (c *HTTPClient) authJSON(ctx context.Context, method, path, token string, in, out any) error {
	r := request{method: method, path: path, token: token, ctype: "application/json", fallback: fallbackGeneric}
	if in != nil {
		body, err := jsonBody(in)
		if err != nil {
			return err
		}
		r.body = body
	}
	return c.do(ctx, r, out)
}

func (c *HTTPClient) Me(ctx context.Context, token string) (models.User, error) {
	var u models.User
	err := c.authJSON(ctx, http.MethodGet, "/users/me", token, nil, &u)
	return u, err
}

func (c *HTTPClient) ListDocuments(ctx context.Context, token string) ([]models.Document, error) {
	var docs []models.Document
	if err := c.authJSON(ctx, http.MethodGet, "/documents/", token, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, token string, id int64) (models.Document, error) {
	var d models.Document
	err := c.authJSON(ctx, http.MethodGet, "/documents/"+itoa(id), token, nil, &d)
	return d, err
}

func (c *HTTPClient) CreateDocument(ctx context.Context, token string, in models.DocumentInput) (models.Document, error) {
	var d models.Document
	err := c.authJSON(ctx, http.MethodPost, "/documents/", token, in, &d)
	return d, err
}

func (c *HTTPClient) UpdateDocument(ctx context.Context, token string, id int64, in models.DocumentInput) (models.Document, error) {
	var d models.Document
	err := c.authJSON(ctx, http.MethodPut, "/documents/"+itoa(id), token, in, &d)
	return d, err
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, token string, id int64) error {
	return c.authJSON(ctx, http.MethodDelete, "/documents/"+itoa(id), token, nil, nil)
}

func (c *HTTPClient) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	var cats []models.Category
	if err := c.authJSON(ctx, http.MethodGet, "/categories/", token, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) CreateCategory(ctx context.Context, token string, in models.CategoryInput) (models.Category, error) {
	var cat models.Category
	err := c.authJSON(ctx, http.MethodPost, "/categories/", token, in, &cat)
	return cat, err
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, token string, id int64, in models.CategoryInput) (models.Category, error) {
	var cat models.Category
	err := c.authJSON(ctx, http.MethodPut, "/categories/"+itoa(id), token, in, &cat)
	return cat, err
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, token string, id int64) error {
	return c.authJSON(ctx, http.MethodDelete, "/categories/"+itoa(id), token, nil, nil)
}

func (c *HTTPClient) CreateSubcategory(ctx context.Context, token string, in models.SubcategoryInput) (models.Subcategory, error) {
	var s models.Subcategory
	err := c.authJSON(ctx, http.MethodPost, "/subcategories/", token, in, &s)
	return s, err
}

func (c *HTTPClient) UpdateSubcategory(ctx context.Context, token string, id int64, in models.SubcategoryInput) (models.Subcategory, error) {
	var s models.Subcategory
	err := c.authJSON(ctx, http.MethodPut, "/subcategories/"+itoa(id), token, in, &s)
	return s, err
}

func (c *HTTPClient) DeleteSubcategory(ctx context.Context, token string, id int64) error {
	return c.authJSON(ctx, http.MethodDelete, "/subcategories/"+itoa(id), token, nil, nil)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

var _ Client = (*HTTPClient)(nil)
