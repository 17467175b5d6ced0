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

	"jatrack/internal/model"
)

// CredentialSource supplies the current bearer token, or "" when none is
// available yet. The client never reads or writes the token store itself.
type CredentialSource interface {
	Token() string
}

// StaticToken is a fixed credential, mostly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the applications API. It is a pure request/response
// translator: it holds no list state and mutates nothing beyond the wire.
type Client struct {
	baseURL string
	creds   CredentialSource
	http    *http.Client
}

func NewClient(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{},
	}
}

// Ready reports whether a credential is currently available. Fetch loops poll
// this before issuing authenticated calls.
func (c *Client) Ready() bool {
	return c.creds != nil && strings.TrimSpace(c.creds.Token()) != ""
}

// List issues one list request for q and normalizes the response. The server
// may answer with a paginated envelope or a bare array; both normalize to the
// same model.Page and the union never leaks past this package.
func (c *Client) List(ctx context.Context, q model.Query) (model.Page, error) {
	vals := url.Values{}
	vals.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		vals.Set("size", strconv.Itoa(q.Size))
	}
	// Absent filters are omitted entirely, never sent empty.
	if q.Status != "" {
		vals.Set("status", q.Status)
	}
	if q.Text != "" {
		vals.Set("q", q.Text)
	}
	if q.Sort != "" {
		vals.Set("sort", q.Sort)
	}

	body, err := c.do(ctx, http.MethodGet, "/api/applications?"+vals.Encode(), nil)
	if err != nil {
		return model.Page{}, err
	}
	return decodePage(body)
}

// Create posts a new record (minus id) and returns the server-assigned record.
func (c *Client) Create(ctx context.Context, a model.Application) (model.Application, error) {
	a.ID = 0
	body, err := c.do(ctx, http.MethodPost, "/api/applications", a)
	if err != nil {
		return model.Application{}, err
	}
	var created model.Application
	if err := json.Unmarshal(body, &created); err != nil {
		return model.Application{}, fmt.Errorf("decode created application: %w", err)
	}
	return created, nil
}

// Update replaces the whole record. The server contract is whole-record
// replacement: an omitted field means "clear this field", so callers must
// always send the full merged record.
func (c *Client) Update(ctx context.Context, id int64, a model.Application) (model.Application, error) {
	body, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/applications/%d", id), a)
	if err != nil {
		return model.Application{}, err
	}
	var updated model.Application
	if err := json.Unmarshal(body, &updated); err != nil {
		return model.Application{}, fmt.Errorf("decode updated application: %w", err)
	}
	return updated, nil
}

// Delete removes a record. Any 2xx (including 204 with an empty body) is
// success; no body is parsed.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/applications/%d", id), nil)
	return err
}

type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. It is unauthenticated, so
// it works with an empty credential source.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.auth(ctx, "/auth/login", authRequest{Email: email, Password: password})
}

// Register creates an account and returns a bearer token.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	return c.auth(ctx, "/auth/register", authRequest{Name: name, Email: email, Password: password})
}

func (c *Client) auth(ctx context.Context, path string, req authRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, err := c.send(httpReq)
	if err != nil {
		return "", err
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		return "", fmt.Errorf("auth response missing token")
	}
	return resp.Token, nil
}

// do issues one authenticated request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token := ""
	if c.creds != nil {
		token = strings.TrimSpace(c.creds.Token())
	}
	if token == "" {
		return nil, ErrNoCredential
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// pageEnvelope is the paginated wire shape. first/last are derivable and
// ignored on decode.
type pageEnvelope struct {
	Content       []model.Application `json:"content"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int64               `json:"totalElements"`
	TotalPages    int                 `json:"totalPages"`
}

// decodePage normalizes the two possible list response shapes. A bare array
// becomes a synthetic single page covering the whole sequence.
func decodePage(data []byte) (model.Page, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []model.Application
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return model.Page{}, fmt.Errorf("decode application list: %w", err)
		}
		return model.Page{
			Items:         items,
			Page:          0,
			Size:          len(items),
			TotalElements: int64(len(items)),
			TotalPages:    1,
		}, nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Page{}, fmt.Errorf("decode application page: %w", err)
	}
	return model.Page{
		Items:         env.Content,
		Page:          env.Page,
		Size:          env.Size,
		TotalElements: env.TotalElements,
		TotalPages:    env.TotalPages,
	}, nil
}
