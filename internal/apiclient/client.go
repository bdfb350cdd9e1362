// Package apiclient is a typed HTTP client for the /api/v1 endpoints.
// Every failure is reported as an *Error whose Kind is derived from the response status.
package apiclient

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

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
)

// TokenCookie is the cookie carrying the session token on both API and console.
const TokenCookie = "authToken"

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBodyLen = 4 << 10
)

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls the REST API on behalf of one caller. It is safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client
	token   string
}

// New builds a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url scheme: %q", u.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, hc: hc}, nil
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Login posts credentials and returns the token from the authToken cookie.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const op = "login"
	resp, err := c.do(ctx, op, http.MethodPost, "/api/v1/login", credentials{Username: username, Password: password}, nil)
	if err != nil {
		return "", err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == TokenCookie && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: errors.New("response carried no token cookie")}
}

// TokenValidity succeeds when the current token is accepted.
func (c *Client) TokenValidity(ctx context.Context) error {
	_, err := c.do(ctx, "tokenValidity", http.MethodGet, "/api/v1/tokenValidity", nil, nil)
	return err
}

// AdminStatus succeeds when the current token belongs to an administrator.
func (c *Client) AdminStatus(ctx context.Context) error {
	_, err := c.do(ctx, "adminStatus", http.MethodGet, "/api/v1/adminStatus", nil, nil)
	return err
}

// Dash returns the dashboard tiles in server order.
func (c *Client) Dash(ctx context.Context) ([]domainauth.Tile, error) {
	const op = "dash"
	var body struct {
		Endpoints []string `json:"endpoints"`
	}
	if _, err := c.do(ctx, op, http.MethodGet, "/api/v1/dash", nil, &body); err != nil {
		return nil, err
	}

	tiles := make([]domainauth.Tile, 0, len(body.Endpoints))
	for i, raw := range body.Endpoints {
		tile, err := domainauth.ParseTile(raw)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindUnexpected, Status: http.StatusOK, Err: fmt.Errorf("tile %d: %w", i, err)}
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

// Users returns every username.
func (c *Client) Users(ctx context.Context) ([]string, error) {
	var body struct {
		UsernameList []string `json:"usernameList"`
	}
	if _, err := c.do(ctx, "users", http.MethodGet, "/api/v1/users", nil, &body); err != nil {
		return nil, err
	}
	if body.UsernameList == nil {
		return []string{}, nil
	}
	return body.UsernameList, nil
}

// User fetches a single account.
func (c *Client) User(ctx context.Context, username string) (domainauth.User, error) {
	var user domainauth.User
	if _, err := c.do(ctx, "user", http.MethodGet, "/api/v1/user/"+url.PathEscape(username), nil, &user); err != nil {
		return domainauth.User{}, err
	}
	return user, nil
}

// CreateUser creates an inactive, non-admin account.
func (c *Client) CreateUser(ctx context.Context, username, password string) error {
	_, err := c.do(ctx, "createUser", http.MethodPost, "/api/v1/createUser",
		credentials{Username: username, Password: password}, nil)
	return err
}

// EditUser sets the admin and active flags of username.
func (c *Client) EditUser(ctx context.Context, username string, admin, active bool) error {
	_, err := c.do(ctx, "editUser", http.MethodPatch, "/api/v1/editUser",
		EditUserRequest{UpdateUsername: username, Admin: admin, Active: active}, nil)
	return err
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, "logout", http.MethodPost, "/api/v1/logout", nil, nil)
	return err
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EditUserRequest is the PATCH /api/v1/editUser body.
type EditUserRequest struct {
	UpdateUsername string `json:"updateUsername"`
	Admin          bool   `json:"admin"`
	Active         bool   `json:"active"`
}

type envelope struct {
	API json.RawMessage `json:"api"`
}

// do sends one request. Only 200 counts as success; out, when non-nil, receives the "api" object.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (*http.Response, error) {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Kind: KindUnexpected, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: c.token})
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		var cause error
		if text := strings.TrimSpace(string(msg)); text != "" {
			cause = errors.New(text)
		}
		return resp, &Error{Op: op, Kind: KindForStatus(resp.StatusCode), Status: resp.StatusCode, Err: cause}
	}

	if out != nil {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return resp, &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
		if len(env.API) == 0 {
			return resp, &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: errors.New("response has no api object")}
		}
		if err := json.Unmarshal(env.API, out); err != nil {
			return resp, &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: fmt.Errorf("decode api object: %w", err)}
		}
	}
	return resp, nil
}
