package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

const (
	loginPath     = "/api/auth/login"
	refreshPath   = "/api/auth/refresh-Token"
	authorisePath = "/api/auth/autherisation"
	logoutPath    = "/api/auth/logout"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseTransport sets the transport used for the actual round-trips.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// WithLogoutHook sets a function called with a login redirect whenever the
// session ends.
func WithLogoutHook(fn func(redirect string)) Option {
	return func(c *Client) { c.onLogout = fn }
}

// Client talks to the quiz platform API on behalf of one user. Each Client
// owns its session, cookie jar and refresh coordination.
type Client struct {
	baseURL  *url.URL
	base     http.RoundTripper
	onLogout func(redirect string)

	session *Session
	plain   *http.Client
	authed  *http.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{baseURL: u, base: http.DefaultTransport, session: &Session{}}
	for _, opt := range opts {
		opt(c)
	}

	c.plain = &http.Client{Transport: c.base, Jar: jar}
	c.authed = &http.Client{
		Transport: NewTransport(c.base, c.session, &HTTPRefresher{client: c.plain, url: c.url(refreshPath)}, c.onLogout),
		Jar:       jar,
	}
	return c, nil
}

// Session returns the client's session state.
func (c *Client) Session() *Session {
	return c.session
}

// Login signs in and stores the session. The refresh cookie is kept in the
// client's cookie jar.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(loginPath), bytes.NewReader(payload))
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.plain.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("failed to sign in: %w", err)
	}

	var data sessionData
	if err := decodeSuccess(resp, &data); err != nil {
		return User{}, err
	}

	c.session.Set(data.AccessToken, &data.User)
	return data.User, nil
}

// Me returns the user behind the current session.
func (c *Client) Me(ctx context.Context) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(authorisePath), nil)
	if err != nil {
		return User{}, err
	}

	resp, err := c.authed.Do(req)
	if err != nil {
		return User{}, err
	}

	var user User
	if err := decodeSuccess(resp, &user); err != nil {
		return User{}, err
	}
	c.session.Set(c.session.AccessToken(), &user)
	return user, nil
}

// Logout clears the refresh cookie on the server and the local session.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(logoutPath), nil)
	if err != nil {
		return err
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return decodeSuccess(resp, nil)
}

// Do sends an authenticated request. A path-only URL is resolved against
// the client's base URL; req itself is left untouched.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.URL.Host == "" {
		req = req.Clone(req.Context())
		req.URL = c.baseURL.ResolveReference(req.URL)
	}
	return c.authed.Do(req)
}

func (c *Client) url(path string) string {
	return c.baseURL.String() + path
}

// HTTPRefresher refreshes the session through the refresh endpoint, sending
// the refresh cookie from its client's jar.
type HTTPRefresher struct {
	client *http.Client
	url    string
}

// NewHTTPRefresher creates a refresher posting to url with client.
func NewHTTPRefresher(client *http.Client, url string) *HTTPRefresher {
	return &HTTPRefresher{client: client, url: url}
}

// Refresh implements Refresher.
func (r *HTTPRefresher) Refresh(ctx context.Context) (string, *User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", nil, err
	}

	var data sessionData
	if err := decodeSuccess(resp, &data); err != nil {
		return "", nil, err
	}
	if data.AccessToken == "" {
		return "", nil, fmt.Errorf("refresh response has no access token")
	}
	return data.AccessToken, &data.User, nil
}

type sessionData struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

type successEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeSuccess consumes resp. A 2xx body's data is decoded into dst when
// dst is not nil; anything else becomes an *APIError.
func decodeSuccess(resp *http.Response, dst any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if dst == nil {
		return nil
	}

	var env successEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
