package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Refresher obtains a new access token, usually by presenting the refresh
// cookie to the server.
type Refresher interface {
	Refresh(ctx context.Context) (accessToken string, user *User, err error)
}

// Transport is an http.RoundTripper that authenticates requests with the
// session's access token and transparently refreshes it once when it expires.
// Concurrent requests that hit an expired token share a single refresh.
type Transport struct {
	base      http.RoundTripper
	session   *Session
	refresher Refresher
	onLogout  func(redirect string)

	group singleflight.Group
}

// NewTransport creates a Transport. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper, session *Session, refresher Refresher, onLogout func(redirect string)) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, session: session, refresher: refresher, onLogout: onLogout}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}

	sent := t.session.AccessToken()
	resp, err := t.send(req, body, sent)
	if err != nil {
		return nil, err
	}

	retry, err := t.inspect(req, resp)
	if err != nil {
		return nil, err
	}
	if !retry {
		return resp, nil
	}
	drain(resp)

	token := t.session.AccessToken()
	if token == "" && sent != "" {
		return nil, fmt.Errorf("%w: signed out while the request was in flight", ErrSessionTerminated)
	}
	if token == sent {
		token, err = t.refresh(req.Context(), req, sent)
		if err != nil {
			return nil, err
		}
	}

	resp, err = t.send(req, body, token)
	if err != nil {
		return nil, err
	}
	if _, err := t.inspect(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// inspect decides what to do with a response. It reports retry for an
// expired token and ErrSessionTerminated for a response that ends the session.
func (t *Transport) inspect(req *http.Request, resp *http.Response) (retry bool, err error) {
	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return false, nil
	}

	apiErr, err := peekAPIError(resp)
	if err != nil {
		return false, err
	}
	if isTerminal(apiErr) {
		drain(resp)
		t.terminate(req)
		return false, fmt.Errorf("%w: %s", ErrSessionTerminated, apiErr.Message)
	}
	return resp.StatusCode == http.StatusUnauthorized, nil
}

// refresh runs one refresh for all concurrent callers. It is detached from
// the caller's cancellation so one abandoned request cannot fail the others.
// A flight started after an earlier one already replaced sent reuses that
// token instead of refreshing again.
func (t *Transport) refresh(ctx context.Context, req *http.Request, sent string) (string, error) {
	ctx = context.WithoutCancel(ctx)

	v, err, _ := t.group.Do(refreshKey, func() (any, error) {
		if current := t.session.AccessToken(); current != sent {
			if current == "" {
				return "", fmt.Errorf("%w: signed out while the request was in flight", ErrSessionTerminated)
			}
			return current, nil
		}

		token, user, err := t.refresher.Refresh(ctx)
		if err != nil {
			t.terminate(req)
			return "", fmt.Errorf("failed to refresh session: %w", err)
		}
		t.session.Set(token, user)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *Transport) terminate(req *http.Request) {
	t.session.Clear()
	if t.onLogout == nil {
		return
	}

	from := t.session.LastPath()
	if from == "" {
		from = req.URL.Path
	}
	t.onLogout("/auth?path=login&from=" + url.QueryEscape(from))
}

func (t *Transport) send(req *http.Request, body []byte, token string) (*http.Response, error) {
	r := req.Clone(req.Context())
	if body != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(r)
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	return body, nil
}

// peekAPIError decodes an error envelope and leaves resp.Body readable.
func peekAPIError(resp *http.Response) (*APIError, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	var env errorEnvelope
	_ = json.Unmarshal(raw, &env)
	return &APIError{Status: resp.StatusCode, Message: env.Error}, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
