package sdk

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenSourceFunc adapts a function to oauth2.TokenSource.
type TokenSourceFunc func() (*oauth2.Token, error)

// Token implements oauth2.TokenSource.
func (f TokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

// authTransport attaches the current bearer token to outgoing requests and
// watches authenticated responses for credential invalidation.
//
// The token source is consulted per request, so installing or clearing
// credentials in the session manager takes effect immediately without
// rebuilding the client. When the source reports no session, the request is
// sent unauthenticated (sign-in and registration need this).
type authTransport struct {
	base      http.RoundTripper
	source    oauth2.TokenSource
	onInvalid func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	authenticated := false
	if t.source != nil {
		if tok, err := t.source.Token(); err == nil && tok.AccessToken != "" {
			req = req.Clone(req.Context())
			tok.SetAuthHeader(req)
			authenticated = true
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if authenticated && resp.StatusCode == http.StatusUnauthorized && t.onInvalid != nil {
		if msg, ok := peekMessage(resp); ok && isInvalidationMessage(msg) {
			t.onInvalid()
		}
	}

	return resp, nil
}

// peekMessage reads the response body looking for the server's {"message"}
// envelope and restores it so the caller still sees the full body.
func peekMessage(resp *http.Response) (string, bool) {
	if resp.Body == nil {
		return "", false
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", false
	}
	return payload.Message, payload.Message != ""
}
