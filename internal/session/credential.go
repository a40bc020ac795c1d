package session

import (
	"net/http"
	"strings"
	"sync/atomic"
)

// Credential holds the default bearer token attached to outgoing requests.
// Writes replace the whole value atomically; the last writer wins.
type Credential struct {
	token atomic.Pointer[string]
}

// NewCredential returns an empty credential.
func NewCredential() *Credential {
	return &Credential{}
}

// Install sets the bearer token. An empty token removes the credential.
func (c *Credential) Install(token string) {
	if c == nil {
		return
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		c.token.Store(nil)
		return
	}
	c.token.Store(&trimmed)
}

// Remove drops any installed token.
func (c *Credential) Remove() {
	if c == nil {
		return
	}
	c.token.Store(nil)
}

// Token returns the installed token, if any.
func (c *Credential) Token() (string, bool) {
	if c == nil {
		return "", false
	}
	p := c.token.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Header returns the Authorization header value, or "" when none is installed.
func (c *Credential) Header() string {
	token, ok := c.Token()
	if !ok {
		return ""
	}
	return "Bearer " + token
}

// Apply sets the Authorization header on req when a token is installed.
func (c *Credential) Apply(req *http.Request) {
	if req == nil {
		return
	}
	if header := c.Header(); header != "" {
		req.Header.Set("Authorization", header)
	}
}
