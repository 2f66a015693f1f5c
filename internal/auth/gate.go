// Package auth holds the client-side identity state. The identity provider
// initializes asynchronously and outside this package's control; callers
// wait on the Gate instead of assuming an identity exists at startup.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mailmap/internal/common"
)

// Identity is the authenticated user as delivered by the external provider.
type Identity struct {
	UID   string
	Token string
}

// Claims parses the bearer token payload without verifying its signature.
// Verification belongs to the backend; the client only reads claims.
func (id Identity) Claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(id.Token, claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpired reports whether the bearer token carries an exp claim in the
// past. Tokens without a parseable exp are treated as usable; the backend
// is the authority either way.
func (id Identity) TokenExpired() bool {
	if id.Token == "" {
		return false
	}
	claims, err := id.Claims()
	if err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// Gate is a one-shot identity future. The provider resolves it once the
// user is known; EnsureAuthenticated blocks until then or until the wait
// deadline passes.
type Gate struct {
	mu          sync.Mutex
	identity    *Identity
	resolved    chan struct{}
	waitTimeout time.Duration
}

func NewGate(waitTimeout time.Duration) *Gate {
	return &Gate{
		resolved:    make(chan struct{}),
		waitTimeout: waitTimeout,
	}
}

// Resolve installs the identity delivered by the provider and wakes every
// waiter. Later calls replace the identity (token refresh) without
// re-notifying.
func (g *Gate) Resolve(id Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	first := g.identity == nil
	g.identity = &id
	if first {
		close(g.resolved)
	}
}

// Clear drops the identity on sign-out and re-arms the gate.
func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.identity != nil {
		g.identity = nil
		g.resolved = make(chan struct{})
	}
}

// Current returns the identity without waiting.
func (g *Gate) Current() (Identity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.identity == nil {
		return Identity{}, false
	}
	return *g.identity, true
}

// EnsureAuthenticated waits for the provider to resolve an identity.
// It fails with common.ErrAuthTimeout when the deadline passes first.
func (g *Gate) EnsureAuthenticated(ctx context.Context) (Identity, error) {
	g.mu.Lock()
	if g.identity != nil {
		id := *g.identity
		g.mu.Unlock()
		return id, nil
	}
	resolved := g.resolved
	g.mu.Unlock()

	timer := time.NewTimer(g.waitTimeout)
	defer timer.Stop()

	select {
	case <-resolved:
		if id, ok := g.Current(); ok {
			return id, nil
		}
		// Cleared between the notification and the read.
		return Identity{}, common.ErrAuthTimeout
	case <-timer.C:
		return Identity{}, common.ErrAuthTimeout
	case <-ctx.Done():
		return Identity{}, ctx.Err()
	}
}
