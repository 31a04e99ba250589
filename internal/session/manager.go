// Package session owns the lifecycle of the authenticated identity on this
// device: sign-in, sign-out, cold-start restoration, profile updates, and
// the forced sign-out driven by credential invalidation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/fitlog/fitctl/internal/store"
	"github.com/fitlog/fitctl/pkg/sdk"
)

// CredentialExchanger is the slice of the network layer the manager
// consumes: the email/password credential exchange. *sdk.Client satisfies
// it.
type CredentialExchanger interface {
	CreateSession(ctx context.Context, email, password string) (*sdk.Session, error)
}

// State is the in-memory representation of "who is logged in right now".
// User is nil when no session is installed. IsLoadingAuth is true only
// while a lifecycle operation (restore, sign-in, sign-out) is in flight.
type State struct {
	User          *sdk.UserProfile
	IsLoadingAuth bool
}

// SignedIn reports whether a session is installed.
func (s State) SignedIn() bool {
	return s.User != nil
}

// Manager orchestrates the session lifecycle. It owns the only write path
// to both the in-memory state and the durable store, keeping them
// consistent.
//
// Operations are not mutually exclusive: concurrent calls interleave and
// the final state is whichever write completed last. Every terminal state
// is itself valid (signed in or signed out), so no cross-operation lock is
// taken; the mutex below guards individual reads and writes only.
type Manager struct {
	store store.Store
	api   CredentialExchanger
	log   hclog.Logger

	mu      sync.Mutex
	user    *sdk.UserProfile
	creds   *sdk.CredentialPair
	loading bool

	watchMu   sync.Mutex
	watchers  map[uint64]func(State)
	nextWatch uint64

	unregister func()
}

// ManagerOption mutates manager construction.
type ManagerOption func(*Manager)

// WithLogger sets the manager's debug logger.
func WithLogger(log hclog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager constructs a Manager bound to the given store and credential
// exchanger, and registers its sign-out handler with the invalidation
// signal. Call Close to release the registration before discarding the
// manager.
func NewManager(st store.Store, api CredentialExchanger, signal *InvalidationSignal, optFns ...ManagerOption) *Manager {
	m := &Manager{
		store:    st,
		api:      api,
		log:      hclog.NewNullLogger(),
		watchers: make(map[uint64]func(State)),
	}
	for _, fn := range optFns {
		fn(m)
	}
	m.log = m.log.Named("session")

	if signal != nil {
		m.unregister = signal.Register(m.handleInvalidation)
	}
	return m
}

// Close releases the invalidation registration. The manager must not be
// used afterwards.
func (m *Manager) Close() {
	if m.unregister != nil {
		m.unregister()
		m.unregister = nil
	}
}

// State returns a snapshot of the current session state. The profile is
// copied; mutating it has no effect on the session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State {
	st := State{IsLoadingAuth: m.loading}
	if m.user != nil {
		user := *m.user
		st.User = &user
	}
	return st
}

// OnChange registers fn to be called with a state snapshot after every
// state mutation. The returned function removes the registration.
func (m *Manager) OnChange(fn func(State)) (remove func()) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	id := m.nextWatch
	m.nextWatch++
	m.watchers[id] = fn
	return func() {
		m.watchMu.Lock()
		defer m.watchMu.Unlock()
		delete(m.watchers, id)
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	st := m.stateLocked()
	m.mu.Unlock()

	m.watchMu.Lock()
	fns := make([]func(State), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	m.watchMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// setLoading flips the loading flag and notifies watchers. Callers pair it
// with a deferred setLoading(false) so the flag is released on every exit
// path.
func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) install(user *sdk.UserProfile, creds *sdk.CredentialPair) {
	m.mu.Lock()
	u := *user
	c := *creds
	m.user = &u
	m.creds = &c
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.user = nil
	m.creds = nil
	m.mu.Unlock()
	m.notify()
}

// Token implements oauth2.TokenSource over the installed credential pair.
// The SDK transport consults it per request, so sign-in and sign-out change
// what subsequent requests send without any further coordination.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return nil, ErrNotSignedIn
	}
	return &oauth2.Token{
		AccessToken:  m.creds.Token,
		TokenType:    "Bearer",
		RefreshToken: m.creds.RefreshToken,
	}, nil
}

// Restore loads the persisted session at process start. Any store failure,
// including a record that no longer decodes, degrades to the logged-out
// state; restore never fails the caller. The network is not contacted.
func (m *Manager) Restore() {
	m.setLoading(true)
	defer m.setLoading(false)

	var profile sdk.UserProfile
	if err := m.store.Get(store.KeyProfile, &profile); err != nil {
		if !errors.Is(err, store.ErrAbsent) {
			m.log.Debug("treating unreadable profile record as absent", "error", err)
		}
		return
	}

	var creds sdk.CredentialPair
	if err := m.store.Get(store.KeyCredentials, &creds); err != nil {
		if !errors.Is(err, store.ErrAbsent) {
			m.log.Debug("treating unreadable credentials record as absent", "error", err)
		}
		return
	}

	if profile.ID == "" || creds.Token == "" {
		return
	}

	m.install(&profile, &creds)
	m.log.Debug("session restored", "user", profile.ID)
}

// SignIn exchanges email and password for a session. The profile and
// credential pair are persisted before the in-memory state is updated, so a
// crash between the two steps never leaves a session in memory without a
// durable counterpart. On any failure the in-memory state is left
// untouched and the error propagates.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.setLoading(true)
	defer m.setLoading(false)

	sess, err := m.api.CreateSession(ctx, email, password)
	if err != nil {
		return err
	}
	if sess.User.ID == "" || sess.Token == "" || sess.RefreshToken == "" {
		return ErrIncompleteExchange
	}

	creds := sdk.CredentialPair{Token: sess.Token, RefreshToken: sess.RefreshToken}
	if err := m.store.Save(store.KeyProfile, sess.User); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	if err := m.store.Save(store.KeyCredentials, creds); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	m.install(&sess.User, &creds)
	m.log.Debug("signed in", "user", sess.User.ID)
	return nil
}

// SignOut clears the session. The in-memory state is cleared first so
// consumers react immediately; durable removal of both records is then
// attempted and its error, if any, propagates with the memory still
// cleared. Signing out while already signed out is a no-op that still
// performs the removal attempt.
func (m *Manager) SignOut() error {
	m.setLoading(true)
	defer m.setLoading(false)

	m.clear()

	return errors.Join(
		m.store.Remove(store.KeyProfile),
		m.store.Remove(store.KeyCredentials),
	)
}

// UpdateProfile replaces the current profile, in memory first and then in
// the durable store. A store failure propagates without rolling back the
// in-memory replacement.
func (m *Manager) UpdateProfile(profile sdk.UserProfile) error {
	m.mu.Lock()
	if m.creds == nil {
		m.mu.Unlock()
		return ErrNotSignedIn
	}
	p := profile
	m.user = &p
	m.mu.Unlock()
	m.notify()

	if err := m.store.Save(store.KeyProfile, profile); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// handleInvalidation is the handler registered with the invalidation
// signal. It shares SignOut's code path; a store removal failure is logged
// rather than propagated, since the signal has no caller to report to.
func (m *Manager) handleInvalidation() {
	m.log.Debug("credential invalidation signal received")
	if err := m.SignOut(); err != nil {
		m.log.Warn("failed to clear persisted session after invalidation", "error", err)
	}
}
