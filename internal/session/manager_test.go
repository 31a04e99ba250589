package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitlog/fitctl/internal/store"
	"github.com/fitlog/fitctl/pkg/sdk"
)

// fakeStore is an in-memory store with per-key failure injection.
type fakeStore struct {
	mu        sync.Mutex
	records   map[string][]byte
	saveErr   map[string]error
	getErr    map[string]error
	removeErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:   make(map[string][]byte),
		saveErr:   make(map[string]error),
		getErr:    make(map[string]error),
		removeErr: make(map[string]error),
	}
}

func (s *fakeStore) Save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErr[key]; err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.records[key] = data
	return nil
}

func (s *fakeStore) Get(key string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.getErr[key]; err != nil {
		return err
	}
	data, ok := s.records[key]
	if !ok {
		return store.ErrAbsent
	}
	return json.Unmarshal(data, out)
}

func (s *fakeStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.removeErr[key]; err != nil {
		return err
	}
	delete(s.records, key)
	return nil
}

func (s *fakeStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	return ok
}

// fakeExchanger returns a canned session or error.
type fakeExchanger struct {
	session *sdk.Session
	err     error
	calls   int
}

func (f *fakeExchanger) CreateSession(ctx context.Context, email, password string) (*sdk.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func validSession() *sdk.Session {
	return &sdk.Session{
		User:         sdk.UserProfile{ID: "u1", Name: "Ana", Email: "a@b.com"},
		Token:        "t1",
		RefreshToken: "r1",
	}
}

func seedSignedIn(t *testing.T, st store.Store) {
	t.Helper()
	require.NoError(t, st.Save(store.KeyProfile, sdk.UserProfile{ID: "u1", Name: "Ana", Email: "a@b.com"}))
	require.NoError(t, st.Save(store.KeyCredentials, sdk.CredentialPair{Token: "t1", RefreshToken: "r1"}))
}

func TestSignInInstallsSessionAndPersists(t *testing.T) {
	st := newFakeStore()
	mgr := NewManager(st, &fakeExchanger{session: validSession()}, nil)

	require.NoError(t, mgr.SignIn(context.Background(), "a@b.com", "secret1"))

	state := mgr.State()
	require.True(t, state.SignedIn())
	require.Equal(t, "u1", state.User.ID)
	require.Equal(t, "Ana", state.User.Name)
	require.False(t, state.IsLoadingAuth)

	var profile sdk.UserProfile
	require.NoError(t, st.Get(store.KeyProfile, &profile))
	require.Equal(t, "u1", profile.ID)

	var creds sdk.CredentialPair
	require.NoError(t, st.Get(store.KeyCredentials, &creds))
	require.Equal(t, sdk.CredentialPair{Token: "t1", RefreshToken: "r1"}, creds)
}

func TestSignInWritesStoreBeforeInstallingState(t *testing.T) {
	st := newFakeStore()
	mgr := NewManager(st, &fakeExchanger{session: validSession()}, nil)

	// At the first observation of a signed-in state, both durable records
	// must already exist.
	var violated bool
	remove := mgr.OnChange(func(s State) {
		if s.SignedIn() && (!st.has(store.KeyProfile) || !st.has(store.KeyCredentials)) {
			violated = true
		}
	})
	defer remove()

	require.NoError(t, mgr.SignIn(context.Background(), "a@b.com", "secret1"))
	require.False(t, violated, "state reflected a session before the store held it")
}

func TestSignInExchangeFailureLeavesStateUntouched(t *testing.T) {
	st := newFakeStore()
	exchangeErr := errors.New("invalid credentials")
	mgr := NewManager(st, &fakeExchanger{err: exchangeErr}, nil)

	err := mgr.SignIn(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, exchangeErr)
	require.False(t, mgr.State().SignedIn())
	require.False(t, st.has(store.KeyProfile))
	require.False(t, st.has(store.KeyCredentials))
}

func TestSignInIncompleteResponseRejected(t *testing.T) {
	cases := map[string]*sdk.Session{
		"missing user":          {Token: "t1", RefreshToken: "r1"},
		"missing token":         {User: sdk.UserProfile{ID: "u1", Name: "Ana"}, RefreshToken: "r1"},
		"missing refresh token": {User: sdk.UserProfile{ID: "u1", Name: "Ana"}, Token: "t1"},
	}
	for name, sess := range cases {
		t.Run(name, func(t *testing.T) {
			st := newFakeStore()
			mgr := NewManager(st, &fakeExchanger{session: sess}, nil)

			err := mgr.SignIn(context.Background(), "a@b.com", "secret1")
			require.ErrorIs(t, err, ErrIncompleteExchange)
			require.False(t, mgr.State().SignedIn())
		})
	}
}

func TestSignInStoreWriteFailurePropagates(t *testing.T) {
	st := newFakeStore()
	st.saveErr[store.KeyCredentials] = errors.New("disk full")
	mgr := NewManager(st, &fakeExchanger{session: validSession()}, nil)

	err := mgr.SignIn(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)
	require.False(t, mgr.State().SignedIn(), "in-memory state must stay untouched on persist failure")
}

func TestSignOutIdempotent(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	mgr := NewManager(st, &fakeExchanger{}, nil)
	mgr.Restore()
	require.True(t, mgr.State().SignedIn())

	require.NoError(t, mgr.SignOut())
	require.False(t, mgr.State().SignedIn())
	require.False(t, st.has(store.KeyProfile))
	require.False(t, st.has(store.KeyCredentials))

	// Signing out again, already signed out, is a no-op that still succeeds.
	require.NoError(t, mgr.SignOut())
	require.False(t, mgr.State().SignedIn())
}

func TestSignOutClearsMemoryEvenWhenRemovalFails(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	st.removeErr[store.KeyProfile] = errors.New("io error")

	mgr := NewManager(st, &fakeExchanger{}, nil)
	mgr.Restore()

	err := mgr.SignOut()
	require.Error(t, err)
	require.False(t, mgr.State().SignedIn(), "logged-out is the safe side to fail toward")
	require.False(t, st.has(store.KeyCredentials), "the other record is still removed")
}

func TestRestoreInstallsPersistedSession(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	exchanger := &fakeExchanger{}

	mgr := NewManager(st, exchanger, nil)
	mgr.Restore()

	state := mgr.State()
	require.True(t, state.SignedIn())
	require.Equal(t, "u1", state.User.ID)
	require.False(t, state.IsLoadingAuth)
	require.Zero(t, exchanger.calls, "restore must not contact the network")

	tok, err := mgr.Token()
	require.NoError(t, err)
	require.Equal(t, "t1", tok.AccessToken)
}

func TestRestoreEmptyStore(t *testing.T) {
	mgr := NewManager(newFakeStore(), &fakeExchanger{}, nil)
	mgr.Restore()

	state := mgr.State()
	require.False(t, state.SignedIn())
	require.False(t, state.IsLoadingAuth)
}

func TestRestoreFailsOpenToLoggedOut(t *testing.T) {
	t.Run("profile read error", func(t *testing.T) {
		st := newFakeStore()
		seedSignedIn(t, st)
		st.getErr[store.KeyProfile] = errors.New("io error")

		mgr := NewManager(st, &fakeExchanger{}, nil)
		mgr.Restore()
		require.False(t, mgr.State().SignedIn())
	})

	t.Run("credentials read error", func(t *testing.T) {
		st := newFakeStore()
		seedSignedIn(t, st)
		st.getErr[store.KeyCredentials] = errors.New("io error")

		mgr := NewManager(st, &fakeExchanger{}, nil)
		mgr.Restore()
		require.False(t, mgr.State().SignedIn())
	})

	t.Run("profile present but credentials absent", func(t *testing.T) {
		st := newFakeStore()
		require.NoError(t, st.Save(store.KeyProfile, sdk.UserProfile{ID: "u1", Name: "Ana"}))

		mgr := NewManager(st, &fakeExchanger{}, nil)
		mgr.Restore()
		require.False(t, mgr.State().SignedIn(), "never restore a partially persisted session")
	})

	t.Run("malformed record in a real file store", func(t *testing.T) {
		dir := t.TempDir()
		fs, err := store.NewFileStore(dir)
		require.NoError(t, err)
		seedSignedIn(t, fs)
		require.NoError(t, fs.Save(store.KeyCredentials, "not an object"))

		mgr := NewManager(fs, &fakeExchanger{}, nil)
		mgr.Restore()
		require.False(t, mgr.State().SignedIn())
	})
}

// loadingRecorder observes loading-flag transitions through OnChange.
type loadingRecorder struct {
	mu   sync.Mutex
	seen []bool
}

func (r *loadingRecorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 || r.seen[len(r.seen)-1] != s.IsLoadingAuth {
		r.seen = append(r.seen, s.IsLoadingAuth)
	}
}

func (r *loadingRecorder) bracketed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen) >= 2 && r.seen[0] && !r.seen[len(r.seen)-1]
}

func TestLoadingFlagBracketsEveryOperation(t *testing.T) {
	run := func(t *testing.T, mgr *Manager, op func()) {
		t.Helper()
		rec := &loadingRecorder{}
		remove := mgr.OnChange(rec.observe)
		defer remove()

		op()

		require.True(t, rec.bracketed(), "loading flag must go true then settle false, saw %v", rec.seen)
		require.False(t, mgr.State().IsLoadingAuth)
	}

	t.Run("restore success", func(t *testing.T) {
		st := newFakeStore()
		seedSignedIn(t, st)
		mgr := NewManager(st, &fakeExchanger{}, nil)
		run(t, mgr, func() { mgr.Restore() })
	})

	t.Run("restore failure", func(t *testing.T) {
		st := newFakeStore()
		st.getErr[store.KeyProfile] = errors.New("io error")
		mgr := NewManager(st, &fakeExchanger{}, nil)
		run(t, mgr, func() { mgr.Restore() })
	})

	t.Run("sign-in success", func(t *testing.T) {
		mgr := NewManager(newFakeStore(), &fakeExchanger{session: validSession()}, nil)
		run(t, mgr, func() { _ = mgr.SignIn(context.Background(), "a@b.com", "secret1") })
	})

	t.Run("sign-in exchange failure", func(t *testing.T) {
		mgr := NewManager(newFakeStore(), &fakeExchanger{err: errors.New("boom")}, nil)
		run(t, mgr, func() { _ = mgr.SignIn(context.Background(), "a@b.com", "secret1") })
	})

	t.Run("sign-in persist failure", func(t *testing.T) {
		st := newFakeStore()
		st.saveErr[store.KeyProfile] = errors.New("disk full")
		mgr := NewManager(st, &fakeExchanger{session: validSession()}, nil)
		run(t, mgr, func() { _ = mgr.SignIn(context.Background(), "a@b.com", "secret1") })
	})

	t.Run("sign-out success", func(t *testing.T) {
		st := newFakeStore()
		seedSignedIn(t, st)
		mgr := NewManager(st, &fakeExchanger{}, nil)
		mgr.Restore()
		run(t, mgr, func() { _ = mgr.SignOut() })
	})

	t.Run("sign-out removal failure", func(t *testing.T) {
		st := newFakeStore()
		seedSignedIn(t, st)
		st.removeErr[store.KeyCredentials] = errors.New("io error")
		mgr := NewManager(st, &fakeExchanger{}, nil)
		mgr.Restore()
		run(t, mgr, func() { _ = mgr.SignOut() })
	})
}

func TestUpdateProfileReplacesAndPersists(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	mgr := NewManager(st, &fakeExchanger{}, nil)
	mgr.Restore()

	updated := sdk.UserProfile{ID: "u1", Name: "Ana Clara", Email: "a@b.com"}
	require.NoError(t, mgr.UpdateProfile(updated))

	require.Equal(t, "Ana Clara", mgr.State().User.Name)

	var persisted sdk.UserProfile
	require.NoError(t, st.Get(store.KeyProfile, &persisted))
	require.Equal(t, updated, persisted)
}

func TestUpdateProfilePersistFailureKeepsMemoryChange(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	st.saveErr[store.KeyProfile] = errors.New("disk full")
	mgr := NewManager(st, &fakeExchanger{}, nil)
	mgr.Restore()

	err := mgr.UpdateProfile(sdk.UserProfile{ID: "u1", Name: "Ana Clara", Email: "a@b.com"})
	require.Error(t, err)
	require.Equal(t, "Ana Clara", mgr.State().User.Name, "no rollback on persist failure")
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	mgr := NewManager(newFakeStore(), &fakeExchanger{}, nil)
	err := mgr.UpdateProfile(sdk.UserProfile{ID: "u1", Name: "Ana"})
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestStateSnapshotDoesNotAliasSession(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	mgr := NewManager(st, &fakeExchanger{}, nil)
	mgr.Restore()

	state := mgr.State()
	state.User.Name = "mutated"
	require.Equal(t, "Ana", mgr.State().User.Name)
}

func TestInvalidationSignalForcesSignOut(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	signal := NewInvalidationSignal()
	mgr := NewManager(st, &fakeExchanger{}, signal)
	defer mgr.Close()
	mgr.Restore()
	require.True(t, mgr.State().SignedIn())

	signal.Fire()

	require.False(t, mgr.State().SignedIn())
	require.False(t, st.has(store.KeyProfile))
	require.False(t, st.has(store.KeyCredentials))
}

func TestInvalidationSignalWhileSignedOut(t *testing.T) {
	signal := NewInvalidationSignal()
	mgr := NewManager(newFakeStore(), &fakeExchanger{}, signal)
	defer mgr.Close()

	// Converges on the same terminal state with nothing to remove.
	signal.Fire()
	require.False(t, mgr.State().SignedIn())
}

func TestInvalidationConcurrentWithSignOut(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	signal := NewInvalidationSignal()
	mgr := NewManager(st, &fakeExchanger{}, signal)
	defer mgr.Close()
	mgr.Restore()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		signal.Fire()
	}()
	go func() {
		defer wg.Done()
		_ = mgr.SignOut()
	}()
	wg.Wait()

	require.False(t, mgr.State().SignedIn())
	require.False(t, st.has(store.KeyProfile))
	require.False(t, st.has(store.KeyCredentials))
}

func TestCloseReleasesInvalidationRegistration(t *testing.T) {
	st := newFakeStore()
	seedSignedIn(t, st)
	signal := NewInvalidationSignal()
	mgr := NewManager(st, &fakeExchanger{}, signal)
	mgr.Restore()

	mgr.Close()
	signal.Fire()

	require.True(t, mgr.State().SignedIn(), "a closed manager must not receive the signal")
}

func TestTokenSource(t *testing.T) {
	st := newFakeStore()
	mgr := NewManager(st, &fakeExchanger{session: validSession()}, nil)

	_, err := mgr.Token()
	require.ErrorIs(t, err, ErrNotSignedIn)

	require.NoError(t, mgr.SignIn(context.Background(), "a@b.com", "secret1"))

	tok, err := mgr.Token()
	require.NoError(t, err)
	require.Equal(t, "t1", tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Equal(t, "r1", tok.RefreshToken)

	require.NoError(t, mgr.SignOut())
	_, err = mgr.Token()
	require.ErrorIs(t, err, ErrNotSignedIn)
}
