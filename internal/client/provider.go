// Package client wires the session manager, durable store, and SDK client
// together for the fitctl commands.
package client

import (
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/fitlog/fitctl/internal/session"
	"github.com/fitlog/fitctl/internal/store"
	"github.com/fitlog/fitctl/pkg/sdk"
)

// Provider lazily constructs and yields the session manager and SDK client
// backed by the durable session store.
//
// Construction order matters: the SDK client's token source and the
// manager's credential exchanger reference each other, so the provider
// bridges the cycle with a late-bound token source.
type Provider struct {
	serverURL string
	timeout   time.Duration
	stateDir  string
	log       hclog.Logger

	buildOnce sync.Once
	buildErr  error
	signal    *session.InvalidationSignal
	manager   *session.Manager
	sdkClient *sdk.Client

	restoreOnce sync.Once
}

// Option mutates provider construction.
type Option func(*Provider)

// WithTimeout sets the HTTP timeout for API calls.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithStateDir overrides the session state directory.
func WithStateDir(dir string) Option {
	return func(p *Provider) { p.stateDir = dir }
}

// WithLogger sets the debug logger threaded through the SDK client and
// session manager.
func WithLogger(log hclog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// NewProvider constructs a Provider bound to the given server URL.
func NewProvider(serverURL string, optFns ...Option) *Provider {
	p := &Provider{
		serverURL: serverURL,
		timeout:   15 * time.Second,
		log:       hclog.NewNullLogger(),
	}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

func (p *Provider) build() error {
	p.buildOnce.Do(func() {
		dir := p.stateDir
		if dir == "" {
			var err error
			dir, err = store.DefaultDir()
			if err != nil {
				p.buildErr = err
				return
			}
		}

		st, err := store.NewFileStore(dir)
		if err != nil {
			p.buildErr = err
			return
		}

		signal := session.NewInvalidationSignal()

		cli := sdk.NewClient(p.serverURL,
			sdk.WithHTTPClient(&http.Client{Timeout: p.timeout}),
			sdk.WithTokenSource(sdk.TokenSourceFunc(p.token)),
			sdk.WithInvalidationHandler(signal.Fire),
			sdk.WithLogger(p.log),
		)

		p.signal = signal
		p.sdkClient = cli
		p.manager = session.NewManager(st, cli, signal, session.WithLogger(p.log))
	})
	return p.buildErr
}

// token defers to the manager so the SDK client can be constructed before
// the manager exists.
func (p *Provider) token() (*oauth2.Token, error) {
	if p.manager == nil {
		return nil, session.ErrNotSignedIn
	}
	return p.manager.Token()
}

// Session returns the session manager, restoring the persisted session on
// first use.
func (p *Provider) Session() (*session.Manager, error) {
	if err := p.build(); err != nil {
		return nil, err
	}
	p.restoreOnce.Do(p.manager.Restore)
	return p.manager, nil
}

// SDKClient returns the API client. The persisted session is restored
// first so authenticated calls pick up stored credentials.
func (p *Provider) SDKClient() (*sdk.Client, error) {
	if _, err := p.Session(); err != nil {
		return nil, err
	}
	return p.sdkClient, nil
}

// Close releases the manager's invalidation registration.
func (p *Provider) Close() {
	if p.manager != nil {
		p.manager.Close()
	}
}
