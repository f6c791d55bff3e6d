package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/modules/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Listener receives every session change. user is nil after sign-out.
type Listener = func(event model.AuthEvent, user *model.SessionUser)

// SupabaseProvider is the identity service client: it owns the current session,
// persists it, refreshes it before expiry and reports changes to listeners.
type SupabaseProvider struct {
	api           goTrue
	files         *FileStore
	log           *zap.Logger
	refreshMargin time.Duration
	now           func() time.Time
	refreshes     singleflight.Group

	mu        sync.Mutex
	loaded    bool
	current   *Session
	listeners map[int]Listener
	nextID    int
}

func NewSupabaseProvider(cfg *config.Config, log *zap.Logger) (*SupabaseProvider, error) {
	if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
		return nil, errors.New("supabase.url and supabase.anonKey are required")
	}
	return newProvider(newSupabaseGoTrue(cfg.Supabase.URL, cfg.Supabase.AnonKey),
		NewFileStore(cfg.Session.File), cfg.Session.RefreshMargin, log), nil
}

func newProvider(api goTrue, files *FileStore, margin time.Duration, log *zap.Logger) *SupabaseProvider {
	return &SupabaseProvider{
		api:           api,
		files:         files,
		log:           log,
		refreshMargin: margin,
		now:           time.Now,
		listeners:     map[int]Listener{},
	}
}

// OnAuthStateChange registers l until the returned func is called.
func (p *SupabaseProvider) OnAuthStateChange(l Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *SupabaseProvider) emit(event model.AuthEvent, s *Session) {
	p.mu.Lock()
	ls := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.Unlock()

	var user *model.SessionUser
	if s != nil {
		u := s.User
		user = &u
	}
	for _, l := range ls {
		l(event, user)
	}
}

// setSession replaces the in-memory and persisted session. Persistence failures are logged only.
func (p *SupabaseProvider) setSession(s *Session) {
	p.mu.Lock()
	p.current = s
	p.loaded = true
	p.mu.Unlock()

	var err error
	if s == nil {
		err = p.files.Clear()
	} else {
		err = p.files.Save(s)
	}
	if err != nil {
		p.log.Warn("persist session failed", zap.Error(err))
	}
}

// stored returns the in-memory session, reading the session file on first use.
func (p *SupabaseProvider) stored() (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		s, err := p.files.Load()
		if err != nil {
			return nil, err
		}
		p.current = s
		p.loaded = true
	}
	return p.current, nil
}

func (p *SupabaseProvider) expiring(s *Session) bool {
	exp, ok := s.Expiry()
	return ok && !p.now().Add(p.refreshMargin).Before(exp)
}

// session returns a usable session, refreshing it when it is about to expire.
// Concurrent callers share one refresh.
func (p *SupabaseProvider) session(ctx context.Context) (*Session, error) {
	s, err := p.stored()
	if err != nil || s == nil {
		return nil, err
	}
	if !p.expiring(s) {
		return s, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := p.refreshes.Do("refresh", func() (interface{}, error) {
		return p.refresh()
	})
	if err != nil {
		return nil, err
	}
	refreshed, _ := v.(*Session)
	return refreshed, nil
}

// refresh spends the refresh token of the stored session. A caller that read the session
// before an earlier refresh finished finds the new one in place and returns it as is.
func (p *SupabaseProvider) refresh() (*Session, error) {
	s, err := p.stored()
	if err != nil || s == nil {
		return nil, err
	}
	if !p.expiring(s) {
		return s, nil
	}
	if s.RefreshToken == "" {
		p.setSession(nil)
		p.emit(model.AuthEventSignedOut, nil)
		return nil, nil
	}

	refreshed, err := p.api.refreshGrant(s.RefreshToken)
	if err != nil {
		p.log.Warn("session refresh failed", zap.Error(err))
		p.setSession(nil)
		p.emit(model.AuthEventSignedOut, nil)
		return nil, err
	}
	p.setSession(refreshed)
	p.emit(model.AuthEventTokenRefreshed, refreshed)
	return refreshed, nil
}

// GetSession returns the current user, or nil when signed out.
func (p *SupabaseProvider) GetSession(ctx context.Context) (*model.SessionUser, error) {
	s, err := p.session(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	u := s.User
	return &u, nil
}

func (p *SupabaseProvider) AccessToken(ctx context.Context) (string, error) {
	s, err := p.session(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.AccessToken, nil
}

func (p *SupabaseProvider) SignInWithPassword(ctx context.Context, email, password string) error {
	s, err := p.api.passwordGrant(email, password)
	if err != nil {
		return err
	}
	p.setSession(s)
	p.emit(model.AuthEventSignedIn, s)
	return nil
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string, data map[string]interface{}) error {
	s, _, err := p.api.signup(email, password, data)
	if err != nil {
		return err
	}
	if s != nil {
		p.setSession(s)
		p.emit(model.AuthEventSignedIn, s)
	}
	return nil
}

// SignOut always drops the local session; the remote revoke error is still returned.
func (p *SupabaseProvider) SignOut(ctx context.Context) error {
	s, readErr := p.stored()
	if readErr != nil {
		p.log.Warn("read session failed", zap.Error(readErr))
	}
	var err error
	if s != nil && s.AccessToken != "" {
		err = p.api.logout(s.AccessToken)
	}
	p.setSession(nil)
	p.emit(model.AuthEventSignedOut, nil)
	return err
}

func (p *SupabaseProvider) ResetPasswordForEmail(ctx context.Context, email string) error {
	return p.api.recover(email)
}
