package session

import (
	"context"
	"sync"

	"github.com/ragengine/console/internal/modules/model"
	"go.uber.org/zap"
)

// IdentityProvider is the external identity service as the store sees it.
type IdentityProvider interface {
	GetSession(ctx context.Context) (*model.SessionUser, error)
	AccessToken(ctx context.Context) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string, data map[string]interface{}) error
	SignOut(ctx context.Context) error
	ResetPasswordForEmail(ctx context.Context, email string) error
	OnAuthStateChange(l func(event model.AuthEvent, user *model.SessionUser)) func()
}

// State is an immutable snapshot of the store.
type State struct {
	User        *model.SessionUser
	Loading     bool
	Initialized bool
}

func (s State) Authenticated() bool { return s.User != nil }

type Subscriber func(State)

// Store is the single source of truth for who is signed in. Only the store writes its state.
type Store struct {
	provider IdentityProvider
	log      *zap.Logger

	initMu sync.Mutex

	mu          sync.RWMutex
	state       State
	subscribers map[int]Subscriber
	nextID      int
	unlisten    func()
}

func NewStore(provider IdentityProvider, log *zap.Logger) *Store {
	return &Store{
		provider:    provider,
		log:         log,
		state:       State{Loading: true},
		subscribers: map[int]Subscriber{},
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every later state change; call the returned func to stop.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// set applies mutate and notifies subscribers synchronously, outside the lock.
func (s *Store) set(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	next := s.state
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Initialize loads the current session once and then follows the provider's session
// changes. A failed fetch still marks the store initialized, without a user.
func (s *Store) Initialize(ctx context.Context) {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.State().Initialized {
		return
	}

	user, err := s.provider.GetSession(ctx)
	if err != nil {
		s.log.Error("failed to initialize auth", zap.Error(err))
		s.set(func(st *State) {
			st.Loading = false
			st.Initialized = true
		})
		return
	}

	s.set(func(st *State) {
		st.User = user
		st.Loading = false
		st.Initialized = true
	})

	unlisten := s.provider.OnAuthStateChange(func(event model.AuthEvent, u *model.SessionUser) {
		s.log.Debug("auth state changed", zap.String("event", string(event)))
		s.set(func(st *State) { st.User = u })
	})
	s.mu.Lock()
	s.unlisten = unlisten
	s.mu.Unlock()
}

// Close detaches the provider listener.
func (s *Store) Close() {
	s.mu.Lock()
	unlisten := s.unlisten
	s.unlisten = nil
	s.mu.Unlock()
	if unlisten != nil {
		unlisten()
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	return s.provider.SignInWithPassword(ctx, email, password)
}

func (s *Store) SignUp(ctx context.Context, email, password, fullName string) error {
	return s.provider.SignUp(ctx, email, password, map[string]interface{}{"full_name": fullName})
}

func (s *Store) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}

func (s *Store) ResetPassword(ctx context.Context, email string) error {
	return s.provider.ResetPasswordForEmail(ctx, email)
}

// AccessToken asks the provider on every call; the store never caches tokens.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.provider.AccessToken(ctx)
}

// UserID is "" when signed out.
func (s *Store) UserID() string {
	if u := s.State().User; u != nil {
		return u.ID
	}
	return ""
}
