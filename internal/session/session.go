// Package session holds who is signed in: the bearer token and, once
// resolved, the user's profile.
//
// The store keeps one invariant: a profile is never present without a
// token. Every transition re-establishes it before listeners run.
package session

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/errors"
	"github.com/felixgeelhaar/pulsehr/internal/log"
)

// ErrProfileUnavailable is returned by ResolveProfile when the API could
// not be reached after retrying. The persisted token is kept. Match it
// with errors.Is.
var ErrProfileUnavailable = errors.New(errors.ErrCodeProfileUnavailable, "profile unavailable")

// Session is a snapshot of the signed-in state.
type Session struct {
	Token string
	User  *api.UserProfile
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool { return s.Token != "" }

// Resolved reports whether the profile has been loaded.
func (s Session) Resolved() bool { return s.User != nil }

// IsAdmin reports whether the resolved user is an admin.
func (s Session) IsAdmin() bool { return s.User != nil && s.User.Role.IsAdmin() }

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// ProfileFetcher resolves a token to the profile it belongs to.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (*api.UserProfile, error)
}

// ClientFetcher adapts an *api.Client to ProfileFetcher.
type ClientFetcher struct {
	Client *api.Client
}

func (f ClientFetcher) Profile(ctx context.Context, token string) (*api.UserProfile, error) {
	return f.Client.WithToken(token).Profile(ctx)
}

// Recorder is told about every transition. internal/metrics implements it.
type Recorder interface {
	SessionTransition(kind string)
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// Store owns the Session.
type Store struct {
	mu        sync.Mutex
	current   Session
	tokens    TokenStore
	profiles  ProfileFetcher
	logger    *log.Logger
	recorder  Recorder
	listeners map[int]func(Session)
	nextID    int
}

// NewStore returns an empty store. Call Restore to pick up a saved token.
func NewStore(tokens TokenStore, profiles ProfileFetcher, opts ...Option) *Store {
	s := &Store{
		tokens:    tokens,
		profiles:  profiles,
		logger:    log.DefaultLogger(),
		listeners: make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// OnChange registers fn to run after every transition. The returned func
// removes it.
func (s *Store) OnChange(fn func(Session)) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// set replaces the session and notifies listeners outside the lock.
func (s *Store) set(next Session, kind string) {
	if next.Token == "" {
		next.User = nil
	}

	s.mu.Lock()
	s.current = next
	snapshot := next.clone()
	fns := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.SessionTransition(kind)
	}
	s.logger.Debug("session changed", "transition", kind, "authenticated", snapshot.Authenticated(), "resolved", snapshot.Resolved())
	for _, fn := range fns {
		fn(snapshot.clone())
	}
}

// Restore loads the persisted token. The profile stays unresolved. A token
// that cannot be read is treated as absent.
func (s *Store) Restore(ctx context.Context) Session {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.WithError(err).Warn("could not read saved token")
		token = ""
	}
	s.set(Session{Token: token}, "restore")
	return s.Current()
}

// Login adopts token and user. The in-memory session is always updated;
// a failure to persist the token is logged and returned.
func (s *Store) Login(token string, user api.UserProfile) error {
	if token == "" {
		return errors.New(errors.ErrCodeLoginFailed, "login response did not include a token")
	}
	s.set(Session{Token: token, User: &user}, "login")

	if err := s.tokens.Save(token); err != nil {
		s.logger.WithError(err).Warn("could not persist token")
		return err
	}
	return nil
}

// Logout clears the session and removes the persisted token.
func (s *Store) Logout() error {
	s.set(Session{}, "logout")
	if err := s.tokens.Clear(); err != nil {
		s.logger.WithError(err).Warn("could not remove saved token")
		return err
	}
	return nil
}

// ResolveProfile fetches the profile for the current token.
//
// An unauthorized reply, or any other non-transient failure, logs out.
// A transient failure (after the API client's own retries) collapses the
// in-memory session but keeps the persisted token, and returns an error
// matching ErrProfileUnavailable. Cancellation leaves the session as is.
func (s *Store) ResolveProfile(ctx context.Context) (*api.UserProfile, error) {
	token := s.Current().Token
	if token == "" {
		return nil, errors.NewNotLoggedInError()
	}

	user, err := s.profiles.Profile(ctx, token)
	if err == nil && user != nil {
		if s.Current().Token != token {
			// Logged out or replaced while the request was in flight.
			return nil, context.Canceled
		}
		s.set(Session{Token: token, User: user}, "resolve")
		return s.Current().User, nil
	}
	if err == nil {
		err = errors.New(errors.ErrCodeAPIDecode, "empty profile response")
	}

	switch {
	case stderrors.Is(err, context.Canceled) || ctx.Err() != nil:
		return nil, err
	case api.IsTransient(err):
		s.logger.WithError(err).Warn("profile unavailable, keeping saved token")
		s.set(Session{}, "unavailable")
		return nil, errors.Wrap(errors.ErrCodeProfileUnavailable, "could not load your profile", err).
			WithSuggestion("Check that the HR API is reachable and try again")
	default:
		s.logger.WithError(err).Info("profile rejected, logging out")
		_ = s.Logout()
		return nil, errors.NewUnauthorizedError(err)
	}
}
