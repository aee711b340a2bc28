package credential

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/constants"
	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ErrNoAccessToken is returned by the store's TokenSource when logged out.
var ErrNoAccessToken = errors.New("credential: no access token")

// Store owns the session credential. All mutation goes through Set and Clear.
type Store struct {
	// writeMu serializes mutation, persistence and notification so observers
	// see transitions in the order they happened.
	writeMu sync.Mutex

	mu   sync.RWMutex
	cred Credential

	source    Source
	publisher events.Publisher
	now       func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithSource persists the credential through src.
func WithSource(src Source) StoreOption {
	return func(s *Store) {
		if src != nil {
			s.source = src
		}
	}
}

// WithPublisher publishes auth-state transitions to p.
func WithPublisher(p events.Publisher) StoreOption {
	return func(s *Store) { s.publisher = p }
}

// WithNowFunc overrides the clock.
func WithNowFunc(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore builds an empty store. Call Restore to load a persisted session.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{source: NewMemorySource(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores a freshly issued credential. An empty refreshToken keeps the
// current one; a non-positive expiresIn keeps the current expiry unless the
// access token carries its own exp claim.
func (s *Store) Set(accessToken, refreshToken string, expiresIn time.Duration) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.cred
	next := prev
	next.AccessToken = accessToken
	if refreshToken != "" {
		next.RefreshToken = refreshToken
	}
	if expiresIn > 0 {
		next.ExpiresAt = s.now().Add(expiresIn)
	} else if exp, ok := jwtExpiry(accessToken); ok {
		next.ExpiresAt = exp
	}
	s.cred = next
	s.mu.Unlock()

	s.persist(next)
	s.notify(prev, next)
}

// Clear erases the credential. Clearing an empty store is a no-op apart from
// clearing the source again.
func (s *Store) Clear() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.cred
	s.cred = Credential{}
	s.mu.Unlock()

	s.persist(Credential{})
	s.notify(prev, Credential{})
}

// AccessToken returns the stored access token or "".
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.AccessToken
}

// RefreshToken returns the stored refresh token or "".
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.RefreshToken
}

// ExpiresAt returns the stored expiry; zero when unknown.
func (s *Store) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.ExpiresAt
}

// IsExpired reports whether a known expiry has passed. Unknown expiry is not expired.
func (s *Store) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred.ExpiresAt.IsZero() {
		return false
	}
	return !s.now().Before(s.cred.ExpiresAt)
}

// IsAuthenticated reports whether an access token is present. Expiry is not checked.
func (s *Store) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// Snapshot returns all fields read atomically.
func (s *Store) Snapshot() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// SourceName names the persistence backend.
func (s *Store) SourceName() string {
	return s.source.Name()
}

// Restore loads a persisted credential. A missing credential leaves the store empty.
func (s *Store) Restore(ctx context.Context) error {
	cred, err := s.source.Load(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		return nil
	}
	s.apply(*cred)
	log.WithFields(log.Fields{
		"source":        s.source.Name(),
		"authenticated": cred.AccessToken != "",
	}).Info("credential store restored")
	return nil
}

// apply replaces the credential without writing it back to the source.
func (s *Store) apply(next Credential) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.cred
	s.cred = next
	s.mu.Unlock()

	s.notify(prev, next)
}

func (s *Store) persist(cred Credential) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.PersistTimeout)
	defer cancel()

	var err error
	if cred.IsZero() {
		err = s.source.Clear(ctx)
	} else {
		err = s.source.Save(ctx, cred)
	}
	if err != nil {
		log.WithError(err).WithField("source", s.source.Name()).Warn("credential store: persist failed")
	}
}

// TokenSource exposes the current access token as an oauth2.TokenSource.
func (s *Store) TokenSource() oauth2.TokenSource {
	return storeTokenSource{s}
}

type storeTokenSource struct{ s *Store }

func (ts storeTokenSource) Token() (*oauth2.Token, error) {
	cred := ts.s.Snapshot()
	if cred.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return cred.Token(), nil
}
