package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"outfit-studio-server/internal/domain"
)

// PreviewReleaser is the slice of the storage layer the store needs to free
// preview handles when a session is evicted.
type PreviewReleaser interface {
	Remove(ctx context.Context, key string) error
}

// Store keeps live sessions in memory with a sliding TTL. Sessions that fall
// off the TTL are evicted together with their preview handles, so an
// abandoned browser tab does not accumulate files forever.
type Store struct {
	cache    *cache.Cache
	previews PreviewReleaser
	logger   zerolog.Logger
	ttl      time.Duration
	now      func() time.Time
}

// NewStore constructs a Store whose sessions expire ttl after last access.
func NewStore(ttl time.Duration, previews PreviewReleaser, logger zerolog.Logger) *Store {
	c := cache.New(ttl, ttl/4)
	s := &Store{cache: c, previews: previews, logger: logger, ttl: ttl, now: time.Now}
	c.OnEvicted(func(id string, value interface{}) {
		sess, ok := value.(*Session)
		if !ok {
			return
		}
		s.releaseAll(sess)
		s.logger.Debug().Str("session_id", id).Msg("session: evicted")
	})
	return s
}

// Create registers a fresh session and returns it.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString(), s.now())
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess
}

// Get returns the session with the given ID and slides its expiry forward.
func (s *Store) Get(id string) (*Session, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := value.(*Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete removes the session immediately, releasing its preview handles via
// the eviction hook.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

func (s *Store) releaseAll(sess *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, item := range sess.Drain() {
		if item.PreviewKey == "" {
			continue
		}
		if err := s.previews.Remove(ctx, item.PreviewKey); err != nil {
			s.logger.Warn().Err(err).Str("key", item.PreviewKey).Msg("session: failed to release preview")
		}
	}
}
