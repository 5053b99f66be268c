package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"openliq/internal/app"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of app.SessionStore.
// Notes:
//   - Sessions themselves stay in a local map: the coordinator is a
//     single-authority process and session mutation depends on in-process
//     locking, not shared state.
//   - Redis holds a liveness marker per PIN with a TTL, which doubles as a
//     cross-process uniqueness hint (SETNX) and gives idle sessions a visible
//     expiry for operators, without evicting the in-process state.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*app.Session
	rnd      *rand.Rand
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *GameStore) CreateSession(hostID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		pin := fmt.Sprintf("%06d", 100000+s.rnd.Intn(900000))
		if _, taken := s.sessions[pin]; taken {
			continue
		}
		// best-effort cross-process claim; the local map stays authoritative
		claimed, err := s.client.SetNX(context.Background(), s.key(pin), hostID, s.ttl).Result()
		if err == nil && !claimed {
			continue
		}
		session := app.NewSession(pin, hostID)
		s.sessions[pin] = session
		return session
	}
}

func (s *GameStore) Get(pin string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[pin]
	return session, ok
}

// Touch refreshes the liveness marker for an active session.
func (s *GameStore) Touch(ctx context.Context, pin string) {
	_ = s.client.Expire(ctx, s.key(pin), s.ttl).Err()
}

func (s *GameStore) key(pin string) string {
	return "game:session:" + pin
}
