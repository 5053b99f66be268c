package memory

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"openliq/internal/app"
)

// GameStore is an in-memory implementation of app.SessionStore. It owns PIN
// generation: a candidate 6-digit code is drawn uniformly and re-drawn until
// insertion succeeds, all under the store lock, so two concurrent creates can
// never claim the same code.
type GameStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
	rnd      *rand.Rand
}

func NewGameStore() *GameStore {
	return &GameStore{
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

// Len reports the number of live sessions.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
