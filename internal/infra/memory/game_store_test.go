package memory

import (
	"regexp"
	"sync"
	"testing"
)

func TestCreateSessionPinsAreUniqueUnderConcurrency(t *testing.T) {
	store := NewGameStore()
	pinPattern := regexp.MustCompile(`^[0-9]{6}$`)

	const n = 200
	pins := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pins <- store.CreateSession("host").Pin()
		}()
	}
	wg.Wait()
	close(pins)

	seen := make(map[string]bool, n)
	for pin := range pins {
		if !pinPattern.MatchString(pin) {
			t.Fatalf("malformed pin %q", pin)
		}
		if seen[pin] {
			t.Fatalf("duplicate pin %q", pin)
		}
		seen[pin] = true
	}
	if store.Len() != n {
		t.Fatalf("expected %d live sessions, got %d", n, store.Len())
	}
}

func TestGetUnknownPin(t *testing.T) {
	store := NewGameStore()
	if _, ok := store.Get("123456"); ok {
		t.Fatalf("expected miss for unknown pin")
	}

	session := store.CreateSession("host")
	got, ok := store.Get(session.Pin())
	if !ok || got != session {
		t.Fatalf("expected the created session back")
	}
}
