package app

import (
	"sync"

	"openliq/internal/domain"
)

// Session is the in-memory state machine for one game instance. Each session
// owns its own mutex; every mutation runs fully under it, and broadcasting is
// left to callers so the lock is never held across a network send.
type Session struct {
	pin    string
	hostID string

	mu        sync.Mutex
	phase     domain.Phase
	players   []domain.Player
	quizID    string
	questions []domain.Question
	current   int
	scores    map[string]int
	answers   map[string]int
}

// NewSession is exported for store implementations that mint sessions.
func NewSession(pin, hostID string) *Session {
	return &Session{
		pin:     pin,
		hostID:  hostID,
		phase:   domain.PhaseLobby,
		current: -1,
		scores:  make(map[string]int),
		answers: make(map[string]int),
	}
}

// Pin returns the immutable session code.
func (s *Session) Pin() string { return s.pin }

// HostID returns the connection id of the creating party.
func (s *Session) HostID() string { return s.hostID }

// Phase returns the current coarse state.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) join(connID, nickname string) (domain.Player, []domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.ConnectionID == connID {
			// repeat join is idempotent
			return p, s.rosterLocked()
		}
	}
	player := domain.Player{ConnectionID: connID, Nickname: nickname}
	s.players = append(s.players, player)
	return player, s.rosterLocked()
}

func (s *Session) selectQuiz(requesterID string, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID != s.hostID {
		return domain.ErrNotHost
	}

	s.quizID = quiz.ID
	s.questions = cloneQuestions(quiz.Questions)
	s.scores = make(map[string]int, len(s.players))
	s.answers = make(map[string]int, len(s.players))
	for _, p := range s.players {
		s.scores[p.ConnectionID] = 0
		s.answers[p.ConnectionID] = domain.UnansweredIndex
	}
	s.current = -1
	s.phase = domain.PhaseLobby
	return nil
}

func (s *Session) start(requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID != s.hostID {
		return domain.ErrNotHost
	}
	s.phase = domain.PhaseInGame
	s.current = 0
	return nil
}

func (s *Session) advance(requesterID string, timeSeconds int) (AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID != s.hostID {
		return AdvanceResult{}, domain.ErrNotHost
	}

	s.current++
	s.answers = make(map[string]int, len(s.players))
	for _, p := range s.players {
		s.answers[p.ConnectionID] = domain.UnansweredIndex
	}

	if s.current >= len(s.questions) {
		s.phase = domain.PhaseLobby
		return AdvanceResult{FinalScores: s.scoresLocked()}, nil
	}
	s.phase = domain.PhaseInGame
	return AdvanceResult{HasNext: true, Question: s.questionViewLocked(timeSeconds)}, nil
}

func (s *Session) submitAnswer(connID string, selectedIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 || s.current >= len(s.questions) {
		return domain.ErrNoActiveQuestion
	}
	// last write wins; rejecting repeat submissions is a UI policy, not ours
	s.answers[connID] = selectedIndex
	if selectedIndex == s.questions[s.current].CorrectIndex {
		s.scores[connID]++
	}
	return nil
}

func (s *Session) currentQuestion(timeSeconds int) (domain.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current < 0 || s.current >= len(s.questions) {
		return domain.QuestionView{}, domain.ErrNoActiveQuestion
	}
	return s.questionViewLocked(timeSeconds), nil
}

func (s *Session) end(requesterID string) ([]domain.PlayerScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requesterID != s.hostID {
		return nil, domain.ErrNotHost
	}
	s.phase = domain.PhaseLobby
	// questions and scores survive until the next quiz selection
	return s.scoresLocked(), nil
}

func (s *Session) scoreboard() []domain.PlayerScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoresLocked()
}

func (s *Session) rosterLocked() []domain.Player {
	roster := make([]domain.Player, len(s.players))
	copy(roster, s.players)
	return roster
}

func (s *Session) scoresLocked() []domain.PlayerScore {
	scores := make([]domain.PlayerScore, 0, len(s.players))
	for _, p := range s.players {
		scores = append(scores, domain.PlayerScore{
			Nickname: p.Nickname,
			Score:    s.scores[p.ConnectionID],
		})
	}
	return scores
}

func (s *Session) questionViewLocked(timeSeconds int) domain.QuestionView {
	q := s.questions[s.current]
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return domain.QuestionView{
		Text:        q.Text,
		Options:     options,
		Index:       s.current,
		TimeSeconds: timeSeconds,
	}
}

// cloneQuestions deep-copies catalog content so later catalog mutation cannot
// leak into an in-play question list.
func cloneQuestions(questions []domain.Question) []domain.Question {
	cloned := make([]domain.Question, len(questions))
	for i, q := range questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		cloned[i] = domain.Question{Text: q.Text, Options: options, CorrectIndex: q.CorrectIndex}
	}
	return cloned
}
