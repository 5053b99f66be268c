package app

import (
	"context"

	"openliq/internal/domain"
)

// SessionStore abstracts how game sessions are stored and how PINs are minted
// (in-memory, Redis-marked, etc).
type SessionStore interface {
	CreateSession(hostID string) *Session
	Get(pin string) (*Session, bool)
}

// QuizCatalog loads quiz content (from cache/backing store).
type QuizCatalog interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// DefaultQuestionSeconds is the advisory per-question time budget. It is
// metadata for clients; the coordinator never auto-advances on its own.
const DefaultQuestionSeconds = 20

// AdvanceResult is the outcome of moving the question pointer: either the next
// question view, or the final scoreboard once the sequence is exhausted.
type AdvanceResult struct {
	HasNext     bool
	Question    domain.QuestionView
	FinalScores []domain.PlayerScore
}

// GameService contains the session-coordination use cases. All mutation is
// linearized by the target session's lock; calls for distinct PINs proceed in
// parallel.
type GameService struct {
	sessions        SessionStore
	catalog         QuizCatalog
	questionSeconds int
}

func NewGameService(store SessionStore, catalog QuizCatalog, questionSeconds int) *GameService {
	if questionSeconds <= 0 {
		questionSeconds = DefaultQuestionSeconds
	}
	return &GameService{sessions: store, catalog: catalog, questionSeconds: questionSeconds}
}

// CreateGame mints a new session with a unique PIN owned by hostID.
func (g *GameService) CreateGame(hostID string) *Session {
	return g.sessions.CreateSession(hostID)
}

// Join registers connID in the session's roster. Repeat joins with the same
// connection id return the existing membership. Late joins while in game are
// allowed; such players simply start with no retroactive score.
func (g *GameService) Join(pin, nickname, connID string) (domain.Player, []domain.Player, error) {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return domain.Player{}, nil, domain.ErrGameNotFound
	}
	player, roster := session.join(connID, nickname)
	return player, roster, nil
}

// SelectQuiz resolves quizID from the catalog and deep-copies its questions
// into the session, resetting scores and answers for the current roster.
// Selection is a full reset point; re-selecting discards prior progress.
func (g *GameService) SelectQuiz(ctx context.Context, pin, requesterID, quizID string) error {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return domain.ErrGameNotFound
	}
	// catalog I/O happens before the session lock is taken
	quiz, err := g.catalog.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	return session.selectQuiz(requesterID, quiz)
}

// StartGame flips the session in game with the first question active. It does
// not require a prior SelectQuiz; starting with an empty question list leaves
// every answer rejected until the host selects a quiz and restarts.
func (g *GameService) StartGame(pin, requesterID string) error {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return domain.ErrGameNotFound
	}
	return session.start(requesterID)
}

// AdvanceQuestion moves the question pointer forward and resets the answer
// slate for the roster as of this advance. Past the last question it returns
// the final scoreboard and parks the session back in the lobby.
func (g *GameService) AdvanceQuestion(pin, requesterID string) (AdvanceResult, error) {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return AdvanceResult{}, domain.ErrGameNotFound
	}
	return session.advance(requesterID, g.questionSeconds)
}

// SubmitAnswer records connID's pick for the active question, overwriting any
// earlier pick, and awards a point when it matches the correct index. Answer
// windows are a transport concern; any submission while a question is active
// is accepted.
func (g *GameService) SubmitAnswer(pin, connID string, selectedIndex int) error {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return domain.ErrGameNotFound
	}
	return session.submitAnswer(connID, selectedIndex)
}

// CurrentQuestion returns the view of the active question, if any.
func (g *GameService) CurrentQuestion(pin string) (domain.QuestionView, error) {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return domain.QuestionView{}, domain.ErrGameNotFound
	}
	return session.currentQuestion(g.questionSeconds)
}

// GetScores returns the scoreboard in roster order, defaulting to zero for
// members without a score entry yet.
func (g *GameService) GetScores(pin string) ([]domain.PlayerScore, error) {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session.scoreboard(), nil
}

// EndGame returns the session to the lobby and reports the final scoreboard.
// Scores and questions are retained until the next SelectQuiz.
func (g *GameService) EndGame(pin, requesterID string) ([]domain.PlayerScore, error) {
	session, ok := g.sessions.Get(pin)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session.end(requesterID)
}
