package domain

// Phase is the coarse state of a game session.
type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhaseInGame Phase = "in_game"
)

// UnansweredIndex marks a member who has not answered the current question.
const UnansweredIndex = -1

// Player pairs a transport connection with a display name. Roster order is join order.
type Player struct {
	ConnectionID string `json:"connectionId"`
	Nickname     string `json:"nickname"`
}

// Question models a single multiple-choice question.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Quiz is an ordered question set keyed by identifier.
type Quiz struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// QuestionView is the answer-key-free projection broadcast when a question starts.
type QuestionView struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Index       int      `json:"index"`
	TimeSeconds int      `json:"timeSeconds"`
}

// PlayerScore is one scoreboard row, ordered by join order.
type PlayerScore struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}
