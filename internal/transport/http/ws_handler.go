package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"openliq/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler wires websocket connections into the game coordinator. Each
// inbound message is one coordinator operation; results go back to the caller
// and state changes fan out to the session's group via the gateway.
type WSHandler struct {
	service  *app.GameService
	gateway  EventGateway
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		gateway: hub,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Pin      string `json:"pin"`
	Nickname string `json:"nickname"`
}

type selectQuizPayload struct {
	Pin    string `json:"pin"`
	QuizID string `json:"quizId"`
}

type pinPayload struct {
	Pin string `json:"pin"`
}

type answerPayload struct {
	Pin   string `json:"pin"`
	Index int    `json:"index"`
}

type lobbyCreatedPayload struct {
	Pin string `json:"pin"`
}

type joinResultPayload struct {
	OK      bool   `json:"ok"`
	Pin     string `json:"pin,omitempty"`
	Message string `json:"message,omitempty"`
}

type resultPayload struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type playerAnsweredPayload struct {
	ConnectionID string `json:"connectionId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs the message loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := h.hub.attach(conn)
	defer h.hub.detach(c)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.dispatch(r.Context(), c.id, inbound)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, connID string, inbound inboundMessage) {
	switch inbound.Type {
	case "CreateLobby":
		session := h.service.CreateGame(connID)
		h.gateway.AddToGroup(connID, session.Pin())
		h.gateway.SendToConnection(connID, "LobbyCreated", lobbyCreatedPayload{Pin: session.Pin()})

	case "JoinLobby":
		var payload joinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "JoinResult", joinResultPayload{Message: "invalid join payload"})
			return
		}
		player, roster, err := h.service.Join(payload.Pin, payload.Nickname, connID)
		if err != nil {
			h.gateway.SendToConnection(connID, "JoinResult", joinResultPayload{Message: err.Error()})
			return
		}
		h.gateway.AddToGroup(connID, payload.Pin)
		h.gateway.SendToConnection(connID, "JoinResult", joinResultPayload{OK: true, Pin: payload.Pin})
		h.gateway.SendToGroup(payload.Pin, "PlayerJoined", player)
		h.gateway.SendToGroup(payload.Pin, "PlayerListUpdated", roster)

	case "SelectQuiz":
		var payload selectQuizPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "SelectResult", resultPayload{Message: "invalid select payload"})
			return
		}
		if err := h.service.SelectQuiz(ctx, payload.Pin, connID, payload.QuizID); err != nil {
			h.gateway.SendToConnection(connID, "SelectResult", resultPayload{Message: err.Error()})
			return
		}
		h.gateway.SendToConnection(connID, "SelectResult", resultPayload{OK: true})

	case "StartGame":
		var payload pinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "StartResult", resultPayload{Message: "invalid start payload"})
			return
		}
		if err := h.service.StartGame(payload.Pin, connID); err != nil {
			h.gateway.SendToConnection(connID, "StartResult", resultPayload{Message: err.Error()})
			return
		}
		h.gateway.SendToConnection(connID, "StartResult", resultPayload{OK: true})
		if view, err := h.service.CurrentQuestion(payload.Pin); err == nil {
			h.gateway.SendToGroup(payload.Pin, "QuestionStarted", view)
		}

	case "NextQuestion":
		var payload pinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "NextResult", resultPayload{Message: "invalid next payload"})
			return
		}
		res, err := h.service.AdvanceQuestion(payload.Pin, connID)
		if err != nil {
			h.gateway.SendToConnection(connID, "NextResult", resultPayload{Message: err.Error()})
			return
		}
		h.gateway.SendToConnection(connID, "NextResult", resultPayload{OK: true})
		if res.HasNext {
			h.gateway.SendToGroup(payload.Pin, "QuestionStarted", res.Question)
		} else {
			h.gateway.SendToGroup(payload.Pin, "GameEnded", res.FinalScores)
		}

	case "SubmitAnswer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "Error", errorPayload{Message: "invalid answer payload"})
			return
		}
		if err := h.service.SubmitAnswer(payload.Pin, connID, payload.Index); err != nil {
			h.gateway.SendToConnection(connID, "Error", errorPayload{Message: err.Error()})
			return
		}
		h.gateway.SendToGroup(payload.Pin, "PlayerAnswered", playerAnsweredPayload{ConnectionID: connID})

	case "EndGame":
		var payload pinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.gateway.SendToConnection(connID, "EndResult", resultPayload{Message: "invalid end payload"})
			return
		}
		scores, err := h.service.EndGame(payload.Pin, connID)
		if err != nil {
			h.gateway.SendToConnection(connID, "EndResult", resultPayload{Message: err.Error()})
			return
		}
		h.gateway.SendToConnection(connID, "EndResult", resultPayload{OK: true})
		h.gateway.SendToGroup(payload.Pin, "GameEnded", scores)

	default:
		h.gateway.SendToConnection(connID, "Error", errorPayload{Message: "unsupported message type"})
	}
}
