package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ashaai/asha-server/internal/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"` // "query"
	UserID    string `json:"user_id"`
	ChatTitle string `json:"chat_title"`
	Query     string `json:"query"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type     string   `json:"type"` // "response" or "error"
	Response string   `json:"response,omitempty"`
	Source   string   `json:"source,omitempty"`
	URLs     []string `json:"urls,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}
		if req.Type != "" && req.Type != "query" {
			s.sendWSError(conn, "unknown message type: "+req.Type)
			continue
		}
		if req.UserID == "" {
			req.UserID = defaultUserID
		}
		if req.ChatTitle == "" {
			req.ChatTitle = defaultChatTitle
		}

		reply, err := s.engine.Answer(r.Context(), req.UserID, req.ChatTitle, req.Query)
		if err != nil {
			if errors.Is(err, chat.ErrEmptyQuery) {
				s.sendWSError(conn, "query is required")
			} else {
				s.log.Error().Err(err).Msg("websocket query")
				s.sendWSError(conn, "upstream failure, please retry")
			}
			continue
		}

		s.sendWS(conn, wsResponse{
			Type:     "response",
			Response: reply.Text,
			Source:   reply.Source,
			URLs:     reply.URLs,
		})
	}
}

func (s *Server) sendWS(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.log.Warn().Err(err).Msg("websocket write")
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, msg string) {
	s.sendWS(conn, wsResponse{Type: "error", Error: msg})
}
