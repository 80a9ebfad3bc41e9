package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ashaai/asha-server/internal/chat"
	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/session"
)

// Defaults applied when a client omits session identifiers.
const (
	defaultUserID    = "anonymous"
	defaultChatTitle = "New Chat"
)

type queryRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id"`
	ChatTitle string `json:"chat_title"`
}

type queryResponse struct {
	Response string   `json:"response"`
	Source   string   `json:"source"`
	URLs     []string `json:"urls"`
}

type titleRequest struct {
	Content string `json:"content"`
}

type resetRequest struct {
	UserID    string `json:"user_id"`
	ChatTitle string `json:"chat_title"`
}

func (s *Server) handleSmartQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}
	if req.ChatTitle == "" {
		req.ChatTitle = defaultChatTitle
	}

	reply, err := s.engine.Answer(r.Context(), req.UserID, req.ChatTitle, req.Query)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	urls := reply.URLs
	if urls == nil {
		urls = []string{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Response: reply.Text, Source: reply.Source, URLs: urls})
}

func (s *Server) handleGenerateTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title, err := s.engine.Title(r.Context(), req.Content)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"title": title})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	chats, err := s.sessions.Chats(r.Context(), userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("loading chats")
		writeError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	if chats == nil {
		chats = []session.Chat{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "chats": chats})
}

// handleResetHistory clears one chat when chat_title is given, all of a
// user's chats when only user_id is given, and everything otherwise. The
// body is optional: a bodyless POST is a global reset.
func (s *Server) handleResetHistory(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	var err error
	switch {
	case req.UserID != "" && req.ChatTitle != "":
		err = s.sessions.Clear(ctx, session.Key{UserID: req.UserID, ChatTitle: req.ChatTitle})
	case req.UserID != "":
		var chats []session.Chat
		chats, err = s.sessions.Chats(ctx, req.UserID)
		for _, c := range chats {
			if err != nil {
				break
			}
			err = s.sessions.Clear(ctx, session.Key{UserID: req.UserID, ChatTitle: c.Title})
		}
	default:
		err = s.sessions.ClearAll(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("resetting history")
		writeError(w, http.StatusInternalServerError, "failed to reset history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"date":   time.Now().Format("2006-01-02"),
	}
	if s.store != nil {
		resp["jobs"] = s.store.Count(listings.CategoryJobs)
		resp["events"] = s.store.Count(listings.CategoryEvents)
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeEngineError maps engine failures onto status codes: bad input is the
// client's fault, everything else is an upstream failure.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, chat.ErrEmptyQuery) || errors.Is(err, chat.ErrEmptyContent) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("engine failure")
	writeError(w, http.StatusBadGateway, "upstream failure, please retry")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
