package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "search" or "ask"
	Content string `json:"content"`
	K       int    `json:"k,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type    string         `json:"type"` // "response" or "error"
	Content string         `json:"content,omitempty"`
	Sources []searchResult `json:"sources,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "invalid message format")
			continue
		}

		if req.Content == "" {
			s.sendChatError(conn, "content is required")
			continue
		}

		switch req.Type {
		case "search":
			s.handleChatSearch(conn, r, req)
		case "ask":
			s.handleChatAsk(conn, r, req)
		default:
			s.sendChatError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatSearch(conn *websocket.Conn, r *http.Request, req chatRequest) {
	results, _, err := s.runSearch(r, searchRequest{Query: req.Content, K: req.K}, history.KindSearch)
	if err != nil {
		s.sendChatError(conn, err.Error())
		return
	}

	s.sendChatResponse(conn, chatResponse{
		Type:    "response",
		Sources: toSearchResults(results),
	})
}

func (s *Server) handleChatAsk(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if s.deps.LLMProvider == nil {
		s.sendChatError(conn, "LLM provider not configured")
		return
	}

	results, _, err := s.runSearch(r, searchRequest{Query: req.Content, K: req.K}, history.KindAsk)
	if err != nil {
		s.sendChatError(conn, err.Error())
		return
	}

	messages := s.deps.Prompts.Ask(req.Content, results)
	resp, err := s.deps.LLMProvider.Complete(r.Context(), llm.CompletionRequest{
		Model:    s.deps.LLMModel,
		Messages: messages,
	})
	if err != nil {
		s.sendChatError(conn, "generation failed: "+err.Error())
		return
	}

	s.sendChatResponse(conn, chatResponse{
		Type:    "response",
		Content: resp.Content,
		Sources: toSearchResults(results),
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(chatResponse{Type: "error", Content: message}); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
