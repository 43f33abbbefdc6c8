package chat

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/modify"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rules"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type       string `json:"type"` // "message"
	ContractID string `json:"contract_id"`
	Content    string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type          string              `json:"type"` // "response" or "error"
	ContractID    string              `json:"contract_id"`
	Content       string              `json:"content"`
	Modifications int                 `json:"modifications,omitempty"`
	Rules         []rules.Rule        `json:"rules,omitempty"`
	ApplyErrors   []modify.ApplyError `json:"apply_errors,omitempty"`
}

// handleWebSocket carries an interactive chat session over one connection.
// Each message runs a full contract turn, same as the HTTP endpoint.
func handleWebSocket(svc *Service, store *rulestore.Store, auditStore *audit.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("chat: websocket read: %v", err)
				}
				return
			}

			if req.Type != "message" {
				sendError(conn, req.ContractID, "unknown message type: "+req.Type)
				continue
			}
			if req.Content == "" || req.ContractID == "" {
				sendError(conn, req.ContractID, "contract_id and content are required")
				continue
			}

			turn, _, err := runContractTurn(r, svc, store, auditStore, req.ContractID, req.Content)
			if err != nil {
				sendError(conn, req.ContractID, err.Error())
				continue
			}

			resp := wsResponse{
				Type:          "response",
				ContractID:    req.ContractID,
				Content:       turn.Result.Response,
				Modifications: len(turn.Result.Modifications),
				Rules:         turn.Rules,
				ApplyErrors:   turn.ApplyErrors,
			}
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("chat: websocket write: %v", err)
			}
		}
	}
}

func sendError(conn *websocket.Conn, contractID, message string) {
	resp := wsResponse{Type: "error", ContractID: contractID, Content: message}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("chat: websocket write error: %v", err)
	}
}
