package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// WebSocketService streams ingestion progress over a websocket. The
// client sends one ingest request per connection and receives progress
// frames until a result or error frame closes the exchange.
type WebSocketService struct {
	ingest   *IngestService
	upgrader websocket.Upgrader
}

func NewWebSocketService(ingest *IngestService) *WebSocketService {
	return &WebSocketService{
		ingest: ingest,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleIngest(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(512 * 1024)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_, p, err := conn.ReadMessage()
	if err != nil {
		return
	}
	var req types.IngestRequest
	if err := json.Unmarshal(p, &req); err != nil {
		s.writeError(conn, "invalid ingest request")
		return
	}
	if req.Bucket == "" || req.Path == "" {
		s.writeError(conn, "bucket and path are required")
		return
	}

	// Read pump: cancel the ingestion when the client goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket read error: %v", err)
				}
				return
			}
		}
	}()

	progress := func(update types.IngestProgress) {
		frame := types.WebSocketResponse{
			Type:    types.TypeWebsocketProcessing,
			Payload: update,
		}
		if err := conn.WriteJSON(frame); err != nil {
			log.Println("Write error:", err)
		}
	}

	result, err := s.ingest.IngestDocument(ctx, req.Bucket, req.Path, req.Namespace, progress)
	if err != nil {
		log.Printf("Ingest error for %s/%s: %v", req.Bucket, req.Path, err)
		s.writeError(conn, err.Error())
		return
	}
	frame := types.WebSocketResponse{
		Type:    types.TypeWebsocketResult,
		Payload: result,
	}
	if err := conn.WriteJSON(frame); err != nil {
		log.Println("Write error:", err)
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	frame := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.DataResponse{Status: "error", Message: message},
	}
	if err := conn.WriteJSON(frame); err != nil {
		log.Println("Write error:", err)
	}
}

func (s *WebSocketService) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
