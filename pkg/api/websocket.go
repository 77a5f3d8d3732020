package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"gamdlweb/pkg/downloader"
	"gamdlweb/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the UI is served from the same binary
	},
}

// WSMessage is the envelope for all websocket traffic.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one connected websocket peer.
type Client struct {
	conn *websocket.Conn
	send chan WSMessage

	// closed is guarded by the server's clientsMu. Once set, nothing may
	// send on the channel again.
	closed bool
}

// AddClient registers a new websocket client
func (s *Server) AddClient(client *Client) {
	s.clientsMu.Lock()
	s.clients[client] = true
	s.clientsMu.Unlock()
}

// RemoveClient unregisters a websocket client. Safe to call more than once;
// the send channel is closed under the registry lock so concurrent senders
// cannot hit a closed channel.
func (s *Server) RemoveClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if client.closed {
		return
	}
	client.closed = true
	delete(s.clients, client)
	close(client.send)
}

// trySend queues a message for one client, dropping it when the buffer is
// full or the client is already gone.
func (s *Server) trySend(client *Client, msg WSMessage) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if client.closed {
		return
	}
	select {
	case client.send <- msg:
	default:
	}
}

func (s *Server) broadcastLogs() {
	for msgStr := range s.logCh {
		msg := WSMessage{Type: "log_entry", Payload: json.RawMessage(fmt.Sprintf("%q", msgStr))}
		s.broadcast(msg)
	}
}

// BroadcastProgress pushes a task snapshot to every connected client.
func (s *Server) BroadcastProgress(view downloader.View) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	s.broadcast(WSMessage{Type: "progress", Payload: payload})
}

func (s *Server) broadcast(msg WSMessage) {
	s.clientsMu.Lock()
	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
			// Drop message if client buffer is full
		}
	}
	s.clientsMu.Unlock()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WS upgrade error", "err", err)
		return
	}
	defer conn.Close()

	client := &Client{conn: conn, send: make(chan WSMessage, 256)}
	s.AddClient(client)
	defer func() {
		s.RemoveClient(client)
		conn.Close()
	}()

	logger.Debug("WS client connected", "remote", r.RemoteAddr)

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	// Push the current downloads and log history up front.
	go func() {
		s.sendDownloads(client)
		s.sendLogHistory(client)
	}()

	// Read loop (client -> server)
	go func() {
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Debug("WS read error", "err", err)
				}
				conn.Close()
				return
			}

			switch msg.Type {
			case "get_downloads":
				s.sendDownloads(client)
			case "get_cookies_status":
				s.sendCookiesStatus(client)
			}
		}
	}()

	// Write loop (server -> client)
	for {
		select {
		case <-ticker.C:
			s.sendDownloads(client)
		case msg, ok := <-client.send:
			if !ok {
				// Channel closed by RemoveClient
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

func (s *Server) sendDownloads(client *Client) {
	payload, _ := json.Marshal(s.manager.Views())
	s.trySend(client, WSMessage{Type: "downloads", Payload: payload})
}

func (s *Server) sendCookiesStatus(client *Client) {
	payload, _ := json.Marshal(s.store.Status())
	s.trySend(client, WSMessage{Type: "cookies_status", Payload: payload})
}

func (s *Server) sendLogHistory(client *Client) {
	payload, _ := json.Marshal(logger.GetHistory())
	s.trySend(client, WSMessage{Type: "log_history", Payload: payload})
}
