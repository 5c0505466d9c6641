package feed

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rloren/addressbook/internal/service/feed"
	"github.com/rloren/addressbook/pkg/utils"
)

// Handler streams address book change events to clients, either as
// Server-Sent Events or over a websocket.
type Handler struct {
	feed     *feed.Service
	upgrader websocket.Upgrader
}

// New creates the feed handler.
func New(feedSvc *feed.Service) *Handler {
	return &Handler{
		feed: feedSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the streaming endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/contacts/feed", h.handleSSE)
	r.Get("/contacts/watch", h.handleWebSocket)
}

// handleSSE streams change events until the client disconnects.
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.feed.Subscribe()
	defer cancel()

	utils.SendSSEEvent(w, flusher, "status", map[string]string{"message": "feed established"})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, string(event.Op), event)
		}
	}
}

// handleWebSocket upgrades the connection and forwards change events as
// JSON frames. The read side only watches for the client closing.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[feed] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.feed.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case event, open := <-events:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[feed] websocket write failed: %v", err)
				return
			}
		}
	}
}
