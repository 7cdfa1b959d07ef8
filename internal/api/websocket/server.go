package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/stadiumhouse/blueline/internal/cache"
	"github.com/stadiumhouse/blueline/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes admin-dashboard updates (new reservations, feedback and
// events) read from the Redis streams out to connected WebSocket clients.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
}

// NewServer creates a new WebSocket server
func NewServer(rc *cache.RedisCache) *Server {
	return &Server{
		hub:   NewHub(),
		cache: rc,
	}
}

// Start starts the WebSocket server and the stream relay
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	go s.hub.Run()
	go s.relayStreams(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/admin", s.handleAdmin)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleAdmin handles WebSocket connections for the admin dashboard feed
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// relayStreams tails the operational Redis streams and broadcasts each new
// record, tagged with its stream, to connected clients.
func (s *Server) relayStreams(ctx context.Context) {
	streams := []string{
		publisher.StreamReservations,
		publisher.StreamFeedback,
		publisher.StreamEvents,
	}

	// XRead wants stream names followed by starting IDs
	cursor := make(map[string]string, len(streams))
	for _, stream := range streams {
		cursor[stream] = "$"
	}

	for {
		if ctx.Err() != nil {
			return
		}

		args := &redis.XReadArgs{
			Streams: streamArgs(streams, cursor),
			Block:   5 * time.Second,
		}

		results, err := s.cache.Client().XRead(ctx, args).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Printf("stream read error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		for _, result := range results {
			for _, message := range result.Messages {
				cursor[result.Stream] = message.ID
				s.broadcastMessage(result.Stream, message)
			}
		}
	}
}

func (s *Server) broadcastMessage(stream string, message redis.XMessage) {
	data, _ := message.Values["data"].(string)
	if data == "" {
		data = "null"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"stream": stream,
		"id":     message.ID,
		"data":   json.RawMessage(data),
	})
	if err != nil {
		log.Printf("encoding stream message: %v", err)
		return
	}

	s.hub.Broadcast(payload)
}

func streamArgs(streams []string, cursor map[string]string) []string {
	args := make([]string, 0, len(streams)*2)
	args = append(args, streams...)
	for _, stream := range streams {
		args = append(args, cursor[stream])
	}
	return args
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
