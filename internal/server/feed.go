package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Config holds feed server configuration
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`
	MaxClients int    `yaml:"max_clients"`

	// ClientBuffer is the number of queued messages a viewer may lag behind
	// before it is disconnected.
	ClientBuffer int           `yaml:"client_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultConfig returns default feed server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8090",
		Path:         "/feed",
		MaxClients:   64,
		ClientBuffer: 256,
		WriteTimeout: 5 * time.Second,
	}
}

// Message is one feedback notification as sent to viewers.
type Message struct {
	Type   string         `json:"type"`
	Source string         `json:"source"`
	At     time.Time      `json:"at"`
	Event  feedback.Event `json:"event"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *feedClient) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// FeedServer streams every feedback notification published on a bus to
// connected websocket viewers. Viewers are read-only: anything they send is
// discarded, so nothing can reach the simulation through the feed.
type FeedServer struct {
	config Config
	logger log.Log
	bus    bus.EventBus
	sub    bus.Subscription

	mu      sync.Mutex
	clients map[*feedClient]struct{}

	httpServer *http.Server
	listener   net.Listener

	running int32 // atomic bool
	closed  int32 // atomic bool
}

// NewFeedServer subscribes to every event on b.
func NewFeedServer(config Config, b bus.EventBus, logger log.Log) (*FeedServer, error) {
	def := DefaultConfig()
	if config.Path == "" {
		config.Path = def.Path
	}
	if config.ClientBuffer <= 0 {
		config.ClientBuffer = def.ClientBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = log.NewNop()
	}

	s := &FeedServer{
		config:  config,
		logger:  logger.With(log.String("component", "feed")),
		bus:     b,
		clients: make(map[*feedClient]struct{}),
	}
	sub, err := b.Subscribe(bus.Wildcard, s.broadcast)
	if err != nil {
		return nil, err
	}
	s.sub = sub
	return s, nil
}

// Start listens on config.ListenAddr and serves the feed in the background.
func (s *FeedServer) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.Handle(s.config.Path, s)
	s.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Feed server failed", log.Error(err))
		}
	}()

	s.logger.Info("Feed listening", log.String("addr", listener.Addr().String()), log.String("path", s.config.Path))
	return nil
}

// Addr is the bound listen address, or nil before Start.
func (s *FeedServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and disconnects every viewer.
func (s *FeedServer) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.logger.Info("Stopping feed")

	err := s.httpServer.Shutdown(ctx)
	s.disconnectAll()
	return err
}

// Close unsubscribes from the bus and stops the server if it is running.
func (s *FeedServer) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.disconnectAll()
	return s.bus.Unsubscribe(s.sub)
}

// Clients returns the number of connected viewers.
func (s *FeedServer) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *FeedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if s.config.MaxClients > 0 && s.Clients() >= s.config.MaxClients {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Upgrade failed", log.Error(err))
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, s.config.ClientBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("Viewer connected", log.String("remote", conn.RemoteAddr().String()))

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop drains viewer frames until the connection fails.
func (s *FeedServer) readLoop(c *feedClient) {
	defer s.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *FeedServer) writeLoop(c *feedClient) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Debug("Viewer write failed", log.Error(err))
			s.drop(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *FeedServer) drop(c *feedClient) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		c.close()
		s.logger.Debug("Viewer disconnected")
	}
}

func (s *FeedServer) disconnectAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*feedClient]struct{})
	s.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

// broadcast is the bus handler. It never blocks the publisher: a viewer
// whose queue is full is disconnected.
func (s *FeedServer) broadcast(e bus.Event) error {
	ev, ok := e.Data().(feedback.Event)
	if !ok {
		return nil
	}
	raw, err := json.Marshal(Message{Type: e.Type(), Source: e.Source(), At: e.Timestamp(), Event: ev})
	if err != nil {
		return err
	}

	s.mu.Lock()
	var slow []*feedClient
	for c := range s.clients {
		select {
		case c.send <- raw:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.Unlock()

	for _, c := range slow {
		s.logger.Warn("Dropping slow viewer", log.String("remote", c.conn.RemoteAddr().String()))
		s.drop(c)
	}
	return nil
}
