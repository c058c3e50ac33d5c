package notifications

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Manager owns the websocket connections of logged-in dashboard users and
// routes pushed messages by firm scope.
type Manager struct {
	connections map[string]*Connection
	mu          sync.RWMutex
	hub         *hub
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// Connection is one dashboard client.
type Connection struct {
	ID        string
	UserID    string
	FirmScope string
	Conn      *websocket.Conn
	Send      chan Message
}

type hub struct {
	connections map[*Connection]bool
	broadcast   chan Message
	register    chan *Connection
	unregister  chan *Connection
	stop        chan struct{}
	logger      *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan Message, 256),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		stop:        make(chan struct{}),
		logger:      logger,
	}
	go h.run()

	return &Manager{
		connections: make(map[string]*Connection),
		hub:         h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and registers the caller. Identity
// comes from the already-authenticated request, not from the socket.
func (m *Manager) HandleConnection(w http.ResponseWriter, r *http.Request, userID, firmScope string) (*Connection, error) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:        uuid.New().String(),
		UserID:    userID,
		FirmScope: firmScope,
		Conn:      conn,
		Send:      make(chan Message, 256),
	}
	m.hub.register <- connection

	m.mu.Lock()
	m.connections[connection.ID] = connection
	m.mu.Unlock()

	go m.readPump(connection)
	go m.writePump(connection)

	connection.Send <- Message{
		Type:      MessageTypeStatus,
		Data:      map[string]any{"status": "connected"},
		Timestamp: time.Now(),
		Target:    userID,
	}
	return connection, nil
}

func (m *Manager) readPump(conn *Connection) {
	defer func() {
		m.hub.unregister <- conn
		m.mu.Lock()
		delete(m.connections, conn.ID)
		m.mu.Unlock()
		conn.Conn.Close()
	}()

	conn.Conn.SetReadLimit(512)
	conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Clients only listen; reads exist to notice pongs and closes.
	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.logger.Warn("websocket read failed", zap.String("user", conn.UserID), zap.Error(err))
			}
			return
		}
	}
}

func (m *Manager) writePump(conn *Connection) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.connections[conn] = true
			h.logger.Debug("websocket registered",
				zap.String("connection_id", conn.ID),
				zap.String("user", conn.UserID))

		case conn := <-h.unregister:
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
				h.logger.Debug("websocket unregistered",
					zap.String("connection_id", conn.ID),
					zap.String("user", conn.UserID))
			}

		case message := <-h.broadcast:
			for conn := range h.connections {
				select {
				case conn.Send <- message:
				default:
					close(conn.Send)
					delete(h.connections, conn)
				}
			}

		case <-h.stop:
			for conn := range h.connections {
				close(conn.Send)
				delete(h.connections, conn)
			}
			return
		}
	}
}

// SendToFirm delivers a message to every connection whose scope covers the
// firm. Users scoped to "all" receive everything.
func (m *Manager) SendToFirm(firm string, message Message) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	message.Firm = firm
	sent := 0
	for _, conn := range m.connections {
		if !scopeCovers(conn.FirmScope, firm) {
			continue
		}
		select {
		case conn.Send <- message:
			sent++
		default:
			// Buffer full, the reader is stuck; readPump will reap it.
		}
	}
	return sent
}

// Broadcast delivers a message to every connection.
func (m *Manager) Broadcast(message Message) error {
	select {
	case m.hub.broadcast <- message:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

func (m *Manager) Close() {
	close(m.hub.stop)

	m.mu.Lock()
	for _, conn := range m.connections {
		if conn.Conn != nil {
			conn.Conn.Close()
		}
	}
	m.connections = make(map[string]*Connection)
	m.mu.Unlock()
}

func scopeCovers(scope, firm string) bool {
	scope = strings.TrimSpace(scope)
	if strings.EqualFold(scope, "all") {
		return true
	}
	return strings.EqualFold(scope, strings.TrimSpace(firm))
}
