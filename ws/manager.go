package ws

import (
	"encoding/json"
	"sync"
	"time"

	"finance-server/entities"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Conn is the subset of *websocket.Conn the manager writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	mu   sync.Mutex // gorilla connections allow one concurrent writer
	conn Conn
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of each user's open live-update connections.
type Manager struct {
	mu      sync.RWMutex
	clients map[uint]map[Conn]*client // userID -> connections
}

func NewManager() *Manager {
	return &Manager{clients: make(map[uint]map[Conn]*client)}
}

// Register adds a connection for userID. A user may hold several.
func (m *Manager) Register(userID uint, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clients[userID] == nil {
		m.clients[userID] = make(map[Conn]*client)
	}
	m.clients[userID][conn] = &client{conn: conn}
}

// Unregister closes and forgets one connection.
func (m *Manager) Unregister(userID uint, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns, ok := m.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		_ = conn.Close()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(m.clients, userID)
	}
}

// Publish sends the event to every connection of its owner. Connections
// that fail to accept the write are dropped.
func (m *Manager) Publish(event entities.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	m.mu.RLock()
	targets := make([]*client, 0, len(m.clients[event.UserID]))
	for _, c := range m.clients[event.UserID] {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(payload); err != nil {
			m.Unregister(event.UserID, c.conn)
		}
	}
	return nil
}

// Count returns the number of open connections for userID.
func (m *Manager) Count(userID uint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// Total returns the number of open connections across all users.
func (m *Manager) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, conns := range m.clients {
		n += len(conns)
	}
	return n
}
