package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okim/optionlogic-backend/internal/app/rules"
	"github.com/okim/optionlogic-backend/internal/app/service"
	"github.com/okim/optionlogic-backend/pkg/logger"
)

const maxMessagesPerSecond = 20

// ClientMessage is what a storefront session sends: its current selection
// state for the option set it is attached to.
type ClientMessage struct {
	Type       string           `json:"type"` // "selections"
	Selections rules.Selections `json:"selections"`
}

// ServerMessage is pushed back to the session. Type is "effect" for a reply
// to the client's own selections and "set_updated" when the set changed
// under the session.
type ServerMessage struct {
	Type   string                 `json:"type"`
	SetID  uint                   `json:"set_id"`
	Effect *rules.AggregateEffect `json:"effect,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Client is one live storefront session attached to a single option set.
type Client struct {
	Hub   *Hub
	Conn  *Conn
	SetID uint
	Send  chan []byte

	mu             sync.RWMutex
	lastSelections rules.Selections

	// sendMu serializes enqueue against closeSend so the channel is never
	// closed while another goroutine is sending on it.
	sendMu sync.Mutex
	closed bool

	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

func (c *Client) selections() rules.Selections {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSelections
}

func (c *Client) setSelections(s rules.Selections) {
	c.mu.Lock()
	c.lastSelections = s
	c.mu.Unlock()
}

// enqueue hands data to the write pump. It reports false when the buffer
// is full or the session is already detached.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Hub tracks live sessions per option set and pushes evaluation results
// to them.
type Hub struct {
	evalService service.EvaluationService

	// sessions per option set
	sets map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

func NewHub(evalService service.EvaluationService) *Hub {
	return &Hub{
		evalService: evalService,
		sets:        make(map[uint]map[*Client]bool),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.sets[client.SetID]; !ok {
				h.sets[client.SetID] = make(map[*Client]bool)
			}
			h.sets[client.SetID][client] = true
			sessions := len(h.sets[client.SetID])
			h.mu.Unlock()

			logger.Info("Live session attached", map[string]interface{}{
				"option_set_id": client.SetID,
				"sessions":      sessions,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			detached := false
			if clients, ok := h.sets[client.SetID]; ok {
				if _, attached := clients[client]; attached {
					delete(clients, client)
					client.closeSend()
					detached = true
					if len(clients) == 0 {
						delete(h.sets, client.SetID)
					}
				}
			}
			h.mu.Unlock()

			if detached {
				logger.Info("Live session detached", map[string]interface{}{
					"option_set_id": client.SetID,
				})
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// NotifySetUpdated re-evaluates every attached session of the set against
// its last known selections and pushes the fresh effect. Called after a
// writer path invalidates the snapshot.
func (h *Hub) NotifySetUpdated(setID uint) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.sets[setID]))
	for client := range h.sets[setID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.push(client, "set_updated", client.selections())
	}
}

// HandleClientMessage parses a selections update, evaluates it and replies
// on the client's send channel.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Live session rate limit exceeded", map[string]interface{}{
			"option_set_id": client.SetID,
			"count":         count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.pushError(client, "invalid message")
		return
	}
	if msg.Type != "" && msg.Type != "selections" {
		return
	}

	client.setSelections(msg.Selections)
	h.push(client, "effect", msg.Selections)
}

func (h *Hub) push(client *Client, msgType string, selections rules.Selections) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	effect, err := h.evalService.Evaluate(ctx, client.SetID, selections)
	if err != nil {
		logger.Warn("Live evaluation failed", map[string]interface{}{
			"option_set_id": client.SetID,
			"error":         err.Error(),
		})
		h.pushError(client, "evaluation failed")
		return
	}

	h.send(client, ServerMessage{Type: msgType, SetID: client.SetID, Effect: effect})
}

func (h *Hub) pushError(client *Client, message string) {
	h.send(client, ServerMessage{Type: "error", SetID: client.SetID, Error: message})
}

func (h *Hub) send(client *Client, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal live message", err, nil)
		return
	}

	if !client.enqueue(data) {
		// buffer full or already detached, drop the session
		go h.Unregister(client)
		logger.Warn("Live session send refused, disconnecting", map[string]interface{}{
			"option_set_id": client.SetID,
		})
	}
}
