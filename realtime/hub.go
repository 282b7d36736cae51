package realtime

import (
	"context"
	"log"
	"sync"
	"time"
)

// Event names pushed over the live channel.
const (
	EventNotification = "notification:new"
	EventUserOnline   = "user:online"
	EventUserOffline  = "user:offline"
	EventOnlineUsers  = "online:users"
	EventMessage      = "message:receive"
	EventMessageSent  = "message:sent"
	EventRoomJoined   = "room:user-joined"
	EventRoomLeft     = "room:user-left"
	EventTypingStart  = "typing:user-started"
	EventTypingStop   = "typing:user-stopped"
)

// historyCap bounds the in-memory chat buffer; the oldest entries are
// discarded past it. Explicitly not durable.
const historyCap = 1000

// Event is one payload sent to connected clients.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Scope constants for Envelope routing.
const (
	ScopeUser = "user"
	ScopeRoom = "room"
	ScopeAll  = "all"
)

// Envelope wraps an Event with its routing scope so it can travel over the
// optional cross-instance bus unchanged.
type Envelope struct {
	Scope      string `json:"scope"`
	UserID     uint   `json:"user_id,omitempty"`
	Room       string `json:"room,omitempty"`
	ExceptUser uint   `json:"except_user,omitempty"`
	Event      Event  `json:"event"`
}

// Client is one live connection. A user holds at most one: registering a
// new client for the same user id replaces the old one.
type Client struct {
	UserID   uint
	Email    string
	Name     string
	Outbound chan Event
}

// OnlineUser is the public shape of a connected user.
type OnlineUser struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"user_name"`
}

// Message is one chat message held in the bounded ring.
type Message struct {
	ID          string    `json:"id"`
	SenderID    uint      `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	RecipientID uint      `json:"recipient_id,omitempty"`
	Room        string    `json:"room,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Bus fans envelopes out across instances. The hub works without one; all
// delivery is then local.
type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env Envelope)) error
	Close() error
}

// Hub owns all live-connection state: the user->connection map, rooms and
// the chat history ring. Constructed once at process start.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]*Client
	rooms   map[string]map[uint]*Client
	history []Message
	bus     Bus
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]*Client),
		rooms:   make(map[string]map[uint]*Client),
	}
}

// AttachBus wires an external fan-out bus; Dispatch then routes through it.
func (h *Hub) AttachBus(bus Bus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bus = bus
}

// Register connects a user. An existing connection for the same user id is
// closed and replaced rather than coexisting.
func (h *Hub) Register(userID uint, email, name string) *Client {
	client := &Client{
		UserID:   userID,
		Email:    email,
		Name:     name,
		Outbound: make(chan Event, 16),
	}

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		h.dropLocked(old)
		close(old.Outbound)
	}
	h.clients[userID] = client
	h.mu.Unlock()

	log.Printf("User connected: %s (%d)", name, userID)

	h.Dispatch(Envelope{Scope: ScopeAll, Event: Event{Name: EventUserOnline, Data: OnlineUser{UserID: userID, Name: name}}})
	h.broadcastOnlineUsers()

	return client
}

// Unregister disconnects a client. A stale client (already replaced by a
// newer connection for the same user) is ignored.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.UserID]
	if !ok || current != client {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.UserID)
	h.dropLocked(client)
	close(client.Outbound)
	h.mu.Unlock()

	log.Printf("User disconnected: %s (%d)", client.Name, client.UserID)

	h.Dispatch(Envelope{Scope: ScopeAll, Event: Event{Name: EventUserOffline, Data: OnlineUser{UserID: client.UserID, Name: client.Name}}})
	h.broadcastOnlineUsers()
}

// dropLocked removes a client from every room. Caller holds h.mu.
func (h *Hub) dropLocked(client *Client) {
	for room, members := range h.rooms {
		delete(members, client.UserID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Dispatch routes an envelope through the bus when one is attached,
// otherwise delivers locally. With a bus, local delivery happens in the
// forwarder so every instance (this one included) takes the same path.
func (h *Hub) Dispatch(env Envelope) {
	h.mu.RLock()
	bus := h.bus
	h.mu.RUnlock()

	if bus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bus.Publish(ctx, env); err != nil {
			// best effort: fall back to local delivery
			log.Printf("Relay bus publish failed, delivering locally: %v", err)
			h.DeliverLocal(env)
		}
		return
	}
	h.DeliverLocal(env)
}

// DeliverLocal delivers an envelope to clients connected to this process.
// It is also the bus forwarder callback.
func (h *Hub) DeliverLocal(env Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch env.Scope {
	case ScopeUser:
		if c, ok := h.clients[env.UserID]; ok {
			send(c, env.Event)
		}
	case ScopeRoom:
		for id, c := range h.rooms[env.Room] {
			if env.ExceptUser != 0 && id == env.ExceptUser {
				continue
			}
			send(c, env.Event)
		}
	case ScopeAll:
		for id, c := range h.clients {
			if env.ExceptUser != 0 && id == env.ExceptUser {
				continue
			}
			send(c, env.Event)
		}
	}
}

// send never blocks; a client with a full buffer loses the event.
func send(c *Client, ev Event) {
	select {
	case c.Outbound <- ev:
	default:
		log.Printf("Dropping event %q for user %d; outbound buffer full", ev.Name, c.UserID)
	}
}

// PushToUser is the best-effort point-to-point entry used by the
// notification relay. Delivery failure is invisible to the caller.
func (h *Hub) PushToUser(userID uint, event string, data any) {
	h.Dispatch(Envelope{Scope: ScopeUser, UserID: userID, Event: Event{Name: event, Data: data}})
}

// IsOnline reports whether the user has a live connection on this instance.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineUsers lists users connected to this instance.
func (h *Hub) OnlineUsers() []OnlineUser {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]OnlineUser, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, OnlineUser{UserID: c.UserID, Name: c.Name})
	}
	return out
}

func (h *Hub) broadcastOnlineUsers() {
	h.Dispatch(Envelope{Scope: ScopeAll, Event: Event{Name: EventOnlineUsers, Data: h.OnlineUsers()}})
}

// JoinRoom subscribes a connected user to a room and announces it there.
func (h *Hub) JoinRoom(userID uint, room string) bool {
	h.mu.Lock()
	client, ok := h.clients[userID]
	if !ok {
		h.mu.Unlock()
		return false
	}
	members, exists := h.rooms[room]
	if !exists {
		members = make(map[uint]*Client)
		h.rooms[room] = members
	}
	members[userID] = client
	name := client.Name
	h.mu.Unlock()

	h.Dispatch(Envelope{Scope: ScopeRoom, Room: room, Event: Event{
		Name: EventRoomJoined,
		Data: map[string]any{"user_id": userID, "user_name": name, "room": room, "timestamp": time.Now()},
	}})
	return true
}

// LeaveRoom unsubscribes a user from a room and announces it there.
func (h *Hub) LeaveRoom(userID uint, room string) {
	h.mu.Lock()
	client, ok := h.clients[userID]
	if ok {
		if members, exists := h.rooms[room]; exists {
			delete(members, userID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	var name string
	if client != nil {
		name = client.Name
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	h.Dispatch(Envelope{Scope: ScopeRoom, Room: room, Event: Event{
		Name: EventRoomLeft,
		Data: map[string]any{"user_id": userID, "user_name": name, "room": room, "timestamp": time.Now()},
	}})
}

// SaveMessage appends to the bounded history ring, discarding the oldest
// entries past the cap.
func (h *Hub) SaveMessage(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, m)
	if len(h.history) > historyCap {
		h.history = h.history[len(h.history)-historyCap:]
	}
}

// History filters the ring: messages involving a user, messages of a room,
// or public broadcast messages when neither filter is set.
func (h *Hub) History(userID uint, room string) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Message
	for _, m := range h.history {
		switch {
		case userID != 0:
			if m.SenderID == userID || m.RecipientID == userID {
				out = append(out, m)
			}
		case room != "":
			if m.Room == room {
				out = append(out, m)
			}
		default:
			if m.RecipientID == 0 && m.Room == "" {
				out = append(out, m)
			}
		}
	}
	return out
}

// SendChatMessage stores a message and routes it: direct to a recipient
// (echoed to the sender), to a room, or to everyone.
func (h *Hub) SendChatMessage(m Message) {
	h.SaveMessage(m)

	switch {
	case m.RecipientID != 0:
		h.Dispatch(Envelope{Scope: ScopeUser, UserID: m.RecipientID, Event: Event{Name: EventMessage, Data: m}})
		h.Dispatch(Envelope{Scope: ScopeUser, UserID: m.SenderID, Event: Event{Name: EventMessageSent, Data: m}})
	case m.Room != "":
		h.Dispatch(Envelope{Scope: ScopeRoom, Room: m.Room, Event: Event{Name: EventMessage, Data: m}})
	default:
		h.Dispatch(Envelope{Scope: ScopeAll, Event: Event{Name: EventMessage, Data: m}})
	}
}

// Typing relays a typing indicator to a recipient or a room (excluding the
// sender).
func (h *Hub) Typing(senderID uint, senderName string, recipientID uint, room string, started bool) {
	name := EventTypingStart
	if !started {
		name = EventTypingStop
	}
	data := map[string]any{"user_id": senderID, "user_name": senderName}

	switch {
	case recipientID != 0:
		h.Dispatch(Envelope{Scope: ScopeUser, UserID: recipientID, Event: Event{Name: name, Data: data}})
	case room != "":
		h.Dispatch(Envelope{Scope: ScopeRoom, Room: room, ExceptUser: senderID, Event: Event{Name: name, Data: data}})
	}
}
