package realtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor drains a client's outbound channel until an event with the given
// name arrives.
func waitFor(t *testing.T, c *Client, name string) Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev, ok := <-c.Outbound:
			if !ok {
				t.Fatalf("channel closed while waiting for %q", name)
			}
			if ev.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", name)
		}
	}
}

// assertNoEvent asserts a client never receives an event with the given
// name among whatever is currently buffered.
func assertNoEvent(t *testing.T, c *Client, name string) {
	t.Helper()
	for {
		select {
		case ev, ok := <-c.Outbound:
			if !ok {
				return
			}
			assert.NotEqual(t, name, ev.Name)
		default:
			return
		}
	}
}

func TestRegisterAndPushToUser(t *testing.T) {
	hub := NewHub()
	client := hub.Register(1, "julie@example.com", "Julie")

	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(2))

	hub.PushToUser(1, EventNotification, "hello")
	ev := waitFor(t, client, EventNotification)
	assert.Equal(t, "hello", ev.Data)
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	hub := NewHub()
	old := hub.Register(1, "julie@example.com", "Julie")
	replacement := hub.Register(1, "julie@example.com", "Julie")

	// the old channel is closed so its reader shuts down
	for range old.Outbound {
	}

	hub.PushToUser(1, EventNotification, "after")
	waitFor(t, replacement, EventNotification)

	assert.Len(t, hub.OnlineUsers(), 1)
}

func TestUnregisterIgnoresStaleClient(t *testing.T) {
	hub := NewHub()
	old := hub.Register(1, "julie@example.com", "Julie")
	replacement := hub.Register(1, "julie@example.com", "Julie")

	// the reconnect race: the old connection's teardown runs after the
	// replacement registered and must not kick the new client out
	hub.Unregister(old)
	assert.True(t, hub.IsOnline(1))

	hub.Unregister(replacement)
	assert.False(t, hub.IsOnline(1))
}

func TestJoinRoomRequiresConnection(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.JoinRoom(1, "site-crew"))

	hub.Register(1, "julie@example.com", "Julie")
	assert.True(t, hub.JoinRoom(1, "site-crew"))
}

func TestRoomMessageDelivery(t *testing.T) {
	hub := NewHub()
	julie := hub.Register(1, "julie@example.com", "Julie")
	marc := hub.Register(2, "marc@example.com", "Marc")
	outsider := hub.Register(3, "pierre@example.com", "Pierre")

	require.True(t, hub.JoinRoom(1, "site-crew"))
	require.True(t, hub.JoinRoom(2, "site-crew"))

	hub.SendChatMessage(Message{
		ID:         "m1",
		SenderID:   1,
		SenderName: "Julie",
		Content:    "Concrete arrives at 8",
		Room:       "site-crew",
		Timestamp:  time.Now(),
	})

	for _, c := range []*Client{julie, marc} {
		ev := waitFor(t, c, EventMessage)
		msg, ok := ev.Data.(Message)
		require.True(t, ok)
		assert.Equal(t, "Concrete arrives at 8", msg.Content)
	}
	assertNoEvent(t, outsider, EventMessage)
}

func TestDirectMessageEchoesToSender(t *testing.T) {
	hub := NewHub()
	sender := hub.Register(1, "julie@example.com", "Julie")
	recipient := hub.Register(2, "marc@example.com", "Marc")

	hub.SendChatMessage(Message{
		ID:          "m1",
		SenderID:    1,
		SenderName:  "Julie",
		Content:     "ping",
		RecipientID: 2,
		Timestamp:   time.Now(),
	})

	waitFor(t, recipient, EventMessage)
	waitFor(t, sender, EventMessageSent)
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	hub := NewHub()
	hub.Register(1, "julie@example.com", "Julie")
	marc := hub.Register(2, "marc@example.com", "Marc")

	require.True(t, hub.JoinRoom(1, "site-crew"))
	require.True(t, hub.JoinRoom(2, "site-crew"))
	waitFor(t, marc, EventRoomJoined)

	hub.LeaveRoom(2, "site-crew")

	hub.SendChatMessage(Message{ID: "m1", SenderID: 1, Content: "gone?", Room: "site-crew", Timestamp: time.Now()})
	assertNoEvent(t, marc, EventMessage)
}

func TestHistoryRingCap(t *testing.T) {
	hub := NewHub()
	for i := 0; i < historyCap+25; i++ {
		hub.SaveMessage(Message{ID: fmt.Sprintf("m%d", i), SenderID: 1, Content: "x", Timestamp: time.Now()})
	}

	public := hub.History(0, "")
	require.Len(t, public, historyCap)
	// the oldest 25 fell off the front
	assert.Equal(t, "m25", public[0].ID)
}

func TestHistoryFilters(t *testing.T) {
	hub := NewHub()
	hub.SaveMessage(Message{ID: "direct", SenderID: 1, RecipientID: 2})
	hub.SaveMessage(Message{ID: "room", SenderID: 3, Room: "site-crew"})
	hub.SaveMessage(Message{ID: "public", SenderID: 4})

	mine := hub.History(2, "")
	require.Len(t, mine, 1)
	assert.Equal(t, "direct", mine[0].ID)

	room := hub.History(0, "site-crew")
	require.Len(t, room, 1)
	assert.Equal(t, "room", room[0].ID)

	public := hub.History(0, "")
	require.Len(t, public, 1)
	assert.Equal(t, "public", public[0].ID)
}

func TestTypingExcludesSenderInRoom(t *testing.T) {
	hub := NewHub()
	julie := hub.Register(1, "julie@example.com", "Julie")
	marc := hub.Register(2, "marc@example.com", "Marc")

	require.True(t, hub.JoinRoom(1, "site-crew"))
	require.True(t, hub.JoinRoom(2, "site-crew"))

	hub.Typing(1, "Julie", 0, "site-crew", true)
	waitFor(t, marc, EventTypingStart)
	assertNoEvent(t, julie, EventTypingStart)

	hub.Typing(1, "Julie", 0, "site-crew", false)
	waitFor(t, marc, EventTypingStop)
}

func TestTypingDirect(t *testing.T) {
	hub := NewHub()
	hub.Register(1, "julie@example.com", "Julie")
	marc := hub.Register(2, "marc@example.com", "Marc")

	hub.Typing(1, "Julie", 2, "", true)
	ev := waitFor(t, marc, EventTypingStart)
	data, ok := ev.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, uint(1), data["user_id"])
}

func TestOfflineBroadcastOnUnregister(t *testing.T) {
	hub := NewHub()
	julie := hub.Register(1, "julie@example.com", "Julie")
	marc := hub.Register(2, "marc@example.com", "Marc")

	hub.Unregister(julie)

	ev := waitFor(t, marc, EventUserOffline)
	user, ok := ev.Data.(OnlineUser)
	require.True(t, ok)
	assert.Equal(t, uint(1), user.UserID)

	list := waitFor(t, marc, EventOnlineUsers)
	users, ok := list.Data.([]OnlineUser)
	require.True(t, ok)
	require.Len(t, users, 1)
	assert.Equal(t, uint(2), users[0].UserID)
}
