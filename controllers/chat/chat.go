package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"ibuild/middleware"
	"ibuild/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

var hub *realtime.Hub

// Setup injects the live hub. Called once from main.
func Setup(h *realtime.Hub) {
	hub = h
}

const heartbeatInterval = 25 * time.Second

type MessageRequest struct {
	Content     string `json:"content"`
	RecipientID uint   `json:"recipient_id"`
	Room        string `json:"room"`
}

type RoomRequest struct {
	Room string `json:"room"`
}

type TypingRequest struct {
	RecipientID uint   `json:"recipient_id"`
	Room        string `json:"room"`
	Started     bool   `json:"started"`
}

func writeEvent(w *bufio.Writer, ev realtime.Event) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload); err != nil {
		return err
	}
	return w.Flush()
}

// Stream is the SSE downlink. EventSource cannot set headers, so the token
// arrives as a query parameter.
func Stream(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Missing token!", nil)
	}

	claims, err := middleware.ParseToken(token)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token!", nil)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	client := hub.Register(claims.UserID, claims.Email, claims.Name)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer hub.Unregister(client)

		if err := writeEvent(w, realtime.Event{Name: "connected", Data: fiber.Map{"user_id": claims.UserID}}); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-client.Outbound:
				if !ok {
					// replaced by a newer connection
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// SendMessage is the REST uplink for chat. Routing follows the payload:
// recipient, room, or global broadcast.
func SendMessage(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	userName, _ := c.Locals("userName").(string)

	reqData := new(MessageRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Content == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Message content is required!", nil)
	}

	message := realtime.Message{
		ID:          uuid.NewString(),
		SenderID:    userID,
		SenderName:  userName,
		Content:     reqData.Content,
		RecipientID: reqData.RecipientID,
		Room:        reqData.Room,
		Timestamp:   time.Now(),
	}
	hub.SendChatMessage(message)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Message sent!", message)
}

// JoinRoom adds the caller to a chat room.
func JoinRoom(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(RoomRequest)
	if err := c.BodyParser(reqData); err != nil || reqData.Room == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Room name is required!", nil)
	}

	if !hub.JoinRoom(userID, reqData.Room) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Connect to the event stream before joining a room!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Joined room!", fiber.Map{"room": reqData.Room})
}

// LeaveRoom removes the caller from a chat room.
func LeaveRoom(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(RoomRequest)
	if err := c.BodyParser(reqData); err != nil || reqData.Room == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Room name is required!", nil)
	}

	hub.LeaveRoom(userID, reqData.Room)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Left room!", fiber.Map{"room": reqData.Room})
}

// Typing relays a typing indicator.
func Typing(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	userName, _ := c.Locals("userName").(string)

	reqData := new(TypingRequest)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	hub.Typing(userID, userName, reqData.RecipientID, reqData.Room, reqData.Started)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Typing indicator sent!", nil)
}

// GetHistory returns recent in-memory messages: the caller's direct
// messages by default, a room's messages when ?room= is set, or the public
// feed when ?scope=public.
func GetHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var messages []realtime.Message
	if room := c.Query("room"); room != "" {
		messages = hub.History(0, room)
	} else if c.Query("scope") == "public" {
		messages = hub.History(0, "")
	} else {
		messages = hub.History(userID, "")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "History fetched successfully!", messages)
}

// GetOnlineUsers lists currently connected users.
func GetOnlineUsers(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Online users fetched successfully!", hub.OnlineUsers())
}
