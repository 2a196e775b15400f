package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/lazarnikolic5396/Razmenime/internal/middleware"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
	"github.com/lazarnikolic5396/Razmenime/internal/ws"
)

type ChatHandler struct {
	messages *services.MessageService
	contacts *services.ContactService
	hub      *ws.Hub
	log      *zap.SugaredLogger
}

func NewChatHandler(messages *services.MessageService, contacts *services.ContactService, hub *ws.Hub, log *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{messages: messages, contacts: contacts, hub: hub, log: log}
}

func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	views, err := h.messages.Conversations(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversations": views})
}

// Messages lists a conversation's log. The optional `after` query
// parameter (RFC 3339) narrows the response to newer messages so
// clients poll deltas instead of refetching the whole thread.
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	var after time.Time
	if raw := c.Query("after"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "after must be RFC 3339"})
		}
		after = t
	}
	msgs, err := h.messages.List(c.Context(), c.Params("id"), middleware.UserID(c), after)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in services.SendMessageInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	in.ConversationID = c.Params("id")
	in.SenderID = middleware.UserID(c)
	msg, err := h.messages.Send(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.messages.MarkRead(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type contactReq struct {
	Message string `json:"message"`
}

// ContactAdOwner opens (or reopens) the requester's thread with an ad's
// owner and returns the conversation id the client should navigate to.
func (h *ChatHandler) ContactAdOwner(c *fiber.Ctx) error {
	var req contactReq
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	convID, err := h.contacts.ContactAdOwner(c.Context(), middleware.UserID(c), c.Params("id"), req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversation_id": convID})
}

func (h *ChatHandler) ContactFamily(c *fiber.Ctx) error {
	var req contactReq
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	convID, err := h.contacts.ContactFamily(c.Context(), middleware.UserID(c), c.Params("id"), req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"conversation_id": convID})
}

func (h *ChatHandler) MyAdRequests(c *fiber.Ctx) error {
	reqs, err := h.contacts.ListAdRequestsByRequester(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

func (h *ChatHandler) MyFamilyContacts(c *fiber.Ctx) error {
	contacts, err := h.contacts.ListFamilyContactsByHelper(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"contacts": contacts})
}

type wsCommand struct {
	Action         string `json:"action"`
	ConversationID string `json:"conversation_id"`
}

// Socket keeps one live connection per user. The client sends
// subscribe/unsubscribe commands naming conversations, new messages in
// those conversations are pushed as they arrive.
func (h *ChatHandler) Socket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(middleware.LocalUserID).(string)
		if userID == "" {
			conn.Close()
			return
		}
		client := ws.NewClient(userID, conn)
		h.hub.AddClient(userID, client)
		defer h.hub.RemoveClient(userID, client)

		go client.WritePump()

		for {
			var cmd wsCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			switch cmd.Action {
			case "subscribe":
				if err := h.messages.Authorize(context.Background(), cmd.ConversationID, userID); err != nil {
					client.Send(fiber.Map{"error": "cannot subscribe", "conversation_id": cmd.ConversationID})
					continue
				}
				h.hub.Subscribe(cmd.ConversationID, userID)
			case "unsubscribe":
				h.hub.Unsubscribe(cmd.ConversationID, userID)
			default:
				h.log.Debugw("unknown socket action", "action", cmd.Action, "user_id", userID)
			}
		}
	})
}
