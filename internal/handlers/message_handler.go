package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/middleware"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/services"
)

// MessageHandler handles contact form intake and the admin mailbox
type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// RegisterContactRoutes registers the public contact form route
func (h *MessageHandler) RegisterContactRoutes(g *echo.Group) {
	g.POST("/contact", h.SubmitMessage)
}

// RegisterAdminRoutes registers the admin mailbox routes
func (h *MessageHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/messages", h.ListMessages)
	g.GET("/messages/:id", h.ViewMessage)
	g.POST("/messages/:id/replies", h.ReplyMessage)
	g.DELETE("/messages/:id/replies/:reply_id", h.DeleteReply)
	g.POST("/messages/:id/archive", h.ArchiveMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// SubmitMessage accepts a contact-form submission. Anonymous senders are
// allowed; a signed-in sender is linked so replies can notify them.
func (h *MessageHandler) SubmitMessage(c echo.Context) error {
	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var userID *uint
	if actor, ok := middleware.ActorFromContext(c); ok {
		userID = &actor.ID
	}

	message, err := h.messageService.Receive(
		c.Request().Context(),
		req,
		userID,
		c.RealIP(),
		c.Request().UserAgent(),
	)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":   true,
		"reference": message.Reference,
	})
}

// ListMessages returns one page of messages, optionally filtered by status
func (h *MessageHandler) ListMessages(c echo.Context) error {
	page := queryInt(c, "page", 1)
	status := c.QueryParam("status")

	messages, pagination, err := h.messageService.List(c.Request().Context(), status, page, 20)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"messages":   messages,
		"pagination": pagination,
	})
}

// ViewMessage returns a message with its conversation and marks it read
func (h *MessageHandler) ViewMessage(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	detail, err := h.messageService.View(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": detail.Message,
		"replies": detail.Replies,
	})
}

// ReplyMessage appends a reply to the conversation
func (h *MessageHandler) ReplyMessage(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req models.CreateMessageReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply, err := h.messageService.AddReply(c.Request().Context(), actor, id, req.Content)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "reply": reply})
}

// DeleteReply removes one reply from the conversation
func (h *MessageHandler) DeleteReply(c echo.Context) error {
	replyID, err := paramUint(c, "reply_id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.messageService.DeleteReply(c.Request().Context(), replyID); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ArchiveMessage moves the message to the archived state
func (h *MessageHandler) ArchiveMessage(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.messageService.Archive(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteMessage removes the message and its conversation
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.messageService.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
