package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/services"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/:id/read", h.MarkAsRead)
	g.POST("/notifications/read-all", h.MarkAllAsRead)
	g.POST("/notifications/:id/view", h.ViewNotification)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// GetNotifications returns paginated notifications, optionally by type
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	typeFilter := c.QueryParam("type")

	notifications, pagination, err := h.notificationService.List(c.Request().Context(), actor, typeFilter, page, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"notifications": notifications,
		"pagination":    pagination,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

// MarkAsRead marks one notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), actor, id); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks every unread notification of the actor as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.notificationService.MarkAllRead(c.Request().Context(), actor); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ViewNotification marks the notification read and returns its jump URL
func (h *NotificationHandler) ViewNotification(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	url, err := h.notificationService.View(c.Request().Context(), actor, id)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "url": url})
}

// DeleteNotification removes one notification of the actor
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.notificationService.Delete(c.Request().Context(), actor, id); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
