package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/services"
)

// InteractionHandler handles like/favorite/rating HTTP requests
type InteractionHandler struct {
	interactionService *services.InteractionService
}

func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// RegisterInteractionRoutes registers interaction routes on the protected group
func (h *InteractionHandler) RegisterInteractionRoutes(g *echo.Group) {
	g.POST("/like", h.ToggleLike)
	g.POST("/favorite", h.ToggleFavorite)
	g.POST("/rating", h.SaveRating)
	g.GET("/user-status/:content_id", h.GetUserStatus)
}

// ToggleLike flips the actor's like on a post or project
func (h *InteractionHandler) ToggleLike(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ref, err := contentRefFrom(req.Type, req.ID)
	if err != nil {
		return fail(c, err)
	}

	result, err := h.interactionService.ToggleLike(c.Request().Context(), actor, ref)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"is_liked":   result.Active,
		"like_count": result.Count,
	})
}

// ToggleFavorite flips the actor's favorite on a post or project
func (h *InteractionHandler) ToggleFavorite(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.ToggleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ref, err := contentRefFrom(req.Type, req.ID)
	if err != nil {
		return fail(c, err)
	}

	result, err := h.interactionService.ToggleFavorite(c.Request().Context(), actor, ref)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"is_favorited":   result.Active,
		"favorite_count": result.Count,
	})
}

// SaveRating stores a 1..5 star rating and returns the new average
func (h *InteractionHandler) SaveRating(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.RatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ref, err := contentRefFrom(req.Type, req.ID)
	if err != nil {
		return fail(c, err)
	}

	average, err := h.interactionService.SetRating(c.Request().Context(), actor, ref, req.Rating)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"average_rating": average,
	})
}

// GetUserStatus reports the actor's like/favorite/rating state for content
func (h *InteractionHandler) GetUserStatus(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	contentID, err := paramUint(c, "content_id")
	if err != nil {
		return fail(c, err)
	}
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "post"
	}
	ref, err := contentRefFrom(kind, contentID)
	if err != nil {
		return fail(c, err)
	}

	status, err := h.interactionService.GetStatus(c.Request().Context(), actor, ref)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"is_liked":     status.IsLiked,
		"is_favorited": status.IsFavorited,
		"user_rating":  status.UserRating,
	})
}
