package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/middleware"
	"github.com/liuwei-h/personal-site/backend/internal/models"
	"github.com/liuwei-h/personal-site/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments and replies
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers the authenticated comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/comment", h.AddComment)
	g.POST("/comments/:comment_id/replies", h.AddReply)
	g.DELETE("/comment/:comment_id", h.DeleteComment)
	g.DELETE("/replies/:reply_id", h.DeleteReply)
	g.POST("/comment-like", h.ToggleCommentLike)
}

// RegisterPublicCommentRoutes registers the unauthenticated listing route
func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/comments/:content_id", h.ListComments)
}

// AddComment creates a comment on a post or project
func (h *CommentHandler) AddComment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.CreateCommentRequest
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

	result, err := h.commentService.AddComment(c.Request().Context(), actor, ref, req.Content)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"comment":       result.Comment,
		"comment_count": result.CommentCount,
	})
}

// ListComments returns one page of comments with replies. Anonymous access is
// allowed; a signed-in actor additionally gets per-comment like flags.
func (h *CommentHandler) ListComments(c echo.Context) error {
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

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	var requester *models.Actor
	if actor, ok := middleware.ActorFromContext(c); ok {
		requester = &actor
	}

	listing, err := h.commentService.ListComments(c.Request().Context(), requester, ref, page, perPage)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"comments":   listing.Comments,
		"pagination": listing.Pagination,
	})
}

// AddReply creates a reply under a comment
func (h *CommentHandler) AddReply(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	commentID, err := paramUint(c, "comment_id")
	if err != nil {
		return fail(c, err)
	}

	var req models.CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply, err := h.commentService.AddReply(c.Request().Context(), actor, commentID, req.Content)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "reply": reply})
}

// DeleteComment removes a comment; author or admin only
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	commentID, err := paramUint(c, "comment_id")
	if err != nil {
		return fail(c, err)
	}

	count, err := h.commentService.DeleteComment(c.Request().Context(), actor, commentID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "comment_count": count})
}

// DeleteReply removes a reply; author or admin only
func (h *CommentHandler) DeleteReply(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	replyID, err := paramUint(c, "reply_id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.commentService.DeleteReply(c.Request().Context(), actor, replyID); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ToggleCommentLike flips the actor's like on a comment
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.CommentLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.commentService.ToggleCommentLike(c.Request().Context(), actor, req.CommentID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"liked":      result.Liked,
		"like_count": result.LikeCount,
	})
}
