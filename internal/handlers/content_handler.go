package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/repositories"
	"gorm.io/gorm"
)

// ContentHandler serves public reads of posts and projects. The counter
// fields on the payloads are maintained by the interaction core.
type ContentHandler struct {
	contentRepository repositories.ContentRepository
}

func NewContentHandler(contentRepo repositories.ContentRepository) *ContentHandler {
	return &ContentHandler{contentRepository: contentRepo}
}

// RegisterContentRoutes registers public content routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/projects", h.ListProjects)
	g.GET("/projects/:id", h.GetProject)
}

func (h *ContentHandler) ListPosts(c echo.Context) error {
	posts, err := h.contentRepository.ListPosts()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "posts": posts})
}

func (h *ContentHandler) GetPost(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}
	post, err := h.contentRepository.GetPost(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "post not found"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

func (h *ContentHandler) ListProjects(c echo.Context) error {
	projects, err := h.contentRepository.ListProjects()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "projects": projects})
}

func (h *ContentHandler) GetProject(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return fail(c, err)
	}
	project, err := h.contentRepository.GetProject(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "project not found"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "project": project})
}
