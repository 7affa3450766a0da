package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/liuwei-h/personal-site/backend/internal/apperr"
	"github.com/liuwei-h/personal-site/backend/internal/middleware"
	"github.com/liuwei-h/personal-site/backend/internal/models"
)

// fail renders the error envelope. Application errors carry their own HTTP
// status; anything else is a 500 with a generic message.
func fail(c echo.Context, err error) error {
	if e, ok := apperr.As(err); ok {
		return c.JSON(e.Status, echo.Map{"success": false, "message": e.Message})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return c.JSON(he.Code, echo.Map{"success": false, "message": he.Message})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "operation failed"})
}

func requireActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return models.Actor{}, apperr.Unauthenticated("User not authenticated")
	}
	return actor, nil
}

func contentRefFrom(kind string, id uint) (models.ContentRef, error) {
	parsed, err := models.ParseContentKind(kind)
	if err != nil {
		return models.ContentRef{}, apperr.Validation("invalid content type")
	}
	if id == 0 {
		return models.ContentRef{}, apperr.Validation("invalid content id")
	}
	return models.ContentRef{Kind: parsed, ID: id}, nil
}

func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid " + name)
	}
	return uint(v), nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return v
}
