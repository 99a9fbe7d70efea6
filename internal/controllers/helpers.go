package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gin-accounts-api/internal/models"
	"gin-accounts-api/internal/services"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps the service layer's typed errors onto the API
// error envelope. Unknown errors become a 500 without leaking detail.
func writeServiceError(ctx *gin.Context, err error) {
	var unauthorized *services.UnauthorizedError
	var notFound *services.NotFoundError
	var conflict *services.ConflictError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &unauthorized):
		ctx.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions",
			map[string]interface{}{"action": unauthorized.Action, "reason": unauthorized.Reason}))
	case errors.As(err, &notFound):
		code := models.ErrNotFound
		switch notFound.Entity {
		case "user":
			code = models.ErrUserNotFound
		case "role":
			code = models.ErrRoleNotFound
		}
		ctx.JSON(http.StatusNotFound, models.NewAPIError(code, notFound.Error()))
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, models.NewAPIError(models.ErrConflict, conflict.Reason,
			map[string]interface{}{"field": conflict.Field}))
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, validation.Message,
			map[string]interface{}{"field": validation.Field}))
	default:
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Internal server error"))
	}
}

func invalidBody() models.APIError {
	return models.NewAPIError(models.ErrBadRequest, "Invalid request body")
}

// pathID parses the numeric :id path parameter.
func pathID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid id format"))
		return 0, false
	}
	return uint(id), true
}
