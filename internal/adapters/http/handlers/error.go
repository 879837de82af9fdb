package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/sales/internal/core/logger"
	"github.com/rafaelleal24/sales/internal/core/serviceerrors"
)

type ErrorResponse struct {
	Error string `json:"error" example:"customer 65f1c0ffee0000000000abcd not found"`
	Code  string `json:"code" example:"customer_not_found"`
}

// HandleError writes service errors with their own message and code. Anything
// else is logged and hidden behind a generic 500.
func HandleError(c *gin.Context, err error) {
	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(mapKindToHTTP(svcErr.Kind), ErrorResponse{Error: svcErr.Message, Code: string(svcErr.Code)})
		return
	}

	_ = c.Error(err)
	logger.Error(c.Request.Context(), "unhandled error", err, map[string]any{
		"http.route": c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"})
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case serviceerrors.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
