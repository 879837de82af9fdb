package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/sales/internal/adapters/http/handlers"
	"github.com/swaggo/swag"
)

// Docs serves the swagger document registered by the generated docs package.
//
// @Summary     OpenAPI document
// @Tags        docs
// @Produce     json
// @Success     200
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/docs/doc.json [get]
func Docs(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}
