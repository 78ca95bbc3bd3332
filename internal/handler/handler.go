package handler

import (
	"backend/pkg/apperror"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses:
// validation → 400, missing reference → 404, blocked delete → 409,
// anything else → 500.
func respondError(c *gin.Context, err error) {
	code := apperror.StatusCode(err)
	c.JSON(code, response.Error(code, err.Error()))
}
