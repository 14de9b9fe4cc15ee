package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tunevault/internal/apperr"
)

// uintParam parses a decimal path parameter for the relational routes.
func uintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperr.BadRequestf("invalid " + name)
	}
	return uint(value), nil
}
