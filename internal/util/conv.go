package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination reads page/limit query parameters, falling back to defaults
// on missing or malformed values.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
