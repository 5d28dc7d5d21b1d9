package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/flowtask/flowtask-api/internal/constants"
)

// PageParams holds the offset/limit pagination parameters
type PageParams struct {
	Offset int
	Limit  int
}

// GetPageParams extracts and validates pagination parameters from the
// skip/limit query string. Limit is clamped to MaxPageSize so a single
// request can never return an unbounded result set.
func GetPageParams(c *gin.Context) PageParams {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PageParams{
		Offset: skip,
		Limit:  limit,
	}
}
