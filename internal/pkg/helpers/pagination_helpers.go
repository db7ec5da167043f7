package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const DefaultLimit = 300

// LimitOptions are the page sizes the dashboard offers. Anything else is
// normalized to DefaultLimit.
var LimitOptions = []int{10, 20, 50, 100, 200, 300}

// NormalizeLimit clamps a requested page size to one of the recognized options.
func NormalizeLimit(limit int) int {
	for _, option := range LimitOptions {
		if limit == option {
			return limit
		}
	}
	return DefaultLimit
}

// NormalizeOffset floors a pagination offset at zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ParsePageWindow extracts and validates the offset/limit pair from the request.
func ParsePageWindow(c *gin.Context) (offset, limit int) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		limit = DefaultLimit
	}

	return NormalizeOffset(offset), NormalizeLimit(limit)
}
