package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// parseDateRangeQuery reads start/end, accepting the longer aliases some
// dashboards send.
func parseDateRangeQuery(c *gin.Context) (string, string) {
	start := firstQuery(c, "start", "start_date")
	end := firstQuery(c, "end", "end_date")
	return start, end
}

func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(c.Query(key)); value != "" {
			return value
		}
	}
	return ""
}
