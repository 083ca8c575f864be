package server

import "github.com/gin-gonic/gin"

// tagReport fixes the report kind for a route so logging, rate limiting and
// mode selection agree.
func tagReport(report string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("report", report)
		c.Next()
	}
}
