package middleware

import (
	"strconv"
	"time"

	"folio/monitoring"

	"github.com/gin-gonic/gin"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		monitoring.HttpRequestsTotal.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
		monitoring.HttpRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}
