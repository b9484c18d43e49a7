package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trustscore/metrics"
	"trustscore/utils"
)

// instrument records request count and latency per route.
func instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(handler, c.Request.Method).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(handler, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func requestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logger.With("status", status).With("latency", time.Since(start).Round(time.Microsecond).String())
		if status >= 500 {
			log.Error("[http] %s %s", c.Request.Method, c.Request.URL.Path)
			return
		}
		log.Debug("[http] %s %s", c.Request.Method, c.Request.URL.Path)
	}
}
