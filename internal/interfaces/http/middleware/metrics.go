package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequestObserver counts finished requests.
type RequestObserver interface {
	ObserveRequest(method, route, code string)
}

// Metrics labels requests by route template so order codes and secrets
// never end up in label values. Unmatched requests share one label.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
