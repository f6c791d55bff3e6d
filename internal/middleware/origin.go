package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocalOrigin keeps the console to its own origin. A request must name one of hosts (or a
// loopback address) in its Host header, and a state-changing request sent by a browser must
// carry an Origin or Referer of that same host. Requests without either header, such as
// curl, are let through.
func LocalOrigin(hosts []string, log *zap.Logger) gin.HandlerFunc {
	allowed := map[string]struct{}{"localhost": {}}
	for _, h := range hosts {
		h = strings.ToLower(strings.Trim(strings.TrimSpace(h), "[]"))
		if h == "" {
			continue
		}
		if ip := net.ParseIP(h); ip != nil && ip.IsUnspecified() {
			continue
		}
		allowed[h] = struct{}{}
	}

	return func(c *gin.Context) {
		host := c.Request.Host
		if !hostAllowed(allowed, host) {
			log.Warn("rejected request for foreign host", zap.String("host", host), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden host"})
			return
		}
		if safeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if !sameOrigin(c.GetHeader("Origin"), c.GetHeader("Referer"), host) {
			log.Warn("rejected cross-origin request",
				zap.String("origin", c.GetHeader("Origin")),
				zap.String("referer", c.GetHeader("Referer")),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "cross-origin request"})
			return
		}
		c.Next()
	}
}

func safeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

func hostAllowed(allowed map[string]struct{}, hostport string) bool {
	h := hostport
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		h = host
	}
	h = strings.ToLower(strings.Trim(h, "[]"))
	if h == "" {
		return false
	}
	if ip := net.ParseIP(h); ip != nil && ip.IsLoopback() {
		return true
	}
	_, ok := allowed[h]
	return ok
}

// sameOrigin checks Origin first and falls back to Referer. "null" origins never match.
func sameOrigin(origin, referer, host string) bool {
	src := origin
	if src == "" {
		src = referer
	}
	if src == "" {
		return true
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
