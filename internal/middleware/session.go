package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/session"
)

const (
	LoginPath        = "/login"
	LoadingTemplate  = "loading.html"
	ContextUserKey   = "user"
	loadingRefreshIn = "1"
)

// SessionState is read on every request; the guard never caches it.
type SessionState interface {
	State() session.State
}

// RequireSession guards the protected routes. Until the session store has initialized it
// renders a neutral loading page that reloads itself; without a user it redirects to the
// login page; otherwise the user is put on the context and the request continues.
func RequireSession(store SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := store.State()
		if !st.Initialized {
			c.Header("Cache-Control", "no-store")
			c.Header("Refresh", loadingRefreshIn)
			c.HTML(http.StatusOK, LoadingTemplate, gin.H{"Title": "Loading", "Refresh": loadingRefreshIn})
			c.Abort()
			return
		}
		if st.User == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, st.User)
		c.Next()
	}
}
