package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/auth"
	"github.com/suPer8Hu/paper-explorer/internal/common"
)

const (
	PrincipalKey = "principal"
	// SessionCookie carries the auth token for browser clients.
	SessionCookie = "session"
)

// TokenFrom reads the auth token from an Authorization: Bearer header,
// falling back to the session cookie. An explicit header beats whatever
// cookie the client still carries.
func TokenFrom(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		if tok := strings.TrimSpace(h[7:]); tok != "" {
			return tok
		}
	}
	if tok, err := c.Cookie(SessionCookie); err == nil && tok != "" {
		return tok
	}
	return ""
}

// AuthRequired aborts with 401 unless the request carries a live session.
func AuthRequired(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := m.Resolve(c.Request.Context(), TokenFrom(c))
		if err != nil {
			var ce *common.Error
			if errors.As(err, &ce) && ce.Kind == common.KindAuth {
				common.Fail(c, http.StatusUnauthorized, 40101, "Not authenticated")
				return
			}
			_ = c.Error(err)
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
			return
		}
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
