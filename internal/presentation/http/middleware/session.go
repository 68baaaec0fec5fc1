package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipt-studio/internal/application/service"
	"github.com/sangkips/receipt-studio/internal/presentation/http/dto/response"
)

const (
	SessionHeader        = "X-Session-ID"
	ConfirmHeader        = "X-Confirm"
	HistoryWarningHeader = "X-History-Warning"

	SessionKey   = "session"
	SessionIDKey = "session_id"
)

// SessionMiddleware attaches the caller's draft session, creating one when
// the X-Session-ID header is missing or unknown. The ID is always echoed
// back.
func SessionMiddleware(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _, err := sessions.Resolve(c.GetHeader(SessionHeader))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		id := sess.ID.String()
		c.Set(SessionKey, sess)
		c.Set(SessionIDKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

// GetSession returns the session attached by SessionMiddleware.
func GetSession(c *gin.Context) *service.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*service.Session)
	return sess
}
