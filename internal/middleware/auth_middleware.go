package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/internal/auth"
	apperrors "github.com/jbmillenial/file-share/internal/errors"
	"github.com/jbmillenial/file-share/internal/response"
)

// 会话数据在gin上下文中的键名
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// RequireAuth 登录态校验中间件
// 解析会话Cookie，成功时把用户信息写入上下文，失败时返回401并中止请求链
func RequireAuth(sm *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sm.GetSession(c)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, int(apperrors.ErrUnauthorized), apperrors.New(apperrors.ErrUnauthorized).Message)
			c.Abort()
			return
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextUsername, session.Username)
		c.Next()
	}
}

// CurrentUserID 从上下文中取出已认证用户的ID
// 只应在RequireAuth之后的处理器中调用
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
