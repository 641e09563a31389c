package auth

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// 未ログインや期限切れはエラーではなく、ログイン画面へのリダイレクトとして扱います。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, ok := session.Get(sessionKeyUsername).(string)
		if !ok || username == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// 発行から24時間を超えたセッションは存在しないものとして破棄する
		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		if issuedAt.IsZero() || time.Since(issuedAt) > sessionLifetime {
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			_ = session.Save()
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, username)
		c.Next()
	}
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
