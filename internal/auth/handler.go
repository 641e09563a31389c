// Package auth はダッシュボードの認証フロー（登録・ログイン・ログアウト）を提供します。
package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/dash-auth/internal/store"
)

const (
	SessionCookieName  = "da_session"
	sessionKeySID      = "session_id"
	sessionKeyUserID   = "user_id"
	sessionKeyUsername = "auth_user"
	sessionKeyIssuedAt = "issued_at"
)

// セッションの寿命は発行時刻からの絶対値で、アクセスによる延長はありません。
var sessionLifetime = 24 * time.Hour

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds() int {
	return int(sessionLifetime.Seconds())
}

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Manager は認証フローをまとめた構造体です。
type Manager struct {
	store store.Store
}

// NewManager は認証マネージャーを作成します。
func NewManager(credentials store.Store) *Manager {
	return &Manager{store: credentials}
}

// RegisterForm は GET /register のハンドラーです。
func (m *Manager) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// LoginForm は GET /login のハンドラーです。
func (m *Manager) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// Register は POST /register のハンドラーです。
// 成功してもセッションは作らず、ログイン画面へ誘導します。
func (m *Manager) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.String(http.StatusBadRequest, "Usuário e senha são obrigatórios.")
		return
	}

	digest, err := HashPassword(password)
	if err != nil {
		c.String(http.StatusInternalServerError, "Erro no servidor.")
		return
	}

	if _, err := m.store.CreateUser(c.Request.Context(), username, digest); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			c.String(http.StatusBadRequest, "Usuário já existe.")
			return
		}
		c.String(http.StatusInternalServerError, "Erro ao registrar usuário.")
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := m.store.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// 未知のユーザー名とパスワード誤りは同一応答にする（ユーザー列挙対策）
			c.String(http.StatusUnauthorized, "Usuário ou senha incorretos.")
			return
		}
		c.String(http.StatusInternalServerError, "Erro no servidor.")
		return
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// 保存済みダイジェストが壊れている場合は資格情報エラーではなくサーバーエラー
		c.String(http.StatusInternalServerError, "Erro no servidor.")
		return
	}
	if !ok {
		c.String(http.StatusUnauthorized, "Usuário ou senha incorretos.")
		return
	}

	// セッション識別子はログ用の不透明な値で、ハンドラーが解釈することはない
	sid := uuid.NewString()

	session := sessions.Default(c)
	session.Set(sessionKeySID, sid)
	session.Set(sessionKeyUserID, user.ID)
	session.Set(sessionKeyUsername, user.Username)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Erro no servidor.")
		return
	}

	log.Printf("login: session %s established", sid)
	c.Redirect(http.StatusFound, "/success")
}

// Success は GET /success のハンドラーです。
// ユーザー名はセッションから取り出し、ストアへの再照会は行いません。
func (m *Manager) Success(c *gin.Context) {
	c.HTML(http.StatusOK, "success.html", gin.H{
		"username": c.GetString(ContextUserKey),
	})
}

// Logout は GET /logout のハンドラーです。
// セッションが無い状態で呼ばれても成功します（冪等）。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	sid, _ := session.Get(sessionKeySID).(string)

	session.Clear()
	// MaxAge を負にしてクライアント側のクッキーも破棄させる
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Erro no servidor.")
		return
	}

	if sid != "" {
		log.Printf("logout: session %s destroyed", sid)
	}
	c.Redirect(http.StatusFound, "/login")
}
