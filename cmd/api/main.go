// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"crypto/sha256"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/dash-auth/internal/auth"
	"github.com/yourusername/dash-auth/internal/config"
	"github.com/yourusername/dash-auth/internal/store"
	"github.com/yourusername/dash-auth/internal/store/postgres"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// データベース接続（起動時に到達できなければ即終了する）
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to database %q on %s", cfg.DBDatabase, cfg.DBHost)

	// スキーマの適用
	if err := postgres.Migrate(ctx, cfg.DSN()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "./web/static")

	// セッションストアの設定（署名鍵と、秘密鍵から導出した暗号化鍵のペア）
	// 暗号化鍵を渡すことでセッションの中身がクライアント側で読めなくなる
	encryptionKey := sha256.Sum256([]byte(cfg.SessionSecret))
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret), encryptionKey[:])
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, postgres.NewStore(pool))

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dash-auth-api",
		"version": "0.1.0",
	})
}

// setupRoutes は認証まわりの配線を行います。
func setupRoutes(router *gin.Engine, credentials store.Store) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	manager := auth.NewManager(credentials)

	router.GET("/register", manager.RegisterForm)
	router.POST("/register", manager.Register)
	router.GET("/login", manager.LoginForm)
	router.POST("/login", manager.Login)
	router.GET("/success", manager.RequireLogin(), manager.Success)
	router.GET("/logout", manager.Logout)
}
