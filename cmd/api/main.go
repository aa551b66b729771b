// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/authgate/internal/account"
	"github.com/yourusername/authgate/internal/auth"
	"github.com/yourusername/authgate/internal/config"
)

// cookieLifetime はセッションクッキーの MaxAge です。
// トークン自体に有効期限はなく、ローテーションで失効します。
const cookieLifetime = 30 * 24 * time.Hour

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// アカウントストアを開く
	store, err := account.OpenSQLite(context.Background(), cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open account store: %v", err)
	}
	defer store.Close()

	// Ginルーターの初期化
	router := gin.New()
	router.Use(gin.Logger())
	// 想定外の障害は構造化された500レスポンスに変換し、詳細はログにのみ残す
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Printf("panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"title":   "Internal Server Error",
			"message": "サーバー内部でエラーが発生しました",
		})
	}))

	// セッションストアの設定（クッキー署名鍵は必須）
	cookieStore := cookie.NewStore([]byte(cfg.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cookieLifetime.Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, cookieStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"X-CSRF-Token", // CSRF保護用ヘッダー
	}
	// フロントエンドがレスポンスヘッダーから CSRF トークンを読み取れるように公開
	corsConfig.ExposeHeaders = []string{"X-CSRF-Token"}
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, cfg, store, logger)

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "authgate-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, store account.Store, logger *log.Logger) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	manager := auth.NewManager(cfg, store, logger)

	// CSRF検証はすべてのハンドラーより前、トークン付与はすべてのレスポンスで行う
	api := router.Group("/api")
	api.Use(manager.WithSession(), manager.Guard())
	{
		api.POST("/accounts", manager.Signup)

		session := api.Group("/session")
		{
			session.GET("", manager.RequireAccount(), manager.SessionShow)
			session.POST("", manager.SessionCreate)
			session.DELETE("", manager.SessionDestroy)
		}
	}
}
