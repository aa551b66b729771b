package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/authgate/internal/account"
)

// WithSession はリクエスト単位の Session を作成して gin コンテキストに載せる
// ミドルウェアを返します。以降のミドルウェアとハンドラーはこの Session を共有し、
// 現在アカウントの解決はリクエスト内で最大1回になります。
func (m *Manager) WithSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := NewSession(m.store, m.gen, newCookieSignedStore(c))
		c.Set(contextSessionKey, s)
		c.Next()
	}
}

// session はコンテキストからリクエスト単位の Session を取り出します。
// WithSession が先に配線されていることが前提です。
func (m *Manager) session(c *gin.Context) *Session {
	v, _ := c.Get(contextSessionKey)
	s, _ := v.(*Session)
	return s
}

// Guard はCSRF検証とトークン付与を行うミドルウェアを返します。
// 更新系リクエストの検証はハンドラー実行前に行い、失敗時はチェーンを打ち切ります。
// トークンヘッダーは検証の成否にかかわらず毎レスポンスに付与するため、
// クライアントは常に次のリクエストで使える新しいトークンを受け取れます。
func (m *Manager) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		signed := m.session(c).signed

		ok := m.csrf.Validate(c, signed)
		if err := m.csrf.Attach(c, signed); err != nil {
			m.logger.Printf("failed to attach csrf token: %v", err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"code":    "INVALID_AUTHENTICITY_TOKEN",
				"message": "CSRF トークンが一致しません",
			})
			return
		}

		c.Next()
	}
}

// RequireAccount は認証必須のエンドポイントを保護するミドルウェアを返します。
// 現在のアカウントが解決できない場合は 401 で打ち切ります。
func (m *Manager) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		acct, err := m.session(c).Current(c.Request.Context())
		if err != nil {
			m.logger.Printf("failed to resolve current account: %v", err)
			abortServerError(c)
			return
		}
		if acct == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "ログインが必要です",
			})
			return
		}

		c.Set(ContextAccountKey, acct)
		c.Next()
	}
}

// CurrentAccount はコンテキストからログイン済みアカウントを取り出します。
// RequireAccount を通過したハンドラーから利用します。
func CurrentAccount(c *gin.Context) (*account.Account, bool) {
	v, ok := c.Get(ContextAccountKey)
	if !ok {
		return nil, false
	}
	acct, ok := v.(*account.Account)
	return acct, ok
}

// abortServerError は想定外の障害を汎用の500レスポンスに変換します。
// 詳細はサーバーログにのみ残し、クライアントには渡しません。
func abortServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"title":   "Internal Server Error",
		"message": "サーバー内部でエラーが発生しました",
	})
}
