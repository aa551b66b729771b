// Package auth はセッショントークン方式の認証機能を提供します。
//
// ログインでアカウントに紐づくトークンをローテーションして発行し、署名付き
// クッキーセッション経由でクライアントに渡します。リクエストごとの本人解決、
// CSRF保護、認証必須ガードもこのパッケージが担います。
package auth

import (
	"log"
	"net/http"

	"github.com/yourusername/authgate/internal/account"
	"github.com/yourusername/authgate/internal/config"
)

const (
	SessionCookieName  = "ag_session"
	sessionKeyToken    = "account_token"
	sessionKeyCSRFSeed = "csrf_seed"

	csrfHeader    = "X-CSRF-Token"
	csrfFormField = "authenticity_token"
)

// ContextAccountKey は、ハンドラー間でログイン済みアカウントを共有するためのキーです。
const ContextAccountKey = "auth.account"

// contextSessionKey はリクエスト単位の Session を gin コンテキストに保持するキーです。
const contextSessionKey = "auth.session"

// Manager は認証コンポーネント一式をまとめ、ハンドラーとミドルウェアを提供します。
type Manager struct {
	cfg      *config.Config
	store    account.Store
	logger   *log.Logger
	verifier *Verifier
	gen      *Generator
	csrf     *CSRFGuard
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, store account.Store, logger *log.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		verifier: NewVerifier(store),
		gen:      NewGenerator(store),
		csrf:     NewCSRFGuard([]byte(cfg.SessionSecret)),
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
