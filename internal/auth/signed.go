package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SignedStore は改ざん検知付きでクライアント側に保持されるキーバリューストアです。
// 認証コアはこのインターフェースだけに依存し、具体的なクッキー実装は知りません。
type SignedStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear(key string)
	Save() error
}

// cookieSignedStore は gin-contrib/sessions のクッキーセッションによる実装です。
type cookieSignedStore struct {
	sess sessions.Session
}

func newCookieSignedStore(c *gin.Context) SignedStore {
	return &cookieSignedStore{sess: sessions.Default(c)}
}

func (s *cookieSignedStore) Get(key string) (string, bool) {
	v, ok := s.sess.Get(key).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *cookieSignedStore) Set(key, value string) {
	s.sess.Set(key, value)
}

func (s *cookieSignedStore) Clear(key string) {
	s.sess.Delete(key)
}

func (s *cookieSignedStore) Save() error {
	return s.sess.Save()
}
