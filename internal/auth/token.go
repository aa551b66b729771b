package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/yourusername/authgate/internal/account"
)

const tokenBytes = 32

// Generator はセッショントークンを生成します。
type Generator struct {
	store account.Store
}

// NewGenerator はトークンジェネレーターを作成します。
func NewGenerator(store account.Store) *Generator {
	return &Generator{store: store}
}

// Generate は URL セーフな256ビットのランダムトークンを生成します。
// ストア内の既存トークンと衝突しないことを確認し、衝突した場合は
// 毎回新しい乱数を引き直して再試行します。
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for {
		buf := make([]byte, tokenBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		token := hex.EncodeToString(buf)

		existing, err := g.store.FindByToken(ctx, token)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return token, nil
		}
	}
}
