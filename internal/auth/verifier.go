package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/authgate/internal/account"
)

// Verifier はログイン識別子とパスワードを検証します。
type Verifier struct {
	store account.Store
}

// NewVerifier は Verifier を作成します。
func NewVerifier(store account.Store) *Verifier {
	return &Verifier{store: store}
}

// Verify は identifier（メールアドレスまたはユーザー名）を分類して該当の
// アカウントを1回だけ検索し、パスワードを bcrypt で照合します。
// 未登録の identifier とパスワード不一致はどちらも (nil, nil) を返し、
// 呼び出し側からは区別できません（アカウント列挙の防止）。
// 副作用はありません。セッショントークンには触れません。
func (v *Verifier) Verify(ctx context.Context, identifier, password string) (*account.Account, error) {
	var (
		acct *account.Account
		err  error
	)
	if account.LooksLikeEmail(identifier) {
		acct, err = v.store.FindByEmail(ctx, identifier)
	} else {
		acct, err = v.store.FindByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return acct, nil
}
