package account

import (
	"context"
	"errors"
)

// 一意制約違反を表すセンチネルエラー。
var (
	ErrDuplicateEmail    = errors.New("email is already taken")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrDuplicateToken    = errors.New("session token is already taken")
)

// Store はアカウントストアのインターフェースです。
// Find 系はアカウントが存在しない場合に (nil, nil) を返します。
// email, username, session_token の一意性はストア側で保証します。
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByToken(ctx context.Context, token string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Save(ctx context.Context, a *Account) error
}
