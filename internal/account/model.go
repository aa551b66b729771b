// Package account はアカウントのモデル、バリデーション、永続化を提供します。
package account

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	minEmailLen    = 3
	maxEmailLen    = 255
	minUsernameLen = 3
	maxUsernameLen = 30
)

// emailPattern はメールアドレスの厳密な形式チェックに使用します（HTML5 の email input と同等）。
var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		`[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
		`(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// Account はログイン可能なアカウントを表します。
// PasswordHash と SessionToken は API レスポンスに含めてはいけません。
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	SessionToken string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// New はアカウントを構築します。
// セッショントークンはバリデーションより前に、構築の一部として必ず割り当てます。
func New(email, username, passwordHash, sessionToken string) *Account {
	return &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		SessionToken: sessionToken,
		CreatedAt:    time.Now().UTC(),
	}
}

// LooksLikeEmail は文字列がメールアドレス形式かどうかを判定します。
// ログイン識別子の分類（email か username か）にも使用します。
func LooksLikeEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidationError はフィールド単位のバリデーション違反です。
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate はアカウントの全フィールドを検証し、違反の一覧を返します。
// 違反がなければ空のスライスを返します。
func (a *Account) Validate() []ValidationError {
	var errs []ValidationError

	switch {
	case a.Email == "":
		errs = append(errs, ValidationError{Field: "email", Message: "メールアドレスを入力してください"})
	case len(a.Email) < minEmailLen || len(a.Email) > maxEmailLen:
		errs = append(errs, ValidationError{Field: "email", Message: "メールアドレスは3文字以上255文字以内で入力してください"})
	case !LooksLikeEmail(a.Email):
		errs = append(errs, ValidationError{Field: "email", Message: "メールアドレスの形式が正しくありません"})
	}

	switch {
	case a.Username == "":
		errs = append(errs, ValidationError{Field: "username", Message: "ユーザー名を入力してください"})
	case len(a.Username) < minUsernameLen || len(a.Username) > maxUsernameLen:
		errs = append(errs, ValidationError{Field: "username", Message: "ユーザー名は3文字以上30文字以内で入力してください"})
	case LooksLikeEmail(a.Username):
		errs = append(errs, ValidationError{Field: "username", Message: "ユーザー名にメールアドレス形式は使用できません"})
	}

	if a.PasswordHash == "" {
		errs = append(errs, ValidationError{Field: "password", Message: "パスワードを入力してください"})
	}

	// 構築時に割り当てられるため通常は空にならない
	if a.SessionToken == "" {
		errs = append(errs, ValidationError{Field: "sessionToken", Message: "セッショントークンが割り当てられていません"})
	}

	return errs
}

// PublicAccount は API レスポンス用のアカウント表現です。
type PublicAccount struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Public は秘密情報を含まない表現を返します。
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
	}
}
