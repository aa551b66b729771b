package auth

import (
	"context"

	"github.com/yourusername/authgate/internal/account"
)

// Session は1リクエスト分の認証状態を表します。
// 現在のアカウントはリクエスト内で最大1回だけ解決され、結果はメモ化されます。
// Session はリクエストと同じ寿命を持ち、リクエストをまたいで共有してはいけません。
type Session struct {
	store  account.Store
	gen    *Generator
	signed SignedStore

	resolved bool
	current  *account.Account
}

// NewSession はリクエスト単位のセッションを作成します。
func NewSession(store account.Store, gen *Generator, signed SignedStore) *Session {
	return &Session{
		store:  store,
		gen:    gen,
		signed: signed,
	}
}

// Current は署名付きストアのトークンから現在のアカウントを解決します。
// 初回呼び出しで解決した結果をメモ化し、同一リクエスト内の2回目以降は
// ストアに問い合わせず同じ値を返します。該当アカウントがなければ nil です。
func (s *Session) Current(ctx context.Context) (*account.Account, error) {
	if s.resolved {
		return s.current, nil
	}

	token, ok := s.signed.Get(sessionKeyToken)
	if !ok {
		s.current = nil
		s.resolved = true
		return nil, nil
	}

	acct, err := s.store.FindByToken(ctx, token)
	if err != nil {
		// ストア障害時はメモ化しない（検証されていない none を残さない）
		return nil, err
	}

	s.current = acct
	s.resolved = true
	return acct, nil
}

// Login はアカウントのセッショントークンを新しい値にローテーションして永続化し、
// 署名付きストアに書き込みます。CSRFシードもセッション固定化対策として張り替えます。
// 永続化に失敗した場合はエラーを返し、呼び出し側は成功レスポンスを返してはいけません。
func (s *Session) Login(ctx context.Context, acct *account.Account) (string, error) {
	token, err := s.gen.Generate(ctx)
	if err != nil {
		return "", err
	}
	seed, err := newCSRFSeed()
	if err != nil {
		return "", err
	}

	acct.SessionToken = token
	if err := s.store.Save(ctx, acct); err != nil {
		return "", err
	}

	s.signed.Set(sessionKeyToken, token)
	s.signed.Set(sessionKeyCSRFSeed, seed)
	if err := s.signed.Save(); err != nil {
		return "", err
	}

	s.current = acct
	s.resolved = true
	return token, nil
}

// Logout は現在のアカウントがあればトークンをローテーションして旧値を無効化し、
// 署名付きストアからトークンを必ず削除します。アカウント未解決でも安全に呼べます。
// 以降このリクエスト内の Current は nil を返します。
func (s *Session) Logout(ctx context.Context) error {
	cur, err := s.Current(ctx)
	if err != nil {
		return err
	}

	if cur != nil {
		token, err := s.gen.Generate(ctx)
		if err != nil {
			return err
		}
		cur.SessionToken = token
		if err := s.store.Save(ctx, cur); err != nil {
			return err
		}
	}

	seed, err := newCSRFSeed()
	if err != nil {
		return err
	}
	s.signed.Clear(sessionKeyToken)
	s.signed.Set(sessionKeyCSRFSeed, seed)
	if err := s.signed.Save(); err != nil {
		return err
	}

	s.current = nil
	s.resolved = true
	return nil
}
