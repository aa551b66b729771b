package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	session_token TEXT NOT NULL UNIQUE,
	created_at    TIMESTAMP NOT NULL
);`

// SQLiteStore は Store の SQLite 実装です。
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite はアカウントストアを開き、スキーマを初期化します。
// path に ":memory:" を渡すとインメモリDBになります（テスト用）。
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite は書き込みが単一writerのため接続数を1に固定する
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close はDB接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// FindByEmail はメールアドレスでアカウントを検索します。
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return s.findBy(ctx, "email", email)
}

// FindByUsername はユーザー名でアカウントを検索します。
func (s *SQLiteStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return s.findBy(ctx, "username", username)
}

// FindByToken はセッショントークンでアカウントを検索します。
func (s *SQLiteStore) FindByToken(ctx context.Context, token string) (*Account, error) {
	return s.findBy(ctx, "session_token", token)
}

func (s *SQLiteStore) findBy(ctx context.Context, column, value string) (*Account, error) {
	query := `
		SELECT id, email, username, password_hash, session_token, created_at
		FROM accounts
		WHERE ` + column + ` = ?
	`

	a := &Account{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&a.ID,
		&a.Email,
		&a.Username,
		&a.PasswordHash,
		&a.SessionToken,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query account by %s: %w", column, err)
	}

	return a, nil
}

// Create は新規アカウントを保存します。
// 一意制約違反は ErrDuplicateEmail / ErrDuplicateUsername / ErrDuplicateToken を返します。
func (s *SQLiteStore) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (id, email, username, password_hash, session_token, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.Email,
		a.Username,
		a.PasswordHash,
		a.SessionToken,
		a.CreatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Save は既存アカウントを更新します。
// セッショントークンのローテーションは1回のUPDATEで行われ、中間状態は観測されません。
func (s *SQLiteStore) Save(ctx context.Context, a *Account) error {
	query := `
		UPDATE accounts
		SET email = ?, username = ?, password_hash = ?, session_token = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		a.Email,
		a.Username,
		a.PasswordHash,
		a.SessionToken,
		a.ID,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account not found: %s", a.ID)
	}

	return nil
}

// duplicateError は一意制約違反をセンチネルエラーに変換します。該当しなければ nil。
func duplicateError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "accounts.email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "accounts.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "accounts.session_token"):
		return ErrDuplicateToken
	}
	return nil
}
