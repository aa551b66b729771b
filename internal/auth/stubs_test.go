package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/authgate/internal/account"
)

type memoryStore struct {
	accounts        []*account.Account
	emailLookups    int
	usernameLookups int
	tokenLookups    int
	saveCalls       int
	saveErr         error
}

func (s *memoryStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	s.emailLookups++
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	s.usernameLookups++
	for _, a := range s.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindByToken(ctx context.Context, token string) (*account.Account, error) {
	s.tokenLookups++
	for _, a := range s.accounts {
		if a.SessionToken == token {
			return a, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) Create(ctx context.Context, a *account.Account) error {
	for _, b := range s.accounts {
		if b.Email == a.Email {
			return account.ErrDuplicateEmail
		}
		if b.Username == a.Username {
			return account.ErrDuplicateUsername
		}
		if b.SessionToken == a.SessionToken {
			return account.ErrDuplicateToken
		}
	}
	s.accounts = append(s.accounts, a)
	return nil
}

func (s *memoryStore) Save(ctx context.Context, a *account.Account) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	for i, b := range s.accounts {
		if b.ID == a.ID {
			s.accounts[i] = a
			return nil
		}
	}
	return errors.New("account not found")
}

type fakeSignedStore struct {
	values  map[string]string
	saveErr error
	saves   int
}

func newFakeSignedStore() *fakeSignedStore {
	return &fakeSignedStore{values: map[string]string{}}
}

func (f *fakeSignedStore) Get(key string) (string, bool) {
	v, ok := f.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (f *fakeSignedStore) Set(key, value string) {
	f.values[key] = value
}

func (f *fakeSignedStore) Clear(key string) {
	delete(f.values, key)
}

func (f *fakeSignedStore) Save() error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}
