package auth

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/yourusername/authgate/internal/account"
)

type collidingStore struct {
	memoryStore
	remaining int
	queried   []string
}

func (s *collidingStore) FindByToken(ctx context.Context, token string) (*account.Account, error) {
	s.queried = append(s.queried, token)
	if s.remaining > 0 {
		s.remaining--
		return &account.Account{SessionToken: token}, nil
	}
	return nil, nil
}

func TestGenerateFormat(t *testing.T) {
	gen := NewGenerator(&memoryStore{})

	token, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(token) != tokenBytes*2 {
		t.Fatalf("unexpected token length: %d", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}

	second, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == second {
		t.Fatal("two generated tokens are identical")
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	store := &collidingStore{remaining: 2}
	gen := NewGenerator(store)

	token, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token after collisions")
	}
	if len(store.queried) != 3 {
		t.Fatalf("expected 3 store lookups, got %d", len(store.queried))
	}
	// 再試行のたびに乱数を引き直していること
	if store.queried[0] == store.queried[1] {
		t.Fatal("same candidate was retried")
	}
	if store.queried[2] != token {
		t.Fatalf("returned token was not the last checked candidate")
	}
}
