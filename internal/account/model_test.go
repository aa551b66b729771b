package account

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewAssignsTokenBeforeValidation(t *testing.T) {
	a := New("usr@email.io", "usr", "hash", "token-1")
	if a.ID == "" {
		t.Fatal("expected an id")
	}
	if a.SessionToken != "token-1" {
		t.Fatalf("unexpected token: %q", a.SessionToken)
	}
	if violations := a.Validate(); len(violations) != 0 {
		t.Fatalf("expected no violations: %#v", violations)
	}
}

func TestValidateShortUsername(t *testing.T) {
	a := New("usr@email.io", "ab", "hash", "token-1")
	violations := a.Validate()
	if len(violations) != 1 {
		t.Fatalf("expected exactly one violation: %#v", violations)
	}
	if violations[0].Field != "username" {
		t.Fatalf("expected a username violation: %#v", violations[0])
	}
	if !strings.Contains(violations[0].Message, "3") {
		t.Fatalf("message should mention the length limit: %q", violations[0].Message)
	}
}

func TestValidateUsernameMustNotBeEmail(t *testing.T) {
	a := New("usr@email.io", "usr@email.io", "hash", "token-1")
	violations := a.Validate()
	if len(violations) != 1 || violations[0].Field != "username" {
		t.Fatalf("expected a username violation: %#v", violations)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	a := New("not-an-email", "usr", "hash", "token-1")
	violations := a.Validate()
	if len(violations) != 1 || violations[0].Field != "email" {
		t.Fatalf("expected an email violation: %#v", violations)
	}
}

func TestValidateLongEmail(t *testing.T) {
	local := strings.Repeat("a", 250)
	a := New(local+"@email.io", "usr", "hash", "token-1")
	violations := a.Validate()
	if len(violations) != 1 || violations[0].Field != "email" {
		t.Fatalf("expected an email length violation: %#v", violations)
	}
}

func TestValidateEmptyAccount(t *testing.T) {
	a := New("", "", "", "")
	violations := a.Validate()
	fields := map[string]bool{}
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"email", "username", "password", "sessionToken"} {
		if !fields[want] {
			t.Fatalf("expected a violation for %s: %#v", want, violations)
		}
	}
}

func TestLooksLikeEmail(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"usr@email.io", true},
		{"user.name+tag@domain.co.jp", true},
		{"usr", false},
		{"a@b", false},
		{"@email.io", false},
		{"usr@", false},
		{"usr @email.io", false},
	}
	for _, tc := range cases {
		if got := LooksLikeEmail(tc.input); got != tc.want {
			t.Fatalf("LooksLikeEmail(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestJSONNeverExposesSecrets(t *testing.T) {
	a := New("usr@email.io", "usr", "bcrypt-digest", "secret-token")

	for name, v := range map[string]any{"account": a, "public": a.Public()} {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal %s: %v", name, err)
		}
		body := string(data)
		if strings.Contains(body, "bcrypt-digest") || strings.Contains(body, "secret-token") {
			t.Fatalf("%s serialization leaks secrets: %s", name, body)
		}
	}

	data, _ := json.Marshal(a.Public())
	var keys map[string]any
	if err := json.Unmarshal(data, &keys); err != nil {
		t.Fatalf("failed to parse public view: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("public view must contain exactly id, email, username: %s", data)
	}
}
