package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestFromToken_DecodesClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{
		"sub":   "u-42",
		"name":  "Sara",
		"email": "sara@example.com",
		"exp":   now.Add(time.Hour).Unix(),
	})

	identity := FromToken(token, now)
	if identity.Anonymous {
		t.Fatal("expected a signed-in identity")
	}
	if identity.UserID != "u-42" || identity.Name != "Sara" || identity.Email != "sara@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.DisplayName() != "Sara" {
		t.Fatalf("unexpected display name: %s", identity.DisplayName())
	}
}

func TestFromToken_ExpiredYieldsAnonymous(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{
		"sub": "u-42",
		"exp": now.Add(-time.Minute).Unix(),
	})

	if identity := FromToken(token, now); !identity.Anonymous {
		t.Fatalf("expected anonymous for expired token, got %+v", identity)
	}
}

func TestFromToken_NoExpiryIsAccepted(t *testing.T) {
	now := time.Now()
	token := signToken(t, jwt.MapClaims{"sub": "u-7"})

	identity := FromToken(token, now)
	if identity.Anonymous || identity.UserID != "u-7" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestFromToken_MalformedYieldsAnonymous(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		if identity := FromToken(raw, time.Now()); !identity.Anonymous {
			t.Fatalf("expected anonymous for %q, got %+v", raw, identity)
		}
	}
}

func TestFromToken_MissingSubjectYieldsAnonymous(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"name": "NoSub"})
	if identity := FromToken(token, time.Now()); !identity.Anonymous {
		t.Fatalf("expected anonymous without sub claim, got %+v", identity)
	}
}

func TestDisplayName_Fallbacks(t *testing.T) {
	if got := Anonymous.DisplayName(); got != "guest" {
		t.Fatalf("expected guest, got %s", got)
	}
	if got := (Identity{UserID: "u-1", Email: "a@b.c"}).DisplayName(); got != "a@b.c" {
		t.Fatalf("expected email fallback, got %s", got)
	}
	if got := (Identity{UserID: "u-1"}).DisplayName(); got != "u-1" {
		t.Fatalf("expected user id fallback, got %s", got)
	}
}

func TestCurrent_NoStoredSessionIsAnonymous(t *testing.T) {
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)

	if identity := Current(); !identity.Anonymous {
		t.Fatalf("expected anonymous without a stored session, got %+v", identity)
	}
}
