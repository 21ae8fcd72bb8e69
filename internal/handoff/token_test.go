package handoff

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/wizard"
)

func testContract(t *testing.T) wizard.SignedContract {
	t.Helper()
	plan, ok := models.PlanByID("intermediario")
	if !ok {
		t.Fatal("intermediario missing from catalog")
	}
	return wizard.SignedContract{
		Plan:       plan,
		Dependents: []models.Person{{FullName: "Ana"}, {FullName: "Bia"}},
		Signature:  "data:image/png;base64,iVBORw0KGgo=",
	}
}

func fixedIssuer(now time.Time) *Issuer {
	i := NewIssuer("test-secret", 15*time.Minute)
	i.now = func() time.Time { return now }
	return i
}

func TestIssueAndValidate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer(now)
	c := testContract(t)

	token, err := issuer.Issue("session-1", c)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.SessionID != "session-1" || claims.Subject != "session-1" {
		t.Errorf("session = %q / %q, want session-1", claims.SessionID, claims.Subject)
	}
	if claims.PlanID != "intermediario" {
		t.Errorf("PlanID = %q, want intermediario", claims.PlanID)
	}
	if claims.Dependents != 2 {
		t.Errorf("Dependents = %d, want 2", claims.Dependents)
	}
	if claims.SignatureDigest != SignatureDigest(c.Signature) {
		t.Errorf("SignatureDigest = %q", claims.SignatureDigest)
	}
	if strings.Contains(token, "iVBORw0KGgo") {
		t.Error("token leaks the raw signature")
	}
	if !claims.ExpiresAt.Equal(now.Add(15 * time.Minute)) {
		t.Errorf("ExpiresAt = %v", claims.ExpiresAt)
	}
}

func TestValidateRejects(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer(now)
	token, err := issuer.Issue("session-1", testContract(t))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	t.Run("expired", func(t *testing.T) {
		late := fixedIssuer(now.Add(16 * time.Minute))
		if _, err := late.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewIssuer("other-secret", time.Minute)
		other.now = issuer.now
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		if _, err := issuer.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := issuer.Validate(""); !errors.Is(err, ErrMissingToken) {
			t.Errorf("error = %v, want ErrMissingToken", err)
		}
	})
}

func TestCheckoutURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://checkout.exemplo.com", "https://checkout.exemplo.com?token=abc"},
		{"https://checkout.exemplo.com/pay?ref=quiz", "https://checkout.exemplo.com/pay?ref=quiz&token=abc"},
		{"https://checkout.exemplo.com/?token=old", "https://checkout.exemplo.com/?token=abc"},
	}
	for _, tt := range tests {
		got, err := CheckoutURL(tt.base, "abc")
		if err != nil {
			t.Fatalf("CheckoutURL(%q) failed: %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("CheckoutURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}

	if _, err := CheckoutURL("://bad", "abc"); err == nil {
		t.Error("expected error for malformed base URL")
	}
}

func TestNavigator(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer(now)

	got, err := issuer.Navigator("https://checkout.exemplo.com", "s-42")(context.Background(), testContract(t))
	if err != nil {
		t.Fatalf("Navigator failed: %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", got, err)
	}
	claims, err := issuer.Validate(u.Query().Get("token"))
	if err != nil {
		t.Fatalf("token in URL does not validate: %v", err)
	}
	if claims.SessionID != "s-42" {
		t.Errorf("SessionID = %q, want s-42", claims.SessionID)
	}
}

func TestSignatureDigest(t *testing.T) {
	d := SignatureDigest("abc")
	if len(d) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(d))
	}
	if d != SignatureDigest("abc") || d == SignatureDigest("abd") {
		t.Error("digest is not a deterministic function of the signature")
	}
}
