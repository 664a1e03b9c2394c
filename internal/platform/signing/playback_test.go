package signing

import (
	"net/url"
	"testing"
	"time"
)

func newSigner() *Signer { return New("test-signing-secret-32-bytes-ok!") }

const testMediaURL = "https://media.example.com/lessons/intro.mp4"

func TestSign_Verify_HappyPath(t *testing.T) {
	s := newSigner()
	exp := time.Now().Add(time.Hour)

	signed := s.Sign(testMediaURL, "user-1", exp)
	if !s.Verify(testMediaURL, "user-1", signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to return true for valid signature")
	}
}

func TestVerify_Expired(t *testing.T) {
	s := newSigner()
	signed := s.Sign(testMediaURL, "user-1", time.Now().Add(-time.Hour))
	if s.Verify(testMediaURL, "user-1", signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to return false for expired signature")
	}
}

func TestVerify_TamperedURL(t *testing.T) {
	s := newSigner()
	signed := s.Sign(testMediaURL, "user-1", time.Now().Add(time.Hour))
	if s.Verify(testMediaURL+"?x=1", "user-1", signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to fail for tampered URL")
	}
}

func TestVerify_DifferentUser(t *testing.T) {
	s := newSigner()
	signed := s.Sign(testMediaURL, "user-1", time.Now().Add(time.Hour))
	if s.Verify(testMediaURL, "user-2", signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to fail for different user")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	s1 := newSigner()
	s2 := New("different-secret-32-bytes-padded!!")
	signed := s1.Sign(testMediaURL, "user-1", time.Now().Add(time.Hour))
	if s2.Verify(testMediaURL, "user-1", signed.Exp, signed.Sig) {
		t.Fatal("expected Verify to fail with different secret")
	}
}

func TestBuildSignedURL_ExtractSigned_Roundtrip(t *testing.T) {
	s := newSigner()
	signed := s.Sign(testMediaURL, "user-42", time.Now().Add(time.Hour))

	deliveryURL, err := BuildSignedURL("https://delivery.example.com/media", signed)
	if err != nil {
		t.Fatalf("BuildSignedURL: %v", err)
	}

	u, _ := url.Parse(deliveryURL)
	rawURL, uid, exp, sig, err := ExtractSigned(u.Query())
	if err != nil {
		t.Fatalf("ExtractSigned: %v", err)
	}
	if rawURL != testMediaURL {
		t.Fatalf("expected URL %q, got %q", testMediaURL, rawURL)
	}
	if uid != "user-42" {
		t.Fatalf("expected uid 'user-42', got %q", uid)
	}
	if !s.Verify(rawURL, uid, exp, sig) {
		t.Fatal("extracted signature should verify successfully")
	}
}

func TestExtractSigned_MissingParams(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"missing url", url.Values{"uid": {"u"}, "exp": {"1"}, "sig": {"s"}}},
		{"missing uid", url.Values{"url": {"u"}, "exp": {"1"}, "sig": {"s"}}},
		{"missing exp", url.Values{"url": {"u"}, "uid": {"u"}, "sig": {"s"}}},
		{"missing sig", url.Values{"url": {"u"}, "uid": {"u"}, "exp": {"1"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, _, err := ExtractSigned(tt.values); err == nil {
				t.Fatal("expected error for missing param")
			}
		})
	}
}
