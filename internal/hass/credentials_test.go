package hass

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"
)

// makeToken assembles an HS256-shaped JWT with the given claims. The
// signature segment is garbage; InspectToken never verifies it.
func makeToken(t *testing.T, issuer string, issued, expires time.Time) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(fmt.Sprintf(
		`{"iss":%q,"iat":%d,"exp":%d}`, issuer, issued.Unix(), expires.Unix())))
	return header + "." + payload + "." + enc.EncodeToString([]byte("sig"))
}

func TestInspectToken(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := issued.AddDate(10, 0, 0)
	token := makeToken(t, "abc123", issued, expires)

	info, err := InspectToken(token)
	if err != nil {
		t.Fatalf("InspectToken: %v", err)
	}
	if info.Issuer != "abc123" {
		t.Errorf("issuer: got %q", info.Issuer)
	}
	if !info.IssuedAt.Equal(issued) {
		t.Errorf("issued at: got %s, want %s", info.IssuedAt, issued)
	}
	if !info.ExpiresAt.Equal(expires) {
		t.Errorf("expires at: got %s, want %s", info.ExpiresAt, expires)
	}
	if info.Expired(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("token reported expired before its exp claim")
	}
	if !info.Expired(expires.Add(time.Hour)) {
		t.Error("token not reported expired after its exp claim")
	}
}

func TestInspectTokenRejectsGarbage(t *testing.T) {
	if _, err := InspectToken("not-a-jwt"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestTokenWithoutExpiryNeverExpires(t *testing.T) {
	info := TokenInfo{Issuer: "abc"}
	if info.Expired(time.Now()) {
		t.Error("zero expiry reported as expired")
	}
}
