package secrets

import (
	"bytes"
	"testing"
)

func TestSigningKeyIsStableAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir).SigningKey()
	if err != nil {
		t.Fatalf("first SigningKey: %v", err)
	}
	if len(first) != signingKeyLen {
		t.Fatalf("key length = %d, want %d", len(first), signingKeyLen)
	}

	second, err := New(dir).SigningKey()
	if err != nil {
		t.Fatalf("second SigningKey: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("signing key changed between loads")
	}
}

func TestSigningKeysDifferPerDirectory(t *testing.T) {
	a, err := New(t.TempDir()).SigningKey()
	if err != nil {
		t.Fatalf("SigningKey: %v", err)
	}
	b, err := New(t.TempDir()).SigningKey()
	if err != nil {
		t.Fatalf("SigningKey: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("independent stores produced the same key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := []byte("attached segment")
	ct, err := encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(ct, plain) {
		t.Fatal("ciphertext equals plaintext")
	}
	got, err := decrypt(ct)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: %q", got)
	}
	if _, err := decrypt(ct[:4]); err == nil {
		t.Fatal("short ciphertext should fail")
	}
}
