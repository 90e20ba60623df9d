package crypto_util

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptAESGCM(t *testing.T) {
	key := make([]byte, 32)
	copy(key, []byte("0123456789abcdef0123456789abcdef"))
	plaintext := []byte("eaa3c90bd0f998caaa970032da17758a")

	ciphertext, err := EncryptAESGCM(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := DecryptAESGCM(key, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("roundtrip mismatch: got %q", decrypted)
	}
}

func TestDecryptAESGCMWrongKey(t *testing.T) {
	key := make([]byte, 32)
	ciphertext, err := EncryptAESGCM(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	wrong := make([]byte, 32)
	wrong[0] = 1
	if _, err := DecryptAESGCM(wrong, ciphertext); err == nil {
		t.Error("expected authentication failure with wrong key")
	}
}

func TestDecryptAESGCMTampered(t *testing.T) {
	key := make([]byte, 32)
	ciphertext, err := EncryptAESGCM(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := DecryptAESGCM(key, ciphertext); err == nil {
		t.Error("expected authentication failure on tampered ciphertext")
	}
}
