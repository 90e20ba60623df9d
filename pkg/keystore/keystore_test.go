package keystore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptKey(t *testing.T) {
	acct, err := Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	password := "secure-password"

	keyJSON, err := EncryptKey(acct, password)
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	if keyJSON.Crypto.Cipher != "aes-256-gcm" {
		t.Errorf("Expected cipher aes-256-gcm, got %s", keyJSON.Crypto.Cipher)
	}
	if keyJSON.Address != acct.Address.Hex() {
		t.Errorf("Address mismatch in envelope: %s", keyJSON.Address)
	}

	// Decrypt with correct password
	restored, err := DecryptKey(keyJSON, password)
	if err != nil {
		t.Fatalf("Decryption failed: %v", err)
	}
	if restored.Address != acct.Address {
		t.Errorf("Restored address mismatch: %s vs %s", restored.Address.Hex(), acct.Address.Hex())
	}

	// Decrypt with wrong password
	if _, err := DecryptKey(keyJSON, "wrong-password"); err == nil {
		t.Error("Expected error with wrong password, got nil")
	}
}

func TestChecksumDetectsTampering(t *testing.T) {
	acct, _ := Create()
	keyJSON, err := EncryptKey(acct, "pw")
	if err != nil {
		t.Fatalf("Encryption failed: %v", err)
	}

	// 改一个密文字节, checksum 必须先于解密拦下来
	b := []byte(keyJSON.Crypto.Ciphertext)
	if b[0] == 'a' {
		b[0] = 'b'
	} else {
		b[0] = 'a'
	}
	keyJSON.Crypto.Ciphertext = string(b)

	if _, err := DecryptKey(keyJSON, "pw"); err == nil {
		t.Error("Expected checksum/auth failure on tampered ciphertext")
	}
}

func TestFileSaveLoad(t *testing.T) {
	acct, _ := Create()
	password := "123456"
	filename := filepath.Join(t.TempDir(), "test_wallet.json")

	keyJSON, err := EncryptKey(acct, password)
	if err != nil {
		t.Fatalf("EncryptKey failed: %v", err)
	}

	if err := keyJSON.SaveToFile(filename); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("keystore file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromFile(filename)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Id != keyJSON.Id {
		t.Errorf("ID mismatch after load")
	}

	restored, err := DecryptKey(loaded, password)
	if err != nil {
		t.Fatalf("Decrypt loaded failed: %v", err)
	}
	if restored.Address != acct.Address {
		t.Errorf("Content mismatch")
	}
}
