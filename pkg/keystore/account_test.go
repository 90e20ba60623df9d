package keystore

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestCreate(t *testing.T) {
	acct, err := Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if acct.PrivateKey == nil {
		t.Fatal("Create returned nil key")
	}
	if acct.Address == (common.Address{}) {
		t.Error("Create returned zero address")
	}

	// 两次生成不能撞
	acct2, err := Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if acct.Address == acct2.Address {
		t.Error("two generated accounts share an address")
	}
}

// 向量来自 original_source 的一次性测试账户 (早已弃用, 无资产)。
func TestImportKnownVector(t *testing.T) {
	priv := "eaa3c90bd0f998caaa970032da17758a9cf41d47fadec2203b3927e3331ae50b"
	wantAddr := "0x6CA38c708c1F82eAED6520bEA36a224411297cda"

	acct, err := Import(priv)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if acct.Address.Hex() != wantAddr {
		t.Errorf("address = %s, want %s", acct.Address.Hex(), wantAddr)
	}

	// 0x 前缀等价
	acct2, err := Import("0x" + priv)
	if err != nil {
		t.Fatalf("Import with 0x prefix failed: %v", err)
	}
	if acct2.Address != acct.Address {
		t.Error("prefix handling changed the derived address")
	}
}

func TestImportInvalid(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"not hex", "zz" + strings.Repeat("00", 31)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"zero scalar", strings.Repeat("00", 32)},
		{"above curve order", strings.Repeat("ff", 32)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Import(c.key); err == nil {
				t.Errorf("Import(%s) succeeded, want ErrInvalidKey", c.name)
			}
		})
	}
}

func TestZero(t *testing.T) {
	acct, err := Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	acct.Zero()
	if acct.PrivateKey != nil {
		t.Error("Zero did not clear the key reference")
	}
}
