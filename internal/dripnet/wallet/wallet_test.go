package wallet

import (
	"errors"
	"strings"
	"testing"
)

func TestCreate(t *testing.T) {
	w := New()

	creds, err := w.Create("pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if creds.Address.IsEmpty() {
		t.Error("created account has the empty address")
	}
	if words := len(strings.Fields(creds.Mnemonic)); words != mnemonicWords {
		t.Errorf("mnemonic has %d words, want %d", words, mnemonicWords)
	}
	if creds.MasterKey == "" || creds.PublicKey == "" || creds.Secret == "" {
		t.Error("credentials are missing key material")
	}
	if w.Count() != 1 {
		t.Errorf("Count = %d, want 1", w.Count())
	}
}

func TestCreateDistinctAccounts(t *testing.T) {
	w := New()

	a, err := w.Create("")
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	b, err := w.Create("")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	if a.Address == b.Address {
		t.Error("two accounts share an address")
	}
	if a.Mnemonic == b.Mnemonic {
		t.Error("two accounts share a mnemonic")
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
}

func TestRestore(t *testing.T) {
	w := New()

	created, err := w.Create("hunter2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	restored, err := w.Restore(created.Mnemonic, "hunter2")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Address != created.Address {
		t.Errorf("restored address %s, want %s", restored.Address.Hex(), created.Address.Hex())
	}
	if restored.PublicKey != created.PublicKey {
		t.Error("restored public key differs from the created one")
	}
}

func TestRestoreWrongPassphrase(t *testing.T) {
	w := New()

	created, err := w.Create("correct")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// a different passphrase derives a different seed, so the public key
	// does not match any registered account
	if _, err := w.Restore(created.Mnemonic, "wrong"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRestoreRejectsBadMnemonics(t *testing.T) {
	w := New()

	if _, err := w.Restore("", ""); !errors.Is(err, ErrMnemonicEmpty) {
		t.Errorf("empty mnemonic: got %v", err)
	}
	if _, err := w.Restore("only three words", ""); !errors.Is(err, ErrWrongWordsCount) {
		t.Errorf("short mnemonic: got %v", err)
	}
}

func TestRestoreUnknownMnemonic(t *testing.T) {
	w := New()

	mnemonic := strings.TrimSpace(strings.Repeat("abandon ", 23)) + " art"
	if _, err := w.Restore(mnemonic, ""); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("unknown mnemonic: got %v", err)
	}
}
