// Package wallet creates and restores developer accounts for the faucet's
// frontend collaborators. Keys never leave the caller: the wallet keeps
// only the public-key to address mapping needed for Restore.
package wallet

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/types"

	base58 "github.com/jbenet/go-base58"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"
)

func wltlogger() *zap.SugaredLogger {
	return logger.Named("wallet")
}

// Error constants
var (
	ErrMnemonicEmpty         = errors.New("mnemonic phrase cannot be empty")
	ErrWrongWordsCount       = errors.New("wrong words count")
	ErrFailedCreateMasterKey = errors.New("failed to create master key")
	ErrAccountNotFound       = errors.New("account not found")
)

// mnemonicWords is the word count produced by 256 bits of entropy.
const mnemonicWords = 24

// Credentials is everything handed back on account creation. Secret is the
// base58-encoded account private key; it is returned once and not stored.
type Credentials struct {
	Address   types.Address `json:"address"`
	MasterKey string        `json:"priv,omitempty"`
	PublicKey string        `json:"pub,omitempty"`
	Mnemonic  string        `json:"mnemonic,omitempty"`
	Secret    string        `json:"secret,omitempty"`
}

// Wallet maps bip32 public keys to derived account addresses.
type Wallet struct {
	mu    sync.RWMutex
	byPub map[string]types.Address
}

func New() *Wallet {
	return &Wallet{
		byPub: make(map[string]types.Address),
	}
}

// Create derives a fresh account: a bip39 mnemonic, the bip32 master key
// from its seed, and an address from a newly generated account key.
func (w *Wallet) Create(pass string) (*Credentials, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	seed := bip39.NewSeed(mnemonic, pass)
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedCreateMasterKey, err)
	}
	publicKey := masterKey.PublicKey()

	privateKey, err := types.GenerateAccount()
	if err != nil {
		return nil, err
	}
	address := types.PrivKeyToAddress(privateKey)

	pubKeyStr := publicKey.B58Serialize()
	w.mu.Lock()
	w.byPub[pubKeyStr] = address
	w.mu.Unlock()

	wltlogger().Infow("Account created", "address", address.Hex())

	return &Credentials{
		Address:   address,
		MasterKey: masterKey.B58Serialize(),
		PublicKey: pubKeyStr,
		Mnemonic:  mnemonic,
		Secret:    base58.Encode(types.EncodePrivateKeyToByte(privateKey)),
	}, nil
}

// Restore re-derives the bip32 keys from a mnemonic and finds the address
// registered for the resulting public key.
func (w *Wallet) Restore(mnemonic string, pass string) (*Credentials, error) {
	if mnemonic == "" {
		return nil, ErrMnemonicEmpty
	}
	if len(strings.Fields(mnemonic)) != mnemonicWords {
		return nil, ErrWrongWordsCount
	}

	seed := bip39.NewSeed(mnemonic, pass)
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedCreateMasterKey, err)
	}
	publicKey := masterKey.PublicKey()
	pubKeyStr := publicKey.B58Serialize()

	w.mu.RLock()
	address, ok := w.byPub[pubKeyStr]
	w.mu.RUnlock()
	if !ok {
		return nil, ErrAccountNotFound
	}

	return &Credentials{
		Address:   address,
		MasterKey: masterKey.B58Serialize(),
		PublicKey: pubKeyStr,
	}, nil
}

// Count returns the number of registered accounts.
func (w *Wallet) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.byPub)
}
