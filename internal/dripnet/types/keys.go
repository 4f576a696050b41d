package types

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrInvalidKey    = errors.New("invalid private key")
	ErrInvalidPubkey = errors.New("invalid public key")
)

var chainEllipticEcdh = ecdh.P256()

// GenerateAccount creates a fresh account key pair.
func GenerateAccount() (*ecdh.PrivateKey, error) {
	return chainEllipticEcdh.GenerateKey(rand.Reader)
}

func FromECDHPub(pub *ecdh.PublicKey) []byte {
	return pub.Bytes()
}

// PubkeyToAddress derives the account address from the public key bytes.
func PubkeyToAddress(p ecdh.PublicKey) Address {
	pubBytes := FromECDHPub(&p)
	digest := blake2b.Sum256(pubBytes[1:])
	return BytesToAddress(digest[len(digest)-AddressLength:])
}

// PrivKeyToAddress derives the account address from a private key.
func PrivKeyToAddress(p *ecdh.PrivateKey) Address {
	return PubkeyToAddress(*p.PublicKey())
}

// EncodePrivateKeyToString serializes a private key to PEM text.
func EncodePrivateKeyToString(pk *ecdh.PrivateKey) string {
	der, err := x509.MarshalPKCS8PrivateKey(pk)
	if err != nil {
		return ""
	}
	pemEncoded := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return string(pemEncoded)
}

// EncodePrivateKeyToByte serializes a private key to DER bytes.
func EncodePrivateKeyToByte(pk *ecdh.PrivateKey) []byte {
	der, err := x509.MarshalPKCS8PrivateKey(pk)
	if err != nil {
		return nil
	}
	return der
}

// DecodePrivKey restores a private key from PEM text.
func DecodePrivKey(pemEncoded string) (*ecdh.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemEncoded))
	if block == nil {
		return nil, ErrInvalidKey
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*ecdh.PrivateKey)
	if !ok {
		// x509 may hand back an *ecdsa.PrivateKey for EC keys
		type ecdhAble interface{ ECDH() (*ecdh.PrivateKey, error) }
		if conv, ok := parsed.(ecdhAble); ok {
			return conv.ECDH()
		}
		return nil, ErrInvalidKey
	}
	return key, nil
}

// EncodePublicKeyToByte serializes a public key to DER bytes.
func EncodePublicKeyToByte(pub *ecdh.PublicKey) []byte {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil
	}
	return der
}

// DecodeByteToPublicKey restores a public key from DER bytes.
func DecodeByteToPublicKey(data []byte) (*ecdh.PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*ecdh.PublicKey)
	if !ok {
		type ecdhAble interface{ ECDH() (*ecdh.PublicKey, error) }
		if conv, ok := parsed.(ecdhAble); ok {
			return conv.ECDH()
		}
		return nil, ErrInvalidPubkey
	}
	return key, nil
}
