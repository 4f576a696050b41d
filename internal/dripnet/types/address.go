package types

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dripnet/internal/dripnet/common"
	"golang.org/x/crypto/blake2b"
)

// AddressLength is the expected length of an account identifier in bytes.
const AddressLength = 20

var ErrInvalidAddressHex = errors.New("invalid hex address")

type Address [AddressLength]byte

func HexToAddress(s string) Address { return BytesToAddress(common.FromHex(s)) }

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte {
	return a[:]
}

func EmptyAddress() Address {
	return Address{}
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Hex returns a checksummed hex string representation of the address.
func (a Address) Hex() string {
	return string(a.checksumHex())
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

func (a Address) hex() []byte {
	var buf [len(a)*2 + 2]byte
	copy(buf[:2], "0x")
	hex.Encode(buf[2:], a[:])
	return buf[:]
}

func (a *Address) checksumHex() []byte {
	buf := a.hex()

	checkHash, _ := blake2b.New512(nil)
	checkHash.Write(buf[2:])
	hash := checkHash.Sum(nil)

	for i := 2; i < len(buf); i++ {
		hashByte := hash[(i-2)/2]
		if i%2 == 0 {
			hashByte = hashByte >> 4
		} else {
			hashByte &= 0xf
		}
		if buf[i] > '9' && hashByte > 7 {
			buf[i] -= 32
		}
	}
	return buf[:]
}

// ParseAddress validates s and converts it to an Address.
// Unlike HexToAddress it rejects malformed input instead of truncating it.
func ParseAddress(s string) (Address, error) {
	if !IsHexAddress(s) {
		return EmptyAddress(), fmt.Errorf("%w: %q", ErrInvalidAddressHex, s)
	}
	return HexToAddress(s), nil
}

func IsHexAddress(s string) bool {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func isHex(str string) bool {
	if len(str)%2 != 0 {
		return false
	}
	for _, c := range []byte(str) {
		if !isHexCharacter(c) {
			return false
		}
	}
	return true
}

func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func (a Address) MarshalText() ([]byte, error) {
	return common.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(input []byte) error {
	return a.UnmarshalJSON(append([]byte{'"'}, append(input, '"')...))
}

func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' || input[len(input)-1] != '"' {
		return ErrInvalidAddressHex
	}
	s := string(input[1 : len(input)-1])
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
