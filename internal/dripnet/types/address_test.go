package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestHexToAddress(t *testing.T) {
	in := "0x00000000000000000000000000000000000000b1"
	a := HexToAddress(in)

	if !strings.EqualFold(a.Hex(), in) {
		t.Errorf("Hex() = %s, want %s (modulo checksum case)", a.Hex(), in)
	}
	if a.IsEmpty() {
		t.Error("non-zero address reported empty")
	}
}

func TestSetBytes(t *testing.T) {
	// short input is left-padded
	a := BytesToAddress([]byte{0xb1})
	want := make([]byte, AddressLength)
	want[AddressLength-1] = 0xb1
	if !bytes.Equal(a.Bytes(), want) {
		t.Errorf("short input: got %x, want %x", a.Bytes(), want)
	}

	// long input keeps the trailing bytes
	long := make([]byte, AddressLength+4)
	for i := range long {
		long[i] = byte(i)
	}
	a = BytesToAddress(long)
	if !bytes.Equal(a.Bytes(), long[4:]) {
		t.Errorf("long input: got %x, want %x", a.Bytes(), long[4:])
	}
}

func TestEmptyAddress(t *testing.T) {
	if !EmptyAddress().IsEmpty() {
		t.Error("EmptyAddress is not empty")
	}
	if got := EmptyAddress().Hex(); got != "0x0000000000000000000000000000000000000000" {
		t.Errorf("empty Hex() = %s", got)
	}
}

func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0X5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAe", false},    // too short
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed1", false},  // too long
		{"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeg", false},   // bad char
		{"", false},
		{"0x", false},
	}
	for _, tt := range tests {
		if got := IsHexAddress(tt.in); got != tt.want {
			t.Errorf("IsHexAddress(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAddress(t *testing.T) {
	in := "0x00000000000000000000000000000000000000b1"
	a, err := ParseAddress(in)
	if err != nil {
		t.Fatalf("ParseAddress(%q) failed: %v", in, err)
	}
	if a != HexToAddress(in) {
		t.Error("ParseAddress and HexToAddress disagree on valid input")
	}

	for _, bad := range []string{"", "0x", "b1", "0xzz", "not an address"} {
		if _, err := ParseAddress(bad); !errors.Is(err, ErrInvalidAddressHex) {
			t.Errorf("ParseAddress(%q): got %v, want ErrInvalidAddressHex", bad, err)
		}
	}
}

func TestAddressJSONRoundTrip(t *testing.T) {
	a := HexToAddress("0x00000000000000000000000000000000000000b1")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Address
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != a {
		t.Errorf("round trip changed the address: %s -> %s", a.Hex(), back.Hex())
	}

	if err := json.Unmarshal([]byte(`"0xnope"`), &back); err == nil {
		t.Error("Unmarshal accepted malformed hex")
	}
}

func FuzzParseAddress(f *testing.F) {
	f.Add("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	f.Add("0x00000000000000000000000000000000000000b1")
	f.Add("")
	f.Add("0x")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := ParseAddress(s)
		if err != nil {
			return
		}
		// every accepted input survives a hex round trip
		back, err := ParseAddress(a.Hex())
		if err != nil {
			t.Fatalf("Hex() output %q rejected: %v", a.Hex(), err)
		}
		if back != a {
			t.Fatalf("round trip changed %q", s)
		}
	})
}
