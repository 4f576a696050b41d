package types

import (
	"math/big"
	"testing"
)

func TestFloatToBigInt(t *testing.T) {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

	if got := FloatToBigInt(1); got.Cmp(one) != 0 {
		t.Errorf("FloatToBigInt(1) = %s, want %s", got, one)
	}

	ten := new(big.Int).Mul(one, big.NewInt(10))
	if got := FloatToBigInt(10); got.Cmp(ten) != 0 {
		t.Errorf("FloatToBigInt(10) = %s, want %s", got, ten)
	}

	if got := FloatToBigInt(0); got.Sign() != 0 {
		t.Errorf("FloatToBigInt(0) = %s, want 0", got)
	}
}

func TestBigIntToFloat(t *testing.T) {
	for _, v := range []float64{0, 1, 10, 50, 1000000} {
		if got := BigIntToFloat(FloatToBigInt(v)); got != v {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}

	if got := BigIntToFloat(nil); got != 0 {
		t.Errorf("BigIntToFloat(nil) = %v, want 0", got)
	}
}
