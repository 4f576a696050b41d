package types

import (
	"math/big"
)

// TokenDecimals is the fixed decimal precision of the faucet token.
const TokenDecimals = 18

// coin is 10^TokenDecimals, the number of base units in one whole token.
var coin = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

// FloatToBigInt converts a whole-token amount to base units.
func FloatToBigInt(val float64) *big.Int {
	bigval := new(big.Float)
	bigval.SetFloat64(val)

	scale := new(big.Float)
	scale.SetInt(coin)

	bigval.Mul(bigval, scale)

	result := new(big.Int)
	bigval.Int(result)

	return result
}

// BigIntToFloat converts base units back to a whole-token amount.
// Lossy above float64 precision, intended for display only.
func BigIntToFloat(bi *big.Int) float64 {
	if bi == nil {
		return 0
	}
	bigval := new(big.Float)
	bigval.SetInt(bi)

	scale := new(big.Float)
	scale.SetInt(coin)

	bigval.Quo(bigval, scale)

	result, _ := bigval.Float64()
	return result
}
