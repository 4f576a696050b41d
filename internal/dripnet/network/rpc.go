package network

import (
	"github.com/dripnet/internal/dripnet/faucet"
	"github.com/dripnet/internal/dripnet/token"
	"github.com/dripnet/internal/dripnet/types"
	"github.com/dripnet/internal/dripnet/wallet"
)

// RPC binds the node components to the method names the wire speaks.
type RPC struct {
	faucet *faucet.Faucet
	token  *token.Token
	wallet *wallet.Wallet
}

func NewRPC(f *faucet.Faucet, t *token.Token, w *wallet.Wallet) *RPC {
	return &RPC{faucet: f, token: t, wallet: w}
}

type claimResult struct {
	Account types.Address `json:"account"`
	Amount  float64       `json:"amount"`
}

// Execute dispatches one rpc request. Parameter shapes follow JSON
// decoding: strings for addresses, float64 for numbers.
func (r *RPC) Execute(method string, params []interface{}) (interface{}, *types.Error) {
	switch method {
	case "network":
		return "_SINGLE_NODE_", nil

	case "faucet.request":
		addr, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		amount, err := r.faucet.RequestTokens(addr)
		if err != nil {
			return nil, domainError(err)
		}
		return &claimResult{Account: addr, Amount: types.BigIntToFloat(amount)}, nil

	case "faucet.canClaim":
		addr, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		return r.faucet.CanClaim(addr), nil

	case "faucet.remainingAllowance":
		addr, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		return types.BigIntToFloat(r.faucet.RemainingAllowance(addr)), nil

	case "faucet.timeUntilNextClaim":
		addr, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		return int64(r.faucet.TimeUntilNextClaim(addr).Seconds()), nil

	case "faucet.info":
		return r.faucet.Info(), nil

	case "faucet.setPaused":
		caller, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		value, ok := boolParam(params, 1)
		if !ok {
			return nil, invalidParams("expected bool pause value")
		}
		if err := r.faucet.SetPaused(caller, value); err != nil {
			return nil, domainError(err)
		}
		return r.faucet.IsPaused(), nil

	case "faucet.transferAdmin":
		caller, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		newAdmin, errResp := addressParam(params, 1)
		if errResp != nil {
			return nil, errResp
		}
		if err := r.faucet.TransferAdmin(caller, newAdmin); err != nil {
			return nil, domainError(err)
		}
		return r.faucet.Admin(), nil

	case "token.balanceOf":
		addr, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		return types.BigIntToFloat(r.token.BalanceOf(addr)), nil

	case "token.totalSupply":
		return types.BigIntToFloat(r.token.TotalSupply()), nil

	case "token.info":
		return r.token.Info(), nil

	case "token.transfer":
		from, errResp := addressParam(params, 0)
		if errResp != nil {
			return nil, errResp
		}
		to, errResp := addressParam(params, 1)
		if errResp != nil {
			return nil, errResp
		}
		amount, ok := floatParam(params, 2)
		if !ok {
			return nil, invalidParams("expected numeric amount")
		}
		if err := r.token.Transfer(from, to, types.FloatToBigInt(amount)); err != nil {
			return nil, domainError(err)
		}
		return true, nil

	case "account.create":
		pass, _ := stringParam(params, 0)
		creds, err := r.wallet.Create(pass)
		if err != nil {
			return nil, domainError(err)
		}
		return creds, nil

	case "account.restore":
		mnemonic, ok := stringParam(params, 0)
		if !ok {
			return nil, invalidParams("expected mnemonic phrase")
		}
		pass, _ := stringParam(params, 1)
		creds, err := r.wallet.Restore(mnemonic, pass)
		if err != nil {
			return nil, domainError(err)
		}
		return creds, nil

	default:
		return nil, &types.Error{Code: -32601, Message: "method not found"}
	}
}

// param helpers

func stringParam(params []interface{}, i int) (string, bool) {
	if i >= len(params) {
		return "", false
	}
	s, ok := params[i].(string)
	return s, ok
}

func boolParam(params []interface{}, i int) (bool, bool) {
	if i >= len(params) {
		return false, false
	}
	b, ok := params[i].(bool)
	return b, ok
}

func floatParam(params []interface{}, i int) (float64, bool) {
	if i >= len(params) {
		return 0, false
	}
	f, ok := params[i].(float64)
	return f, ok
}

func addressParam(params []interface{}, i int) (types.Address, *types.Error) {
	s, ok := stringParam(params, i)
	if !ok {
		return types.EmptyAddress(), invalidParams("expected address string")
	}
	addr, err := types.ParseAddress(s)
	if err != nil {
		return types.EmptyAddress(), invalidParams(err.Error())
	}
	return addr, nil
}

func invalidParams(msg string) *types.Error {
	return &types.Error{Code: -32602, Message: msg}
}

func domainError(err error) *types.Error {
	return &types.Error{Code: -32000, Message: err.Error()}
}
