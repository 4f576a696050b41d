package types

type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result"`
	ID      int         `json:"id"`
	Error   *Error      `json:"error,omitempty"`
}
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FaucetInfo is the aggregate read surface for the frontend:
// global state plus the constants fixed at initialization.
type FaucetInfo struct {
	Admin          Address `json:"admin"`
	Paused         bool    `json:"paused"`
	FaucetAmount   float64 `json:"faucetAmount"`
	MaxClaimAmount float64 `json:"maxClaimAmount"`
	CooldownTime   int64   `json:"cooldownTime"`
}

// TokenInfo describes the issued token.
type TokenInfo struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint8   `json:"decimals"`
	TotalSupply float64 `json:"totalSupply"`
	MaxSupply   float64 `json:"maxSupply"`
	Faucet      Address `json:"faucetAddress"`
}
