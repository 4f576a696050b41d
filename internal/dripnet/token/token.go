package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/dripnet/internal/dripnet/config"
	"github.com/dripnet/internal/dripnet/events"
	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/types"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func tknlogger() *zap.SugaredLogger {
	return logger.Named("token")
}

// Error constants
var (
	ErrOnlyOwner             = errors.New("caller is not the token owner")
	ErrOnlyFaucet            = errors.New("only faucet can mint")
	ErrInvalidFaucetAddress  = errors.New("faucet address cannot be empty")
	ErrInvalidRecipient      = errors.New("cannot mint to empty address")
	ErrInvalidAmount         = errors.New("invalid token amount")
	ErrMaxSupplyExceeded     = errors.New("max supply exceeded")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

var (
	tokenTotalSupply = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "token_total_supply",
		Help: "Total minted token supply",
	})
	tokenMintsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "token_mints_total",
		Help: "Total number of mint operations",
	})
	tokenTransfersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "token_transfers_total",
		Help: "Total number of token transfer operations",
	})
)

func init() {
	prometheus.MustRegister(
		tokenTotalSupply,
		tokenMintsTotal,
		tokenTransfersTotal,
	)
}

// Token is an ERC20-style issuer with a hard supply cap. Minting is gated
// to the configured faucet address; the owner can repoint that gate.
type Token struct {
	mu sync.RWMutex

	name     string
	symbol   string
	decimals uint8

	owner      types.Address
	faucetAddr types.Address

	maxSupply   *big.Int
	totalSupply *big.Int
	balances    map[types.Address]*big.Int
	allowances  map[types.Address]map[types.Address]*big.Int

	bus *events.Bus
}

// New creates the token with zero initial supply. owner becomes the only
// identity allowed to set the faucet address.
func New(cfg *config.Config, owner types.Address, bus *events.Bus) *Token {
	t := &Token{
		name:        cfg.Token.NAME,
		symbol:      cfg.Token.SYMBOL,
		decimals:    cfg.Token.DECIMALS,
		owner:       owner,
		maxSupply:   types.FloatToBigInt(cfg.Token.MAX_SUPPLY),
		totalSupply: big.NewInt(0),
		balances:    make(map[types.Address]*big.Int),
		allowances:  make(map[types.Address]map[types.Address]*big.Int),
		bus:         bus,
	}
	tknlogger().Infow("Token initialized",
		"name", t.name,
		"symbol", t.symbol,
		"maxSupply", t.maxSupply.String(),
		"owner", owner.Hex(),
	)
	tokenTotalSupply.Set(0)
	return t
}

func (t *Token) Name() string    { return t.name }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) Decimals() uint8 { return t.decimals }

func (t *Token) Owner() types.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

func (t *Token) FaucetAddress() types.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.faucetAddr
}

func (t *Token) MaxSupply() *big.Int {
	return new(big.Int).Set(t.maxSupply)
}

func (t *Token) TotalSupply() *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return new(big.Int).Set(t.totalSupply)
}

func (t *Token) BalanceOf(addr types.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if bal, ok := t.balances[addr]; ok {
		return new(big.Int).Set(bal)
	}
	return big.NewInt(0)
}

// SetFaucetAddress points the mint gate at addr. Owner only. The previous
// address is carried in the emitted event for auditability.
func (t *Token) SetFaucetAddress(caller, addr types.Address) error {
	t.mu.Lock()
	if caller != t.owner {
		t.mu.Unlock()
		return ErrOnlyOwner
	}
	if addr.IsEmpty() {
		t.mu.Unlock()
		return ErrInvalidFaucetAddress
	}
	old := t.faucetAddr
	t.faucetAddr = addr
	t.mu.Unlock()

	tknlogger().Infow("Faucet address set", "old", old.Hex(), "new", addr.Hex())
	if t.bus != nil {
		t.bus.Publish(events.TypeFaucetAddressSet, events.FaucetAddressSet{Old: old, New: addr})
	}
	return nil
}

// Mint issues amount to recipient. Only the configured faucet address may
// call; the global supply cap is enforced here independently of whatever
// the faucet's own accounting concluded.
func (t *Token) Mint(caller, recipient types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.faucetAddr.IsEmpty() || caller != t.faucetAddr {
		return ErrOnlyFaucet
	}
	if recipient.IsEmpty() {
		return ErrInvalidRecipient
	}

	newSupply := new(big.Int).Add(t.totalSupply, amount)
	if newSupply.Cmp(t.maxSupply) > 0 {
		tknlogger().Warnw("Mint rejected by supply cap",
			"requested", amount.String(),
			"supply", t.totalSupply.String(),
			"cap", t.maxSupply.String(),
		)
		return ErrMaxSupplyExceeded
	}

	bal, ok := t.balances[recipient]
	if !ok {
		bal = big.NewInt(0)
	}
	t.balances[recipient] = new(big.Int).Add(bal, amount)
	t.totalSupply = newSupply

	tokenMintsTotal.Inc()
	tokenTotalSupply.Set(types.BigIntToFloat(t.totalSupply))
	return nil
}

// Transfer moves amount from the caller's balance to the recipient.
func (t *Token) Transfer(from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if to.IsEmpty() {
		return ErrInvalidRecipient
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(from, to, amount)
}

// Approve lets spender draw up to amount from the caller's balance.
func (t *Token) Approve(owner, spender types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.allowances[owner]; !ok {
		t.allowances[owner] = make(map[types.Address]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

func (t *Token) Allowance(owner, spender types.Address) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if perSpender, ok := t.allowances[owner]; ok {
		if a, ok := perSpender[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return big.NewInt(0)
}

// TransferFrom spends the caller's allowance on the owner's balance.
func (t *Token) TransferFrom(spender, from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if to.IsEmpty() {
		return ErrInvalidRecipient
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	allowance := big.NewInt(0)
	if perSpender, ok := t.allowances[from]; ok {
		if a, ok := perSpender[spender]; ok {
			allowance = a
		}
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}

	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.allowances[from][spender] = new(big.Int).Sub(allowance, amount)
	return nil
}

// move shifts balance between accounts. Callers hold t.mu.
func (t *Token) move(from, to types.Address, amount *big.Int) error {
	fromBal, ok := t.balances[from]
	if !ok || fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	toBal, ok := t.balances[to]
	if !ok {
		toBal = big.NewInt(0)
	}
	t.balances[from] = new(big.Int).Sub(fromBal, amount)
	t.balances[to] = new(big.Int).Add(toBal, amount)

	tokenTransfersTotal.Inc()
	return nil
}

// Info returns the display view of the token state.
func (t *Token) Info() types.TokenInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return types.TokenInfo{
		Name:        t.name,
		Symbol:      t.symbol,
		Decimals:    t.decimals,
		TotalSupply: types.BigIntToFloat(t.totalSupply),
		MaxSupply:   types.BigIntToFloat(t.maxSupply),
		Faucet:      t.faucetAddr,
	}
}
