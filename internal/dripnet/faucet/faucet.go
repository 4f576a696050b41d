package faucet

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/dripnet/internal/dripnet/config"
	"github.com/dripnet/internal/dripnet/events"
	"github.com/dripnet/internal/dripnet/ledger"
	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/policy"
	"github.com/dripnet/internal/dripnet/types"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// AddressHex is the well-known identity the faucet presents to the token
// issuer when minting.
const AddressHex = "0x0000000000000000000000000000000000000001"

func fctlogger() *zap.SugaredLogger {
	return logger.Named("faucet")
}

// Error constants
var (
	ErrOnlyAdmin      = errors.New("caller is not the admin")
	ErrInvalidAdmin   = errors.New("new admin cannot be the empty address")
	ErrFaucetPaused   = errors.New("faucet is paused")
	ErrCannotClaimYet = errors.New("cannot claim yet")
)

// Issuer is the downstream token mint. The real implementation enforces
// its own supply cap and caller gating; the faucet only reacts to errors.
type Issuer interface {
	Mint(caller, recipient types.Address, amount *big.Int) error
}

// Faucet is the single mutating entry point over the claim ledger. It
// serializes every read-evaluate-write sequence behind one mutex: volume
// is low and a global critical section keeps the eligibility check and
// the commit atomic with respect to concurrent claims.
type Faucet struct {
	mu sync.RWMutex

	addr   types.Address
	admin  types.Address
	paused bool

	params policy.Params
	ledger *ledger.Ledger
	issuer Issuer
	bus    *events.Bus
	clock  clock.Clock
}

// New wires the faucet core. The node address from cfg becomes the initial
// admin; claim constants are fixed here and never change afterwards.
func New(cfg *config.Config, l *ledger.Ledger, issuer Issuer, bus *events.Bus, clk clock.Clock) *Faucet {
	f := &Faucet{
		addr:  types.HexToAddress(AddressHex),
		admin: cfg.NetCfg.ADDR,
		params: policy.Params{
			FaucetAmount:   types.FloatToBigInt(cfg.Faucet.AMOUNT),
			MaxClaimAmount: types.FloatToBigInt(cfg.Faucet.MAX_CLAIM),
			Cooldown:       time.Duration(cfg.Faucet.COOLDOWN) * time.Second,
		},
		ledger: l,
		issuer: issuer,
		bus:    bus,
		clock:  clk,
	}
	fctlogger().Infow("Faucet initialized",
		"admin", f.admin.Hex(),
		"amount", f.params.FaucetAmount.String(),
		"maxClaim", f.params.MaxClaimAmount.String(),
		"cooldown", f.params.Cooldown.String(),
	)
	return f
}

// Address is the identity the token issuer expects mints from.
func (f *Faucet) Address() types.Address {
	return f.addr
}

func (f *Faucet) Admin() types.Address {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.admin
}

func (f *Faucet) IsPaused() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.paused
}

func (f *Faucet) Params() policy.Params {
	return f.params
}

// RequestTokens processes a claim for caller. The ledger update and the
// mint apply together or not at all: a mint rejection rolls the ledger
// back to the record captured before the claim.
func (f *Faucet) RequestTokens(caller types.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	rec := f.ledger.Get(caller)

	d := f.params.Evaluate(rec, f.paused, now)
	if !d.Eligible {
		switch d.Reason {
		case policy.ReasonPaused:
			return nil, ErrFaucetPaused
		default:
			// cooldown and exhausted lifetime cap collapse into one
			// error kind; the read queries keep the distinction
			return nil, ErrCannotClaimYet
		}
	}

	prev, err := f.ledger.RecordClaim(caller, d.GrantAmount, now)
	if err != nil {
		return nil, err
	}

	if err := f.issuer.Mint(f.addr, caller, d.GrantAmount); err != nil {
		f.ledger.Revert(caller, prev)
		fctlogger().Errorw("Mint failed, claim rolled back",
			"account", caller.Hex(),
			"amount", d.GrantAmount.String(),
			"err", err,
		)
		return nil, err
	}

	fctlogger().Infow("Tokens claimed",
		"account", caller.Hex(),
		"amount", d.GrantAmount.String(),
	)
	if f.bus != nil {
		f.bus.Publish(events.TypeTokensClaimed, events.TokensClaimed{
			Account:   caller,
			Amount:    new(big.Int).Set(d.GrantAmount),
			Timestamp: now,
		})
	}
	return d.GrantAmount, nil
}

// CanClaim reports whether a claim by addr would succeed right now.
func (f *Faucet) CanClaim(addr types.Address) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.CanClaim(f.ledger.Get(addr), f.paused, f.clock.Now())
}

// RemainingAllowance returns the unclaimed share of the lifetime cap.
func (f *Faucet) RemainingAllowance(addr types.Address) *big.Int {
	return f.params.RemainingAllowance(f.ledger.Get(addr))
}

// TimeUntilNextClaim returns the wait left in the cooldown window.
func (f *Faucet) TimeUntilNextClaim(addr types.Address) time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.TimeUntilNextClaim(f.ledger.Get(addr), f.clock.Now())
}

// SetPaused flips the global pause switch. Idempotent: setting the current
// value again still emits the event.
func (f *Faucet) SetPaused(caller types.Address, value bool) error {
	f.mu.Lock()
	if caller != f.admin {
		f.mu.Unlock()
		return ErrOnlyAdmin
	}
	f.paused = value
	f.mu.Unlock()

	fctlogger().Infow("Faucet pause state changed", "paused", value, "by", caller.Hex())
	if f.bus != nil {
		f.bus.Publish(events.TypeFaucetPaused, events.FaucetPaused{Paused: value})
	}
	return nil
}

// TransferAdmin reassigns the single admin slot.
func (f *Faucet) TransferAdmin(caller, newAdmin types.Address) error {
	f.mu.Lock()
	if caller != f.admin {
		f.mu.Unlock()
		return ErrOnlyAdmin
	}
	if newAdmin.IsEmpty() {
		f.mu.Unlock()
		return ErrInvalidAdmin
	}
	old := f.admin
	f.admin = newAdmin
	f.mu.Unlock()

	fctlogger().Infow("Admin transferred", "old", old.Hex(), "new", newAdmin.Hex())
	if f.bus != nil {
		f.bus.Publish(events.TypeAdminTransferred, events.AdminTransferred{Old: old, New: newAdmin})
	}
	return nil
}

// Info returns the aggregate read surface for the frontend.
func (f *Faucet) Info() types.FaucetInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return types.FaucetInfo{
		Admin:          f.admin,
		Paused:         f.paused,
		FaucetAmount:   types.BigIntToFloat(f.params.FaucetAmount),
		MaxClaimAmount: types.BigIntToFloat(f.params.MaxClaimAmount),
		CooldownTime:   int64(f.params.Cooldown / time.Second),
	}
}
