package ledger

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sync"
	"time"

	"github.com/dripnet/internal/dripnet/config"
	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/policy"
	"github.com/dripnet/internal/dripnet/types"

	"github.com/akrylysov/pogreb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ldglogger returns a sugared logger for the ledger package.
// It is defined as a function (not a global variable) so that it always
// uses the logger configured by logger.Init(), even if this package is
// imported before logging is set up in main().
func ldglogger() *zap.SugaredLogger {
	return logger.Named("ledger")
}

// Error constants
var (
	ErrInvalidClaimAmount = errors.New("invalid claim amount")
	ErrClaimOverflow      = errors.New("claim would exceed lifetime allowance")
)

var (
	ledgerAccountsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_accounts_total",
		Help: "Total number of accounts tracked by the claim ledger",
	})
	ledgerClaimsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_claims_total",
		Help: "Total number of recorded claims",
	})
	ledgerClaimedAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_claimed_amount_total",
		Help: "Total amount recorded across all claims",
	})
	ledgerRevertsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_reverts_total",
		Help: "Total number of rolled back claims",
	})
)

func init() {
	prometheus.MustRegister(
		ledgerAccountsTotal,
		ledgerClaimsTotal,
		ledgerClaimedAmountTotal,
		ledgerRevertsTotal,
	)
}

// Ledger is the keyed store of per-account claim history. It is the only
// component allowed to mutate claim records; the claim processor drives it
// through RecordClaim and Revert.
type Ledger struct {
	mu       sync.RWMutex
	records  map[types.Address]policy.Record
	maxClaim *big.Int
	inMem    bool
	path     string

	// pogreb database (only for non-in-memory mode)
	db   *pogreb.DB
	dbMu sync.Mutex
}

// New initializes the ledger, loading persisted records when a database
// path is configured. maxClaim is the per-account lifetime cap enforced by
// the overflow guard.
func New(cfg *config.Config, maxClaim *big.Int) (*Ledger, error) {
	l := &Ledger{
		records:  make(map[types.Address]policy.Record),
		maxClaim: new(big.Int).Set(maxClaim),
		inMem:    cfg.Ledger.MEM,
	}

	if l.inMem {
		ldglogger().Infow("Ledger running in memory mode")
		ledgerAccountsTotal.Set(0)
		return l, nil
	}

	if cfg.Ledger.PATH == "EMPTY" {
		cfg.UpdateLedgerPath("./ledger")
	}
	l.path = cfg.Ledger.PATH

	if err := os.MkdirAll(l.path, 0700); err != nil {
		ldglogger().Errorw("Failed to create ledger directory", "path", l.path, "err", err)
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := pogreb.Open(l.path, nil)
	if err != nil {
		ldglogger().Errorw("Failed to open pogreb database", "path", l.path, "err", err)
		return nil, fmt.Errorf("failed to open pogreb database: %w", err)
	}
	l.db = db

	if err := l.syncFromDB(); err != nil {
		db.Close()
		return nil, err
	}

	ledgerAccountsTotal.Set(float64(len(l.records)))
	ldglogger().Infow("Ledger synced from database", "accounts", len(l.records))
	return l, nil
}

// Get returns a copy of the claim record for addr. Unseen addresses get
// the default record: never claimed, nothing accumulated.
func (l *Ledger) Get(addr types.Address) policy.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[addr]
	if !ok {
		return policy.Record{TotalClaimed: big.NewInt(0)}
	}
	return policy.Record{
		LastClaimAt:  rec.LastClaimAt,
		TotalClaimed: rec.Total(),
	}
}

// RecordClaim applies a successful claim: LastClaimAt = now and
// TotalClaimed grows by amount. The previous record is returned so the
// caller can roll back if the downstream mint fails.
//
// The lifetime cap check here is a last-resort invariant guard; the policy
// engine is expected to reject such claims before this point is reached.
func (l *Ledger) RecordClaim(addr types.Address, amount *big.Int, now time.Time) (policy.Record, error) {
	if amount == nil || amount.Sign() <= 0 {
		return policy.Record{}, ErrInvalidClaimAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, seen := l.records[addr]
	prevCopy := policy.Record{
		LastClaimAt:  prev.LastClaimAt,
		TotalClaimed: prev.Total(),
	}

	newTotal := new(big.Int).Add(prev.Total(), amount)
	if newTotal.Cmp(l.maxClaim) > 0 {
		ldglogger().Errorw("Claim overflow guard tripped",
			"address", addr.Hex(),
			"total", prev.Total().String(),
			"amount", amount.String(),
		)
		return policy.Record{}, ErrClaimOverflow
	}

	next := policy.Record{
		LastClaimAt:  now,
		TotalClaimed: newTotal,
	}
	l.records[addr] = next
	if !seen {
		ledgerAccountsTotal.Set(float64(len(l.records)))
	}

	l.persist(addr, next)

	ledgerClaimsTotal.Inc()
	ledgerClaimedAmountTotal.Add(types.BigIntToFloat(amount))

	return prevCopy, nil
}

// Revert restores the record saved before a failed claim. Only the claim
// processor calls this, and only for the rollback path of its
// record-then-mint sequence.
func (l *Ledger) Revert(addr types.Address, prev policy.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := policy.Record{
		LastClaimAt:  prev.LastClaimAt,
		TotalClaimed: prev.Total(),
	}
	l.records[addr] = rec
	l.persist(addr, rec)

	ledgerRevertsTotal.Inc()
	ldglogger().Warnw("Reverted claim record", "address", addr.Hex())
}

// Accounts returns the number of tracked accounts.
func (l *Ledger) Accounts() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// persist mirrors a record into pogreb. Callers hold l.mu.
func (l *Ledger) persist(addr types.Address, rec policy.Record) {
	if l.inMem || l.db == nil {
		return
	}
	l.dbMu.Lock()
	defer l.dbMu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		ldglogger().Errorw("Failed to encode claim record", "address", addr.Hex(), "err", err)
		return
	}
	if err := l.db.Put(addr.Bytes(), buf.Bytes()); err != nil {
		ldglogger().Errorw("Failed to save claim record", "address", addr.Hex(), "err", err)
	}
}

// syncFromDB loads all claim records from the pogreb database into memory.
// Corrupted entries are skipped, not fatal.
func (l *Ledger) syncFromDB() error {
	if l.db == nil {
		return fmt.Errorf("database not initialized")
	}

	it := l.db.Items()
	for {
		key, data, err := it.Next()
		if err == pogreb.ErrIterationDone {
			break
		}
		if err != nil {
			ldglogger().Errorw("syncFromDB: failed to get next item", "err", err)
			continue
		}

		var rec policy.Record
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
			ldglogger().Warnw("Skipping corrupted claim record",
				"key", fmt.Sprintf("%x", key),
				"length", len(data),
				"err", err,
			)
			continue
		}
		if rec.TotalClaimed == nil {
			rec.TotalClaimed = big.NewInt(0)
		}
		l.records[types.BytesToAddress(key)] = rec
	}

	return nil
}

// Close closes the pogreb database.
func (l *Ledger) Close() error {
	l.dbMu.Lock()
	defer l.dbMu.Unlock()

	if l.db == nil {
		return nil
	}
	if err := l.db.Close(); err != nil {
		ldglogger().Errorw("Close(): error closing database", "err", err)
		l.db = nil
		return fmt.Errorf("failed to close pogreb database: %w", err)
	}
	ldglogger().Infow("Close(): pogreb database closed")
	l.db = nil
	return nil
}
