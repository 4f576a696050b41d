package policy

import (
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		FaucetAmount:   big.NewInt(10),
		MaxClaimAmount: big.NewInt(50),
		Cooldown:       86400 * time.Second,
	}
}

func TestEvaluateFreshAccount(t *testing.T) {
	p := testParams()
	now := time.Unix(0, 0)

	d := p.Evaluate(Record{}, false, now)
	require.True(t, d.Eligible)
	assert.Equal(t, ReasonEligible, d.Reason)
	assert.Equal(t, 0, d.GrantAmount.Cmp(big.NewInt(10)))
}

func TestEvaluatePaused(t *testing.T) {
	p := testParams()
	now := time.Unix(0, 0)

	d := p.Evaluate(Record{}, true, now)
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonPaused, d.Reason)
	assert.Nil(t, d.GrantAmount)
}

func TestEvaluateCooldown(t *testing.T) {
	p := testParams()
	claimedAt := time.Unix(0, 0)
	rec := Record{LastClaimAt: claimedAt, TotalClaimed: big.NewInt(10)}

	// still inside the window
	d := p.Evaluate(rec, false, claimedAt.Add(100*time.Second))
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonCooldown, d.Reason)

	// one second short
	d = p.Evaluate(rec, false, claimedAt.Add(86399*time.Second))
	assert.False(t, d.Eligible)

	// exactly at the boundary the window has expired
	d = p.Evaluate(rec, false, claimedAt.Add(86400*time.Second))
	assert.True(t, d.Eligible)
}

func TestEvaluateCapReached(t *testing.T) {
	p := testParams()
	rec := Record{LastClaimAt: time.Unix(0, 0), TotalClaimed: big.NewInt(50)}

	// cap dominates even when the cooldown has long expired
	d := p.Evaluate(rec, false, time.Unix(0, 0).Add(1000*86400*time.Second))
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonCapReached, d.Reason)
}

func TestEvaluateCapBeforeCooldown(t *testing.T) {
	p := testParams()
	// account exhausted and still inside its last cooldown window:
	// cap is reported, not cooldown
	rec := Record{LastClaimAt: time.Unix(100, 0), TotalClaimed: big.NewInt(50)}

	d := p.Evaluate(rec, false, time.Unix(200, 0))
	assert.Equal(t, ReasonCapReached, d.Reason)
}

func TestEvaluatePausedDominates(t *testing.T) {
	p := testParams()
	rec := Record{LastClaimAt: time.Unix(0, 0), TotalClaimed: big.NewInt(50)}

	d := p.Evaluate(rec, true, time.Unix(50, 0))
	assert.Equal(t, ReasonPaused, d.Reason)
}

func TestRemainingAllowance(t *testing.T) {
	p := testParams()

	assert.Equal(t, 0, p.RemainingAllowance(Record{}).Cmp(big.NewInt(50)))

	rec := Record{TotalClaimed: big.NewInt(30)}
	assert.Equal(t, 0, p.RemainingAllowance(rec).Cmp(big.NewInt(20)))

	rec = Record{TotalClaimed: big.NewInt(50)}
	assert.Equal(t, 0, p.RemainingAllowance(rec).Sign())

	// floor at zero even if the record somehow overshoots
	rec = Record{TotalClaimed: big.NewInt(60)}
	assert.Equal(t, 0, p.RemainingAllowance(rec).Sign())
}

func TestTimeUntilNextClaim(t *testing.T) {
	p := testParams()
	base := time.Unix(0, 0)

	// never claimed
	assert.Equal(t, time.Duration(0), p.TimeUntilNextClaim(Record{}, base))

	rec := Record{LastClaimAt: base, TotalClaimed: big.NewInt(10)}

	// exact cooldown right after the claim
	assert.Equal(t, 86400*time.Second, p.TimeUntilNextClaim(rec, base))

	// decreases monotonically as time advances
	prev := p.TimeUntilNextClaim(rec, base)
	for _, offset := range []time.Duration{100, 1000, 40000, 86399, 86400, 90000} {
		wait := p.TimeUntilNextClaim(rec, base.Add(offset*time.Second))
		assert.LessOrEqual(t, wait, prev)
		prev = wait
	}

	// zero once the window has passed
	assert.Equal(t, time.Duration(0), p.TimeUntilNextClaim(rec, base.Add(86400*time.Second)))
	assert.Equal(t, time.Duration(0), p.TimeUntilNextClaim(rec, base.Add(999999*time.Second)))
}

// CanClaim must agree with Evaluate for every reachable state.
func TestCanClaimMatchesEvaluate(t *testing.T) {
	p := testParams()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		var rec Record
		if rng.Intn(4) > 0 { // leave some never-claimed records in the mix
			rec.LastClaimAt = time.Unix(rng.Int63n(1000000), 0)
			rec.TotalClaimed = big.NewInt(int64(rng.Intn(6)) * 10)
		}
		paused := rng.Intn(5) == 0
		now := time.Unix(rng.Int63n(2000000), 0)

		d := p.Evaluate(rec, paused, now)
		assert.Equal(t, d.Eligible, p.CanClaim(rec, paused, now),
			"record %+v paused %v now %v", rec, paused, now)
	}
}

// The walkthrough scenario: fresh account, 5 claims spaced one cooldown
// apart, then the lifetime cap blocks everything.
func TestClaimScenario(t *testing.T) {
	p := testParams()
	base := time.Unix(0, 0)

	rec := Record{}
	require.True(t, p.CanClaim(rec, false, base))
	require.Equal(t, 0, p.RemainingAllowance(rec).Cmp(big.NewInt(50)))

	for i := 0; i < 5; i++ {
		now := base.Add(time.Duration(i) * 86400 * time.Second)
		d := p.Evaluate(rec, false, now)
		require.True(t, d.Eligible, "claim %d", i+1)

		rec = Record{
			LastClaimAt:  now,
			TotalClaimed: new(big.Int).Add(rec.Total(), d.GrantAmount),
		}

		if i == 0 {
			at100 := base.Add(100 * time.Second)
			assert.False(t, p.CanClaim(rec, false, at100))
			assert.Equal(t, 86300*time.Second, p.TimeUntilNextClaim(rec, at100))
		}
	}

	assert.Equal(t, 0, rec.Total().Cmp(big.NewInt(50)))
	assert.Equal(t, 0, p.RemainingAllowance(rec).Sign())

	// cooldown has elapsed but the cap holds
	at := base.Add(5 * 86400 * time.Second)
	d := p.Evaluate(rec, false, at)
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonCapReached, d.Reason)
}
