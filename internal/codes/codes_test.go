package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceTypeFromString(t *testing.T) {
	b, ok := BalanceTypeFromString("opbd")
	require.True(t, ok)
	assert.Equal(t, BalanceOPBD, b)
	assert.True(t, b.IsOpening())
	assert.False(t, b.IsClosing())
	assert.Equal(t, "Opening Booked", b.Name())
	assert.NotEmpty(t, b.Definition())

	b, ok = BalanceTypeFromString(" CLBD ")
	require.True(t, ok)
	assert.True(t, b.IsClosing())

	_, ok = BalanceTypeFromString("ZZZZ")
	assert.False(t, ok)
}

func TestBalanceTypeClassification(t *testing.T) {
	assert.True(t, BalancePRCD.IsOpening(), "previously closed carries forward as opening")
	assert.True(t, BalanceCLAV.IsClosing())
	assert.False(t, BalanceITBD.IsOpening())
	assert.False(t, BalanceITBD.IsClosing())
}

func TestDomainFromString(t *testing.T) {
	d, ok := DomainFromString("pmnt")
	require.True(t, ok)
	assert.Equal(t, DomainPMNT, d)
	assert.Equal(t, "Payments", d.Name())

	_, ok = DomainFromString("NOPE")
	assert.False(t, ok)
}

func TestPurposeFromString(t *testing.T) {
	p, ok := PurposeFromString("sala")
	require.True(t, ok)
	assert.Equal(t, PurposeSALA, p)
	assert.Equal(t, "Salary Payment", p.Name())

	_, ok = PurposeFromString("ZZZZ")
	assert.False(t, ok)
}

func TestReturnReasonFromString(t *testing.T) {
	r, ok := ReturnReasonFromString("ac04")
	require.True(t, ok)
	assert.Equal(t, ReturnAC04, r)
	assert.Equal(t, "Closed Account Number", r.Name())

	_, ok = ReturnReasonFromString("XX99")
	assert.False(t, ok)
}

// Every member of each closed set must resolve through its own lookup;
// a constant added to the set without extending the dispatch switches
// shows up here.
func TestClosedSetsAreConsistent(t *testing.T) {
	balances := []BalanceType{
		BalanceOPBD, BalanceCLBD, BalanceITBD, BalanceOPAV, BalanceCLAV,
		BalanceITAV, BalanceFWAV, BalancePRCD, BalanceXPCD,
	}
	for _, b := range balances {
		assert.True(t, b.IsValid(), string(b))
		assert.NotEmpty(t, b.Name(), string(b))
		assert.NotEmpty(t, b.Definition(), string(b))
	}

	domains := []Domain{
		DomainPMNT, DomainCAMT, DomainACMT, DomainSECU,
		DomainTRAD, DomainLDAS, DomainFORX, DomainXTND,
	}
	for _, d := range domains {
		assert.True(t, d.IsValid(), string(d))
		assert.NotEmpty(t, d.Name(), string(d))
		assert.NotEmpty(t, d.Definition(), string(d))
	}
}
