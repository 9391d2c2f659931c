package data

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil))
		assert.Equal(t, Stats{}, ComputeStats([]Session{}))
	})

	t.Run("counts and averages", func(t *testing.T) {
		stats := ComputeStats([]Session{
			{PublicValue1: 7, IsVerified: true},
			{PublicValue1: 6},
			{PublicValue1: 3, IsVerified: true},
		})

		assert.Equal(t, 3, stats.TotalSessions)
		assert.Equal(t, 2, stats.VerifiedSessions)
		assert.Equal(t, 5.3, stats.AvgMood)
	})

	t.Run("average rounds to one decimal", func(t *testing.T) {
		stats := ComputeStats([]Session{{PublicValue1: 1}, {PublicValue1: 2}, {PublicValue1: 2}})
		assert.Equal(t, 1.7, stats.AvgMood)
	})
}

func TestSessionMatches(t *testing.T) {
	session := Session{
		Title:   "Work stress",
		Creator: common.HexToAddress("0xAbCd000000000000000000000000000000000000"),
	}

	assert.True(t, session.Matches(""))
	assert.True(t, session.Matches("work"))
	assert.True(t, session.Matches("STRESS"))
	assert.True(t, session.Matches("0xabcd"))
	assert.False(t, session.Matches("sleep"))
}

func TestNewSessionID(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	id := NewSessionID(at)

	assert.True(t, strings.HasPrefix(id, SessionIDPrefix))
	assert.Equal(t, "therapy-1700000000000", id)
}

func TestVerificationState(t *testing.T) {
	assert.Equal(t, StateUnverified, (&Session{}).State())
	assert.Equal(t, StateVerified, (&Session{IsVerified: true}).State())
	assert.Equal(t, "verified", StateVerified.String())
}
