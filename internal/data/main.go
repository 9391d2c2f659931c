package data

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SessionIDPrefix prefixes every session identifier stored on the ledger.
const SessionIDPrefix = "therapy-"

// VerificationState is the explicit decryption lifecycle state of a session.
// StateVerified is terminal: it is entered only after the ledger has accepted
// a decryption proof and is never left.
type VerificationState int

const (
	StateUnverified VerificationState = iota
	StateAwaitingProof
	StateVerified
)

func (s VerificationState) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateAwaitingProof:
		return "awaiting-proof"
	case StateVerified:
		return "verified"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Session is one ledger-backed therapy record. Public metadata lives in the
// clear; the protected mood value is referenced by an encrypted handle and
// becomes authoritative only after on-chain verification.
type Session struct {
	ID           string
	Title        string
	PublicValue1 uint64
	PublicValue2 uint64
	Timestamp    time.Time
	Creator      common.Address
	IsVerified   bool
	// DecryptedValue is meaningful only when IsVerified is true.
	DecryptedValue uint64
	// EncryptedValueHandle is resolved lazily and is usually zero in
	// hydrated lists.
	EncryptedValueHandle [32]byte
}

// MoodScore is the display alias of the plaintext mirror. Before verification
// it is the only mood value available and is NOT authoritative.
func (s *Session) MoodScore() uint64 {
	return s.PublicValue1
}

// State derives the tagged verification state from the record.
func (s *Session) State() VerificationState {
	if s.IsVerified {
		return StateVerified
	}
	return StateUnverified
}

// NewSessionID builds a ledger identifier from a creation instant.
func NewSessionID(at time.Time) string {
	return fmt.Sprintf("%s%d", SessionIDPrefix, at.UnixMilli())
}

// Matches reports whether the session matches a case-insensitive substring
// search over title and creator address.
func (s *Session) Matches(term string) bool {
	if term == "" {
		return true
	}

	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(s.Title), term) ||
		strings.Contains(strings.ToLower(s.Creator.Hex()), term)
}

// Stats are the derived collection metrics, recomputed in full on every
// session-list change.
type Stats struct {
	TotalSessions    int
	VerifiedSessions int
	AvgMood          float64
}

// ComputeStats aggregates a session collection. AvgMood is rounded to one
// decimal place and is 0 for an empty collection.
func ComputeStats(sessions []Session) Stats {
	stats := Stats{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return stats
	}

	var sum uint64
	for i := range sessions {
		if sessions[i].IsVerified {
			stats.VerifiedSessions++
		}
		sum += sessions[i].MoodScore()
	}

	stats.AvgMood = math.Round(float64(sum)/float64(len(sessions))*10) / 10
	return stats
}
