package core

import (
	goerr "errors"
	"strings"
)

var (
	ErrNoAccount   = goerr.New("no authenticated account is available")
	ErrEmptyFields = goerr.New("title, mood and thought are required")
)

// Phrases surfaced by the wallet and the registry contract. Classification is
// by substring match on the underlying failure message.
const (
	userCancelledPhrase   = "user rejected transaction"
	alreadyVerifiedPhrase = "Data already verified"
)

// IsUserCancelled reports whether a failure was the user declining to sign.
func IsUserCancelled(err error) bool {
	return err != nil && strings.Contains(err.Error(), userCancelledPhrase)
}

// IsAlreadyVerified reports whether the ledger rejected a decryption proof
// because the session was verified concurrently. Treated as benign.
func IsAlreadyVerified(err error) bool {
	return err != nil && strings.Contains(err.Error(), alreadyVerifiedPhrase)
}
