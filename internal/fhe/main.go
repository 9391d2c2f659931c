package fhe

import (
	"context"
	goerr "errors"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNotInitialized = goerr.New("fhe client is not initialized")

// EncryptResult is a ciphertext handle plus the input proof binding it to the
// target contract and account.
type EncryptResult struct {
	Ciphertext [32]byte
	Proof      []byte
}

// SubmitFn submits abi-encoded clear values and their decryption proof to the
// ledger. VerifyDecryption awaits its completion before returning.
type SubmitFn func(ctx context.Context, abiEncodedClearValues, decryptionProof []byte) error

// DecryptionResult maps hex-encoded ciphertext handles to cleartext values.
type DecryptionResult struct {
	ClearValues map[string]uint64
}

// Value looks up the cleartext for a handle.
func (r *DecryptionResult) Value(handle [32]byte) (uint64, bool) {
	v, ok := r.ClearValues[HandleHex(handle)]
	return v, ok
}

// Client is the FHE primitive surface the session lifecycle depends on.
// Initialize is idempotent and must complete before Encrypt or
// VerifyDecryption is attempted.
type Client interface {
	Initialize(ctx context.Context) error
	IsInitialized() bool
	Encrypt(ctx context.Context, contract, account common.Address, value uint64) (*EncryptResult, error)
	VerifyDecryption(ctx context.Context, handles [][32]byte, contract common.Address, submit SubmitFn) (*DecryptionResult, error)
}
