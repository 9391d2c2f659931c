package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/privmind/therapy-svc/internal/data"
	"github.com/privmind/therapy-svc/internal/ledger"
)

// Reader is the read-only ledger surface the session lifecycle consumes.
type Reader interface {
	AllSessionIDs(ctx context.Context) ([]string, error)
	SessionData(ctx context.Context, id string) (data.Session, error)
	EncryptedValue(ctx context.Context, id string) ([32]byte, error)
	IsAvailable(ctx context.Context) (bool, error)
}

// Writer is the signing ledger surface. Implementations await block inclusion
// before returning from writes.
type Writer interface {
	Account() common.Address
	CreateSession(ctx context.Context, p ledger.CreateParams) error
	SubmitDecryptionProof(ctx context.Context, id string, clearValues, proof []byte) error
}

// Refresher re-hydrates the session collection after a state-changing
// operation.
type Refresher interface {
	Refresh(ctx context.Context) error
}
