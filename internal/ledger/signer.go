package ledger

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

const defaultConfirmTimeout = 2 * time.Minute

var ErrTransactionReverted = errors.New("transaction reverted")

// CreateParams carries one session creation submission. Mirror is the
// plaintext redundancy recorded alongside the ciphertext; callers that keep
// the mirror disabled submit 0.
type CreateParams struct {
	ID         string
	Title      string
	Ciphertext [32]byte
	Proof      []byte
	Mirror     uint64
	Thought    string
}

// Signer extends the read-only client with transaction submission. Every
// write awaits block inclusion before returning.
type Signer struct {
	*Client
	auth           *bind.TransactOpts
	confirmTimeout time.Duration
	log            *logan.Entry
}

func NewSigner(client *Client, prv *ecdsa.PrivateKey, chainID *big.Int, log *logan.Entry) (*Signer, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(prv, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transactor")
	}

	return &Signer{
		Client:         client,
		auth:           auth,
		confirmTimeout: defaultConfirmTimeout,
		log:            log,
	}, nil
}

// Account is the submitting address.
func (s *Signer) Account() common.Address {
	return s.auth.From
}

// CreateSession submits createBusinessData and waits for inclusion.
func (s *Signer) CreateSession(ctx context.Context, p CreateParams) error {
	opts := s.txOpts(ctx)

	tx, err := s.contract.Transact(opts, "createBusinessData",
		p.ID, p.Title, p.Ciphertext, p.Proof,
		new(big.Int).SetUint64(p.Mirror), big.NewInt(0), p.Thought,
	)
	if err != nil {
		return errors.Wrap(err, "failed to submit session creation", logan.F{"id": p.ID})
	}

	s.log.Infof("[Ledger] Submitted session creation id=%s tx=%s", p.ID, tx.Hash().Hex())
	return s.waitMined(ctx, tx)
}

// SubmitDecryptionProof submits the cleartext-and-proof pair produced by the
// decryption oracle and waits for inclusion. Returns the contract's
// "Data already verified" revert untouched so callers can reclassify it.
func (s *Signer) SubmitDecryptionProof(ctx context.Context, id string, clearValues, proof []byte) error {
	opts := s.txOpts(ctx)

	tx, err := s.contract.Transact(opts, "verifyDecryption", id, clearValues, proof)
	if err != nil {
		return errors.Wrap(err, "failed to submit decryption proof", logan.F{"id": id})
	}

	s.log.Infof("[Ledger] Submitted decryption proof id=%s tx=%s", id, tx.Hash().Hex())
	return s.waitMined(ctx, tx)
}

func (s *Signer) txOpts(ctx context.Context) *bind.TransactOpts {
	opts := *s.auth
	opts.Context = ctx
	return &opts
}

func (s *Signer) waitMined(ctx context.Context, tx *ethtypes.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, s.eth, tx)
	if err != nil {
		return errors.Wrap(err, "failed to await transaction inclusion", logan.F{"tx": tx.Hash().Hex()})
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return errors.From(ErrTransactionReverted, logan.F{"tx": tx.Hash().Hex()})
	}

	return nil
}
