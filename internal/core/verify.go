package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"

	"github.com/privmind/therapy-svc/internal/fhe"
	"github.com/privmind/therapy-svc/internal/metrics"
)

// Verifier resolves a session's true mood value. It is the decryption state
// machine: unverified sessions go through an FHE verification round-trip whose
// proof is accepted on-chain before any value is treated as authoritative;
// verified sessions short-circuit to the stored cleartext.
type Verifier struct {
	reader    Reader
	writer    Writer
	fhe       fhe.Client
	contract  common.Address
	refresher Refresher
	status    *Tracker
	log       *logan.Entry
}

func NewVerifier(reader Reader, writer Writer, fheClient fhe.Client, contract common.Address, status *Tracker, log *logan.Entry) *Verifier {
	return &Verifier{
		reader:   reader,
		writer:   writer,
		fhe:      fheClient,
		contract: contract,
		status:   status,
		log:      log,
	}
}

// SetRefresher wires the collection refresh hook. Must be set before Resolve
// is called.
func (v *Verifier) SetRefresher(refresher Refresher) {
	v.refresher = refresher
}

// Resolve returns the session's proven cleartext value, or nil when no value
// can be trusted yet. All failures are reported through the status tracker;
// none escape. A nil return after an "already verified" race means the caller
// must re-read the now-verified record rather than trust a stale value.
func (v *Verifier) Resolve(ctx context.Context, id string) *uint64 {
	if v.writer == nil {
		v.status.Report(StatusError, "Please connect a wallet first")
		return nil
	}

	if !v.fhe.IsInitialized() {
		v.status.Report(StatusError, "FHE client is not initialized")
		return nil
	}

	// Always check the current record, never a cached copy.
	record, err := v.reader.SessionData(ctx, id)
	if err != nil {
		v.reportFailure(err)
		return nil
	}

	if record.IsVerified {
		// Idempotent fast path: no FHE call, no ledger write.
		value := record.DecryptedValue
		v.status.Report(StatusSuccess, "Value already verified on-chain")
		return &value
	}

	handle, err := v.reader.EncryptedValue(ctx, id)
	if err != nil {
		v.reportFailure(err)
		return nil
	}

	v.status.Report(StatusPending, "Verifying decryption on-chain...")

	result, err := v.fhe.VerifyDecryption(ctx, [][32]byte{handle}, v.contract,
		func(ctx context.Context, clearValues, proof []byte) error {
			return v.writer.SubmitDecryptionProof(ctx, id, clearValues, proof)
		})
	if err != nil {
		if IsAlreadyVerified(err) {
			// Lost the race to another caller. The on-chain state is the
			// one we wanted anyway.
			v.status.Report(StatusSuccess, "Value already verified on-chain")
			metrics.ObserveVerification("raced")
			v.refresh(ctx)
			return nil
		}

		v.reportFailure(err)
		return nil
	}

	value, ok := result.Value(handle)
	if !ok {
		v.reportFailure(errors.New("decryption result is missing the requested handle"))
		return nil
	}

	v.refresh(ctx)
	v.status.Report(StatusSuccess, "Decryption verified on-chain")
	metrics.ObserveVerification("success")
	return &value
}

func (v *Verifier) refresh(ctx context.Context) {
	if err := v.refresher.Refresh(ctx); err != nil {
		v.log.WithError(err).Error("[Verify] Failed to refresh sessions after verification")
	}
}

func (v *Verifier) reportFailure(err error) {
	v.log.WithError(err).Error("[Verify] Decryption verification failed")
	v.status.Report(StatusError, "Decryption failed: "+err.Error())
	metrics.ObserveVerification("error")
}
