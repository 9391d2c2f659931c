package core

import (
	"context"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/logan/v3"

	"github.com/privmind/therapy-svc/internal/data"
	"github.com/privmind/therapy-svc/internal/fhe"
	"github.com/privmind/therapy-svc/internal/ledger"
	"github.com/privmind/therapy-svc/internal/metrics"
)

const defaultMood = 1

// CreateInput is one session creation request. Mood arrives as user text and
// defaults to 1 when unparseable.
type CreateInput struct {
	Title   string
	Mood    string
	Thought string
}

func (in CreateInput) moodValue() uint64 {
	mood, err := strconv.ParseUint(in.Mood, 10, 32)
	if err != nil || mood == 0 {
		return defaultMood
	}
	return mood
}

// Submitter encrypts a mood value and submits the session creation
// transaction. The plaintext mirror accompanies the ciphertext only when
// enabled.
type Submitter struct {
	writer       Writer
	fhe          fhe.Client
	contract     common.Address
	submitMirror bool
	status       *Tracker
	log          *logan.Entry
}

func NewSubmitter(writer Writer, fheClient fhe.Client, contract common.Address, submitMirror bool, status *Tracker, log *logan.Entry) *Submitter {
	return &Submitter{
		writer:       writer,
		fhe:          fheClient,
		contract:     contract,
		submitMirror: submitMirror,
		status:       status,
		log:          log,
	}
}

// Create runs the creation flow: generate id, encrypt, submit, await
// inclusion. All failures are reported through the status tracker; the
// returned id identifies the created session on success.
func (s *Submitter) Create(ctx context.Context, in CreateInput) (string, error) {
	if s.writer == nil {
		s.status.Report(StatusError, "Please connect a wallet first")
		return "", ErrNoAccount
	}

	if !s.fhe.IsInitialized() {
		s.status.Report(StatusError, "FHE client is not initialized")
		return "", fhe.ErrNotInitialized
	}

	mood := in.moodValue()
	id := data.NewSessionID(time.Now())

	s.status.Report(StatusPending, "Creating encrypted therapy session...")

	encrypted, err := s.fhe.Encrypt(ctx, s.contract, s.writer.Account(), mood)
	if err != nil {
		s.reportFailure(err)
		return "", err
	}

	mirror := mood
	if !s.submitMirror {
		mirror = 0
	}

	s.status.Report(StatusPending, "Awaiting transaction confirmation...")

	err = s.writer.CreateSession(ctx, ledger.CreateParams{
		ID:         id,
		Title:      in.Title,
		Ciphertext: encrypted.Ciphertext,
		Proof:      encrypted.Proof,
		Mirror:     mirror,
		Thought:    in.Thought,
	})
	if err != nil {
		s.reportFailure(err)
		return "", err
	}

	s.status.Report(StatusSuccess, "Therapy session created")
	metrics.ObserveSubmission("success")
	return id, nil
}

func (s *Submitter) reportFailure(err error) {
	if IsUserCancelled(err) {
		s.status.Report(StatusError, "Transaction cancelled by user")
		metrics.ObserveSubmission("cancelled")
		return
	}

	s.log.WithError(err).Error("[Submit] Session creation failed")
	s.status.Report(StatusError, "Submission failed: "+err.Error())
	metrics.ObserveSubmission("error")
}
