package core

import (
	"context"
	goerr "errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/privmind/therapy-svc/internal/data"
	"github.com/privmind/therapy-svc/internal/fhe"
	"github.com/privmind/therapy-svc/internal/ledger"
)

var testContract = common.HexToAddress("0x00000000000000000000000000000000000000cc")

// mockLedger implements Reader and Writer over an in-memory record set.
type mockLedger struct {
	mu      sync.Mutex
	order   []string
	records map[string]data.Session
	handles map[string][32]byte

	failHydrate map[string]bool
	enumErr     error
	createErr   error
	submitErr   error
	available   bool

	createCalls int
	submitCalls int

	// verifiedValue is what a successful proof submission pins on-chain.
	verifiedValue uint64
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		records:     make(map[string]data.Session),
		handles:     make(map[string][32]byte),
		failHydrate: make(map[string]bool),
		available:   true,
	}
}

func (m *mockLedger) add(session data.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, session.ID)
	m.records[session.ID] = session
}

func (m *mockLedger) AllSessionIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enumErr != nil {
		return nil, m.enumErr
	}
	return append([]string(nil), m.order...), nil
}

func (m *mockLedger) SessionData(_ context.Context, id string) (data.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failHydrate[id] {
		return data.Session{}, goerr.New("hydration failed")
	}

	session, ok := m.records[id]
	if !ok {
		return data.Session{}, goerr.New("no such session")
	}
	return session, nil
}

func (m *mockLedger) EncryptedValue(_ context.Context, id string) ([32]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles[id], nil
}

func (m *mockLedger) IsAvailable(context.Context) (bool, error) {
	return m.available, nil
}

func (m *mockLedger) Account() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (m *mockLedger) CreateSession(_ context.Context, p ledger.CreateParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}

	m.order = append(m.order, p.ID)
	m.records[p.ID] = data.Session{
		ID:           p.ID,
		Title:        p.Title,
		PublicValue1: p.Mirror,
		Creator:      m.Account(),
	}
	m.handles[p.ID] = p.Ciphertext
	return nil
}

func (m *mockLedger) SubmitDecryptionProof(_ context.Context, id string, _, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.submitCalls++
	if m.submitErr != nil {
		return m.submitErr
	}

	session := m.records[id]
	session.IsVerified = true
	session.DecryptedValue = m.verifiedValue
	m.records[id] = session
	return nil
}

// mockFHE implements fhe.Client with canned results.
type mockFHE struct {
	initialized bool
	encryptErr  error

	encryptCalls int
	verifyCalls  int

	ciphertext [32]byte
	clearValue uint64
}

func newMockFHE() *mockFHE {
	return &mockFHE{initialized: true, ciphertext: [32]byte{0xc1}}
}

func (m *mockFHE) Initialize(context.Context) error {
	m.initialized = true
	return nil
}

func (m *mockFHE) IsInitialized() bool {
	return m.initialized
}

func (m *mockFHE) Encrypt(context.Context, common.Address, common.Address, uint64) (*fhe.EncryptResult, error) {
	m.encryptCalls++
	if m.encryptErr != nil {
		return nil, m.encryptErr
	}
	return &fhe.EncryptResult{Ciphertext: m.ciphertext, Proof: []byte("proof")}, nil
}

func (m *mockFHE) VerifyDecryption(ctx context.Context, handles [][32]byte, _ common.Address, submit fhe.SubmitFn) (*fhe.DecryptionResult, error) {
	m.verifyCalls++

	if err := submit(ctx, []byte("clear"), []byte("proof")); err != nil {
		return nil, err
	}

	clearValues := make(map[string]uint64, len(handles))
	for _, h := range handles {
		clearValues[fhe.HandleHex(h)] = m.clearValue
	}
	return &fhe.DecryptionResult{ClearValues: clearValues}, nil
}

// mockRefresher counts refresh invocations.
type mockRefresher struct {
	calls int
}

func (m *mockRefresher) Refresh(context.Context) error {
	m.calls++
	return nil
}
