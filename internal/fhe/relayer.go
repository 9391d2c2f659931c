package fhe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

const (
	keysPath          = "/v1/keys"
	inputProofPath    = "/v1/input-proofs"
	publicDecryptPath = "/v1/public-decrypt"

	defaultRequestTimeout = 30 * time.Second
)

// Relayer is an FHE gateway client. Encryption and decryption-verification are
// performed by the relayer service; the Go side only moves handles and proofs.
type Relayer struct {
	addr string
	http *http.Client
	log  *logan.Entry

	mu          sync.Mutex
	initialized bool
}

var _ Client = &Relayer{}

func NewRelayer(addr string, timeout time.Duration, log *logan.Entry) *Relayer {
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &Relayer{
		addr: addr,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Initialize fetches the relayer key material. Safe to call repeatedly; only
// the first successful call talks to the service.
func (r *Relayer) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	var resp struct {
		PublicKeyID string `json:"publicKeyId"`
	}

	if err := r.get(ctx, keysPath, &resp); err != nil {
		return errors.Wrap(err, "failed to fetch relayer keys")
	}

	r.log.Infof("[FHE] Initialized with public key %s", resp.PublicKeyID)
	r.initialized = true
	return nil
}

func (r *Relayer) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

func (r *Relayer) Encrypt(ctx context.Context, contract, account common.Address, value uint64) (*EncryptResult, error) {
	if !r.IsInitialized() {
		return nil, ErrNotInitialized
	}

	req := struct {
		ContractAddress string `json:"contractAddress"`
		UserAddress     string `json:"userAddress"`
		Value           uint64 `json:"value"`
	}{contract.Hex(), account.Hex(), value}

	var resp struct {
		Handle     string `json:"handle"`
		InputProof string `json:"inputProof"`
	}

	if err := r.post(ctx, inputProofPath, req, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to encrypt value")
	}

	handle, err := decodeHandle(resp.Handle)
	if err != nil {
		return nil, err
	}

	proof, err := hexutil.Decode(resp.InputProof)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode input proof")
	}

	return &EncryptResult{Ciphertext: handle, Proof: proof}, nil
}

// VerifyDecryption asks the relayer to decrypt the handles, submits the
// resulting cleartext-and-proof pair through submit, and returns the clear
// value map only after the submission has settled.
func (r *Relayer) VerifyDecryption(ctx context.Context, handles [][32]byte, contract common.Address, submit SubmitFn) (*DecryptionResult, error) {
	if !r.IsInitialized() {
		return nil, ErrNotInitialized
	}

	req := struct {
		Handles         []string `json:"handles"`
		ContractAddress string   `json:"contractAddress"`
	}{make([]string, 0, len(handles)), contract.Hex()}

	for _, h := range handles {
		req.Handles = append(req.Handles, HandleHex(h))
	}

	var resp struct {
		ClearValues           map[string]uint64 `json:"clearValues"`
		AbiEncodedClearValues string            `json:"abiEncodedClearValues"`
		DecryptionProof       string            `json:"decryptionProof"`
	}

	if err := r.post(ctx, publicDecryptPath, req, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to request decryption")
	}

	clearValues, err := hexutil.Decode(resp.AbiEncodedClearValues)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode clear values")
	}

	proof, err := hexutil.Decode(resp.DecryptionProof)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode decryption proof")
	}

	if err := submit(ctx, clearValues, proof); err != nil {
		return nil, err
	}

	return &DecryptionResult{ClearValues: resp.ClearValues}, nil
}

func (r *Relayer) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.addr+path, nil)
	if err != nil {
		return err
	}

	return r.do(req, out)
}

func (r *Relayer) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.addr+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return r.do(req, out)
}

func (r *Relayer) do(req *http.Request, out interface{}) error {
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("relayer responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// HandleHex is the canonical string form of a ciphertext handle, used as the
// clear-value map key.
func HandleHex(handle [32]byte) string {
	return hexutil.Encode(handle[:])
}

func decodeHandle(s string) ([32]byte, error) {
	var handle [32]byte

	raw, err := hexutil.Decode(s)
	if err != nil {
		return handle, errors.Wrap(err, "failed to decode ciphertext handle")
	}
	if len(raw) != len(handle) {
		return handle, errors.From(errors.New("unexpected handle length"), logan.F{"len": len(raw)})
	}

	copy(handle[:], raw)
	return handle, nil
}
