package fhe

import (
	"context"
	"encoding/json"
	goerr "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
)

type relayerStub struct {
	keysCalls    int
	encryptCalls int
	decryptCalls int
}

func (s *relayerStub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(keysPath, func(w http.ResponseWriter, r *http.Request) {
		s.keysCalls++
		json.NewEncoder(w).Encode(map[string]string{"publicKeyId": "pk-1"})
	})

	mux.HandleFunc(inputProofPath, func(w http.ResponseWriter, r *http.Request) {
		s.encryptCalls++
		var req struct {
			Value uint64 `json:"value"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{
			"handle":     "0xc100000000000000000000000000000000000000000000000000000000000000",
			"inputProof": "0x1234",
		})
	})

	mux.HandleFunc(publicDecryptPath, func(w http.ResponseWriter, r *http.Request) {
		s.decryptCalls++
		var req struct {
			Handles []string `json:"handles"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		clearValues := make(map[string]uint64, len(req.Handles))
		for _, h := range req.Handles {
			clearValues[h] = 6
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"clearValues":           clearValues,
			"abiEncodedClearValues": "0xaabb",
			"decryptionProof":       "0xccdd",
		})
	})

	return mux
}

func newTestRelayer(t *testing.T) (*Relayer, *relayerStub) {
	stub := &relayerStub{}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	return NewRelayer(server.URL, time.Second, logan.New()), stub
}

func TestRelayerInitialize(t *testing.T) {
	ctx := context.Background()
	relayer, stub := newTestRelayer(t)

	assert.False(t, relayer.IsInitialized())
	require.NoError(t, relayer.Initialize(ctx))
	require.NoError(t, relayer.Initialize(ctx))

	assert.True(t, relayer.IsInitialized())
	assert.Equal(t, 1, stub.keysCalls)
}

func TestRelayerEncrypt(t *testing.T) {
	ctx := context.Background()
	contract := common.HexToAddress("0xcc")
	account := common.HexToAddress("0xaa")

	t.Run("requires initialization", func(t *testing.T) {
		relayer, _ := newTestRelayer(t)
		_, err := relayer.Encrypt(ctx, contract, account, 7)
		assert.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("returns handle and proof", func(t *testing.T) {
		relayer, _ := newTestRelayer(t)
		require.NoError(t, relayer.Initialize(ctx))

		result, err := relayer.Encrypt(ctx, contract, account, 7)
		require.NoError(t, err)
		assert.Equal(t, byte(0xc1), result.Ciphertext[0])
		assert.Equal(t, []byte{0x12, 0x34}, result.Proof)
	})
}

func TestRelayerVerifyDecryption(t *testing.T) {
	ctx := context.Background()
	contract := common.HexToAddress("0xcc")
	handle := [32]byte{0xc1}

	t.Run("submits before returning", func(t *testing.T) {
		relayer, _ := newTestRelayer(t)
		require.NoError(t, relayer.Initialize(ctx))

		var submittedClear, submittedProof []byte
		result, err := relayer.VerifyDecryption(ctx, [][32]byte{handle}, contract,
			func(_ context.Context, clearValues, proof []byte) error {
				submittedClear = clearValues
				submittedProof = proof
				return nil
			})
		require.NoError(t, err)

		assert.Equal(t, []byte{0xaa, 0xbb}, submittedClear)
		assert.Equal(t, []byte{0xcc, 0xdd}, submittedProof)

		value, ok := result.Value(handle)
		require.True(t, ok)
		assert.Equal(t, uint64(6), value)
	})

	t.Run("propagates submission failure", func(t *testing.T) {
		relayer, _ := newTestRelayer(t)
		require.NoError(t, relayer.Initialize(ctx))

		submitErr := goerr.New("execution reverted: Data already verified")
		_, err := relayer.VerifyDecryption(ctx, [][32]byte{handle}, contract,
			func(context.Context, []byte, []byte) error {
				return submitErr
			})
		assert.ErrorIs(t, err, submitErr)
	})

	t.Run("requires initialization", func(t *testing.T) {
		relayer, _ := newTestRelayer(t)
		_, err := relayer.VerifyDecryption(ctx, [][32]byte{handle}, contract,
			func(context.Context, []byte, []byte) error { return nil })
		assert.ErrorIs(t, err, ErrNotInitialized)
	})
}
