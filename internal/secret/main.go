package secret

import (
	"crypto/ecdsa"
	goerr "errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrNoWalletKey = goerr.New("wallet private key is not configured")

// WalletSecret is the submitting account's signing key.
type WalletSecret struct {
	prv *ecdsa.PrivateKey
}

func NewWalletSecret(prv *ecdsa.PrivateKey) *WalletSecret {
	if prv == nil {
		panic(ErrNoWalletKey)
	}

	return &WalletSecret{prv: prv}
}

func (w *WalletSecret) PrivateKey() *ecdsa.PrivateKey {
	return w.prv
}

func (w *WalletSecret) Address() common.Address {
	return crypto.PubkeyToAddress(w.prv.PublicKey)
}

// Storage is responsible for wallet key custody. Implementations either read
// the key from local configuration or from Vault.
type Storage interface {
	GetWalletSecret() (*WalletSecret, error)
}
