package secret

import (
	"context"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	vault "github.com/hashicorp/vault/api"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"

	"github.com/privmind/therapy-svc/internal/config"
)

const walletKey = "wallet"

// VaultStorage serves the wallet key from a Vault KVv2 secret.
type VaultStorage struct {
	once   sync.Once
	secret *WalletSecret
	err    error

	client *vault.KVv2
	path   string
	log    *logan.Entry
}

var _ Storage = &VaultStorage{}

func NewVaultStorage(cfg config.Config) *VaultStorage {
	return &VaultStorage{
		client: cfg.Vault(),
		path:   os.Getenv(config.VaultSecretPath),
		log:    cfg.Log(),
	}
}

func (v *VaultStorage) GetWalletSecret() (*WalletSecret, error) {
	v.once.Do(func() {
		v.secret, v.err = v.loadSecret()
	})

	return v.secret, v.err
}

func (v *VaultStorage) loadSecret() (*WalletSecret, error) {
	kvSecret, err := v.client.Get(context.Background(), v.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get secret data")
	}

	raw, ok := kvSecret.Data[walletKey].(string)
	if !ok || raw == "" {
		return nil, ErrNoWalletKey
	}

	prv, err := crypto.ToECDSA(hexutil.MustDecode(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse wallet key")
	}

	v.log.Info("[Vault] Loaded wallet key")
	return NewWalletSecret(prv), nil
}
