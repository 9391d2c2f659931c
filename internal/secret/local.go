package secret

import (
	"github.com/privmind/therapy-svc/internal/config"
)

// LocalStorage serves the wallet key from local configuration. Suitable for
// development deployments only.
type LocalStorage struct {
	cfg config.Config
}

var _ Storage = &LocalStorage{}

func NewLocalStorage(cfg config.Config) *LocalStorage {
	return &LocalStorage{cfg: cfg}
}

func (l *LocalStorage) GetWalletSecret() (*WalletSecret, error) {
	prv := l.cfg.Private().PrivateKey
	if prv == nil {
		return nil, ErrNoWalletKey
	}

	return NewWalletSecret(prv), nil
}
