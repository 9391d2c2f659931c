package config

import (
	vault "github.com/hashicorp/vault/api"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

type Config interface {
	comfig.Logger
	comfig.Listenerer
	Ethereumer
	Fher
	Sessioner

	Private() *PrivateInfo
	Vault() *vault.KVv2
}

type config struct {
	comfig.Logger
	comfig.Listenerer
	Ethereumer
	Fher
	Sessioner
	getter  kv.Getter
	private comfig.Once
	vault   comfig.Once
}

func New(getter kv.Getter) Config {
	return &config{
		getter:     getter,
		Logger:     comfig.NewLogger(getter, comfig.LoggerOpts{}),
		Listenerer: comfig.NewListenerer(getter),
		Ethereumer: NewEthereumer(getter),
		Fher:       NewFher(getter),
		Sessioner:  NewSessioner(getter),
	}
}
