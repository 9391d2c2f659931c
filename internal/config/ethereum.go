package config

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/figure"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

type Ethereumer interface {
	Ethereum() *EthereumConfig
}

type EthereumConfig struct {
	Client       *ethclient.Client
	ContractAddr common.Address
	ChainID      *big.Int
	// SubmitMirror controls whether the plaintext mood value is recorded
	// alongside its ciphertext at creation time.
	SubmitMirror bool
}

type ethereumer struct {
	getter kv.Getter
	once   comfig.Once
}

func NewEthereumer(getter kv.Getter) Ethereumer {
	return &ethereumer{getter: getter}
}

func (e *ethereumer) Ethereum() *EthereumConfig {
	return e.once.Do(func() interface{} {
		var cfg struct {
			Addr         string `fig:"addr,required"`
			ContractAddr string `fig:"contract_addr,required"`
			ChainID      int64  `fig:"chain_id,required"`
			SubmitMirror bool   `fig:"submit_mirror"`
		}

		if err := figure.Out(&cfg).From(kv.MustGetStringMap(e.getter, "ethereum")).Please(); err != nil {
			panic(err)
		}

		client, err := ethclient.Dial(cfg.Addr)
		if err != nil {
			panic(err)
		}

		return &EthereumConfig{
			Client:       client,
			ContractAddr: common.HexToAddress(cfg.ContractAddr),
			ChainID:      big.NewInt(cfg.ChainID),
			SubmitMirror: cfg.SubmitMirror,
		}
	}).(*EthereumConfig)
}
