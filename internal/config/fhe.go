package config

import (
	"time"

	"gitlab.com/distributed_lab/figure"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

type Fher interface {
	Fhe() *FheConfig
}

type FheConfig struct {
	Addr           string        `fig:"addr,required"`
	RequestTimeout time.Duration `fig:"request_timeout"`
}

type fher struct {
	getter kv.Getter
	once   comfig.Once
}

func NewFher(getter kv.Getter) Fher {
	return &fher{getter: getter}
}

func (f *fher) Fhe() *FheConfig {
	return f.once.Do(func() interface{} {
		cfg := &FheConfig{}

		if err := figure.Out(cfg).From(kv.MustGetStringMap(f.getter, "fhe")).Please(); err != nil {
			panic(err)
		}

		return cfg
	}).(*FheConfig)
}
