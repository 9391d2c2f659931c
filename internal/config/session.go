package config

import (
	"time"

	"gitlab.com/distributed_lab/figure"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

const defaultPollInterval = 15 * time.Second

type Sessioner interface {
	Session() *SessionInfo
}

type SessionInfo struct {
	PollInterval time.Duration `fig:"poll_interval"`
}

type sessioner struct {
	getter kv.Getter
	once   comfig.Once
}

func NewSessioner(getter kv.Getter) Sessioner {
	return &sessioner{getter: getter}
}

func (s *sessioner) Session() *SessionInfo {
	return s.once.Do(func() interface{} {
		info := &SessionInfo{}
		if err := figure.Out(info).From(kv.MustGetStringMap(s.getter, "session")).Please(); err != nil {
			panic(err)
		}

		if info.PollInterval == 0 {
			info.PollInterval = defaultPollInterval
		}
		return info
	}).(*SessionInfo)
}
