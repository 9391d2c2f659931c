package timer

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/logan/v3"
)

// BlockSubscriber polls the ethereum endpoint for new block heights and
// pushes them to the timer. Polling is used because the RPC endpoint is plain
// HTTP without a subscription channel.
type BlockSubscriber struct {
	timer    *Timer
	eth      *ethclient.Client
	interval time.Duration
	log      *logan.Entry
}

// NewBlockSubscriber creates the subscriber instance for watching new blocks
func NewBlockSubscriber(timer *Timer, eth *ethclient.Client, interval time.Duration, log *logan.Entry) *BlockSubscriber {
	return &BlockSubscriber{
		timer:    timer,
		eth:      eth,
		interval: interval,
		log:      log,
	}
}

func (b *BlockSubscriber) Run(ctx context.Context) {
	go b.runner(ctx)
}

func (b *BlockSubscriber) runner(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		height, err := b.eth.BlockNumber(ctx)
		if err != nil {
			b.log.WithError(err).Error("[Block] Failed to fetch block height")
			continue
		}

		if height > b.timer.CurrentBlock() {
			b.log.Debugf("[Block] Received new block height: %d", height)
			b.timer.newBlock(height)
		}
	}
}
