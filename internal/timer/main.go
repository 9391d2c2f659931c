package timer

import (
	"sync"

	"gitlab.com/distributed_lab/logan/v3"
)

type BlockNotifier func(height uint64) error

// Timer provides the chain-height tick source for the session system.
// Use SubscribeToBlocks to receive notifications about new blocks.
type Timer struct {
	mu           sync.Mutex
	currentBlock uint64
	toNotify     map[string]BlockNotifier
	log          *logan.Entry
}

func NewTimer(log *logan.Entry) *Timer {
	return &Timer{
		toNotify: make(map[string]BlockNotifier),
		log:      log,
	}
}

// Only for internal usage in block subscriber
func (t *Timer) newBlock(height uint64) {
	t.mu.Lock()
	t.currentBlock = height
	t.mu.Unlock()

	go t.notifyAll(height)
}

func (t *Timer) CurrentBlock() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentBlock
}

// SubscribeToBlocks adds a receiver method to notify for new block events
func (t *Timer) SubscribeToBlocks(name string, f BlockNotifier) {
	t.mu.Lock()
	t.toNotify[name] = f
	current := t.currentBlock
	t.mu.Unlock()

	go t.notify(current, name, f)
}

func (t *Timer) notifyAll(height uint64) {
	t.mu.Lock()
	subscribers := make(map[string]BlockNotifier, len(t.toNotify))
	for name, f := range t.toNotify {
		subscribers[name] = f
	}
	t.mu.Unlock()

	for name, f := range subscribers {
		t.notify(height, name, f)
	}
}

func (t *Timer) notify(height uint64, name string, f BlockNotifier) {
	if err := f(height); err != nil {
		t.log.WithError(err).Errorf("[Block] Got an error notifying for the new block %s", name)
	}
}
