package botcache

import (
	"context"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/sirupsen/logrus"
)

const saveTimeout = 5 * time.Second

// persister coalesces bursts of cache mutations into a single snapshot
// write. Every schedule call pushes the write back by delay, but a pending
// write never waits longer than maxWait.
type persister struct {
	logger   *logrus.Logger
	store    classification.SnapshotStore
	snapshot func() ([]byte, error)
	delay    time.Duration
	maxWait  time.Duration

	mu           sync.Mutex
	timer        *time.Timer
	pending      bool
	pendingSince time.Time
	closed       bool

	writeMu sync.Mutex
}

func newPersister(
	logger *logrus.Logger,
	store classification.SnapshotStore,
	snapshot func() ([]byte, error),
	delay time.Duration,
	maxWait time.Duration,
) *persister {
	return &persister{
		logger:   logger,
		store:    store,
		snapshot: snapshot,
		delay:    delay,
		maxWait:  maxWait,
	}
}

func (p *persister) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if !p.pending {
		p.pending = true
		p.pendingSince = time.Now()
		if p.timer == nil {
			p.timer = time.AfterFunc(p.delay, p.fire)
		} else {
			p.timer.Reset(p.delay)
		}
		return
	}
	if time.Since(p.pendingSince) < p.maxWait {
		p.timer.Reset(p.delay)
	}
}

func (p *persister) fire() {
	p.mu.Lock()
	if !p.pending {
		p.mu.Unlock()
		return
	}
	p.pending = false
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := p.flush(ctx); err != nil {
		p.logger.WithError(err).Error("failed to persist bot cache snapshot")
	}
}

func (p *persister) flush(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	data, err := p.snapshot()
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, data); err != nil {
		return err
	}
	p.logger.WithField("bytes", len(data)).Debug("bot cache snapshot persisted")
	return nil
}

// close stops the timer and writes any pending snapshot synchronously.
func (p *persister) close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	pending := p.pending
	p.pending = false
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()

	if !pending {
		return nil
	}
	return p.flush(ctx)
}
