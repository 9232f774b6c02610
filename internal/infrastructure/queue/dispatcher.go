package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/weyoung/user-center/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Revocation asks the session manager to drop every live session of a user,
// typically after an admin ban or account deletion.
type Revocation struct {
	UserID  int64
	Account string
}

// Dispatcher routes revocations to a fixed set of workers, sharded by
// account name so revocations for one user are applied in order.
type Dispatcher struct {
	workers  []chan Revocation
	sessions ports.SessionService
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sessions ports.SessionService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan Revocation, numWorkers),
		sessions: sessions,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Revocation, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a revocation to the worker responsible for the account.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(rev Revocation) {
	d.workers[d.shardIndex(rev.Account)] <- rev
}

// shardIndex maps an account deterministically to a worker index.
func (d *Dispatcher) shardIndex(account string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(account))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Revocation) {
	for {
		select {
		case <-ctx.Done():
			return
		case rev, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sessions.RevokeUser(ctx, rev.UserID); err != nil {
				d.log.Error().Err(err).
					Int64("user_id", rev.UserID).
					Int("worker_id", id).
					Msg("session revocation failed")
			}
		}
	}
}
