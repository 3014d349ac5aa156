package sms

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type message struct {
	phone string
	code  string
}

// Dispatcher delivers OTP messages asynchronously through a fixed set of
// workers. Messages are sharded by phone number with consistent hashing, so
// codes for the same phone are always delivered in issue order.
type Dispatcher struct {
	workers []chan message
	sender  ports.OTPSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers
// delegating to sender. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.OTPSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan message, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues a message for asynchronous delivery. It satisfies
// ports.OTPSender and is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Send(_ context.Context, phone, code string) error {
	d.workers[d.shardIndex(phone)] <- message{phone: phone, code: code}
	return nil
}

// shardIndex maps a phone number deterministically to a worker index.
func (d *Dispatcher) shardIndex(phone string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, msg.phone, msg.code); err != nil {
				d.log.Error().Err(err).
					Str("phone", msg.phone).
					Int("worker_id", id).
					Msg("otp delivery failed")
			}
		}
	}
}
