package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/inverland/estate-crm/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes campaign deliveries to a fixed set of workers using
// consistent hashing on the client id, guaranteeing per-client ordering when
// a client appears in several campaigns.
type Dispatcher struct {
	workers []chan ports.CampaignDelivery
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CampaignDelivery, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CampaignDelivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a delivery to the worker responsible for its client.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(delivery ports.CampaignDelivery) {
	d.workers[d.shardIndex(delivery.ClientID)] <- delivery
}

// EnqueueBatch enqueues multiple deliveries preserving per-client ordering.
func (d *Dispatcher) EnqueueBatch(deliveries []ports.CampaignDelivery) {
	for _, del := range deliveries {
		d.Enqueue(del)
	}
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CampaignDelivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-ch:
			if !ok {
				return
			}
			// Delivery failures never undo the campaign send.
			if err := d.mailer.Send(delivery); err != nil {
				d.log.Error().Err(err).
					Str("campaign_id", delivery.CampaignID).
					Str("client_id", delivery.ClientID).
					Int("worker_id", id).
					Msg("campaign delivery failed")
			}
		}
	}
}
