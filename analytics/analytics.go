// Package analytics sends fire-and-forget interaction events to an HTTP
// collector.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 64
	defaultTimeout   = 5 * time.Second
)

// Event is one tracked interaction.
type Event struct {
	Category string  `json:"category"`
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	Value    float64 `json:"value,omitempty"`
}

// payload is the JSON body posted for each event.
type payload struct {
	ID       string    `json:"id"`
	ClientID string    `json:"client_id"`
	Time     time.Time `json:"time"`
	Event
}

// Options configures a Dispatcher.
type Options struct {
	// Endpoint is the collector URL. Empty disables dispatch.
	Endpoint  string
	QueueSize int
	Timeout   time.Duration
	Client    *http.Client
	Logger    *zap.Logger
}

// Dispatcher queues events and posts them from a single worker goroutine.
// Failures are logged and dropped.
type Dispatcher struct {
	endpoint string
	clientID string
	client   *http.Client
	logger   *zap.Logger

	queue  chan payload
	done   chan struct{}
	cancel context.CancelFunc // aborts an in-flight send on Close
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewDispatcher creates a dispatcher and starts its worker. With an empty
// endpoint no worker is started and Track is a no-op.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	d := &Dispatcher{
		endpoint: opts.Endpoint,
		clientID: uuid.NewString(),
		client:   opts.Client,
		logger:   opts.Logger,
		done:     make(chan struct{}),
	}
	if d.endpoint == "" {
		d.closed = true
		return d
	}
	d.queue = make(chan payload, opts.QueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go d.run(ctx)
	return d
}

// ClientID returns the id stamped on every event from this dispatcher.
func (d *Dispatcher) ClientID() string {
	return d.clientID
}

// Enabled reports whether events are being sent.
func (d *Dispatcher) Enabled() bool {
	return d.endpoint != ""
}

// Dropped returns the number of events discarded because the queue was
// full.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Track queues ev without blocking. It is dropped if the queue is full or
// the dispatcher is closed.
func (d *Dispatcher) Track(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	p := payload{
		ID:       uuid.NewString(),
		ClientID: d.clientID,
		Time:     time.Now().UTC(),
		Event:    ev,
	}
	select {
	case d.queue <- p:
	default:
		d.dropped++
		d.logger.Warn("analytics: queue full, event dropped",
			zap.String("category", ev.Category),
			zap.String("action", ev.Action),
		)
	}
}

// Close stops the worker. Events still queued are discarded. Safe to call
// more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.wg.Wait()
		return
	}
	d.closed = true
	close(d.done)
	d.cancel()
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case p := <-d.queue:
			if err := d.send(ctx, p); err != nil {
				d.logger.Warn("analytics: send failed",
					zap.String("id", p.ID),
					zap.Error(err),
				)
			}
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, p payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post event: unexpected status %s", resp.Status)
	}
	return nil
}
