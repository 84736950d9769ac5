package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/palette"
)

// DefaultDelay is the debounce window for slider and swatch edits.
const DefaultDelay = 300 * time.Millisecond

// Debounce channels. Every delayed value update shares one timer and every
// delayed color update shares another, whichever field they target.
const (
	ChannelValue = "value"
	ChannelColor = "color"
)

// Poster sends field updates to a controller. *device.Client implements it.
type Poster interface {
	PostValue(ctx context.Context, name, value string) (*device.Reply, error)
	PostColor(ctx context.Context, name string, color palette.RGB) (*device.Reply, error)
}

// Dispatcher sends field updates and reports their progress as
// events.StatusEvent on the bus. Debounced updates are keyed per channel, so
// scrubbing brightness never cancels a pending color change, but a second
// number field edited inside the window replaces the first.
type Dispatcher struct {
	poster Poster
	bus    *events.Bus
	delay  time.Duration

	// ctx bounds debounced sends; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	debouncers map[string]*Debouncer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDelay overrides the debounce window. Non-positive values are ignored.
func WithDelay(delay time.Duration) Option {
	return func(d *Dispatcher) {
		if delay > 0 {
			d.delay = delay
		}
	}
}

// New creates a dispatcher. bus may be nil, in which case status updates are
// only logged.
func New(poster Poster, bus *events.Bus, opts ...Option) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		poster:     poster,
		bus:        bus,
		delay:      DefaultDelay,
		ctx:        ctx,
		cancel:     cancel,
		debouncers: make(map[string]*Debouncer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the debounce window in use.
func (d *Dispatcher) Delay() time.Duration {
	return d.delay
}

// PostValue sets name to value on the controller right away.
func (d *Dispatcher) PostValue(ctx context.Context, name, value string) error {
	logging.LogUpdate(ChannelValue, name, value)
	d.status(events.StatusPending, fmt.Sprintf("Setting %s: %s, please wait...", name, value))

	reply, err := d.poster.PostValue(ctx, name, value)
	if err != nil {
		updatesFailed.WithLabelValues(name).Inc()
		logging.Warn("Field update failed", zap.String("field", name), zap.Error(err))
		d.status(events.StatusFailure, "Fail: "+device.ShortMessage(err))
		return err
	}

	updatesSent.WithLabelValues(name).Inc()
	d.status(events.StatusSuccess, fmt.Sprintf("Set %s: %s", name, reply.Text()))
	return nil
}

// PostColor sets the color field name to color on the controller right away.
func (d *Dispatcher) PostColor(ctx context.Context, name string, color palette.RGB) error {
	components := color.Components()
	logging.LogUpdate(ChannelColor, name, components)
	d.status(events.StatusPending, fmt.Sprintf("Setting %s: %s, please wait...", name, components))

	reply, err := d.poster.PostColor(ctx, name, color)
	if err != nil {
		updatesFailed.WithLabelValues(name).Inc()
		logging.Warn("Color update failed", zap.String("field", name), zap.Error(err))
		status, reason := device.StatusText(err)
		d.status(events.StatusFailure, fmt.Sprintf("Fail: %s %s", status, reason))
		return err
	}

	updatesSent.WithLabelValues(name).Inc()
	d.status(events.StatusSuccess, fmt.Sprintf("Set %s: %s", name, reply.Raw))
	return nil
}

// DelayPostValue schedules PostValue after the debounce window, replacing any
// value update still waiting on the value channel.
func (d *Dispatcher) DelayPostValue(name, value string) {
	d.schedule(ChannelValue, name, func() { _ = d.PostValue(d.ctx, name, value) })
}

// DelayPostColor schedules PostColor after the debounce window, replacing any
// color update still waiting on the color channel.
func (d *Dispatcher) DelayPostColor(name string, color palette.RGB) {
	d.schedule(ChannelColor, name, func() { _ = d.PostColor(d.ctx, name, color) })
}

func (d *Dispatcher) schedule(channel, name string, fn func()) {
	if d.debouncer(channel).Schedule(fn) {
		updatesCoalesced.WithLabelValues(name).Inc()
	}
}

func (d *Dispatcher) debouncer(channel string) *Debouncer {
	d.mu.Lock()
	defer d.mu.Unlock()

	deb, ok := d.debouncers[channel]
	if !ok {
		deb = NewDebouncer(d.delay)
		d.debouncers[channel] = deb
	}
	return deb
}

func (d *Dispatcher) snapshot() []*Debouncer {
	d.mu.Lock()
	defer d.mu.Unlock()

	debs := make([]*Debouncer, 0, len(d.debouncers))
	for _, deb := range d.debouncers {
		debs = append(debs, deb)
	}
	return debs
}

// Pending reports whether any debounced update is waiting.
func (d *Dispatcher) Pending() bool {
	for _, deb := range d.snapshot() {
		if deb.Pending() {
			return true
		}
	}
	return false
}

// Flush sends every waiting update now and returns how many were sent.
func (d *Dispatcher) Flush() int {
	n := 0
	for _, deb := range d.snapshot() {
		if deb.Flush() {
			n++
		}
	}
	return n
}

// Stop drops waiting updates and cancels any debounced send in flight.
func (d *Dispatcher) Stop() {
	for _, deb := range d.snapshot() {
		deb.Cancel()
	}
	d.cancel()
}

func (d *Dispatcher) status(level events.StatusLevel, text string) {
	logging.Debug("Status", zap.String("text", text))
	if d.bus == nil {
		return
	}
	d.bus.Publish(events.StatusEvent{Text: text, Level: level, Timestamp: time.Now()})
}
