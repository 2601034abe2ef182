package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"regdesk/internal/registration/models"
	id "regdesk/pkg/domain"
)

// DefaultDelay is the quiet period after the last input before a draft is
// written.
const DefaultDelay = 2 * time.Second

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once adapted by
// RealAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc schedules on the runtime timer.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SaveFunc writes one device's draft.
type SaveFunc func(ctx context.Context, device id.DeviceID, d models.FormData) error

type pending struct {
	timer Timer
	data  models.FormData
	gen   uint64
}

// Debouncer coalesces input events per device into one save after a quiet
// period. Each new event for a device resets its timer.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	save    SaveFunc
	logger  *slog.Logger
	pending map[id.DeviceID]*pending
	running map[id.DeviceID]chan struct{}
	gen     uint64
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) DebouncerOption {
	return func(db *Debouncer) {
		if d > 0 {
			db.delay = d
		}
	}
}

// WithAfterFunc replaces the timer source, for tests.
func WithAfterFunc(after AfterFunc) DebouncerOption {
	return func(db *Debouncer) {
		db.after = after
	}
}

// WithDebounceLogger sets the logger for failed background saves.
func WithDebounceLogger(logger *slog.Logger) DebouncerOption {
	return func(db *Debouncer) {
		db.logger = logger
	}
}

// NewDebouncer builds a debouncer that calls save when a device goes quiet.
func NewDebouncer(save SaveFunc, opts ...DebouncerOption) *Debouncer {
	db := &Debouncer{
		delay:   DefaultDelay,
		after:   RealAfterFunc,
		save:    save,
		logger:  slog.Default(),
		pending: make(map[id.DeviceID]*pending),
		running: make(map[id.DeviceID]chan struct{}),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Schedule records the latest snapshot and restarts the device's timer.
func (db *Debouncer) Schedule(device id.DeviceID, d models.FormData) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if p, ok := db.pending[device]; ok {
		p.timer.Stop()
	}
	db.gen++
	gen := db.gen
	p := &pending{data: d, gen: gen}
	p.timer = db.after(db.delay, func() { db.fire(device, gen) })
	db.pending[device] = p
}

// Cancel drops the device's pending save, if any. A save already running
// for the device finishes before Cancel returns, so a write that follows
// Cancel is never overwritten by it.
func (db *Debouncer) Cancel(device id.DeviceID) {
	db.mu.Lock()
	if p, ok := db.pending[device]; ok {
		p.timer.Stop()
		delete(db.pending, device)
	}
	done := db.running[device]
	db.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Pending reports whether a save is scheduled for the device.
func (db *Debouncer) Pending(device id.DeviceID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.pending[device]
	return ok
}

func (db *Debouncer) fire(device id.DeviceID, gen uint64) {
	db.mu.Lock()
	p, ok := db.pending[device]
	if !ok || p.gen != gen {
		db.mu.Unlock()
		return
	}
	delete(db.pending, device)
	done := make(chan struct{})
	db.running[device] = done
	db.mu.Unlock()

	defer func() {
		db.mu.Lock()
		if db.running[device] == done {
			delete(db.running, device)
		}
		db.mu.Unlock()
		close(done)
	}()

	ctx := context.Background()
	if err := db.save(ctx, device, p.data); err != nil {
		db.logger.ErrorContext(ctx, "debounced draft save failed",
			"device_id", device.String(),
			"error", err,
		)
	}
}

// Flush stops every timer and saves all pending snapshots now.
func (db *Debouncer) Flush(ctx context.Context) error {
	db.mu.Lock()
	batch := db.pending
	db.pending = make(map[id.DeviceID]*pending)
	db.mu.Unlock()

	var errs []error
	for device, p := range batch {
		p.timer.Stop()
		if err := db.save(ctx, device, p.data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
