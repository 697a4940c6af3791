package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"ontrack/pkg/model"
)

// WatcherState tracks where an AvailabilityWatcher is in its lifecycle.
type WatcherState int

const (
	StateIdle WatcherState = iota
	StateDateSelected
	StatePolling
	// StatePaused is the tab-hidden suspension; Resume returns to
	// polling.
	StatePaused
	// StateStopped means polling halted after consecutive fetch
	// failures. Resume does not leave it; a fresh SelectSlot does.
	StateStopped
	// StateExpired is terminal for the session; only Close leaves it.
	StateExpired
)

func (s WatcherState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDateSelected:
		return "date-selected"
	case StatePolling:
		return "polling"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

var (
	ErrNoSlotSelected = errors.New("no date and slot selected")
	ErrWatcherClosed  = errors.New("watcher is closed")
	ErrSessionExpired = errors.New("booking session expired")
)

type WatcherConfig struct {
	// PollInterval is how often the selected date is refreshed while
	// polling.
	PollInterval time.Duration
	// MinFetchSpacing is the floor between consecutive fetches no
	// matter what triggered them.
	MinFetchSpacing time.Duration
	// MaxSession bounds how long a single slot selection may poll
	// before it expires.
	MaxSession time.Duration
	// FailureThreshold is the number of consecutive fetch failures
	// after which polling stops.
	FailureThreshold int
	HorizonDays      int
}

func (c *WatcherConfig) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.MinFetchSpacing <= 0 {
		c.MinFetchSpacing = 2 * time.Second
	}
	if c.MaxSession <= 0 {
		c.MaxSession = 10 * time.Minute
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 3
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 14
	}
}

// AvailabilityWatcher keeps a per-date cache of booked slots for one
// vehicle and polls the selected date while the customer is choosing a
// slot. One watcher serves one booking session.
//
// Callbacks are invoked from the polling goroutine; set them before the
// first SelectSlot call.
type AvailabilityWatcher struct {
	client *DealerClient
	vin    string
	cfg    WatcherConfig

	// OnUpdate fires after every successful fetch of the selected date.
	OnUpdate func(date string, bookedSlots []string)
	// OnError fires on a fetch failure with the consecutive failure
	// count. Polling continues until the failure threshold is reached.
	OnError func(err error, consecutive int)
	// OnExpire fires once when the session exceeds MaxSession.
	OnExpire func()

	mu           sync.Mutex
	state        WatcherState
	cache        map[string][]string
	selectedDate string
	selectedSlot string
	lastFetch    time.Time
	failures     int
	paused       bool
	closed       bool
	cancelPoll   context.CancelFunc

	now func() time.Time
}

func NewAvailabilityWatcher(client *DealerClient, vin string, cfg WatcherConfig) *AvailabilityWatcher {
	cfg.applyDefaults()
	return &AvailabilityWatcher{
		client: client,
		vin:    vin,
		cfg:    cfg,
		state:  StateIdle,
		cache:  make(map[string][]string),
		now:    time.Now,
	}
}

func (w *AvailabilityWatcher) State() WatcherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Open primes the cache with one bulk fetch covering the whole booking
// window, so date selection is a pure cache read afterwards.
func (w *AvailabilityWatcher) Open(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	horizon := w.cfg.HorizonDays
	w.mu.Unlock()

	today := w.now().UTC()
	dates := make([]string, 0, horizon+1)
	for i := 0; i <= horizon; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format("2006-01-02"))
	}

	booked, err := w.client.BookedSlotsBulk(ctx, w.vin, dates)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for date, slots := range booked {
		w.cache[date] = slots
	}
	w.lastFetch = w.now()
	return nil
}

// SelectDate records the date and answers from the cache. No network
// traffic happens until a slot is selected.
func (w *AvailabilityWatcher) SelectDate(date string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}
	if w.state == StateExpired {
		return nil, ErrSessionExpired
	}

	w.stopPollingLocked()
	w.selectedDate = date
	w.selectedSlot = ""
	w.state = StateDateSelected

	slots := w.cache[date]
	out := make([]string, len(slots))
	copy(out, slots)
	return out, nil
}

// SelectSlot starts interval polling of the selected date so the
// customer sees the slot disappear if someone else takes it first.
func (w *AvailabilityWatcher) SelectSlot(slot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.state == StateExpired {
		return ErrSessionExpired
	}
	if w.selectedDate == "" {
		return ErrNoSlotSelected
	}

	w.selectedSlot = slot
	// The loop survives Pause, so its presence, not the state, decides
	// whether a relaunch is needed.
	if w.cancelPoll != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancelPoll = cancel
	w.state = StatePolling
	w.paused = false
	w.failures = 0

	go w.pollLoop(ctx)
	return nil
}

// Pause suspends fetching while keeping the poll loop alive. Maps to the
// browser tab going hidden.
func (w *AvailabilityWatcher) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePolling {
		w.paused = true
		w.state = StatePaused
	}
}

func (w *AvailabilityWatcher) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePaused {
		w.paused = false
		w.state = StatePolling
	}
}

// Close tears the session down: the polling goroutine is cancelled and
// selection state cleared. An in-flight Submit keeps its own context and
// is not interrupted.
func (w *AvailabilityWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopPollingLocked()
	w.selectedDate = ""
	w.selectedSlot = ""
	w.closed = true
	w.state = StateIdle
}

// Submit re-checks availability one last time, rejects locally if the
// selected slot is taken, then posts the booking. The server remains the
// authority: a lost race still comes back as ErrSlotTaken.
func (w *AvailabilityWatcher) Submit(ctx context.Context, req model.BookingRequest) (string, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", ErrWatcherClosed
	}
	if w.state == StateExpired {
		w.mu.Unlock()
		return "", ErrSessionExpired
	}
	date, slot := w.selectedDate, w.selectedSlot
	w.mu.Unlock()

	if date == "" || slot == "" {
		return "", ErrNoSlotSelected
	}

	// Best effort: a failed re-check falls through to the POST, where
	// the deterministic id settles the race anyway.
	if booked, err := w.client.BookedSlots(ctx, w.vin, date); err == nil {
		w.storeFetch(date, booked)
		for _, b := range booked {
			if b == slot {
				return "", ErrSlotTaken
			}
		}
	}

	req.VIN = w.vin
	req.Date = date
	req.TimeSlot = slot
	return w.client.CreateBooking(ctx, &req)
}

func (w *AvailabilityWatcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	session := time.NewTimer(w.cfg.MaxSession)
	defer session.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-session.C:
			w.mu.Lock()
			w.stopPollingLocked()
			w.selectedDate = ""
			w.selectedSlot = ""
			w.state = StateExpired
			onExpire := w.OnExpire
			w.mu.Unlock()
			if onExpire != nil {
				onExpire()
			}
			return

		case <-ticker.C:
			if !w.fetchSelected(ctx) {
				return
			}
		}
	}
}

// fetchSelected refreshes the selected date. Returns false when the poll
// loop should stop.
func (w *AvailabilityWatcher) fetchSelected(ctx context.Context) bool {
	w.mu.Lock()
	if w.paused || w.selectedDate == "" {
		w.mu.Unlock()
		return true
	}
	if w.now().Sub(w.lastFetch) < w.cfg.MinFetchSpacing {
		w.mu.Unlock()
		return true
	}
	date := w.selectedDate
	w.mu.Unlock()

	booked, err := w.client.BookedSlots(ctx, w.vin, date)
	if err != nil {
		w.mu.Lock()
		w.failures++
		failures := w.failures
		onError := w.OnError
		stop := failures >= w.cfg.FailureThreshold
		if stop {
			w.stopPollingLocked()
			w.state = StateStopped
		}
		w.mu.Unlock()

		if onError != nil {
			onError(err, failures)
		}
		return !stop
	}

	w.storeFetch(date, booked)

	w.mu.Lock()
	w.failures = 0
	onUpdate := w.OnUpdate
	w.mu.Unlock()

	if onUpdate != nil {
		onUpdate(date, booked)
	}
	return true
}

func (w *AvailabilityWatcher) storeFetch(date string, booked []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cache[date] = booked
	w.lastFetch = w.now()
}

func (w *AvailabilityWatcher) stopPollingLocked() {
	if w.cancelPoll != nil {
		w.cancelPoll()
		w.cancelPoll = nil
	}
}
