package contact

import (
	"sync"
	"time"

	"contactform/errs"

	"github.com/google/uuid"
)

const (
	DefaultDraftTTL   = 30 * time.Minute
	DefaultDraftLimit = 1000
)

var (
	ErrDraftNotFound = errs.Errorf(errs.ENOTFOUND, "contact form not found")
	ErrTooManyDrafts = errs.Errorf(errs.EUNAVAILABLE, "too many open contact forms, try again later")
)

type draft struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Drafts keeps one Controller per visitor, keyed by a random ID. Drafts idle
// for longer than TTL are dropped when a new one is created.
type Drafts struct {
	sink  Sink
	ttl   time.Duration
	limit int
	now   func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

type DraftsOption func(d *Drafts)

func WithDraftTTL(ttl time.Duration) DraftsOption {
	return func(d *Drafts) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

func WithDraftLimit(limit int) DraftsOption {
	return func(d *Drafts) {
		if limit > 0 {
			d.limit = limit
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) DraftsOption {
	return func(d *Drafts) {
		d.now = now
	}
}

func NewDrafts(sink Sink, opts ...DraftsOption) *Drafts {
	d := &Drafts{
		sink:   sink,
		ttl:    DefaultDraftTTL,
		limit:  DefaultDraftLimit,
		now:    time.Now,
		drafts: make(map[string]*draft),
	}
	for _, fn := range opts {
		fn(d)
	}
	return d
}

// Create opens a new empty form.
func (d *Drafts) Create() (string, *Controller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.pruneLocked(now)
	if len(d.drafts) >= d.limit {
		return "", nil, ErrTooManyDrafts
	}

	id := uuid.NewString()
	ctrl := NewController(d.sink)
	d.drafts[id] = &draft{ctrl: ctrl, lastSeen: now}
	return id, ctrl, nil
}

// Get returns the form with the given ID and marks it as recently used.
func (d *Drafts) Get(id string) (*Controller, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dr, ok := d.drafts[id]
	now := d.now()
	if !ok || d.expired(dr, now) {
		return nil, ErrDraftNotFound
	}
	dr.lastSeen = now
	return dr.ctrl, nil
}

// Discard cancels any in-flight submission and forgets the form.
func (d *Drafts) Discard(id string) error {
	d.mu.Lock()
	dr, ok := d.drafts[id]
	delete(d.drafts, id)
	d.mu.Unlock()

	if !ok {
		return ErrDraftNotFound
	}
	dr.ctrl.Cancel()
	return nil
}

// Len returns the number of tracked forms, expired ones included.
func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.drafts)
}

// A form waiting on the sink never expires, so its outcome stays readable.
func (d *Drafts) expired(dr *draft, now time.Time) bool {
	return now.Sub(dr.lastSeen) > d.ttl && dr.ctrl.State() != StateSubmitting
}

func (d *Drafts) pruneLocked(now time.Time) {
	for id, dr := range d.drafts {
		if d.expired(dr, now) {
			delete(d.drafts, id)
		}
	}
}
