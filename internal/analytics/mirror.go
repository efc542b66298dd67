package analytics

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Record is one recorded event. Params is a private copy taken at record
// time.
type Record struct {
	Sequence      int64     `json:"sequence"`
	Name          string    `json:"eventName"`
	Params        *Params   `json:"params"`
	CorrelationID string    `json:"correlationId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Text is the feed rendering of the record.
func (r Record) Text() string {
	return Format(r.Name, r.Params)
}

// Mirror keeps every recorded event for the debug feed and fans each one out
// to the registered observers.
type Mirror struct {
	mu       sync.Mutex
	primary  Observer
	subs     []subscription
	nextSub  int
	records  []Record // oldest first
	sequence int64
	limit    int
	now      func() time.Time
}

type subscription struct {
	id       int
	observer Observer
}

type Option func(*Mirror)

// WithLimit keeps only the n most recent records. n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(m *Mirror) { m.limit = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Mirror) { m.now = now }
}

func NewMirror(opts ...Option) *Mirror {
	m := &Mirror{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetObserver installs the primary observer, replacing any previous one.
// A nil observer clears the slot.
func (m *Mirror) SetObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primary = o
}

// Subscribe adds an observer notified after the primary one, in
// subscription order. The returned func removes it.
func (m *Mirror) Subscribe(o Observer) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscription{id: id, observer: o})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Record stores the event and notifies observers with the caller's params.
// Observers run on the calling goroutine, outside the mirror lock. The record
// is kept in sequence order even when a later Record finishes first.
func (m *Mirror) Record(ctx context.Context, name string, params *Params) Record {
	m.mu.Lock()
	m.sequence++
	rec := Record{
		Sequence:      m.sequence,
		Name:          name,
		Params:        params.Clone(),
		CorrelationID: CorrelationID(ctx),
		OccurredAt:    m.now().UTC(),
	}
	observers := m.observersLocked()
	m.mu.Unlock()

	for _, o := range observers {
		o.OnEvent(ctx, name, params)
	}

	m.mu.Lock()
	m.insertLocked(rec)
	if m.limit > 0 && len(m.records) > m.limit {
		m.records = append([]Record(nil), m.records[len(m.records)-m.limit:]...)
	}
	m.mu.Unlock()

	return rec
}

func (m *Mirror) insertLocked(rec Record) {
	i := sort.Search(len(m.records), func(i int) bool {
		return m.records[i].Sequence > rec.Sequence
	})
	m.records = append(m.records, Record{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = rec
}

func (m *Mirror) observersLocked() []Observer {
	out := make([]Observer, 0, len(m.subs)+1)
	if m.primary != nil {
		out = append(out, m.primary)
	}
	for _, s := range m.subs {
		out = append(out, s.observer)
	}
	return out
}

// Records returns the retained events, most recent first.
func (m *Mirror) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.records))
	for i, rec := range m.records {
		out[len(m.records)-1-i] = rec
	}
	return out
}

// Snapshot returns the feed text of every retained event, most recent first.
func (m *Mirror) Snapshot() []string {
	records := m.Records()
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Text()
	}
	return out
}

// Text joins the feed, one event per block.
func (m *Mirror) Text() string {
	var b strings.Builder
	for _, s := range m.Snapshot() {
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Reset drops every retained event. Observers stay registered.
func (m *Mirror) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}
