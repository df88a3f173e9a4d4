package services

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by an operation whose result was discarded
// because a newer operation of the same kind started, or its flow closed.
var ErrSuperseded = errors.New("superseded by a newer request")

type fetchKind string

const (
	kindLocation fetchKind = "location"
	kindRecenter fetchKind = "recenter"
	kindGeocode  fetchKind = "geocode"
	kindRoute    fetchKind = "route"
)

// inflight hands out per-kind sequence numbers. With supersede on, starting
// a fetch cancels the previous fetch of the same kind and only the newest
// one may apply its result. With supersede off every fetch runs to
// completion and applies its result in resolve order.
type inflight struct {
	mu        sync.Mutex
	supersede bool
	closed    bool
	seq       map[fetchKind]uint64
	cancel    map[fetchKind]context.CancelFunc
}

func newInflight(supersede bool) *inflight {
	return &inflight{
		supersede: supersede,
		seq:       make(map[fetchKind]uint64),
		cancel:    make(map[fetchKind]context.CancelFunc),
	}
}

// begin registers a new fetch of kind. The returned func must be called
// when the fetch is done.
func (f *inflight) begin(ctx context.Context, kind fetchKind) (context.Context, uint64, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq[kind]++
	n := f.seq[kind]

	if !f.supersede {
		return ctx, n, func() {}
	}

	if prev := f.cancel[kind]; prev != nil {
		prev()
	}

	cctx, cancel := context.WithCancel(ctx)
	if f.closed {
		cancel()
	}
	f.cancel[kind] = cancel

	return cctx, n, func() {
		f.mu.Lock()
		if f.seq[kind] == n {
			delete(f.cancel, kind)
		}
		f.mu.Unlock()
		cancel()
	}
}

// current reports whether fetch n of kind may still apply its result.
func (f *inflight) current(kind fetchKind, n uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if !f.supersede {
		return true
	}
	return f.seq[kind] == n
}

// close drops every pending result and cancels fetches still running.
func (f *inflight) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for kind, cancel := range f.cancel {
		cancel()
		delete(f.cancel, kind)
	}
}
