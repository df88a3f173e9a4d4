// Package search implements the debounced place-suggestion widgets shown
// on the origin screen and the group that shows one list at a time.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"

	"go.uber.org/zap"
)

// Kind names a logical search box.
type Kind string

const (
	KindOrigin      Kind = "origin"
	KindDestination Kind = "destination"
)

// DefaultDebounce is the idle time after the last keystroke before the
// autocomplete backend is queried.
const DefaultDebounce = 600 * time.Millisecond

// SuggestionsFunc receives every replacement of a widget's suggestion list.
// It is called with the widget locked.
type SuggestionsFunc func(kind Kind, suggestions []domain.PlaceSuggestion)

// Widget debounces keystrokes and replaces its suggestion list with the
// backend's answer for the settled text. A newer settle invalidates the
// result of an older one still in flight.
type Widget struct {
	kind     Kind
	backend  ports.PlaceAutocompleter
	debounce time.Duration
	onChange SuggestionsFunc
	log      *zap.Logger

	mu          sync.Mutex
	text        string
	seq         uint64
	timer       *time.Timer
	cancel      context.CancelFunc
	suggestions []domain.PlaceSuggestion
	closed      bool
}

func NewWidget(
	kind Kind,
	backend ports.PlaceAutocompleter,
	debounce time.Duration,
	onChange SuggestionsFunc,
	log *zap.Logger,
) *Widget {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Widget{
		kind:        kind,
		backend:     backend,
		debounce:    debounce,
		onChange:    onChange,
		log:         log,
		suggestions: []domain.PlaceSuggestion{},
	}
}

func (w *Widget) Kind() Kind { return w.kind }

// Input records a keystroke. The query runs once input has been idle for
// the debounce interval; ctx values (not its cancellation) carry over.
func (w *Widget) Input(ctx context.Context, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.text = text
	n := w.invalidateLocked()

	base := context.WithoutCancel(ctx)
	w.timer = time.AfterFunc(w.debounce, func() {
		w.settle(base, n, text)
	})
}

// invalidateLocked drops the pending timer and any in-flight query.
// Callers hold w.mu.
func (w *Widget) invalidateLocked() uint64 {
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	return w.seq
}

func (w *Widget) settle(base context.Context, n uint64, text string) {
	w.mu.Lock()
	if w.closed || n != w.seq {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(base)
	w.cancel = cancel
	w.mu.Unlock()
	defer cancel()

	list := []domain.PlaceSuggestion{}
	if strings.TrimSpace(text) != "" {
		got, err := w.backend.Suggest(ctx, text)
		if err != nil {
			w.mu.Lock()
			stale := n != w.seq
			w.mu.Unlock()
			if !stale {
				w.log.Warn("autocomplete failed", zap.String("kind", string(w.kind)), zap.Error(err))
			}
			return
		}
		if got != nil {
			list = got
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || n != w.seq {
		return
	}
	w.suggestions = list
	w.cancel = nil
	w.notifyLocked(list)
}

// notifyLocked runs onChange with w.mu held so that announcements follow
// the order of list replacements. onChange must not call back into w.
func (w *Widget) notifyLocked(list []domain.PlaceSuggestion) {
	if w.onChange != nil {
		w.onChange(w.kind, append([]domain.PlaceSuggestion{}, list...))
	}
}

// Clear empties the list and drops pending input, as when the panel is
// dismissed after a selection.
func (w *Widget) Clear() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.invalidateLocked()
	w.suggestions = []domain.PlaceSuggestion{}
	w.notifyLocked(nil)
	w.mu.Unlock()
}

// Suggestions returns a copy of the current list.
func (w *Widget) Suggestions() []domain.PlaceSuggestion {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.PlaceSuggestion{}, w.suggestions...)
}

func (w *Widget) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// Close stops the widget; later input and pending results are ignored.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.invalidateLocked()
	w.closed = true
}
