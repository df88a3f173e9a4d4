package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"

	"go.uber.org/zap"
)

var ErrUnknownKind = errors.New("unknown search kind")

// Owner receives the place a user picked from a widget's list.
type Owner interface {
	OnPlaceChosen(ctx context.Context, reference string) error
}

type OwnerFunc func(ctx context.Context, reference string) error

func (f OwnerFunc) OnPlaceChosen(ctx context.Context, reference string) error {
	return f(ctx, reference)
}

// Group holds one widget per kind and shows only the list of the widget
// that most recently produced a non-empty one.
type Group struct {
	widgets map[Kind]*Widget
	owners  map[Kind]Owner
	log     *zap.Logger

	mu      sync.Mutex
	visible Kind
}

func NewGroup(
	backend ports.PlaceAutocompleter,
	debounce time.Duration,
	owners map[Kind]Owner,
	log *zap.Logger,
) (*Group, error) {
	if backend == nil {
		return nil, errors.New("new search group: autocompleter is nil")
	}
	if len(owners) == 0 {
		return nil, errors.New("new search group: no owners")
	}
	if log == nil {
		log = zap.NewNop()
	}

	g := &Group{
		widgets: make(map[Kind]*Widget, len(owners)),
		owners:  owners,
		log:     log,
	}
	for kind := range owners {
		g.widgets[kind] = NewWidget(kind, backend, debounce, g.suggestionsChanged, log.Named(string(kind)))
	}
	return g, nil
}

func (g *Group) suggestionsChanged(kind Kind, list []domain.PlaceSuggestion) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case len(list) > 0:
		g.visible = kind
	case g.visible == kind:
		g.visible = ""
	}
}

func (g *Group) Widget(kind Kind) (*Widget, error) {
	w, ok := g.widgets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return w, nil
}

// Input forwards a keystroke to the widget of kind.
func (g *Group) Input(ctx context.Context, kind Kind, text string) error {
	w, err := g.Widget(kind)
	if err != nil {
		return err
	}
	w.Input(ctx, text)
	return nil
}

// Visible returns the kind and list currently shown, if any.
func (g *Group) Visible() (Kind, []domain.PlaceSuggestion) {
	g.mu.Lock()
	kind := g.visible
	g.mu.Unlock()

	if kind == "" {
		return "", []domain.PlaceSuggestion{}
	}
	return kind, g.widgets[kind].Suggestions()
}

// Select dismisses the widget's list and hands reference to its owner.
func (g *Group) Select(ctx context.Context, kind Kind, reference string) error {
	w, err := g.Widget(kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(reference) == "" {
		return errors.New("select suggestion: reference must be non-empty")
	}

	w.Clear()
	return g.owners[kind].OnPlaceChosen(ctx, reference)
}

func (g *Group) Close() {
	for _, w := range g.widgets {
		w.Close()
	}
}
