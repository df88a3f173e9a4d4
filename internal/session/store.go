package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trip-route-planner/internal/config"
	"trip-route-planner/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// Store owns the live sessions of the process. Sessions are not persisted.
type Store struct {
	backends Backends
	cfg      config.Flow
	log      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(b Backends, cfg config.Flow, log *zap.Logger) (*Store, error) {
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backends: b,
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*Session),
	}, nil
}

// Create opens a session, applies the optional initial device report and
// mounts the origin screen. Alerted start-up failures do not fail Create.
func (st *Store) Create(ctx context.Context, report *DeviceReport) (*Session, error) {
	id := uuid.NewString()
	log := st.log.With(zap.String("session_id", id))

	s, err := newSession(id, st.backends, st.cfg, log)
	if err != nil {
		return nil, err
	}

	if report != nil {
		if err := s.Device.Report(*report); err != nil {
			s.Close()
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()

	if err := s.Navigator.Start(ctx); err != nil && !errors.Is(err, services.ErrSuperseded) {
		log.Info("origin start failed", zap.Error(err))
	}

	log.Info("session created")
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.Close()
	st.log.Info("session closed", zap.String("session_id", id))
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
