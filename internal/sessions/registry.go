package sessions

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"finfun/internal/sim"
)

var ErrNotFound = errors.New("session not found")

// Result is the durable record of a finished game.
type Result struct {
	SessionID          string
	PlayerName         string
	Reason             sim.EndReason
	FinalBalanceMicros int64
	EndedAt            time.Time
}

// ResultSink persists finished games. Persistence is best effort; a sink
// failure never affects the session itself.
type ResultSink interface {
	SaveResult(ctx context.Context, res Result) error
}

type entry struct {
	session *sim.Session
	runner  *sim.Runner
}

// Registry owns every live session and its runner.
type Registry struct {
	cfg  sim.Config
	log  *slog.Logger
	sink ResultSink

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(cfg sim.Config, logger *slog.Logger, sink ResultSink) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:     cfg,
		log:     logger,
		sink:    sink,
		entries: make(map[string]*entry),
	}
}

// Create starts a new session and its tick loop, returning the assigned id.
func (r *Registry) Create(profile sim.Profile) (string, sim.Snapshot, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session, err := sim.NewSession(profile, r.cfg, rng, r.log)
	if err != nil {
		return "", sim.Snapshot{}, err
	}

	id := uuid.NewString()
	runner := sim.NewRunner(session, r.cfg.TickInterval, func(s *sim.Session) {
		r.handleEnd(id, s)
	})

	r.mu.Lock()
	r.entries[id] = &entry{session: session, runner: runner}
	r.mu.Unlock()

	runner.Start()
	r.log.Info("session created", "session_id", id, "player", profile.Name)
	return id, session.Snapshot(), nil
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Session returns the live session for direct actions.
func (r *Registry) Session(id string) (*sim.Session, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

func (r *Registry) Get(id string) (sim.Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return sim.Snapshot{}, err
	}
	return e.session.Snapshot(), nil
}

func (r *Registry) Pause(id string) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.runner.Pause()
	return nil
}

func (r *Registry) Resume(id string) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.runner.Resume()
	return nil
}

// Stop halts every runner. Finished sessions stay readable.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		e.runner.Stop()
	}
}

func (r *Registry) handleEnd(id string, s *sim.Session) {
	v, ok := s.Verdict()
	if !ok {
		return
	}
	r.log.Info("session finished",
		"session_id", id,
		"reason", string(v.Reason),
		"final_balance", sim.MicrosToDollars(v.FinalBalanceMicros))

	if r.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res := Result{
		SessionID:          id,
		PlayerName:         s.Snapshot().Profile.Name,
		Reason:             v.Reason,
		FinalBalanceMicros: v.FinalBalanceMicros,
		EndedAt:            time.Now().UTC(),
	}
	if err := r.sink.SaveResult(ctx, res); err != nil {
		r.log.Error("failed to persist result", "session_id", id, "error", err)
	}
}
