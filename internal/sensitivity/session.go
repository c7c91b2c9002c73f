package sensitivity

import (
	"context"
	"errors"
	"sync"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// ErrStale is returned when the session inputs changed while a sweep was running
var ErrStale = errors.New("inputs changed while the sweep was running")

// Session holds the current inputs together with a generation counter.
// Every update bumps the generation; a sweep started under an older
// generation is discarded when it completes.
type Session struct {
	Orchestrator *Orchestrator

	mu         sync.RWMutex
	inputs     domain.PropertyInputs
	generation uint64
}

// NewSession creates a session with the given initial inputs
func NewSession(o *Orchestrator, in domain.PropertyInputs) *Session {
	if o == nil {
		o = NewOrchestrator(nil)
	}
	return &Session{Orchestrator: o, inputs: in, generation: 1}
}

// Update replaces the inputs and returns the new generation
func (s *Session) Update(in domain.PropertyInputs) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = in
	s.generation++
	return s.generation
}

// Inputs returns the current inputs and their generation
func (s *Session) Inputs() (domain.PropertyInputs, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputs, s.generation
}

// Generation returns the current generation
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// runFresh runs fn on a snapshot of the inputs and rejects its result if
// the generation moved on in the meantime.
func runFresh[T any](s *Session, fn func(domain.PropertyInputs) (T, error)) (T, error) {
	var zero T
	in, gen := s.Inputs()
	out, err := fn(in)
	if err != nil {
		return zero, err
	}
	if s.Generation() != gen {
		return zero, ErrStale
	}
	return out, nil
}

// Project runs the base projection for the current inputs
func (s *Session) Project(ctx context.Context) (*domain.ProjectionResult, error) {
	return runFresh(s, func(in domain.PropertyInputs) (*domain.ProjectionResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.Orchestrator.Engine.Project(in), nil
	})
}

// Tornado runs a tornado sweep for the current inputs
func (s *Session) Tornado(ctx context.Context, vars []domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.TornadoDataPoint, error) {
	return runFresh(s, func(in domain.PropertyInputs) ([]domain.TornadoDataPoint, error) {
		return s.Orchestrator.Tornado(ctx, in, vars, metric, horizon)
	})
}

// Heatmap runs a heatmap sweep for the current inputs
func (s *Session) Heatmap(ctx context.Context, x, y domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.HeatmapDataPoint, error) {
	return runFresh(s, func(in domain.PropertyInputs) ([]domain.HeatmapDataPoint, error) {
		return s.Orchestrator.Heatmap(ctx, in, x, y, metric, horizon)
	})
}

// Scenarios runs a scenario comparison for the current inputs
func (s *Session) Scenarios(ctx context.Context, scenarios []domain.Scenario, horizon int) (map[string]*domain.ProjectionResult, error) {
	return runFresh(s, func(in domain.PropertyInputs) (map[string]*domain.ProjectionResult, error) {
		return s.Orchestrator.Scenarios(ctx, in, scenarios, horizon)
	})
}
