package match

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oomph-ac/verdict/combat"
	"github.com/oomph-ac/verdict/detection"
	"github.com/oomph-ac/verdict/entity"
	"github.com/oomph-ac/verdict/metrics"
	"github.com/oomph-ac/verdict/movement"
	"github.com/oomph-ac/verdict/oerror"
	"github.com/oomph-ac/verdict/settings"
	"github.com/oomph-ac/verdict/worker"
	"github.com/oomph-ac/verdict/world"
)

// ErrMatchLimit is returned when an operation would create a match while the registry already tracks the
// maximum amount of matches.
var ErrMatchLimit error = oerror.New("match limit reached")

// Match holds the validators of a single match. Its fields must only be used from the lane of the match.
type Match struct {
	ID       string
	Hits     *combat.HitValidator
	Movement *movement.Validator
}

// Registry tracks matches and runs every operation on a match on the worker lane the match is assigned
// to, which makes the lane the single owner of the match's validators.
type Registry struct {
	log       *slog.Logger
	conf      settings.Settings
	pool      *worker.Pool
	handler   detection.Handler
	forgetter detection.Forgetter
	obstacles []world.Obstacle

	mu      sync.RWMutex
	matches map[string]*Match
}

// NewRegistry returns a Registry running matches on the pool passed. Every new match starts out with the
// obstacles passed. Flags raised by any match are counted and handed to the handler. If the handler
// keeps per-player state, it is told when players and matches are removed.
func NewRegistry(log *slog.Logger, conf settings.Settings, pool *worker.Pool, handler detection.Handler, obstacles []world.Obstacle) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if handler == nil {
		handler = detection.NopHandler{}
	}
	forgetter, _ := handler.(detection.Forgetter)
	return &Registry{
		log:       log,
		conf:      conf,
		pool:      pool,
		handler:   detection.Multi(handler, metrics.FlagHandler{}),
		forgetter: forgetter,
		obstacles: obstacles,
		matches:   make(map[string]*Match),
	}
}

// Len returns the amount of matches tracked.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// RecordWorldState saves a world state of a match, creating the match if it does not exist yet.
func (r *Registry) RecordWorldState(ctx context.Context, id string, state entity.WorldState) error {
	m, err := r.match(id)
	if err != nil {
		return err
	}
	return r.do(ctx, id, "snapshot", func() {
		m.Hits.RecordWorldState(state.Tick, state)
		metrics.RecordSnapshot()
	})
}

// ValidateHit validates a hit claim in a match.
func (r *Registry) ValidateHit(ctx context.Context, id string, req combat.HitRequest) (combat.HitResult, error) {
	m, err := r.match(id)
	if err != nil {
		return combat.HitResult{}, err
	}
	return call(r, ctx, id, "hit", func() combat.HitResult {
		res := m.Hits.ValidateHit(req)

		outcome, hitbox := "valid", res.Hitbox.String()
		if !res.Valid {
			outcome, hitbox = res.RejectReason, ""
		}
		metrics.RecordHit(outcome, hitbox, res.RewindClamped)
		return res
	})
}

// ValidateMovement validates a movement in a match.
func (r *Registry) ValidateMovement(ctx context.Context, id string, u movement.Update) (movement.MovementCheck, error) {
	m, err := r.match(id)
	if err != nil {
		return movement.MovementCheck{}, err
	}
	return call(r, ctx, id, "movement", func() movement.MovementCheck {
		check := m.Movement.Validate(u)
		metrics.RecordMovement(check.Violation.String())
		return check
	})
}

// SetPlayerState updates the movement state of a player in a match.
func (r *Registry) SetPlayerState(ctx context.Context, id, player string, s movement.PlayerMovementState) error {
	m, err := r.match(id)
	if err != nil {
		return err
	}
	return r.do(ctx, id, "config", func() {
		m.Movement.SetPlayerState(player, s)
	})
}

// PlayerState returns the movement state of a player in a match. Unknown matches are not created.
func (r *Registry) PlayerState(ctx context.Context, id, player string) (movement.PlayerMovementState, bool, error) {
	m, found := r.lookup(id)
	if !found {
		return movement.PlayerMovementState{}, false, nil
	}
	type result struct {
		s  movement.PlayerMovementState
		ok bool
	}
	res, err := call(r, ctx, id, "config", func() result {
		s, ok := m.Movement.PlayerState(player)
		return result{s: s, ok: ok}
	})
	return res.s, res.ok, err
}

// RemovePlayer forgets a player in a match.
func (r *Registry) RemovePlayer(ctx context.Context, id, player string) error {
	if r.forgetter != nil {
		r.forgetter.Forget(id, player)
	}
	m, found := r.lookup(id)
	if !found {
		return nil
	}
	return r.do(ctx, id, "config", func() {
		m.Movement.RemovePlayer(player)
	})
}

// SetObstacles replaces the obstacles of a match.
func (r *Registry) SetObstacles(ctx context.Context, id string, obstacles []world.Obstacle) error {
	m, err := r.match(id)
	if err != nil {
		return err
	}
	return r.do(ctx, id, "config", func() {
		m.Movement.SetObstacles(obstacles)
	})
}

// ClearObstacles removes every obstacle of a match.
func (r *Registry) ClearObstacles(ctx context.Context, id string) error {
	m, found := r.lookup(id)
	if !found {
		return nil
	}
	return r.do(ctx, id, "config", func() {
		m.Movement.ClearObstacles()
	})
}

// Remove drops a match and everything recorded for it. It returns false if the match did not exist.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.matches[id]
	delete(r.matches, id)
	n := len(r.matches)
	r.mu.Unlock()

	if r.forgetter != nil {
		r.forgetter.ForgetMatch(id)
	}
	if ok {
		metrics.SetMatches(n)
		r.log.Debug("match removed", "match", id)
	}
	return ok
}

// match returns the match with the ID passed, creating it if it does not exist yet. It returns
// ErrMatchLimit if the match would exceed Server.MaxMatches.
func (r *Registry) match(id string) (*Match, error) {
	if m, ok := r.lookup(id); ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.matches[id]; ok {
		return m, nil
	}
	if limit := r.conf.Server.MaxMatches; limit > 0 && len(r.matches) >= limit {
		return nil, ErrMatchLimit
	}
	log := r.log.With("match", id)
	handler := detection.InMatch(id, r.handler)
	m := &Match{
		ID:       id,
		Hits:     combat.NewHitValidator(log, r.conf.Combat, handler),
		Movement: movement.NewValidator(log, r.conf.Movement, handler),
	}
	if len(r.obstacles) > 0 {
		m.Movement.SetObstacles(r.obstacles)
	}
	r.matches[id] = m
	metrics.SetMatches(len(r.matches))
	log.Debug("match created", "lane", r.pool.Lane(id))
	return m, nil
}

func (r *Registry) lookup(id string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	return m, ok
}

// do runs f on the lane of the match and records how long it took.
func (r *Registry) do(ctx context.Context, id, op string, f func()) error {
	return r.pool.Do(ctx, id, func() {
		start := time.Now()
		f()
		metrics.ObserveJob(op, time.Since(start).Seconds())
	})
}

// call runs f on the lane of the match and returns its result. The result travels over a channel, so
// nothing f writes is read if the context is done before f runs.
func call[T any](r *Registry, ctx context.Context, id, op string, f func() T) (T, error) {
	out := make(chan T, 1)
	if err := r.do(ctx, id, op, func() { out <- f() }); err != nil {
		var zero T
		return zero, err
	}
	return <-out, nil
}
