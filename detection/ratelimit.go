package detection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedHandler passes flags on to a Handler at most at a fixed rate per player in a match. Flags
// over the rate are dropped and counted. It is safe for concurrent use, since matches on different lanes
// share the handler.
type RateLimitedHandler struct {
	next  Handler
	limit rate.Limit
	burst int

	limiters sync.Map // map[limiterKey]*limiterEntry
	dropped  atomic.Uint64
}

type limiterKey struct {
	match, player string
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// RateLimited returns a RateLimitedHandler passing up to perSecond flags a second, with bursts of up to
// burst flags, of every player in a match to h. A non-positive burst is treated as 1.
func RateLimited(h Handler, perSecond float64, burst int) *RateLimitedHandler {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedHandler{next: h, limit: rate.Limit(perSecond), burst: burst}
}

func (h *RateLimitedHandler) HandleFlag(f Flag) {
	if !h.limiter(limiterKey{match: f.MatchID, player: f.PlayerID}).Allow() {
		h.dropped.Add(1)
		return
	}
	h.next.HandleFlag(f)
}

// Dropped returns the amount of flags dropped so far.
func (h *RateLimitedHandler) Dropped() uint64 {
	return h.dropped.Load()
}

// Len returns the amount of players a limiter is kept for.
func (h *RateLimitedHandler) Len() int {
	var n int
	h.limiters.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

// Forget drops the limiter of a player in a match, resetting its rate.
func (h *RateLimitedHandler) Forget(matchID, playerID string) {
	h.limiters.Delete(limiterKey{match: matchID, player: playerID})
}

// ForgetMatch drops the limiters of every player in a match.
func (h *RateLimitedHandler) ForgetMatch(matchID string) {
	h.limiters.Range(func(k, _ any) bool {
		if k.(limiterKey).match == matchID {
			h.limiters.Delete(k)
		}
		return true
	})
}

// Prune drops the limiters of players that have not been flagged for longer than idle, returning the
// amount dropped.
func (h *RateLimitedHandler) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	var n int
	h.limiters.Range(func(k, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			h.limiters.Delete(k)
			n++
		}
		return true
	})
	return n
}

// Run prunes limiters idle for longer than idle every interval until the context is done.
func (h *RateLimitedHandler) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Prune(idle)
		}
	}
}

func (h *RateLimitedHandler) limiter(key limiterKey) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := h.limiters.Load(key); ok {
		e := v.(*limiterEntry)
		e.lastSeen.Store(now)
		return e.limiter
	}
	e := &limiterEntry{limiter: rate.NewLimiter(h.limit, h.burst)}
	e.lastSeen.Store(now)
	v, _ := h.limiters.LoadOrStore(key, e)
	return v.(*limiterEntry).limiter
}
