package detection

import (
	"testing"
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

func TestExtraDataString(t *testing.T) {
	if s := ExtraDataString(nil); s != "[]" {
		t.Fatalf("expected [] for nil data, got %q", s)
	}

	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("speed", 7.5)
	data.Set("max", 5.5)
	data.Set("kind", "SPEEDHACK")
	if s := ExtraDataString(data); s != "[speed=7.5 max=5.5 kind=SPEEDHACK]" {
		t.Fatalf("unexpected string %q", s)
	}
}

type recordingHandler struct {
	flags []Flag
}

func (h *recordingHandler) HandleFlag(f Flag) {
	h.flags = append(h.flags, f)
}

func TestMulti(t *testing.T) {
	a, b := &recordingHandler{}, &recordingHandler{}
	Multi(a, NopHandler{}, b).HandleFlag(Flag{PlayerID: "p1", Type: TypeHit, SubType: "no_hit"})

	if len(a.flags) != 1 || len(b.flags) != 1 || b.flags[0].SubType != "no_hit" {
		t.Fatalf("expected every handler to receive the flag, got %v and %v", a.flags, b.flags)
	}
}

func TestRateLimited(t *testing.T) {
	rec := &recordingHandler{}
	h := RateLimited(rec, 0.001, 2)

	for i := 0; i < 5; i++ {
		h.HandleFlag(Flag{MatchID: "m1", PlayerID: "a", Type: TypeMovement})
	}
	h.HandleFlag(Flag{MatchID: "m1", PlayerID: "b", Type: TypeMovement})
	// The same player in another match has a budget of its own.
	h.HandleFlag(Flag{MatchID: "m2", PlayerID: "a", Type: TypeMovement})

	if len(rec.flags) != 4 {
		t.Fatalf("expected 4 flags to pass, got %d", len(rec.flags))
	}
	if h.Dropped() != 3 {
		t.Fatalf("expected 3 dropped flags, got %d", h.Dropped())
	}

	h.Forget("m1", "a")
	h.HandleFlag(Flag{MatchID: "m1", PlayerID: "a", Type: TypeMovement})
	if len(rec.flags) != 5 {
		t.Fatal("expected a forgotten player to start with a fresh burst")
	}
}

func TestRateLimitedForget(t *testing.T) {
	h := RateLimited(NopHandler{}, 1, 1)
	for _, f := range []Flag{
		{MatchID: "m1", PlayerID: "a"},
		{MatchID: "m1", PlayerID: "b"},
		{MatchID: "m2", PlayerID: "a"},
	} {
		h.HandleFlag(f)
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 limiters, got %d", h.Len())
	}

	h.Forget("m1", "a")
	if h.Len() != 2 {
		t.Fatalf("expected 2 limiters after forgetting a player, got %d", h.Len())
	}
	h.ForgetMatch("m1")
	if h.Len() != 1 {
		t.Fatalf("expected 1 limiter after forgetting a match, got %d", h.Len())
	}

	if n := h.Prune(time.Hour); n != 0 || h.Len() != 1 {
		t.Fatalf("expected recently flagged players to be kept, pruned %d", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := h.Prune(time.Millisecond); n != 1 || h.Len() != 0 {
		t.Fatalf("expected idle players to be pruned, pruned %d and kept %d", n, h.Len())
	}
}

func TestInMatch(t *testing.T) {
	rec := &recordingHandler{}
	InMatch("m1", rec).HandleFlag(Flag{PlayerID: "a"})
	if len(rec.flags) != 1 || rec.flags[0].MatchID != "m1" {
		t.Fatalf("expected the match ID to be set, got %+v", rec.flags)
	}
}
