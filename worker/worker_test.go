package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDoSerializesKey(t *testing.T) {
	p := New(4, nil)
	defer p.Close()

	var (
		counter int
		wg      sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Do(context.Background(), "match-1", func() { counter++ }); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	var got int
	if err := p.Do(context.Background(), "match-1", func() { got = counter }); err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Fatalf("expected 100 increments, got %d", got)
	}
}

func TestSubmitOrder(t *testing.T) {
	p := New(2, nil)
	defer p.Close()

	var order []int
	for i := 0; i < 10; i++ {
		if err := p.Submit("match-1", func() { order = append(order, i) }); err != nil {
			t.Fatal(err)
		}
	}
	var got []int
	if err := p.Do(context.Background(), "match-1", func() { got = append(got, order...) }); err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected jobs to run in submission order, got %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 jobs to have run, got %d", len(got))
	}
}

func TestLaneStable(t *testing.T) {
	p := New(8, nil)
	defer p.Close()

	if p.Lanes() != 8 {
		t.Fatalf("expected 8 lanes, got %d", p.Lanes())
	}
	lane := p.Lane("match-1")
	for i := 0; i < 10; i++ {
		if l := p.Lane("match-1"); l != lane || l < 0 || l >= 8 {
			t.Fatalf("expected lane %d, got %d", lane, l)
		}
	}
}

func TestDoRecoversPanic(t *testing.T) {
	p := New(1, nil)
	defer p.Close()

	if err := p.Do(context.Background(), "match-1", func() { panic("boom") }); err == nil {
		t.Fatal("expected an error from a panicking job")
	}
	ran := false
	if err := p.Do(context.Background(), "match-1", func() { ran = true }); err != nil || !ran {
		t.Fatalf("expected the lane to keep serving after a panic, err=%v ran=%v", err, ran)
	}
}

func TestDoContext(t *testing.T) {
	p := New(1, nil)
	defer p.Close()

	release := make(chan struct{})
	if err := p.Submit("match-1", func() { <-release }); err != nil {
		t.Fatal(err)
	}
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Do(ctx, "match-1", func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the deadline to be exceeded, got %v", err)
	}
}

func TestClosed(t *testing.T) {
	p := New(1, nil)
	p.Close()
	p.Close()

	if err := p.Do(context.Background(), "match-1", func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := p.Submit("match-1", func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
