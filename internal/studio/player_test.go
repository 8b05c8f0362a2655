package studio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPlayerCyclesFrames(t *testing.T) {
	view := newFakeView()
	clock := &fakeClock{}
	p := NewPlayer(view, &labelURLs{}, clock)
	defer p.Stop()

	if err := p.Play(context.Background(), frames("0", "1", "2")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got := view.next(t); got != "frame:0" {
		t.Fatalf("first frame = %q", got)
	}

	want := []string{"frame:1", "frame:2", "frame:0", "frame:1"}
	for _, w := range want {
		clock.tick(t)
		if got := view.next(t); got != w {
			t.Fatalf("after tick got %q, want %q", got, w)
		}
	}
	if idx, _ := p.Current(); idx != 1 {
		t.Errorf("current = %d, want 1", idx)
	}
}

func TestPlayerSingleFrameRedisplays(t *testing.T) {
	view := newFakeView()
	clock := &fakeClock{}
	p := NewPlayer(view, &labelURLs{}, clock)
	defer p.Stop()

	if err := p.Play(context.Background(), frames("only")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	view.next(t)
	for i := 0; i < 3; i++ {
		clock.tick(t)
		if got := view.next(t); got != "frame:only" {
			t.Fatalf("tick %d showed %q", i, got)
		}
	}
}

func TestPlayerRestartCancelsPreviousTicker(t *testing.T) {
	view := newFakeView()
	clock := &fakeClock{}
	urls := &labelURLs{}
	p := NewPlayer(view, urls, clock)
	defer p.Stop()

	if err := p.Play(context.Background(), frames("a", "b")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	first := clock.last()
	if err := p.Play(context.Background(), frames("c", "d", "e")); err != nil {
		t.Fatalf("second Play failed: %v", err)
	}

	if !first.isStopped() {
		t.Error("previous ticker still armed")
	}
	if clock.maxLive != 1 || clock.liveCount() != 1 {
		t.Errorf("live tickers: max=%d now=%d, want 1/1", clock.maxLive, clock.liveCount())
	}
	if urls.releasedCount() != 2 {
		t.Errorf("released %d URLs, want 2", urls.releasedCount())
	}

	view.drain()
	clock.tick(t)
	if got := view.next(t); got != "frame:d" {
		t.Errorf("after restart got %q, want frame:d", got)
	}
}

func TestPlayerStop(t *testing.T) {
	view := newFakeView()
	clock := &fakeClock{}
	p := NewPlayer(view, &labelURLs{}, clock)

	p.Stop() // idle stop is a no-op
	if p.Playing() {
		t.Fatal("new player should be idle")
	}

	if err := p.Play(context.Background(), frames("a", "b")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if !p.Playing() {
		t.Fatal("player should be playing")
	}
	tk := clock.last()
	p.Stop()
	if p.Playing() || clock.liveCount() != 0 || !tk.isStopped() {
		t.Error("Stop left a ticker armed")
	}
	if _, url := p.Current(); url != "" {
		t.Errorf("current URL after stop = %q", url)
	}

	// The loop has exited, so nobody consumes the old channel any more.
	select {
	case tk.ch <- time.Now():
		t.Error("stopped loop still receiving ticks")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPlayerRejectsEmptySequence(t *testing.T) {
	p := NewPlayer(newFakeView(), &labelURLs{}, &fakeClock{})
	if err := p.Play(context.Background(), nil); err == nil {
		t.Error("expected error for no frames")
	}
	if p.Playing() {
		t.Error("player should stay idle")
	}
}

// slowURLs finishes conversions in reverse order.
type slowURLs struct{ labelURLs }

func (s *slowURLs) ToURL(ctx context.Context, data []byte) (string, error) {
	delay := time.Duration(10-int(data[0]-'0')) * 5 * time.Millisecond
	time.Sleep(delay)
	return s.labelURLs.ToURL(ctx, data)
}

func TestPlayerKeepsFrameOrder(t *testing.T) {
	view := newFakeView()
	clock := &fakeClock{}
	p := NewPlayer(view, &slowURLs{}, clock)
	defer p.Stop()

	if err := p.Play(context.Background(), frames("0", "1", "2", "3")); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got := view.next(t); got != "frame:0" {
		t.Fatalf("first frame = %q", got)
	}
	for _, w := range []string{"frame:1", "frame:2", "frame:3"} {
		clock.tick(t)
		if got := view.next(t); got != w {
			t.Fatalf("got %q, want %q", got, w)
		}
	}
}

type failingURLs struct{ labelURLs }

func (f *failingURLs) ToURL(ctx context.Context, data []byte) (string, error) {
	if string(data) == "bad" {
		return "", errors.New("conversion failed")
	}
	return f.labelURLs.ToURL(ctx, data)
}

func TestPlayerConversionFailureStaysIdle(t *testing.T) {
	clock := &fakeClock{}
	p := NewPlayer(newFakeView(), &failingURLs{}, clock)
	if err := p.Play(context.Background(), frames("a", "bad")); err == nil {
		t.Fatal("expected conversion error")
	}
	if p.Playing() || clock.liveCount() != 0 {
		t.Error("no ticker should be armed after a failed conversion")
	}
}
