package studio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

type fakeTicker struct {
	clock   *fakeClock
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.clock.mu.Lock()
	t.clock.live--
	t.clock.mu.Unlock()
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	live    int
	maxLive int
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{clock: c, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	c.live++
	if c.live > c.maxLive {
		c.maxLive = c.live
	}
	return t
}

func (c *fakeClock) liveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *fakeClock) last() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

// tick fires the newest ticker and waits until the loop has received it.
func (c *fakeClock) tick(t *testing.T) {
	t.Helper()
	tk := c.last()
	if tk == nil {
		t.Fatal("no ticker armed")
	}
	select {
	case tk.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("ticker was not consumed")
	}
}

type fakeView struct {
	mu       sync.Mutex
	busy     []bool
	statuses []Status
	hidden   int
	shown    chan string
}

func newFakeView() *fakeView { return &fakeView{shown: make(chan string, 64)} }

func (v *fakeView) ShowFrame(url string) { v.shown <- url }

func (v *fakeView) SetBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, busy)
}

func (v *fakeView) SetStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *fakeView) HideOutput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

func (v *fakeView) lastStatus() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return Status{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) isBusy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.busy) > 0 && v.busy[len(v.busy)-1]
}

func (v *fakeView) next(t *testing.T) string {
	t.Helper()
	select {
	case u := <-v.shown:
		return u
	case <-time.After(time.Second):
		t.Fatal("no frame shown")
		return ""
	}
}

func (v *fakeView) drain() []string {
	var out []string
	for {
		select {
		case u := <-v.shown:
			out = append(out, u)
		default:
			return out
		}
	}
}

type call struct {
	committing bool
	text       string
	opts       qrcode.Options
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []call
	result qrcode.Result
	err    error
}

func (b *fakeBackend) record(c call) (qrcode.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, c)
	return b.result, b.err
}

func (b *fakeBackend) Commit(_ context.Context, text string, opts qrcode.Options) (qrcode.Result, error) {
	return b.record(call{committing: true, text: text, opts: opts})
}

func (b *fakeBackend) Query(_ context.Context, text string, opts qrcode.Options) (qrcode.Result, error) {
	return b.record(call{text: text, opts: opts})
}

// labelURLs maps frame bytes to readable URLs and counts releases.
type labelURLs struct {
	mu       sync.Mutex
	released []string
}

func (l *labelURLs) ToURL(_ context.Context, data []byte) (string, error) {
	return "frame:" + string(data), nil
}

func (l *labelURLs) Release(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = append(l.released, url)
}

func (l *labelURLs) releasedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.released)
}

func frames(labels ...string) [][]byte {
	out := make([][]byte, len(labels))
	for i, l := range labels {
		out[i] = []byte(l)
	}
	return out
}
