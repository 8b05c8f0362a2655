package studio

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FrameInterval is how long each animation frame stays on screen.
const FrameInterval = time.Second

// FrameDisplay shows a frame and points the download link at it.
type FrameDisplay interface {
	ShowFrame(url string)
}

// Clock arms repeating timers.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is a repeating timer that must be stopped explicitly.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker { return systemTicker{t: time.NewTicker(d)} }

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Player cycles through animation frames. It is Idle until Play succeeds and
// returns to Idle on Stop. At most one ticker is armed at any time.
type Player struct {
	display  FrameDisplay
	urls     URLConverter
	clock    Clock
	interval time.Duration

	mu      sync.Mutex
	frames  []string
	current int
	ticker  Ticker
	quit    chan struct{}
	done    chan struct{}
}

// NewPlayer returns an idle player. A nil clock uses the system clock.
func NewPlayer(display FrameDisplay, urls URLConverter, clock Clock) *Player {
	if clock == nil {
		clock = systemClock{}
	}
	if urls == nil {
		urls = DataURLs{}
	}
	return &Player{display: display, urls: urls, clock: clock, interval: FrameInterval}
}

// Play stops any running animation, converts the frames to URLs, shows the
// first one and arms the ticker.
func (p *Player) Play(ctx context.Context, frames [][]byte) error {
	p.Stop()
	if len(frames) == 0 {
		return errors.New("no frames to play")
	}

	urls, err := p.convert(ctx, frames)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	p.frames = urls
	p.current = 0
	p.display.ShowFrame(urls[0])

	p.ticker = p.clock.NewTicker(p.interval)
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(p.ticker, p.quit, p.done)
	return nil
}

// convert runs all conversions concurrently and keeps them in frame order.
func (p *Player) convert(ctx context.Context, frames [][]byte) ([]string, error) {
	urls := make([]string, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	for i, frame := range frames {
		g.Go(func() error {
			u, err := p.urls.ToURL(gctx, frame)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, u := range urls {
			if u != "" {
				p.urls.Release(u)
			}
		}
		return nil, err
	}
	return urls, nil
}

func (p *Player) loop(t Ticker, quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		case <-t.C():
			p.mu.Lock()
			select {
			case <-quit:
				// Stopped while this tick was waiting for the lock.
				p.mu.Unlock()
				return
			default:
			}
			p.current = (p.current + 1) % len(p.frames)
			p.display.ShowFrame(p.frames[p.current])
			p.mu.Unlock()
		}
	}
}

// Stop cancels the ticker, releases the frame URLs and waits for the
// playback goroutine to exit. Stopping an idle player is a no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	done := p.stopLocked()
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (p *Player) stopLocked() chan struct{} {
	if p.ticker == nil {
		return nil
	}
	p.ticker.Stop()
	close(p.quit)
	for _, u := range p.frames {
		p.urls.Release(u)
	}
	done := p.done
	p.ticker, p.quit, p.done = nil, nil, nil
	p.frames, p.current = nil, 0
	return done
}

// Playing reports whether a ticker is armed.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil
}

// Current returns the index and URL of the frame on display.
func (p *Player) Current() (int, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.frames) == 0 {
		return 0, ""
	}
	return p.current, p.frames[p.current]
}
