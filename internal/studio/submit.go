package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

// ErrBusy is returned when a generation is already in flight.
var ErrBusy = errors.New("a generation is already in progress")

const genericFailure = "Failed to generate QR code"

// Backend is the remote generation service.
type Backend interface {
	// Commit goes through the authoritative, state-changing path.
	Commit(ctx context.Context, text string, opts qrcode.Options) (qrcode.Result, error)
	// Query is the cheaper read-only path.
	Query(ctx context.Context, text string, opts qrcode.Options) (qrcode.Result, error)
}

// StatusKind classifies a status message.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is the message shown next to the trigger.
type Status struct {
	Kind    StatusKind
	Message string
}

// View is the UI surface the submitter drives.
type View interface {
	FrameDisplay
	// SetBusy disables the trigger while true.
	SetBusy(busy bool)
	SetStatus(s Status)
	// HideOutput hides the image and the download link.
	HideOutput()
}

// Submitter runs one generation cycle at a time and owns the animation player.
type Submitter struct {
	backend Backend
	view    View
	urls    URLConverter
	player  *Player

	inflight sync.Mutex
	single   string
}

// Option configures a Submitter.
type Option func(*submitterConfig)

type submitterConfig struct {
	clock Clock
	urls  URLConverter
}

// WithClock replaces the system clock used by the animation player.
func WithClock(c Clock) Option { return func(cfg *submitterConfig) { cfg.clock = c } }

// WithURLConverter replaces the data: URL converter.
func WithURLConverter(u URLConverter) Option { return func(cfg *submitterConfig) { cfg.urls = u } }

// NewSubmitter wires a backend and a view.
func NewSubmitter(backend Backend, view View, opts ...Option) *Submitter {
	cfg := submitterConfig{urls: DataURLs{}}
	for _, o := range opts {
		o(&cfg)
	}
	return &Submitter{
		backend: backend,
		view:    view,
		urls:    cfg.urls,
		player:  NewPlayer(view, cfg.urls, cfg.clock),
	}
}

// Player exposes the animation player, mainly for inspection.
func (s *Submitter) Player() *Player { return s.player }

// SetAnimation reacts to the animation toggle. Turning it off stops playback.
func (s *Submitter) SetAnimation(enabled bool) {
	if !enabled {
		s.player.Stop()
	}
}

// Close stops playback and releases any displayed image.
func (s *Submitter) Close() {
	s.player.Stop()
	s.releaseSingle()
}

// Submit runs one generation cycle. Every failure has already been reported
// to the view when Submit returns; the error is handed back for logging.
func (s *Submitter) Submit(ctx context.Context, f Fields) error {
	if !s.inflight.TryLock() {
		return ErrBusy
	}
	defer s.inflight.Unlock()

	s.view.SetBusy(true)
	defer s.view.SetBusy(false)

	s.view.SetStatus(Status{})
	s.view.HideOutput()
	s.player.Stop()
	s.releaseSingle()

	msg, err := s.generate(ctx, f)
	if err != nil {
		s.view.HideOutput()
		s.view.SetStatus(Status{Kind: StatusError, Message: failureMessage(err)})
		return err
	}
	s.view.SetStatus(Status{Kind: StatusSuccess, Message: msg})
	return nil
}

func (s *Submitter) generate(ctx context.Context, f Fields) (string, error) {
	req, err := BuildRequest(f)
	if err != nil {
		return "", err
	}

	call := s.backend.Query
	if req.Committing(f.Consensus) {
		call = s.backend.Commit
	}
	res, err := call(ctx, req.Text, req.Options)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	out, err := Interpret(res)
	if err != nil {
		return "", err
	}

	if out.Animated() {
		if err := s.player.Play(ctx, out.Frames); err != nil {
			return "", err
		}
		return "QR code generated successfully! Animation is playing...", nil
	}

	url, err := s.urls.ToURL(ctx, out.Single)
	if err != nil {
		return "", err
	}
	s.single = url
	s.view.ShowFrame(url)
	return "QR code generated successfully!", nil
}

func (s *Submitter) releaseSingle() {
	if s.single != "" {
		s.urls.Release(s.single)
		s.single = ""
	}
}

func failureMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %s", genericFailure, verr.Reason)
	}
	var berr *BackendError
	if errors.As(err, &berr) {
		return "Error: " + orGeneric(berr.Message)
	}
	var terr *TransportError
	if errors.As(err, &terr) && terr.Err != nil {
		return "Error: " + orGeneric(terr.Err.Error())
	}
	return "Error: " + orGeneric(err.Error())
}

func orGeneric(msg string) string {
	if msg == "" {
		return genericFailure
	}
	return msg
}
