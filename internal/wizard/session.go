package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/primelife/signup/internal/models"
)

// Navigator resolves where a signed contract is handed off to.
type Navigator func(ctx context.Context, c SignedContract) (string, error)

// StaticNavigator always hands off to url.
func StaticNavigator(url string) Navigator {
	return func(context.Context, SignedContract) (string, error) {
		return url, nil
	}
}

// Result is what a dispatched event leaves behind.
type Result struct {
	State  models.State
	Errors Errors

	// RedirectURL is set once the contract was signed; the caller should
	// leave the wizard for it.
	RedirectURL string
}

// Session owns the wizard state of one user and executes the effects of
// each transition. A Session is not safe for concurrent use.
type Session struct {
	store    *Store
	state    models.State
	errs     Errors
	now      func() time.Time
	navigate Navigator
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the reference clock for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNavigator sets how the checkout URL is built.
func WithNavigator(n Navigator) Option {
	return func(s *Session) {
		if n != nil {
			s.navigate = n
		}
	}
}

// WithErrors seeds the validation errors carried over from an earlier request.
func WithErrors(errs Errors) Option {
	return func(s *Session) {
		s.errs = errs.Clone()
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the telemetry recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// DefaultCheckoutURL is used when no navigator is configured.
const DefaultCheckoutURL = "https://checkout.exemplo.com"

// NewSession restores the wizard from store.
func NewSession(ctx context.Context, store *Store, opts ...Option) *Session {
	s := &Session{
		store:    store,
		now:      time.Now,
		navigate: StaticNavigator(DefaultCheckoutURL),
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.state = store.Load(ctx)
	return s
}

// State returns a copy of the current state.
func (s *Session) State() models.State { return s.state.Clone() }

// Errors returns a copy of the current validation errors.
func (s *Session) Errors() Errors { return s.errs.Clone() }

// Review builds the contract summary for the current state.
func (s *Session) Review() (Contract, error) { return Review(s.state) }

// Dispatch applies ev and runs its effects.
//
// Rejected events leave the session untouched and return the error.
// Storage failures are logged and counted but do not fail the event.
func (s *Session) Dispatch(ctx context.Context, ev Event) (Result, error) {
	logger := s.logger.With("event", ev.Name(), "page", string(s.state.CurrentPage))

	out, err := Apply(s.state, s.errs, ev, s.now())
	if err != nil {
		s.recorder.Transition(ev.Name(), "rejected")
		logger.DebugContext(ctx, "event rejected", "error", err)
		return s.result(""), err
	}

	// Resolve the handoff before clearing anything, so a failure keeps the
	// contract page and its data.
	var redirect string
	for _, eff := range out.Effects {
		nav, ok := eff.(Navigate)
		if !ok {
			continue
		}
		redirect, err = s.navigate(ctx, nav.Contract)
		if err != nil {
			s.recorder.Transition(ev.Name(), "rejected")
			return s.result(""), fmt.Errorf("build checkout URL: %w", err)
		}
	}

	s.state, s.errs = out.State, out.Errors

	for _, eff := range out.Effects {
		switch eff := eff.(type) {
		case Persist:
			if err := s.store.Save(ctx, s.state); err != nil {
				s.recorder.SnapshotError("save")
				logger.WarnContext(ctx, "failed to save wizard snapshot", "key", s.store.Key(), "error", err)
			}
		case Clear:
			if err := s.store.Clear(ctx); err != nil {
				s.recorder.SnapshotError("clear")
				logger.WarnContext(ctx, "failed to clear wizard snapshot", "key", s.store.Key(), "error", err)
			}
		case Navigate:
			s.recorder.ContractSigned(eff.Contract.Plan.ID)
			logger.InfoContext(ctx, "contract signed",
				"plan_id", eff.Contract.Plan.ID,
				"dependents", len(eff.Contract.Dependents),
			)
		}
	}

	_, submitted := ev.(Submit)
	switch {
	case len(out.Effects) > 0:
		s.recorder.Transition(ev.Name(), "ok")
	case submitted:
		s.recorder.Transition(ev.Name(), "invalid")
		s.recorder.ValidationFailed(len(out.Errors))
		logger.DebugContext(ctx, "form has invalid fields", "count", len(out.Errors))
	default:
		s.recorder.Transition(ev.Name(), "noop")
	}

	return s.result(redirect), nil
}

// Reset discards the wizard and its snapshot, starting over from home.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.state, s.errs = models.DefaultState(), nil
	return nil
}

func (s *Session) result(redirect string) Result {
	return Result{
		State:       s.State(),
		Errors:      s.Errors(),
		RedirectURL: redirect,
	}
}

// IsUserError reports whether err is caused by the request rather than the
// system: an illegal transition, bad input or a missing signature.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrUnknownPlan) ||
		errors.Is(err, ErrDependentIndex) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrNoPlan)
}
