package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/primelife/signup/internal/handoff"
	"github.com/primelife/signup/internal/metrics"
	"github.com/primelife/signup/internal/middleware"
	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/wizard"
)

var errNoSession = errors.New("no wizard session in request context")

// WizardService implements the Connect WizardService. Each session id owns
// one snapshot in the shared store; calls for the same session are serialized.
type WizardService struct {
	store       storage.Store
	issuer      *handoff.Issuer
	checkoutURL string
	metrics     *metrics.Metrics
	now         func() time.Time
	tracer      trace.Tracer

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry serializes calls of one session and keeps its validation
// errors between calls. Errors are never persisted.
//
// refs counts the calls holding or waiting for mu and is guarded by
// WizardService.mu; an entry is only dropped while refs is zero.
type sessionEntry struct {
	mu       sync.Mutex
	errs     wizard.Errors
	lastSeen time.Time
	refs     int
}

// Option configures a WizardService.
type Option func(*WizardService)

// WithIssuer signs checkout handoffs with issuer.
func WithIssuer(issuer *handoff.Issuer) Option {
	return func(s *WizardService) { s.issuer = issuer }
}

// WithCheckoutURL sets the external checkout URL.
func WithCheckoutURL(url string) Option {
	return func(s *WizardService) {
		if url != "" {
			s.checkoutURL = url
		}
	}
}

// WithMetrics records wizard metrics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *WizardService) { s.metrics = m }
}

// WithClock sets the clock used for date validation.
func WithClock(now func() time.Time) Option {
	return func(s *WizardService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewWizardService creates a new WizardService with the given storage backend.
func NewWizardService(store storage.Store, opts ...Option) *WizardService {
	s := &WizardService{
		store:       store,
		checkoutURL: wizard.DefaultCheckoutURL,
		now:         time.Now,
		tracer:      otel.Tracer("github.com/primelife/signup/internal/service"),
		sessions:    make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListPlans returns the plan catalog.
func (s *WizardService) ListPlans(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ListPlansResponse], error) {
	plans := models.Plans()
	resp := &ListPlansResponse{Plans: make([]PlanView, 0, len(plans))}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, planView(p))
	}
	return connect.NewResponse(resp), nil
}

// GetState returns the session's current state, restoring it from storage.
func (s *WizardService) GetState(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StateResponse], error) {
	var view StateView
	err := s.withSession(ctx, "GetState", func(ctx context.Context, sess *wizard.Session, _ *sessionEntry) error {
		view = stateView(sess.State(), sess.Errors())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&StateResponse{State: view}), nil
}

// Start leaves the home page.
func (s *WizardService) Start(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "Start", wizard.Start{})
}

// SelectPlan chooses a plan and opens the form.
func (s *WizardService) SelectPlan(ctx context.Context, req *connect.Request[SelectPlanRequest]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "SelectPlan", wizard.SelectPlan{PlanID: req.Msg.PlanID})
}

// UpdateField sets one form field.
func (s *WizardService) UpdateField(ctx context.Context, req *connect.Request[UpdateFieldRequest]) (*connect.Response[StateResponse], error) {
	ref, err := wizard.ParseFieldRef(req.Msg.Field)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return s.dispatch(ctx, "UpdateField", wizard.UpdateField{FieldRef: ref, Value: req.Msg.Value})
}

// AddDependent appends an empty dependent, within the plan quota.
func (s *WizardService) AddDependent(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "AddDependent", wizard.AddDependent{})
}

// RemoveDependent removes one dependent.
func (s *WizardService) RemoveDependent(ctx context.Context, req *connect.Request[RemoveDependentRequest]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "RemoveDependent", wizard.RemoveDependent{Index: req.Msg.Index})
}

// Back returns to the previous page.
func (s *WizardService) Back(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "Back", wizard.Back{})
}

// Submit validates the form. Invalid fields are reported in the state's
// errors, not as an RPC error.
func (s *WizardService) Submit(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return s.dispatch(ctx, "Submit", wizard.Submit{})
}

// Review returns the contract summary.
func (s *WizardService) Review(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ReviewResponse], error) {
	var c wizard.Contract
	err := s.withSession(ctx, "Review", func(ctx context.Context, sess *wizard.Session, _ *sessionEntry) error {
		var err error
		c, err = sess.Review()
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ReviewResponse{Contract: contractView(c)}), nil
}

// Sign signs the contract and returns the checkout URL. The session's
// snapshot is deleted.
func (s *WizardService) Sign(
	ctx context.Context,
	req *connect.Request[SignRequest],
) (*connect.Response[SignResponse], error) {
	var resp SignResponse
	err := s.withSession(ctx, "Sign", func(ctx context.Context, sess *wizard.Session, entry *sessionEntry) error {
		res, err := sess.Dispatch(ctx, wizard.Sign{Signature: req.Msg.Signature})
		if err != nil {
			return err
		}
		entry.errs = nil
		resp = SignResponse{RedirectURL: res.RedirectURL, State: stateView(res.State, res.Errors)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&resp), nil
}

// PruneIdle forgets the in-memory errors of sessions not seen since cutoff
// and returns how many were dropped.
func (s *WizardService) PruneIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.sessions {
		if e.refs == 0 && e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *WizardService) dispatch(ctx context.Context, op string, ev wizard.Event) (*connect.Response[StateResponse], error) {
	var view StateView
	err := s.withSession(ctx, op, func(ctx context.Context, sess *wizard.Session, entry *sessionEntry) error {
		res, err := sess.Dispatch(ctx, ev)
		if err != nil {
			return err
		}
		entry.errs = res.Errors
		view = stateView(res.State, res.Errors)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&StateResponse{State: view}), nil
}

// withSession restores the caller's session and runs fn while holding the
// session lock. Errors returned by fn are mapped to Connect codes.
func (s *WizardService) withSession(
	ctx context.Context,
	op string,
	fn func(context.Context, *wizard.Session, *sessionEntry) error,
) error {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return connect.NewError(connect.CodeInternal, errNoSession)
	}

	ctx, span := s.tracer.Start(ctx, "WizardService."+op, trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("signup.event", op),
	))
	defer span.End()

	entry := s.acquire(id)
	defer s.release(entry)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastSeen = s.now()

	logger := slog.Default().With("session_id", id)
	store := wizard.NewStore(s.store, wizard.SessionKey(id),
		wizard.WithStoreLogger(logger),
		wizard.WithStoreRecorder(s.metrics),
	)
	sess := wizard.NewSession(ctx, store,
		wizard.WithClock(s.now),
		wizard.WithNavigator(s.navigator(id)),
		wizard.WithErrors(entry.errs),
		wizard.WithLogger(logger),
		wizard.WithRecorder(s.metrics),
	)

	if err := fn(ctx, sess, entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return toConnectError(err)
	}
	return nil
}

func (s *WizardService) navigator(sessionID string) wizard.Navigator {
	if s.issuer == nil {
		return wizard.StaticNavigator(s.checkoutURL)
	}
	return s.issuer.Navigator(s.checkoutURL, sessionID)
}

// acquire returns the entry of session id, creating it if needed, and pins
// it against PruneIdle until release.
func (s *WizardService) acquire(id string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		e = &sessionEntry{}
		s.sessions[id] = e
	}
	e.refs++
	return e
}

func (s *WizardService) release(e *sessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.refs--
}

// toConnectError maps wizard errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, wizard.ErrMissingSignature):
		return connect.NewError(connect.CodeFailedPrecondition, errors.New(wizard.SignaturePrompt))
	case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrNoPlan):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, wizard.ErrUnknownPlan),
		errors.Is(err, wizard.ErrDependentIndex),
		errors.Is(err, wizard.ErrUnknownField):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
