package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/primelife/signup/internal/handoff"
	"github.com/primelife/signup/internal/metrics"
	"github.com/primelife/signup/internal/middleware"
	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/storage/sqlite"
	"github.com/primelife/signup/internal/wizard"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	client  *WizardServiceClient
	svc     *WizardService
	store   storage.Store
	issuer  *handoff.Issuer
	metrics *metrics.Metrics
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	issuer := handoff.NewIssuer("test-secret", time.Hour)
	svc := NewWizardService(store,
		WithIssuer(issuer),
		WithCheckoutURL("https://checkout.exemplo.com/pay"),
		WithMetrics(m),
		WithClock(func() time.Time { return testNow }),
	)

	interceptors := connect.WithInterceptors(middleware.Session(), middleware.LoggingInterceptor(m))
	path, handler := NewWizardServiceHandler(svc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		client:  NewWizardServiceClient(server.Client(), server.URL),
		svc:     svc,
		store:   store,
		issuer:  issuer,
		metrics: m,
	}
}

// call sends msg with the session header set when session is not empty.
func call[Req, Res any](
	t *testing.T,
	session string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	msg *Req,
) (*connect.Response[Res], error) {
	t.Helper()
	req := connect.NewRequest(msg)
	if session != "" {
		req.Header().Set(middleware.SessionHeader, session)
	}
	return fn(context.Background(), req)
}

func mustCall[Req, Res any](
	t *testing.T,
	session string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	msg *Req,
) *Res {
	t.Helper()
	resp, err := call(t, session, fn, msg)
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	return resp.Msg
}

var applicant = map[string]string{
	"fullName":       "Maria Silva",
	"birthDate":      "10051985",
	"documentNumber": "11144477735",
	"postalCode":     "01310100",
	"houseNumber":    "100",
}

func fillPerson(t *testing.T, env *testEnv, session, prefix string) {
	t.Helper()
	for field, value := range applicant {
		mustCall(t, session, env.client.UpdateField, &UpdateFieldRequest{Field: prefix + "." + field, Value: value})
	}
}

func TestListPlans(t *testing.T) {
	env := setupTestServer(t)

	resp := mustCall(t, "", env.client.ListPlans, &Empty{})
	if len(resp.Plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(resp.Plans))
	}
	want := map[string]int{"basico": 0, "intermediario": 3, "premium": 4}
	for _, p := range resp.Plans {
		if quota, ok := want[p.ID]; !ok || quota != p.DependentQuota {
			t.Errorf("plan %s quota %d unexpected", p.ID, p.DependentQuota)
		}
	}
	if resp.Plans[1].MonthlyLabel != "R$ 69,90/mês" {
		t.Errorf("MonthlyLabel = %q", resp.Plans[1].MonthlyLabel)
	}
}

func TestSessionIsAssignedAndKept(t *testing.T) {
	env := setupTestServer(t)

	resp, err := call(t, "", env.client.Start, &Empty{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	session := resp.Header().Get(middleware.SessionHeader)
	if _, err := uuid.Parse(session); err != nil {
		t.Fatalf("session header %q is not a uuid", session)
	}
	if resp.Msg.State.Page != "plans" {
		t.Errorf("page = %s, want plans", resp.Msg.State.Page)
	}

	state := mustCall(t, session, env.client.GetState, &Empty{})
	if state.State.Page != "plans" {
		t.Errorf("page after reload = %s, want plans", state.State.Page)
	}

	other := mustCall(t, uuid.NewString(), env.client.GetState, &Empty{})
	if other.State.Page != "home" {
		t.Errorf("other session page = %s, want home", other.State.Page)
	}
}

func TestFullSignup(t *testing.T) {
	env := setupTestServer(t)
	session := uuid.NewString()

	mustCall(t, session, env.client.Start, &Empty{})
	state := mustCall(t, session, env.client.SelectPlan, &SelectPlanRequest{PlanID: "intermediario"})
	if state.State.Plan == nil || state.State.Plan.ID != "intermediario" {
		t.Fatalf("plan = %+v", state.State.Plan)
	}
	if !state.State.CanAddDependent || state.State.DependentQuota != 3 {
		t.Errorf("quota view = %v/%d", state.State.CanAddDependent, state.State.DependentQuota)
	}

	fillPerson(t, env, session, "applicant")
	mustCall(t, session, env.client.AddDependent, &Empty{})

	// Dependent 0 is empty, so submit reports its fields.
	state = mustCall(t, session, env.client.Submit, &Empty{})
	if state.State.Page != "form" {
		t.Errorf("page = %s, want form", state.State.Page)
	}
	if state.State.Errors["dependent[0].fullName"] != wizard.MsgNameRequired {
		t.Errorf("errors = %v", state.State.Errors)
	}
	if len(state.State.Errors) != 5 {
		t.Errorf("errors = %d, want 5", len(state.State.Errors))
	}

	// Errors are kept between calls and dropped with the dependent.
	state = mustCall(t, session, env.client.GetState, &Empty{})
	if len(state.State.Errors) != 5 {
		t.Errorf("errors after reload = %d, want 5", len(state.State.Errors))
	}
	state = mustCall(t, session, env.client.RemoveDependent, &RemoveDependentRequest{Index: 0})
	if len(state.State.Errors) != 0 {
		t.Errorf("errors after removal = %v", state.State.Errors)
	}

	mustCall(t, session, env.client.AddDependent, &Empty{})
	fillPerson(t, env, session, "dependent[0]")
	mustCall(t, session, env.client.UpdateField, &UpdateFieldRequest{Field: "dependent[0].documentNumber", Value: "52998224725"})

	state = mustCall(t, session, env.client.Submit, &Empty{})
	if state.State.Page != "contract" {
		t.Fatalf("page = %s, errors = %v", state.State.Page, state.State.Errors)
	}
	if got := state.State.Applicant.DocumentNumber; got != "111.444.777-35" {
		t.Errorf("document = %q, want masked", got)
	}

	review := mustCall(t, session, env.client.Review, &Empty{})
	if review.Contract.Plan.Name != "Intermediário" || len(review.Contract.Clauses) != 6 {
		t.Errorf("contract = %+v", review.Contract)
	}
	if len(review.Contract.Dependents) != 1 || review.Contract.Dependents[0].DocumentNumber != "529.982.247-25" {
		t.Errorf("contract dependents = %+v", review.Contract.Dependents)
	}

	_, err := call(t, session, env.client.Sign, &SignRequest{Signature: "  "})
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("Sign without signature: code = %v, want FailedPrecondition", connect.CodeOf(err))
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) || connectErr.Message() != wizard.SignaturePrompt {
		t.Errorf("message = %v, want %q", err, wizard.SignaturePrompt)
	}

	signed := mustCall(t, session, env.client.Sign, &SignRequest{Signature: "data:image/png;base64,AAAA"})
	if signed.State.Page != "home" {
		t.Errorf("page after sign = %s, want home", signed.State.Page)
	}
	u, err := url.Parse(signed.RedirectURL)
	if err != nil || u.Host != "checkout.exemplo.com" || u.Path != "/pay" {
		t.Fatalf("RedirectURL = %q", signed.RedirectURL)
	}
	claims, err := env.issuer.Validate(u.Query().Get("token"))
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.SessionID != session || claims.PlanID != "intermediario" || claims.Dependents != 1 {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := env.store.Get(context.Background(), wizard.SessionKey(session)); err != storage.ErrNotFound {
		t.Errorf("snapshot after sign: err = %v, want ErrNotFound", err)
	}
	if got := testutil.ToFloat64(env.metrics.ContractsSigned.WithLabelValues("intermediario")); got != 1 {
		t.Errorf("contracts signed = %v, want 1", got)
	}
}

func TestErrorCodes(t *testing.T) {
	env := setupTestServer(t)
	session := uuid.NewString()

	_, err := call(t, session, env.client.Submit, &Empty{})
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("Submit on home: code = %v, want FailedPrecondition", connect.CodeOf(err))
	}

	_, err = call(t, session, env.client.Review, &Empty{})
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("Review without plan: code = %v, want FailedPrecondition", connect.CodeOf(err))
	}

	mustCall(t, session, env.client.Start, &Empty{})
	_, err = call(t, session, env.client.SelectPlan, &SelectPlanRequest{PlanID: "ouro"})
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("unknown plan: code = %v, want InvalidArgument", connect.CodeOf(err))
	}

	mustCall(t, session, env.client.SelectPlan, &SelectPlanRequest{PlanID: "basico"})
	for _, field := range []string{"applicant.email", "dependent[0].fullName", "nome"} {
		_, err = call(t, session, env.client.UpdateField, &UpdateFieldRequest{Field: field, Value: "x"})
		if connect.CodeOf(err) != connect.CodeInvalidArgument {
			t.Errorf("UpdateField(%q): code = %v, want InvalidArgument", field, connect.CodeOf(err))
		}
	}

	// Quota reached: a no-op, not an error.
	state := mustCall(t, session, env.client.AddDependent, &Empty{})
	if len(state.State.Dependents) != 0 || state.State.CanAddDependent {
		t.Errorf("basico dependents = %d", len(state.State.Dependents))
	}
}

func TestConcurrentCallsOnOneSession(t *testing.T) {
	env := setupTestServer(t)
	session := uuid.NewString()
	mustCall(t, session, env.client.Start, &Empty{})
	mustCall(t, session, env.client.SelectPlan, &SelectPlanRequest{PlanID: "premium"})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := call(t, session, env.client.AddDependent, &Empty{}); err != nil {
				t.Errorf("AddDependent failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state := mustCall(t, session, env.client.GetState, &Empty{})
	if len(state.State.Dependents) != 4 {
		t.Errorf("dependents = %d, want the premium quota of 4", len(state.State.Dependents))
	}
}

func TestPruneIdle(t *testing.T) {
	env := setupTestServer(t)
	mustCall(t, uuid.NewString(), env.client.GetState, &Empty{})
	mustCall(t, uuid.NewString(), env.client.GetState, &Empty{})

	if n := env.svc.PruneIdle(testNow); n != 0 {
		t.Errorf("pruned %d sessions seen at cutoff, want 0", n)
	}
	if n := env.svc.PruneIdle(testNow.Add(time.Second)); n != 2 {
		t.Errorf("pruned %d sessions, want 2", n)
	}
}

func TestPruneIdleKeepsEntriesInUse(t *testing.T) {
	svc := NewWizardService(nil, WithClock(func() time.Time { return testNow }))

	held := svc.acquire("held")
	held.lastSeen = testNow.Add(-time.Hour)
	idle := svc.acquire("idle")
	idle.lastSeen = testNow.Add(-time.Hour)
	svc.release(idle)

	if n := svc.PruneIdle(testNow); n != 1 {
		t.Fatalf("pruned %d sessions, want 1", n)
	}
	if again := svc.acquire("held"); again != held {
		t.Error("entry in use was replaced; calls of one session would no longer be serialized")
	}
	svc.release(held)
	svc.release(held)

	if n := svc.PruneIdle(testNow); n != 1 {
		t.Errorf("pruned %d sessions after release, want 1", n)
	}
}

func TestSignKeepsSessionEntry(t *testing.T) {
	env := setupTestServer(t)
	session := uuid.NewString()

	mustCall(t, session, env.client.Start, &Empty{})
	mustCall(t, session, env.client.SelectPlan, &SelectPlanRequest{PlanID: "basico"})
	resp := mustCall(t, session, env.client.Submit, &Empty{})
	if len(resp.State.Errors) == 0 {
		t.Fatal("expected validation errors for an empty form")
	}
	entry := env.svc.acquire(session)
	env.svc.release(entry)

	fillPerson(t, env, session, "applicant")
	mustCall(t, session, env.client.Submit, &Empty{})
	mustCall(t, session, env.client.Sign, &SignRequest{Signature: "Maria Silva"})

	after := env.svc.acquire(session)
	defer env.svc.release(after)
	if after != entry {
		t.Error("sign replaced the session entry")
	}
	if len(after.errs) != 0 {
		t.Errorf("errors after sign = %v, want none", after.errs)
	}
}

func TestWithoutSessionInterceptor(t *testing.T) {
	svc := NewWizardService(nil)
	_, err := svc.GetState(context.Background(), connect.NewRequest(&Empty{}))
	if connect.CodeOf(err) != connect.CodeInternal {
		t.Errorf("code = %v, want Internal", connect.CodeOf(err))
	}
}
