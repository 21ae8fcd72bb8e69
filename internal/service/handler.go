package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// WizardServiceName is the fully-qualified name of the wizard service.
const WizardServiceName = "primelife.signup.v1.WizardService"

// Procedure paths of the wizard service.
const (
	ListPlansProcedure       = "/" + WizardServiceName + "/ListPlans"
	GetStateProcedure        = "/" + WizardServiceName + "/GetState"
	StartProcedure           = "/" + WizardServiceName + "/Start"
	SelectPlanProcedure      = "/" + WizardServiceName + "/SelectPlan"
	UpdateFieldProcedure     = "/" + WizardServiceName + "/UpdateField"
	AddDependentProcedure    = "/" + WizardServiceName + "/AddDependent"
	RemoveDependentProcedure = "/" + WizardServiceName + "/RemoveDependent"
	BackProcedure            = "/" + WizardServiceName + "/Back"
	SubmitProcedure          = "/" + WizardServiceName + "/Submit"
	ReviewProcedure          = "/" + WizardServiceName + "/Review"
	SignProcedure            = "/" + WizardServiceName + "/Sign"
)

// NewWizardServiceHandler builds an HTTP handler for svc. It returns the
// path to mount the handler on.
func NewWizardServiceHandler(svc *WizardService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	routes := map[string]http.Handler{
		ListPlansProcedure:       connect.NewUnaryHandler(ListPlansProcedure, svc.ListPlans, opts...),
		GetStateProcedure:        connect.NewUnaryHandler(GetStateProcedure, svc.GetState, opts...),
		StartProcedure:           connect.NewUnaryHandler(StartProcedure, svc.Start, opts...),
		SelectPlanProcedure:      connect.NewUnaryHandler(SelectPlanProcedure, svc.SelectPlan, opts...),
		UpdateFieldProcedure:     connect.NewUnaryHandler(UpdateFieldProcedure, svc.UpdateField, opts...),
		AddDependentProcedure:    connect.NewUnaryHandler(AddDependentProcedure, svc.AddDependent, opts...),
		RemoveDependentProcedure: connect.NewUnaryHandler(RemoveDependentProcedure, svc.RemoveDependent, opts...),
		BackProcedure:            connect.NewUnaryHandler(BackProcedure, svc.Back, opts...),
		SubmitProcedure:          connect.NewUnaryHandler(SubmitProcedure, svc.Submit, opts...),
		ReviewProcedure:          connect.NewUnaryHandler(ReviewProcedure, svc.Review, opts...),
		SignProcedure:            connect.NewUnaryHandler(SignProcedure, svc.Sign, opts...),
	}

	prefix := "/" + WizardServiceName + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// WizardServiceClient calls the wizard service over HTTP.
type WizardServiceClient struct {
	listPlans       *connect.Client[Empty, ListPlansResponse]
	getState        *connect.Client[Empty, StateResponse]
	start           *connect.Client[Empty, StateResponse]
	selectPlan      *connect.Client[SelectPlanRequest, StateResponse]
	updateField     *connect.Client[UpdateFieldRequest, StateResponse]
	addDependent    *connect.Client[Empty, StateResponse]
	removeDependent *connect.Client[RemoveDependentRequest, StateResponse]
	back            *connect.Client[Empty, StateResponse]
	submit          *connect.Client[Empty, StateResponse]
	review          *connect.Client[Empty, ReviewResponse]
	sign            *connect.Client[SignRequest, SignResponse]
}

// NewWizardServiceClient creates a client for the service at baseURL.
func NewWizardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WizardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &WizardServiceClient{
		listPlans:       connect.NewClient[Empty, ListPlansResponse](httpClient, baseURL+ListPlansProcedure, opts...),
		getState:        connect.NewClient[Empty, StateResponse](httpClient, baseURL+GetStateProcedure, opts...),
		start:           connect.NewClient[Empty, StateResponse](httpClient, baseURL+StartProcedure, opts...),
		selectPlan:      connect.NewClient[SelectPlanRequest, StateResponse](httpClient, baseURL+SelectPlanProcedure, opts...),
		updateField:     connect.NewClient[UpdateFieldRequest, StateResponse](httpClient, baseURL+UpdateFieldProcedure, opts...),
		addDependent:    connect.NewClient[Empty, StateResponse](httpClient, baseURL+AddDependentProcedure, opts...),
		removeDependent: connect.NewClient[RemoveDependentRequest, StateResponse](httpClient, baseURL+RemoveDependentProcedure, opts...),
		back:            connect.NewClient[Empty, StateResponse](httpClient, baseURL+BackProcedure, opts...),
		submit:          connect.NewClient[Empty, StateResponse](httpClient, baseURL+SubmitProcedure, opts...),
		review:          connect.NewClient[Empty, ReviewResponse](httpClient, baseURL+ReviewProcedure, opts...),
		sign:            connect.NewClient[SignRequest, SignResponse](httpClient, baseURL+SignProcedure, opts...),
	}
}

func (c *WizardServiceClient) ListPlans(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListPlansResponse], error) {
	return c.listPlans.CallUnary(ctx, req)
}

func (c *WizardServiceClient) GetState(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Start(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return c.start.CallUnary(ctx, req)
}

func (c *WizardServiceClient) SelectPlan(ctx context.Context, req *connect.Request[SelectPlanRequest]) (*connect.Response[StateResponse], error) {
	return c.selectPlan.CallUnary(ctx, req)
}

func (c *WizardServiceClient) UpdateField(ctx context.Context, req *connect.Request[UpdateFieldRequest]) (*connect.Response[StateResponse], error) {
	return c.updateField.CallUnary(ctx, req)
}

func (c *WizardServiceClient) AddDependent(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return c.addDependent.CallUnary(ctx, req)
}

func (c *WizardServiceClient) RemoveDependent(ctx context.Context, req *connect.Request[RemoveDependentRequest]) (*connect.Response[StateResponse], error) {
	return c.removeDependent.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Back(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return c.back.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Submit(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StateResponse], error) {
	return c.submit.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Review(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ReviewResponse], error) {
	return c.review.CallUnary(ctx, req)
}

func (c *WizardServiceClient) Sign(ctx context.Context, req *connect.Request[SignRequest]) (*connect.Response[SignResponse], error) {
	return c.sign.CallUnary(ctx, req)
}
