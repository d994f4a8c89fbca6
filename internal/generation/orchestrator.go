// Package generation drives website generation and regeneration for
// projects.
//
// At most one generation request is in flight per project. A second
// attempt is rejected before it reaches the network, and the project is
// only updated after a successful, validated response.
package generation

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/internal/project"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

const inProgress = "operation already in progress"

// IsInProgress reports whether err rejected a request because another one
// was already running for the same project.
func IsInProgress(err error) bool {
	apiErr, ok := types.AsAPIError(err)
	return ok && apiErr.Kind == types.KindGeneration && apiErr.Message == inProgress
}

// Result is a successful generation.
type Result struct {
	Project *types.Project
	Request types.GenerationRequest
	// GenerationTime is the server-reported model time.
	GenerationTime time.Duration
}

// Orchestrator runs generate and regenerate requests.
type Orchestrator struct {
	client  *transport.Client
	repo    *project.Repository
	bus     *event.Bus
	metrics *Metrics

	mu       sync.Mutex
	inflight map[int64]*pending

	unsubscribe func()
	log         zerolog.Logger
}

// pending tracks one in-flight request.
type pending struct {
	req    types.GenerationRequest
	cancel context.CancelFunc
}

// New creates an orchestrator. A nil bus uses the global bus; nil metrics
// are registered on a private registry. In-flight requests are aborted when
// the session is cleared.
func New(client *transport.Client, repo *project.Repository, bus *event.Bus, metrics *Metrics) *Orchestrator {
	if bus == nil {
		bus = event.Global()
	}
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	o := &Orchestrator{
		client:   client,
		repo:     repo,
		bus:      bus,
		metrics:  metrics,
		inflight: make(map[int64]*pending),
		log:      logging.Component("generation"),
	}
	o.unsubscribe = bus.Subscribe(event.SessionCleared, func(event.Event) {
		o.AbortAll()
	})
	return o
}

// Close detaches the orchestrator from the event bus and aborts anything
// still running.
func (o *Orchestrator) Close() {
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
	o.AbortAll()
}

// Generate produces a website for a saved project from prompt. It is
// accepted in any status; existing code is replaced.
func (o *Orchestrator) Generate(ctx context.Context, projectID int64, prompt string) (*Result, error) {
	op, err := o.start(ctx, types.GenerationGenerate, projectID, prompt)
	if err != nil {
		return nil, err
	}
	op.run()
	return op.result, op.err
}

// Regenerate applies modifications to a project's existing code.
func (o *Orchestrator) Regenerate(ctx context.Context, projectID int64, modifications string) (*Result, error) {
	op, err := o.start(ctx, types.GenerationRegenerate, projectID, modifications)
	if err != nil {
		return nil, err
	}
	op.run()
	return op.result, op.err
}

// GenerateAsync is Generate with a cancellation handle. Validation and the
// in-flight check happen before it returns.
func (o *Orchestrator) GenerateAsync(ctx context.Context, projectID int64, prompt string) (*Operation, error) {
	op, err := o.start(ctx, types.GenerationGenerate, projectID, prompt)
	if err != nil {
		return nil, err
	}
	go op.run()
	return op, nil
}

// RegenerateAsync is Regenerate with a cancellation handle.
func (o *Orchestrator) RegenerateAsync(ctx context.Context, projectID int64, modifications string) (*Operation, error) {
	op, err := o.start(ctx, types.GenerationRegenerate, projectID, modifications)
	if err != nil {
		return nil, err
	}
	go op.run()
	return op, nil
}

// InFlight returns the pending request for a project, if any.
func (o *Orchestrator) InFlight(projectID int64) (types.GenerationRequest, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.inflight[projectID]
	if !ok {
		return types.GenerationRequest{}, false
	}
	return p.req, true
}

// Abort cancels the in-flight request for a project.
func (o *Orchestrator) Abort(projectID int64) bool {
	o.mu.Lock()
	p, ok := o.inflight[projectID]
	o.mu.Unlock()
	if !ok {
		return false
	}
	p.cancel()
	return true
}

// AbortAll cancels every in-flight request.
func (o *Orchestrator) AbortAll() {
	o.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.inflight))
	for _, p := range o.inflight {
		cancels = append(cancels, p.cancel)
	}
	o.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// start validates a request and claims the project's slot.
func (o *Orchestrator) start(ctx context.Context, kind types.GenerationKind, projectID int64, payload string) (*Operation, error) {
	payload = strings.TrimSpace(payload)
	if err := validate(kind, projectID, payload); err != nil {
		o.metrics.reject(string(kind), reasonInvalid)
		return nil, err
	}

	req := types.GenerationRequest{
		ID:        ulid.Make().String(),
		ProjectID: projectID,
		Kind:      kind,
		Payload:   payload,
		IssuedAt:  time.Now(),
		Outcome:   types.OutcomePending,
	}

	o.mu.Lock()
	if _, busy := o.inflight[projectID]; busy {
		o.mu.Unlock()
		o.metrics.reject(string(kind), reasonInFlight)
		o.log.Debug().Int64("project_id", projectID).Str("kind", string(kind)).Msg("generation already in flight")
		return nil, types.GenerationError(inProgress)
	}
	runCtx, cancel := context.WithCancel(ctx)
	slot := &pending{req: req, cancel: cancel}
	o.inflight[projectID] = slot
	o.mu.Unlock()

	op := &Operation{
		o:      o,
		ctx:    runCtx,
		cancel: cancel,
		req:    req,
		done:   make(chan struct{}),
	}
	op.release = func() {
		cancel()
		o.mu.Lock()
		if o.inflight[projectID] == slot {
			delete(o.inflight, projectID)
		}
		o.mu.Unlock()
	}
	return op, nil
}

func validate(kind types.GenerationKind, projectID int64, payload string) error {
	if projectID <= 0 {
		return types.GenerationError("Please save the project first")
	}
	switch kind {
	case types.GenerationGenerate:
		if payload == "" {
			return types.GenerationError("Please describe what kind of website you want")
		}
	case types.GenerationRegenerate:
		if payload == "" {
			return types.GenerationError("Please describe what changes you want to make")
		}
	default:
		return types.GenerationError("unknown generation kind %q", kind)
	}
	return nil
}

type generationResponse struct {
	Message        string         `json:"message"`
	Project        *types.Project `json:"project"`
	GenerationTime float64        `json:"generation_time"`
}

// execute performs a claimed request. The caller releases the slot.
func (o *Orchestrator) execute(ctx context.Context, req *types.GenerationRequest) (*Result, error) {
	log := o.log.With().
		Str("request_id", req.ID).
		Int64("project_id", req.ProjectID).
		Str("kind", string(req.Kind)).
		Logger()

	from, err := o.precheck(ctx, req, log)
	if err != nil {
		req.Outcome = types.OutcomeFailed
		return nil, err
	}

	o.bus.Publish(event.Event{Type: event.GenerationStarted, Data: event.GenerationData{Request: *req}})
	log.Info().Msg("generation started")

	start := time.Now()
	result, err := o.call(ctx, req, from)
	req.Duration = time.Since(start)

	if err != nil {
		req.Outcome = types.OutcomeFailed
		o.metrics.observe(string(req.Kind), string(types.OutcomeFailed), req.Duration)
		log.Warn().Err(err).Dur("duration", req.Duration).Msg("generation failed")
		o.bus.Publish(event.Event{Type: event.GenerationFailed, Data: event.GenerationData{
			Request: *req,
			Error:   types.UserMessage(err),
		}})
		return nil, err
	}

	req.Outcome = types.OutcomeSuccess
	result.Request = *req
	o.metrics.observe(string(req.Kind), string(types.OutcomeSuccess), req.Duration)
	log.Info().
		Dur("duration", req.Duration).
		Float64("generation_time", result.GenerationTime.Seconds()).
		Str("status", string(result.Project.Status)).
		Msg("generation completed")
	o.bus.Publish(event.Event{Type: event.GenerationCompleted, Data: event.GenerationData{
		Request: *req,
		Project: result.Project.Clone(),
	}})
	return result, nil
}

// precheck resolves the project's current status. Regeneration needs
// existing code, read from the cached copy or fetched once.
func (o *Orchestrator) precheck(ctx context.Context, req *types.GenerationRequest, log zerolog.Logger) (types.Status, error) {
	current, cached := o.repo.Cached(req.ProjectID)

	if req.Kind == types.GenerationGenerate {
		if !cached {
			return types.StatusDraft, nil
		}
		if current.HasCode() {
			log.Warn().Str("status", string(current.Status)).Msg("replacing existing generated code")
		}
		return current.Status, nil
	}

	if !cached {
		p, err := o.repo.Get(ctx, req.ProjectID)
		if err != nil {
			return "", err
		}
		current = p
	}
	if !current.HasCode() {
		o.metrics.reject(string(req.Kind), reasonNoCode)
		return "", types.GenerationError("No existing code to modify. Generate website first.")
	}
	return current.Status, nil
}

func (o *Orchestrator) call(ctx context.Context, req *types.GenerationRequest, from types.Status) (*Result, error) {
	call := transport.Request{
		Method: http.MethodPost,
		Long:   true,
	}
	switch req.Kind {
	case types.GenerationRegenerate:
		call.Path = "/ai/regenerate-website"
		call.Body = map[string]any{"project_id": req.ProjectID, "modifications": req.Payload}
	default:
		call.Path = "/ai/generate-website"
		call.Body = map[string]any{"project_id": req.ProjectID, "prompt": req.Payload}
	}

	var resp generationResponse
	if err := o.client.Do(transport.WithRequestID(ctx, req.ID), call, &resp); err != nil {
		return nil, err
	}

	p := resp.Project
	if p == nil || p.ID != req.ProjectID {
		return nil, &types.APIError{Kind: types.KindServer, Message: "malformed response: missing project"}
	}
	want, err := Transition(from, req.Kind)
	if err != nil {
		return nil, err
	}
	if p.Status != want {
		return nil, types.GenerationError("unexpected status %q after %s", p.Status, req.Kind)
	}
	if !p.HasCode() {
		return nil, types.GenerationError("generation returned no code")
	}
	if err := o.repo.ApplyGeneration(p); err != nil {
		return nil, err
	}

	return &Result{
		Project:        p.Clone(),
		GenerationTime: time.Duration(resp.GenerationTime * float64(time.Second)),
	}, nil
}

type historyResponse struct {
	History []types.HistoryEntry `json:"history"`
}

// History returns a project's generation history, newest first.
func (o *Orchestrator) History(ctx context.Context, projectID int64) ([]types.HistoryEntry, error) {
	if projectID <= 0 {
		return nil, types.ValidationError("invalid project id %d", projectID)
	}
	var resp historyResponse
	if err := o.client.Get(ctx, transport.Path("ai", "generation-history", projectID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.History == nil {
		return []types.HistoryEntry{}, nil
	}
	return resp.History, nil
}
