// Package project is the client-side repository for website projects.
//
// The Repository holds the authoritative in-memory copy of every project it
// has fetched. Status and generated code are never edited through it; they
// change only when the generation orchestrator hands over a successful
// outcome via ApplyGeneration.
package project

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// DefaultPageSize is used when List is called without a page size.
const DefaultPageSize = 10

// Repository manages projects.
type Repository struct {
	client   *transport.Client
	bus      *event.Bus
	pageSize int

	mu    sync.RWMutex
	cache map[int64]*types.Project

	unsubscribe func()
	log         zerolog.Logger
}

// NewRepository creates a repository. Cached projects are dropped whenever
// the session is cleared.
func NewRepository(client *transport.Client, bus *event.Bus, pageSize int) *Repository {
	if bus == nil {
		bus = event.Global()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	r := &Repository{
		client:   client,
		bus:      bus,
		pageSize: pageSize,
		cache:    make(map[int64]*types.Project),
		log:      logging.Component("project"),
	}
	r.unsubscribe = bus.Subscribe(event.SessionCleared, func(event.Event) {
		r.Reset()
	})
	return r
}

// Close detaches the repository from the event bus.
func (r *Repository) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

type listResponse struct {
	Projects []*types.Project `json:"projects"`
	Total    *int             `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

type projectResponse struct {
	Message string         `json:"message"`
	Project *types.Project `json:"project"`
}

// List fetches one page of projects, newest first. Pages are 1-indexed;
// non-positive arguments fall back to page 1 and the default page size.
// When the server does not report a total, it is estimated as
// (page-1)*pageSize + len(items).
func (r *Repository) List(ctx context.Context, page, pageSize int) (*types.Page[*types.Project], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = r.pageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(pageSize))

	var resp listResponse
	if err := r.client.Get(ctx, "/projects", query, &resp); err != nil {
		return nil, err
	}

	items := make([]*types.Project, 0, len(resp.Projects))
	for _, p := range resp.Projects {
		if p == nil {
			continue
		}
		r.store(p)
		items = append(items, p.Clone())
	}

	total := (page-1)*pageSize + len(items)
	if resp.Total != nil {
		total = *resp.Total
	}
	return &types.Page[*types.Project]{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}

// Get fetches a project. An unknown id is a server error with status 404;
// see types.IsNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (*types.Project, error) {
	if id <= 0 {
		return nil, types.ValidationError("invalid project id %d", id)
	}

	var resp projectResponse
	if err := r.client.Get(ctx, transport.Path("projects", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Project == nil {
		return nil, malformed("missing project")
	}
	r.store(resp.Project)
	return resp.Project.Clone(), nil
}

// Create creates a draft project. The name is required; an unrecognized
// website type is sent as "other".
func (r *Repository) Create(ctx context.Context, fields types.ProjectFields) (*types.Project, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return nil, types.ValidationError("Project name is required")
	}
	fields.Description = strings.TrimSpace(fields.Description)
	fields.Requirements = strings.TrimSpace(fields.Requirements)
	fields.WebsiteType = fields.WebsiteType.Normalize()

	var resp projectResponse
	err := r.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/projects",
		Body:   fields,
	}, &resp)
	if err != nil {
		return nil, err
	}

	p := resp.Project
	if p == nil || p.ID <= 0 {
		return nil, malformed("missing project")
	}
	if p.Status != types.StatusDraft || p.GeneratedCode != nil {
		return nil, malformed("new project is not a draft")
	}

	r.store(p)
	r.log.Info().Int64("project_id", p.ID).Str("website_type", string(p.WebsiteType)).Msg("project created")
	r.bus.Publish(event.Event{Type: event.ProjectCreated, Data: event.ProjectData{Project: p.Clone()}})
	return p.Clone(), nil
}

// Update edits descriptive fields. Status and generated code cannot be
// changed here.
func (r *Repository) Update(ctx context.Context, id int64, update types.ProjectUpdate) (*types.Project, error) {
	if id <= 0 {
		return nil, types.ValidationError("invalid project id %d", id)
	}
	if update.Empty() {
		return nil, types.ValidationError("Nothing to update")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, types.ValidationError("Project name is required")
		}
		update.Name = &name
	}
	if update.WebsiteType != nil {
		wt := update.WebsiteType.Normalize()
		update.WebsiteType = &wt
	}

	var resp projectResponse
	if err := r.client.Put(ctx, transport.Path("projects", id), update, &resp); err != nil {
		return nil, err
	}
	if resp.Project == nil {
		return nil, malformed("missing project")
	}

	r.store(resp.Project)
	r.bus.Publish(event.Event{Type: event.ProjectUpdated, Data: event.ProjectData{Project: resp.Project.Clone()}})
	return resp.Project.Clone(), nil
}

// Remove deletes a project. Remote failures, including 404, are returned
// unchanged.
func (r *Repository) Remove(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ValidationError("invalid project id %d", id)
	}
	if err := r.client.Delete(ctx, transport.Path("projects", id), nil); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.cache, id)
	r.mu.Unlock()

	r.log.Info().Int64("project_id", id).Msg("project deleted")
	r.bus.Publish(event.Event{Type: event.ProjectDeleted, Data: event.ProjectDeletedData{ProjectID: id}})
	return nil
}

// Cached returns a copy of the in-memory project, if it has been fetched.
func (r *Repository) Cached(id int64) (*types.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.cache[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// ApplyGeneration installs the result of a successful generation. Status
// and code are replaced together; a result that would break the
// status/code pairing or move the project back to draft is rejected.
func (r *Repository) ApplyGeneration(p *types.Project) error {
	if p == nil || p.ID <= 0 {
		return types.GenerationError("generation result has no project")
	}
	if !p.Consistent() || p.Status == types.StatusDraft {
		return types.GenerationError("generation result for project %d is inconsistent (status %q)", p.ID, p.Status)
	}

	r.mu.Lock()
	if cur, ok := r.cache[p.ID]; ok && cur.Status.RevertsTo(p.Status) {
		r.mu.Unlock()
		return types.GenerationError("project %d cannot return to %s", p.ID, p.Status)
	}
	r.cache[p.ID] = p.Clone()
	r.mu.Unlock()

	r.bus.Publish(event.Event{Type: event.ProjectUpdated, Data: event.ProjectData{Project: p.Clone()}})
	return nil
}

// Reset drops every cached project.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[int64]*types.Project)
}

func (r *Repository) store(p *types.Project) {
	if !p.Consistent() {
		r.log.Warn().Int64("project_id", p.ID).Str("status", string(p.Status)).Msg("project status and code disagree")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[p.ID] = p.Clone()
}

func malformed(msg string) error {
	return &types.APIError{Kind: types.KindServer, Message: "malformed response: " + msg}
}
